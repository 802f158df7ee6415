package main

import (
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/cmd/clinicctl/command"
)

func main() {
	command.Execute()
}

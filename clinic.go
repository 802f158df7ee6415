package main

import (
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/api"
)

func main() {
	api.MainLoop()
}

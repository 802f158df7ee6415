package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/clinicians"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/pointer"
)

var doctorsCmd = &cobra.Command{
	Use:   "doctors",
	Short: "Manage clinician accounts",
}

var doctorsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clinician accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(listDoctors)
	},
}

type doctorsDeps struct {
	fx.In

	Doctors clinicians.Service
}

func listDoctors(ctx context.Context, deps doctorsDeps) error {
	list, err := deps.Doctors.List(ctx)
	if err != nil {
		return err
	}

	for _, clinician := range list {
		fmt.Printf("%d %s %s %s\n", clinician.Id, clinician.Email, clinician.Role, pointer.FromAny(clinician.Name))
	}
	fmt.Printf("Found %v clinicians\n", len(list))

	return nil
}

var (
	createDoctorEmail string
	createDoctorName  string
)

var doctorsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a clinician account with the default password",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(func(ctx context.Context, deps doctorsDeps) error {
			created, err := deps.Doctors.Create(ctx, clinicians.Clinician{
				Email: createDoctorEmail,
				Name:  pointer.To(createDoctorName),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created clinician %d (%s)\n", created.Id, created.Email)
			return nil
		})
	},
}

func init() {
	doctorsCreateCmd.Flags().StringVar(&createDoctorEmail, "email", "", "Email of the new clinician")
	doctorsCreateCmd.Flags().StringVar(&createDoctorName, "name", "", "Display name of the new clinician")
	_ = doctorsCreateCmd.MarkFlagRequired("email")

	doctorsCmd.AddCommand(doctorsListCmd)
	doctorsCmd.AddCommand(doctorsCreateCmd)
	rootCmd.AddCommand(doctorsCmd)
}

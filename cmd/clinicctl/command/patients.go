package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/migration"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/patients"
)

var patientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "Manage patient records",
}

var patientsOwner string

var patientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List patient records, optionally for a single owner",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(listPatients)
	},
}

type patientsDeps struct {
	fx.In

	Patients patients.Service
}

func listPatients(ctx context.Context, deps patientsDeps) error {
	var list []*patients.Patient
	var err error
	if patientsOwner != "" {
		list, err = deps.Patients.ListByOwner(ctx, patientsOwner)
	} else {
		list, err = deps.Patients.List(ctx)
	}
	if err != nil {
		return err
	}

	for _, patient := range list {
		fmt.Printf("%d %s %s %s\n", patient.Id, patient.Owner, patient.Name, patient.HealthStatus)
	}
	fmt.Printf("Found %v patients\n", len(list))

	return nil
}

var (
	migrateFrom string
	migrateTo   string
)

var patientsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Relocate a patient partition to a new owner email",
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(func(ctx context.Context, deps migrateDeps) error {
			if err := deps.Migrator.Migrate(ctx, migrateFrom, migrateTo); err != nil {
				return err
			}

			fmt.Printf("Migrated patients of %s to %s\n", migrateFrom, migrateTo)
			return nil
		})
	},
}

type migrateDeps struct {
	fx.In

	Migrator migration.Migrator
}

func init() {
	patientsListCmd.Flags().StringVar(&patientsOwner, "owner", "", "Only list patients owned by this email")

	patientsMigrateCmd.Flags().StringVar(&migrateFrom, "from", "", "Current owner email")
	patientsMigrateCmd.Flags().StringVar(&migrateTo, "to", "", "New owner email")
	_ = patientsMigrateCmd.MarkFlagRequired("from")
	_ = patientsMigrateCmd.MarkFlagRequired("to")

	patientsCmd.AddCommand(patientsListCmd)
	patientsCmd.AddCommand(patientsMigrateCmd)
	rootCmd.AddCommand(patientsCmd)
}

package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/api"
)

var logLevel string

const runTimeout = 30 * time.Second

// Run executes f with dependencies supplied by the service DI graph. The
// dependency struct must embed fx.In. f runs once the repositories have
// loaded their snapshots.
func Run[T any](f func(context.Context, T) error, opts ...fx.Option) error {
	var runErr error
	opts = append(opts,
		api.Dependencies(),
		fx.NopLogger,
		fx.Invoke(func(deps T, lifecycle fx.Lifecycle) {
			lifecycle.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					runErr = f(ctx, deps)
					return nil
				},
			})
		}),
	)

	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), runTimeout)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), runTimeout)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		return err
	}

	return runErr
}

var rootCmd = &cobra.Command{
	Use:   "clinicctl",
	Short: "Helper tool to manage the clinician dashboard service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Overwrite zap's log level
		return os.Setenv("LOG_LEVEL", logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "error", "Log Level")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

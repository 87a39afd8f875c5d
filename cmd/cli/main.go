package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lcmartin/studioshift/cmd/cli/commands"
	"github.com/lcmartin/studioshift/internal/config"
	"github.com/lcmartin/studioshift/pkg/postgres"
	"github.com/lcmartin/studioshift/pkg/utils/logging"
)

var (
	verbose bool
	app     *commands.AppContext
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "studioshift",
		Short: "StudioShift CLI - Generate and manage studio shift schedules",
		Long:  `A CLI tool for generating monthly shift schedules, inspecting coverage and candidate audits, and editing assignments.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Name())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.Database != nil {
					app.Database.Close()
				}
				if app.Logger != nil {
					app.Logger.Sync()
				}
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output on the console")

	rootCmd.AddCommand(commands.GenerateScheduleCmd(appRef()))
	rootCmd.AddCommand(commands.ViewCoverageCmd(appRef()))
	rootCmd.AddCommand(commands.ViewShiftAuditCmd(appRef()))
	rootCmd.AddCommand(commands.AddShiftCmd(appRef()))
	rootCmd.AddCommand(commands.ReassignShiftCmd(appRef()))
	rootCmd.AddCommand(commands.RemoveShiftCmd(appRef()))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// appRef returns the shared AppContext, creating the empty shell commands
// capture before initApp fills it in.
func appRef() *commands.AppContext {
	if app == nil {
		app = &commands.AppContext{}
	}
	return app
}

// initApp sets up logger, config, and database
func initApp(commandName string) error {
	var err error
	appRef()
	app.Ctx = context.Background()

	app.Logger, err = logging.Init(commandName, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("command", commandName))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully")

	app.Logger.Info("Connecting to database")
	app.Database, err = postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.Logger.Debug("Database connection established")

	app.Logger.Info("Running migrations")
	if err := app.Database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Debug("Migrations complete")

	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sguter90/microclimate/pkg/config"
	"github.com/sguter90/microclimate/pkg/database"
	"github.com/spf13/cobra"
)

type contextKey string

const dbManagerContextKey contextKey = "dbManager"

var rootCmd = &cobra.Command{
	Use:   "microclimate",
	Short: "Microclimate - Sensor Fleet Record Keeper",
	Long: `Microclimate keeps the records of a microclimate sensor grid: sensor types,
locations, sensors, readings, technicians and maintenance events.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		config.SetupLogging()
		return nil
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withDatabase opens the database for the duration of a command and makes the
// manager available through the command context
func withDatabase(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		dbManager, err := database.NewDatabaseManager(config.Database())
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer dbManager.Close()

		cmd.SetContext(context.WithValue(cmd.Context(), dbManagerContextKey, dbManager))
		return run(cmd, args)
	}
}

func dbManagerFrom(cmd *cobra.Command) *database.DatabaseManager {
	return cmd.Context().Value(dbManagerContextKey).(*database.DatabaseManager)
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sguter90/microclimate/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  withDatabase(runMigrate),
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which migrations have been applied",
	RunE:  withDatabase(runMigrateStatus),
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	return dbManagerFrom(cmd).Init(cmd.Context())
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	runner, err := database.NewMigrationsRunner(dbManagerFrom(cmd).GetDB())
	if err != nil {
		return err
	}

	statuses, err := runner.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tAPPLIED")
	for _, s := range statuses {
		fmt.Fprintf(w, "%06d\t%s\t%t\n", s.Version, s.Name, s.Applied)
	}
	return w.Flush()
}

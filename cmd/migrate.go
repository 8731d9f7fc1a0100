package cmd

import (
	"fmt"

	"openkeep/config"
	"openkeep/database"
	"openkeep/logger"

	"github.com/spf13/cobra"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Executing 'migrate up' on %s", config.AppConfig.Database.Path)
		if err := database.MigrateUp(config.AppConfig.Database.Path); err != nil {
			return err
		}
		return printSchemaVersion(cmd)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations (all of them unless --steps is given)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Executing 'migrate down' on %s (steps=%d)", config.AppConfig.Database.Path, migrateSteps)
		if err := database.MigrateDown(config.AppConfig.Database.Path, migrateSteps); err != nil {
			return err
		}
		return printSchemaVersion(cmd)
	},
}

func printSchemaVersion(cmd *cobra.Command) error {
	version, dirty, err := database.SchemaVersion(config.AppConfig.Database.Path)
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d\n", version)
	return nil
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 0, "number of migrations to roll back (0 = all)")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)
}

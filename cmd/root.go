package cmd

import (
	"context"
	"fmt"
	"os"

	"openkeep/client"
	"openkeep/config"
	"openkeep/logger"
	"openkeep/version"

	"github.com/spf13/cobra"
)

var (
	cfgFile        string
	dbPath         string // Bound to --dbpath flag
	appLogPathFlag string
	logLevelFlag   string
	apiURLFlag     string
)

var rootCmd = &cobra.Command{
	Use:   "openkeep",
	Short: "Notes, checklists and labels with a REST API",
	Long: `openkeep keeps notes and checklists, organised with labels, pinning,
archive and trash, in a local SQLite database.

Run 'openkeep server' to serve the REST API. The notes and labels commands
talk to a running server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(cfgFile, appLogPathFlag, logLevelFlag); err != nil {
			return fmt.Errorf("failed to initialize config in PersistentPreRunE: %w", err)
		}

		if dbPath != "" {
			config.AppConfig.Database.Path = config.ExpandTilde(dbPath)
			logger.Info("PersistentPreRunE: Using database path from --dbpath flag: '%s'", config.AppConfig.Database.Path)
		}
		if config.AppConfig.Database.Path == "" {
			logger.Error("PersistentPreRunE: Database path is empty after checking flag and config! Falling back to 'openkeep.db' in CWD.")
			config.AppConfig.Database.Path = "openkeep.db"
		}
		if apiURLFlag != "" {
			config.AppConfig.Client.BaseURL = apiURLFlag
		}

		// Client commands share one API client and a fresh pair of stores.
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		api := client.New(config.AppConfig.Client.BaseURL, config.AppConfig.Client.Timeout)
		ctx = client.WithNoteStore(ctx, client.NewNoteStore(api))
		ctx = client.WithLabelStore(ctx, client.NewLabelStore(api))
		cmd.SetContext(ctx)
		return nil
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version.AppVersion
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/openkeep/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "dbpath", "", "path to SQLite database file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&appLogPathFlag, "app-log", "", "path for the application log file (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "base URL of the API for notes/labels commands (overrides config/default)")
}

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"openkeep/api"
	"openkeep/config"
	"openkeep/core"
	"openkeep/database"
	"openkeep/logger"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serverPort string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Applies migrations and serves the REST API",
	Long: `Opens the database, applies pending migrations and serves the API under /api.
Press Ctrl+C to shut down gracefully.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := serverPort
		if !cmd.Flags().Changed("port") {
			port = config.AppConfig.Server.Port
			logger.Info("Server Command: Port flag not set, using config value: %s", port)
		}
		if port == "" {
			logger.Error("Server Command: Server port is empty after checking flag and config, defaulting to 8778")
			port = "8778"
		}

		if err := database.InitDB(config.AppConfig.Database.Path); err != nil {
			return err
		}
		defer database.CloseDB()
		logger.Info("Database initialized at: %s", config.AppConfig.Database.Path)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, ":"+port, config.AppConfig.Server.ShutdownTimeout)
	},
}

// runServer serves the API on addr until ctx is done, then shuts down within timeout.
func runServer(ctx context.Context, addr string, timeout time.Duration) error {
	handler := api.NewRouter(api.Options{
		Notes:    core.NewNoteService(),
		Labels:   core.NewLabelService(),
		Metrics:  config.AppConfig.Metrics.Enabled,
		Compress: config.AppConfig.Server.Compress,
	})
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, groupCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("Server Command: Listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server Command: ListenAndServe error: %v", err)
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-groupCtx.Done()
		logger.Info("Server Command: Shutdown signal received...")
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server Command: Graceful shutdown failed: %v", err)
			return err
		}
		logger.Info("Server Command: Gracefully stopped.")
		return nil
	})
	return eg.Wait()
}

func init() {
	serverCmd.Flags().StringVarP(&serverPort, "port", "p", "8778", "Port for the server to listen on (overrides config)")
	rootCmd.AddCommand(serverCmd)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sguter90/microclimate/pkg/archive"
	"github.com/sguter90/microclimate/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Microclimate server",
	Long:  `Start the Microclimate HTTP server. Pending migrations are applied first.`,
	RunE:  withDatabase(runServe),
}

func init() {
	serveCmd.Flags().String("port", "", "port to listen on (overrides SERVER_PORT)")
	_ = viper.BindPFlag("SERVER_PORT", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	jwtSecret := config.JWTSecret()
	if jwtSecret == "" || jwtSecret == "change_me_in_production" {
		return errors.New("JWT_SECRET environment variable is not set or has an invalid value")
	}

	// decimals are sent as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true

	dbManager := dbManagerFrom(cmd)

	// Run migrations
	if err := dbManager.Init(cmd.Context()); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	routeManager := NewRouteManager(dbManager, jwtSecret, config.AllowedOrigins())

	var scheduler *archive.Scheduler

	if bucket := config.ExportArchiveBucket(); bucket != "" {
		archiver, err := archive.NewS3Archiver(cmd.Context(), config.AWSRegion(), bucket)
		if err != nil {
			return fmt.Errorf("failed to set up export archive: %w", err)
		}
		routeManager.archiver = archiver
		log.Info().Str("bucket", bucket).Msg("CSV exports are archived to S3")

		if interval := config.ExportArchiveInterval(); interval > 0 {
			scheduler = archive.NewScheduler(dbManager, archiver, interval)
			scheduler.Start()
		}
	}

	routeManager.Setup()

	addr := ":" + config.ServerPort()
	server := &http.Server{
		Handler:      routeManager.Router,
		Addr:         addr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	log.Info().Str("addr", addr).Msg("Starting Microclimate server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

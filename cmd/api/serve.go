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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/ai"
	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/assistant"
	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/config"
	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/db"
	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/media"
	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/server"
	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
			if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
				return err
			}
			log.Info().Msg("Migrations applied")
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(ctx context.Context, cfg config.Config) error {
	if cfg.AppEnv != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database connect failed: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info().Msg("Database connection established")

	model, err := ai.NewModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize AI provider: %w", err)
	}
	bridge := ai.NewBridge(model, time.Duration(cfg.AITimeoutSeconds)*time.Second)

	fetcher, err := media.NewFetcher(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize media fetcher: %w", err)
	}
	analyzer := media.NewAnalyzer(media.NewGate(cfg.MediaAllowedHosts), fetcher, bridge)

	st := store.NewPostgresStore(pool)
	svc := assistant.NewService(st, bridge, analyzer, assistant.NewAuditLogger(st, nil, nil), cfg.ActivityFetchLimit)

	httpServer := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           server.New(cfg, svc).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.AppPort).
			Str("ai_provider", cfg.AIProvider).
			Str("storage_backend", cfg.StorageBackend).
			Msg("KidWatch API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	log.Info().Msg("Server stopped")
	return nil
}

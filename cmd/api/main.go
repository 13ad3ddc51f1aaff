package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/config"
	"github.com/KidWatch-Gemastik/parent-app-kidwatch-sub001/internal/db"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "kidwatch",
	Short:         "KidWatch parent assistant backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadConfig reads and validates configuration, then configures logging.
func loadConfig() (config.Config, error) {
	cfg := config.Load()
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setupLogger configures the global zerolog logger.
func setupLogger(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.AppEnv == "local" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("service", "kidwatch-api").Logger()
	}

	switch strings.ToLower(strings.TrimSpace(cfg.LogLevel)) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|status]",
	Short:     "Apply or inspect database migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		action := "up"
		if len(args) == 1 {
			action = args[0]
		}

		if action == "status" {
			version, dirty, err := db.MigrationStatus(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			fmt.Printf("Schema version: %d (dirty=%t)\n", version, dirty)
			return nil
		}
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			return err
		}
		log.Info().Msg("Migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert or remove demo monitoring data for a parent",
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		parentID, _ := cmd.Flags().GetString("parent-id")
		tag, _ := cmd.Flags().GetString("tag")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database connect failed: %w", err)
		}
		defer pool.Close()

		switch strings.ToLower(strings.TrimSpace(mode)) {
		case "seed":
			result, err := db.Seed(ctx, pool, db.SeedOptions{ParentID: parentID, Tag: tag}, cfg.MediaAllowedHosts[0])
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d children for parent %s (replaced %d from earlier runs)\n", result.Children, parentID, result.Replaced)
		case "cleanup":
			deleted, err := db.CleanupSeed(ctx, pool, tag)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d seeded children with tag %s\n", deleted, tag)
		default:
			return fmt.Errorf("unknown mode %q: use seed or cleanup", mode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("migrate", false, "Apply pending migrations before serving")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("mode", "seed", "seed or cleanup")
	seedCmd.Flags().String("parent-id", "", "parent account id that owns the demo children")
	seedCmd.Flags().String("tag", "kidwatch_demo", "seed tag used for insert/delete")
}

// Command medctl is the Medication Tracker operations CLI.
//
// Usage:
//
//	medctl migrate up
//	medctl migrate down
//	medctl vapid generate
//	medctl scan
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Ahssan23/medication-tracker/internal/config"
	"github.com/Ahssan23/medication-tracker/internal/db"
	"github.com/Ahssan23/medication-tracker/internal/push"
	"github.com/Ahssan23/medication-tracker/internal/reminder"
	"github.com/Ahssan23/medication-tracker/internal/store/postgres"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "medctl",
		Short: "Medication Tracker operations CLI",
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(vapidCmd())
	root.AddCommand(scanCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateDownCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			start := time.Now()
			if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info("Migrations applied", "duration", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func migrateDownCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			m, err := db.NewMigrator(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer m.Close()
			if err := m.Steps(-steps); err != nil {
				return fmt.Errorf("roll back migrations: %w", err)
			}
			logger.Info("Migrations rolled back", "steps", steps)
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
	return cmd
}

// --------------------------------------------------------------------------
// vapid command
// --------------------------------------------------------------------------

func vapidCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vapid",
		Short: "Manage web-push VAPID keys",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Generate a fresh VAPID key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			private, public, err := push.GenerateVAPIDKeys()
			if err != nil {
				return fmt.Errorf("generate VAPID keys: %w", err)
			}
			fmt.Printf("VAPID_PUBLIC_KEY=%s\n", public)
			fmt.Printf("VAPID_PRIVATE_KEY=%s\n", private)
			return nil
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// scan command
// --------------------------------------------------------------------------

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run a single reminder scan pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cfg.PushConfigured() {
				return fmt.Errorf("VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY must be set")
			}

			pool, err := db.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			medicines := postgres.NewMedicineRepo(pool.Pool)
			subs := postgres.NewSubscriptionRepo(pool.Pool)

			sender := push.NewSender(cfg.VAPIDSubject, cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, logger)
			dispatcher := push.NewDispatcher(sender, subs, cfg.PushSendTimeout, nil, logger)
			dedup := reminder.NewPostgresDedup(pool.Pool)

			scheduler := reminder.NewScheduler(medicines, dedup, dispatcher, cfg.ScanInterval, cfg.Lookahead, nil, logger)
			start := time.Now()
			dispatched, err := scheduler.Scan(ctx)
			if err != nil {
				return err
			}
			logger.Info("Scan finished",
				"dispatched", dispatched,
				"duration", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

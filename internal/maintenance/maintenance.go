// Package maintenance runs periodic background cleanup as Go tickers. The
// scheduler already prunes dedup state at scan time; this sweep is the
// backstop that keeps the sent_reminders table bounded even when the
// scheduler is disabled (no VAPID keys configured).
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ahssan23/medication-tracker/internal/reminder"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	CleanupInterval time.Duration
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{CleanupInterval: 30 * time.Minute}
}

// Start launches the maintenance tickers. Blocks until ctx is cancelled.
// Intended to be called with `go`.
func Start(ctx context.Context, pool *pgxpool.Pool, cfg Config, logger *slog.Logger) {
	if cfg.CleanupInterval <= 0 {
		logger.Info("Maintenance tickers disabled")
		return
	}
	logger.Info("Maintenance tickers started", "cleanup", cfg.CleanupInterval)

	t := time.NewTicker(cfg.CleanupInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			cleanup(ctx, pool, logger)
		case <-ctx.Done():
			logger.Info("Maintenance tickers stopped")
			return
		}
	}
}

// cleanup removes sent-reminder rows whose occurrence is past the dedup
// retention horizon.
func cleanup(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) {
	tag, err := pool.Exec(ctx, "sent_reminders_prune", time.Now().Add(-reminder.Retention))
	if err != nil {
		logger.Warn("Cleanup: failed to purge sent reminders", "error", err)
	} else if tag.RowsAffected() > 0 {
		logger.Info("Cleanup: purged sent reminders", "count", tag.RowsAffected())
	}
}

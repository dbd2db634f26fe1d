// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ahssan23/medication-tracker/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the API and reminder
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Users
		"user_insert":   "INSERT INTO users (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)",
		"user_by_email": "SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1",
		"user_by_id":    "SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1",

		// Medicines
		"medicine_insert":     "INSERT INTO medicines (id, user_id, name, start_date, end_date, medicine_time) VALUES ($1, $2, $3, $4, $5, $6)",
		"medicines_by_user":   "SELECT id, user_id, name, start_date, end_date, medicine_time FROM medicines WHERE user_id = $1 ORDER BY start_date, medicine_time",
		"medicine_by_id":      "SELECT id, user_id, name, start_date, end_date, medicine_time FROM medicines WHERE id = $1",
		"medicine_update":     "UPDATE medicines SET name = $2, start_date = $3, end_date = $4, medicine_time = $5 WHERE id = $1",
		"medicine_delete":     "DELETE FROM medicines WHERE id = $1",
		"medicine_candidates": "SELECT id, user_id, name, start_date, end_date, medicine_time FROM medicines WHERE end_date >= $1",

		// Push subscriptions
		"subscription_upsert": "INSERT INTO push_subscriptions (endpoint, user_id, p256dh, auth, created_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT (endpoint) DO UPDATE SET user_id = EXCLUDED.user_id, p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth",
		"subscriptions_by_user": "SELECT endpoint, user_id, p256dh, auth, created_at FROM push_subscriptions WHERE user_id = $1",
		"subscription_delete":   "DELETE FROM push_subscriptions WHERE endpoint = $1",

		// Sent reminder bookkeeping (dedup)
		"sent_reminder_exists": "SELECT 1 FROM sent_reminders WHERE dedup_key = $1",
		"sent_reminder_insert": "INSERT INTO sent_reminders (dedup_key, occurrence_at) VALUES ($1, $2) ON CONFLICT (dedup_key) DO NOTHING",
		"sent_reminders_prune": "DELETE FROM sent_reminders WHERE occurrence_at < $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}

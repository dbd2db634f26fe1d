package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Retention is how long a dispatched occurrence blocks repeat notification.
const Retention = 24 * time.Hour

// DedupStore tracks which (medicine, occurrence) keys have already been
// notified. Prune must run before dispatch decisions each scan so memory
// stays bounded to roughly one day of occurrences.
type DedupStore interface {
	Has(ctx context.Context, key string) (bool, error)
	Add(ctx context.Context, key string, occurrence time.Time) error
	Prune(ctx context.Context, now time.Time) error
}

// --------------------------------------------------------------------------
// In-memory store (volatile; cleared by restart)
// --------------------------------------------------------------------------

// MemoryDedup is a mutex-guarded map keyed by dedup key with the occurrence
// instant as value for pruning.
type MemoryDedup struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// NewMemoryDedup creates an empty in-memory dedup store.
func NewMemoryDedup() *MemoryDedup {
	return &MemoryDedup{entries: make(map[string]time.Time)}
}

func (d *MemoryDedup) Has(_ context.Context, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.entries[key]
	return ok, nil
}

func (d *MemoryDedup) Add(_ context.Context, key string, occurrence time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[key] = occurrence
	return nil
}

func (d *MemoryDedup) Prune(_ context.Context, now time.Time) error {
	cutoff := now.Add(-Retention)
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, occ := range d.entries {
		if occ.Before(cutoff) {
			delete(d.entries, key)
		}
	}
	return nil
}

// Len returns the number of tracked keys.
func (d *MemoryDedup) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}

// --------------------------------------------------------------------------
// Postgres store (survives restarts; no duplicate flood after redeploy)
// --------------------------------------------------------------------------

// PostgresDedup persists dedup keys in the sent_reminders table via the
// prepared statements registered in internal/db.
type PostgresDedup struct {
	pool *pgxpool.Pool
}

// NewPostgresDedup creates a Postgres-backed dedup store on the shared pool.
func NewPostgresDedup(pool *pgxpool.Pool) *PostgresDedup {
	return &PostgresDedup{pool: pool}
}

func (d *PostgresDedup) Has(ctx context.Context, key string) (bool, error) {
	var one int
	err := d.pool.QueryRow(ctx, "sent_reminder_exists", key).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query sent reminder: %w", err)
	}
	return true, nil
}

func (d *PostgresDedup) Add(ctx context.Context, key string, occurrence time.Time) error {
	if _, err := d.pool.Exec(ctx, "sent_reminder_insert", key, occurrence); err != nil {
		return fmt.Errorf("insert sent reminder: %w", err)
	}
	return nil
}

func (d *PostgresDedup) Prune(ctx context.Context, now time.Time) error {
	if _, err := d.pool.Exec(ctx, "sent_reminders_prune", now.Add(-Retention)); err != nil {
		return fmt.Errorf("prune sent reminders: %w", err)
	}
	return nil
}

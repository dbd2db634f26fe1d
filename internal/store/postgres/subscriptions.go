package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ahssan23/medication-tracker/internal/model"
)

// SubscriptionRepo persists push subscriptions in Postgres.
type SubscriptionRepo struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepo creates a SubscriptionRepo on the shared pool.
func NewSubscriptionRepo(pool *pgxpool.Pool) *SubscriptionRepo {
	return &SubscriptionRepo{pool: pool}
}

// Register upserts by endpoint, so re-registering a device is a no-op apart
// from refreshing its keys.
func (r *SubscriptionRepo) Register(ctx context.Context, sub *model.Subscription) error {
	_, err := r.pool.Exec(ctx, "subscription_upsert",
		sub.Endpoint, sub.UserID, sub.P256dh, sub.Auth, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepo) ListByUser(ctx context.Context, userID string) ([]model.Subscription, error) {
	rows, err := r.pool.Query(ctx, "subscriptions_by_user", userID)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []model.Subscription{}
	for rows.Next() {
		var s model.Subscription
		if err := rows.Scan(&s.Endpoint, &s.UserID, &s.P256dh, &s.Auth, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *SubscriptionRepo) Remove(ctx context.Context, endpoint string) error {
	_, err := r.pool.Exec(ctx, "subscription_delete", endpoint)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}

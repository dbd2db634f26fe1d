// Package store defines the persistence interfaces consumed by the HTTP
// handlers and the reminder scheduler. Postgres implementations live in the
// postgres subpackage; the memory subpackage provides volatile
// process-lifetime implementations used by tests.
package store

import (
	"context"

	"github.com/Ahssan23/medication-tracker/internal/model"
)

// UserStore persists registered accounts.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// MedicineStore persists medicine records. FindCandidates is the coarse
// scheduler filter: every medicine whose end date is on or after minEndDate
// (YYYY-MM-DD, inclusive).
type MedicineStore interface {
	Create(ctx context.Context, med *model.Medicine) error
	FindByID(ctx context.Context, id string) (*model.Medicine, error)
	ListByUser(ctx context.Context, userID string) ([]model.Medicine, error)
	Update(ctx context.Context, med *model.Medicine) error
	Delete(ctx context.Context, id string) error
	FindCandidates(ctx context.Context, minEndDate string) ([]model.Medicine, error)
}

// SubscriptionStore is the push subscription registry. Register is idempotent
// per endpoint: re-registering an existing endpoint refreshes its keys and
// owner instead of duplicating it.
type SubscriptionStore interface {
	Register(ctx context.Context, sub *model.Subscription) error
	ListByUser(ctx context.Context, userID string) ([]model.Subscription, error)
	Remove(ctx context.Context, endpoint string) error
}

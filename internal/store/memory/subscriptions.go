package memory

import (
	"context"
	"sync"

	"github.com/Ahssan23/medication-tracker/internal/model"
)

// SubscriptionRepo is an in-memory SubscriptionStore keyed by endpoint.
type SubscriptionRepo struct {
	mu         sync.RWMutex
	byEndpoint map[string]model.Subscription
}

// NewSubscriptionRepo creates an empty in-memory subscription registry.
func NewSubscriptionRepo() *SubscriptionRepo {
	return &SubscriptionRepo{byEndpoint: make(map[string]model.Subscription)}
}

func (r *SubscriptionRepo) Register(_ context.Context, sub *model.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byEndpoint[sub.Endpoint] = *sub
	return nil
}

func (r *SubscriptionRepo) ListByUser(_ context.Context, userID string) ([]model.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs := []model.Subscription{}
	for _, s := range r.byEndpoint {
		if s.UserID == userID {
			subs = append(subs, s)
		}
	}
	return subs, nil
}

func (r *SubscriptionRepo) Remove(_ context.Context, endpoint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byEndpoint, endpoint)
	return nil
}

// Package memory implements the store interfaces with mutex-guarded maps.
// These are the volatile process-lifetime stores; they back the test suite
// and database-less development.
package memory

import (
	"context"
	"sync"

	"github.com/Ahssan23/medication-tracker/internal/model"
)

// UserRepo is an in-memory UserStore.
type UserRepo struct {
	mu   sync.RWMutex
	byID map[string]model.User
}

// NewUserRepo creates an empty in-memory user store.
func NewUserRepo() *UserRepo {
	return &UserRepo{byID: make(map[string]model.User)}
}

func (r *UserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == user.Email {
			return model.ErrDuplicateEmail
		}
	}
	r.byID[user.ID] = *user
	return nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, model.ErrNotFound
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := u
	return &out, nil
}

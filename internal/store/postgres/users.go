// Package postgres implements the store interfaces on pgxpool. All queries
// run through prepared statements registered in internal/db.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ahssan23/medication-tracker/internal/model"
)

const uniqueViolation = "23505"

// UserRepo persists users in Postgres.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepo creates a UserRepo on the shared pool.
func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.pool.Exec(ctx, "user_insert",
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "user_by_email", email)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "user_by_id", id)
}

func (r *UserRepo) findOne(ctx context.Context, stmt string, arg any) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, stmt, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

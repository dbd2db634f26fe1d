package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ahssan23/medication-tracker/internal/model"
)

// MedicineRepo persists medicine records in Postgres.
type MedicineRepo struct {
	pool *pgxpool.Pool
}

// NewMedicineRepo creates a MedicineRepo on the shared pool.
func NewMedicineRepo(pool *pgxpool.Pool) *MedicineRepo {
	return &MedicineRepo{pool: pool}
}

func (r *MedicineRepo) Create(ctx context.Context, med *model.Medicine) error {
	_, err := r.pool.Exec(ctx, "medicine_insert",
		med.ID, med.UserID, med.Name, med.StartDate, med.EndDate, med.MedicineTime)
	if err != nil {
		return fmt.Errorf("insert medicine: %w", err)
	}
	return nil
}

func (r *MedicineRepo) FindByID(ctx context.Context, id string) (*model.Medicine, error) {
	var m model.Medicine
	err := r.pool.QueryRow(ctx, "medicine_by_id", id).
		Scan(&m.ID, &m.UserID, &m.Name, &m.StartDate, &m.EndDate, &m.MedicineTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query medicine: %w", err)
	}
	return &m, nil
}

func (r *MedicineRepo) ListByUser(ctx context.Context, userID string) ([]model.Medicine, error) {
	return r.list(ctx, "medicines_by_user", userID)
}

func (r *MedicineRepo) Update(ctx context.Context, med *model.Medicine) error {
	tag, err := r.pool.Exec(ctx, "medicine_update",
		med.ID, med.Name, med.StartDate, med.EndDate, med.MedicineTime)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *MedicineRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, "medicine_delete", id)
	if err != nil {
		return fmt.Errorf("delete medicine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// FindCandidates returns every medicine whose end date is on or after
// minEndDate. ISO dates stored as text compare correctly.
func (r *MedicineRepo) FindCandidates(ctx context.Context, minEndDate string) ([]model.Medicine, error) {
	return r.list(ctx, "medicine_candidates", minEndDate)
}

func (r *MedicineRepo) list(ctx context.Context, stmt string, arg any) ([]model.Medicine, error) {
	rows, err := r.pool.Query(ctx, stmt, arg)
	if err != nil {
		return nil, fmt.Errorf("query medicines: %w", err)
	}
	defer rows.Close()

	meds := []model.Medicine{}
	for rows.Next() {
		var m model.Medicine
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.StartDate, &m.EndDate, &m.MedicineTime); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		meds = append(meds, m)
	}
	return meds, rows.Err()
}

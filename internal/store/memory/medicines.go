package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Ahssan23/medication-tracker/internal/model"
)

// MedicineRepo is an in-memory MedicineStore.
type MedicineRepo struct {
	mu   sync.RWMutex
	byID map[string]model.Medicine
}

// NewMedicineRepo creates an empty in-memory medicine store.
func NewMedicineRepo() *MedicineRepo {
	return &MedicineRepo{byID: make(map[string]model.Medicine)}
}

func (r *MedicineRepo) Create(_ context.Context, med *model.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[med.ID] = *med
	return nil
}

func (r *MedicineRepo) FindByID(_ context.Context, id string) (*model.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	out := m
	return &out, nil
}

func (r *MedicineRepo) ListByUser(_ context.Context, userID string) ([]model.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meds := []model.Medicine{}
	for _, m := range r.byID {
		if m.UserID == userID {
			meds = append(meds, m)
		}
	}
	sortMedicines(meds)
	return meds, nil
}

func (r *MedicineRepo) Update(_ context.Context, med *model.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[med.ID]; !ok {
		return model.ErrNotFound
	}
	r.byID[med.ID] = *med
	return nil
}

func (r *MedicineRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// FindCandidates relies on ISO dates comparing correctly as strings.
func (r *MedicineRepo) FindCandidates(_ context.Context, minEndDate string) ([]model.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meds := []model.Medicine{}
	for _, m := range r.byID {
		if m.EndDate >= minEndDate {
			meds = append(meds, m)
		}
	}
	sortMedicines(meds)
	return meds, nil
}

func sortMedicines(meds []model.Medicine) {
	sort.Slice(meds, func(i, j int) bool {
		if meds[i].StartDate != meds[j].StartDate {
			return meds[i].StartDate < meds[j].StartDate
		}
		return meds[i].MedicineTime < meds[j].MedicineTime
	})
}

package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/Ahssan23/medication-tracker/internal/model"
)

func TestMedicineRepoCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMedicineRepo()

	med := &model.Medicine{
		ID: "m1", UserID: "u1", Name: "Aspirin",
		StartDate: "2025-01-01", EndDate: "2025-01-10", MedicineTime: "09:00",
	}
	if err := repo.Create(ctx, med); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.FindByID(ctx, "m1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Name != "Aspirin" {
		t.Errorf("Name = %q", got.Name)
	}

	// Returned copy must not alias the stored record.
	got.Name = "Mutated"
	again, _ := repo.FindByID(ctx, "m1")
	if again.Name != "Aspirin" {
		t.Error("stored record mutated through returned pointer")
	}

	med.Name = "Ibuprofen"
	if err := repo.Update(ctx, med); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := repo.Delete(ctx, "m1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "m1"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
	if _, err := repo.FindByID(ctx, "m1"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("FindByID after delete err = %v, want ErrNotFound", err)
	}
}

func TestMedicineRepoListByUserSorted(t *testing.T) {
	ctx := context.Background()
	repo := NewMedicineRepo()

	_ = repo.Create(ctx, &model.Medicine{ID: "b", UserID: "u1", StartDate: "2025-01-02", MedicineTime: "08:00", EndDate: "2025-02-01"})
	_ = repo.Create(ctx, &model.Medicine{ID: "a", UserID: "u1", StartDate: "2025-01-01", MedicineTime: "09:00", EndDate: "2025-02-01"})
	_ = repo.Create(ctx, &model.Medicine{ID: "c", UserID: "u1", StartDate: "2025-01-01", MedicineTime: "21:00", EndDate: "2025-02-01"})
	_ = repo.Create(ctx, &model.Medicine{ID: "x", UserID: "u2", StartDate: "2025-01-01", MedicineTime: "09:00", EndDate: "2025-02-01"})

	meds, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(meds) != 3 {
		t.Fatalf("len = %d, want 3", len(meds))
	}
	wantOrder := []string{"a", "c", "b"}
	for i, want := range wantOrder {
		if meds[i].ID != want {
			t.Errorf("meds[%d].ID = %q, want %q", i, meds[i].ID, want)
		}
	}
}

func TestMedicineRepoFindCandidates(t *testing.T) {
	ctx := context.Background()
	repo := NewMedicineRepo()

	_ = repo.Create(ctx, &model.Medicine{ID: "active", UserID: "u1", StartDate: "2025-01-01", EndDate: "2025-01-10", MedicineTime: "09:00"})
	_ = repo.Create(ctx, &model.Medicine{ID: "ends-today", UserID: "u1", StartDate: "2025-01-01", EndDate: "2025-01-05", MedicineTime: "09:00"})
	_ = repo.Create(ctx, &model.Medicine{ID: "expired", UserID: "u1", StartDate: "2024-12-01", EndDate: "2025-01-04", MedicineTime: "09:00"})

	meds, err := repo.FindCandidates(ctx, "2025-01-05")
	if err != nil {
		t.Fatalf("FindCandidates: %v", err)
	}
	ids := map[string]bool{}
	for _, m := range meds {
		ids[m.ID] = true
	}
	if !ids["active"] || !ids["ends-today"] || ids["expired"] {
		t.Errorf("candidate ids = %v, want active and ends-today only", ids)
	}
}

func TestSubscriptionRepoIdempotentRegister(t *testing.T) {
	ctx := context.Background()
	repo := NewSubscriptionRepo()

	sub := &model.Subscription{Endpoint: "https://push.example/a", UserID: "u1", P256dh: "p1", Auth: "a1"}
	if err := repo.Register(ctx, sub); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Same endpoint again with fresh keys: refreshed, not duplicated.
	sub2 := &model.Subscription{Endpoint: "https://push.example/a", UserID: "u1", P256dh: "p2", Auth: "a2"}
	if err := repo.Register(ctx, sub2); err != nil {
		t.Fatalf("Register again: %v", err)
	}

	subs, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("len = %d, want 1", len(subs))
	}
	if subs[0].P256dh != "p2" {
		t.Errorf("P256dh = %q, want refreshed key p2", subs[0].P256dh)
	}

	if err := repo.Remove(ctx, "https://push.example/a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	subs, _ = repo.ListByUser(ctx, "u1")
	if len(subs) != 0 {
		t.Errorf("len after remove = %d, want 0", len(subs))
	}
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo()

	u := &model.User{ID: "u1", Name: "A", Email: "a@b.co", PasswordHash: "h"}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := &model.User{ID: "u2", Name: "B", Email: "a@b.co", PasswordHash: "h"}
	if err := repo.Create(ctx, dup); !errors.Is(err, model.ErrDuplicateEmail) {
		t.Errorf("Create duplicate err = %v, want ErrDuplicateEmail", err)
	}

	got, err := repo.FindByEmail(ctx, "a@b.co")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("ID = %q, want u1", got.ID)
	}

	if _, err := repo.FindByEmail(ctx, "missing@b.co"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("FindByEmail missing err = %v, want ErrNotFound", err)
	}
}

package reminder

import (
	"context"
	"testing"
	"time"
)

func TestMemoryDedupAddHas(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDedup()
	occ := time.Date(2025, 1, 5, 9, 0, 0, 0, time.Local)
	key := DedupKey("med-1", occ)

	seen, err := d.Has(ctx, key)
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if seen {
		t.Fatal("key present before Add")
	}

	if err := d.Add(ctx, key, occ); err != nil {
		t.Fatalf("Add: %v", err)
	}

	seen, err = d.Has(ctx, key)
	if err != nil {
		t.Fatalf("Has: %v", err)
	}
	if !seen {
		t.Fatal("key missing after Add")
	}
}

func TestMemoryDedupPrune(t *testing.T) {
	ctx := context.Background()
	d := NewMemoryDedup()
	now := time.Date(2025, 1, 6, 12, 0, 0, 0, time.Local)

	fresh := now.Add(-Retention + time.Minute)
	stale := now.Add(-Retention - time.Minute)
	boundary := now.Add(-Retention)

	_ = d.Add(ctx, DedupKey("fresh", fresh), fresh)
	_ = d.Add(ctx, DedupKey("stale", stale), stale)
	_ = d.Add(ctx, DedupKey("boundary", boundary), boundary)

	if err := d.Prune(ctx, now); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	if got := d.Len(); got != 2 {
		t.Errorf("Len = %d after prune, want 2", got)
	}

	if seen, _ := d.Has(ctx, DedupKey("stale", stale)); seen {
		t.Error("stale key survived prune")
	}
	if seen, _ := d.Has(ctx, DedupKey("fresh", fresh)); !seen {
		t.Error("fresh key was pruned")
	}
	if seen, _ := d.Has(ctx, DedupKey("boundary", boundary)); !seen {
		t.Error("exactly-at-retention key was pruned")
	}
}

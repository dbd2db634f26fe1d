package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Ahssan23/medication-tracker/internal/metrics"
	"github.com/Ahssan23/medication-tracker/internal/model"
	"github.com/Ahssan23/medication-tracker/internal/push"
)

// RecordSource is the read-only medicine query the scheduler consumes:
// every record whose end date is on or after minEndDate (YYYY-MM-DD).
type RecordSource interface {
	FindCandidates(ctx context.Context, minEndDate string) ([]model.Medicine, error)
}

// Dispatcher sends a payload to every endpoint registered for a user and
// reports only the attempt count.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID string, p push.Payload) int
}

// Scheduler is the orchestrating loop: on a fixed cadence it prunes dedup
// state, re-evaluates all candidate medicines, and dispatches reminders for
// occurrences inside the lookahead window that have not been notified yet.
type Scheduler struct {
	records    RecordSource
	dedup      DedupStore
	dispatcher Dispatcher
	logger     *slog.Logger
	metrics    *metrics.Collector

	interval  time.Duration
	lookahead time.Duration

	// scanMu serializes scan passes; a tick arriving while the previous scan
	// is still running is skipped.
	scanMu sync.Mutex

	// now is swappable for tests.
	now func() time.Time
}

// NewScheduler creates a Scheduler. metrics may be nil.
func NewScheduler(records RecordSource, dedup DedupStore, dispatcher Dispatcher, interval, lookahead time.Duration, m *metrics.Collector, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		records:    records,
		dedup:      dedup,
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    m,
		interval:   interval,
		lookahead:  lookahead,
		now:        time.Now,
	}
}

// Run executes scan passes on the configured cadence until ctx is cancelled.
// A failed pass is logged and the loop continues on the next tick. Intended
// to be called with `go`.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Reminder scheduler started",
		"interval", s.interval, "lookahead", s.lookahead)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			dispatched, err := s.Scan(ctx)
			if err != nil {
				s.logger.Error("reminder scan failed", "error", err)
			} else if dispatched > 0 {
				s.logger.Info("reminder scan complete", "dispatched", dispatched)
			}
		case <-ctx.Done():
			s.logger.Info("Reminder scheduler stopped")
			return
		}
	}
}

// Scan runs a single pass. Returns the number of reminders dispatched. If a
// previous pass is still in flight the call is a no-op; dedup state makes the
// skipped work safe to defer to the next tick.
func (s *Scheduler) Scan(ctx context.Context) (int, error) {
	if !s.scanMu.TryLock() {
		s.logger.Warn("previous reminder scan still running, skipping tick")
		return 0, nil
	}
	defer s.scanMu.Unlock()

	start := time.Now()
	now := s.now()

	if err := s.dedup.Prune(ctx, now); err != nil {
		// Bounded growth, not correctness: keep scanning.
		s.logger.Warn("dedup prune failed", "error", err)
	}

	candidates, err := s.records.FindCandidates(ctx, now.Format(model.DateLayout))
	if err != nil {
		return 0, fmt.Errorf("fetch candidate medicines: %w", err)
	}

	dispatched := 0
	for _, med := range candidates {
		// Per-record failures never abort the rest of the scan.
		if s.process(ctx, med, now) {
			dispatched++
		}
	}

	s.metrics.RecordScan(time.Since(start), len(candidates))
	return dispatched, nil
}

// process evaluates one medicine and reports whether a reminder was
// dispatched for it.
func (s *Scheduler) process(ctx context.Context, med model.Medicine, now time.Time) bool {
	occ, due := DueOccurrence(med, now, s.lookahead)
	if !due {
		return false
	}

	key := DedupKey(med.ID, occ)
	seen, err := s.dedup.Has(ctx, key)
	if err != nil {
		s.logger.Warn("dedup lookup failed", "medicine_id", med.ID, "error", err)
		return false
	}
	if seen {
		return false
	}

	attempts := s.dispatcher.Dispatch(ctx, med.UserID, push.Payload{
		Title: "Medicine Reminder",
		Body:  fmt.Sprintf("Time to take %s at %s", med.Name, med.MedicineTime),
		URL:   "/home",
	})
	if attempts == 0 {
		// No registered endpoints yet. Leave the key unset so a subscription
		// registered later in the window still gets this occurrence.
		return false
	}

	if err := s.dedup.Add(ctx, key, occ); err != nil {
		s.logger.Warn("dedup record failed", "medicine_id", med.ID, "error", err)
	}

	s.metrics.RecordReminderDispatched()
	s.logger.Info("reminder dispatched",
		"medicine_id", med.ID,
		"user_id", med.UserID,
		"occurrence", occ.Format(time.RFC3339),
		"attempts", attempts)
	return true
}

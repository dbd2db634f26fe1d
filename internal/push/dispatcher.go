package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Ahssan23/medication-tracker/internal/metrics"
	"github.com/Ahssan23/medication-tracker/internal/model"
)

// EndpointSender sends one payload to one endpoint and reports the HTTP
// status from the push service.
type EndpointSender interface {
	Send(ctx context.Context, sub model.Subscription, payload []byte) (int, error)
}

// SubscriptionRegistry is the slice of the subscription store the dispatcher
// needs: endpoint lookup per user, and removal of dead endpoints.
type SubscriptionRegistry interface {
	ListByUser(ctx context.Context, userID string) ([]model.Subscription, error)
	Remove(ctx context.Context, endpoint string) error
}

// Dispatcher fans a payload out to every endpoint registered for a user.
// Endpoints are independent: a failed send never affects the others, and the
// caller learns only the attempt count.
type Dispatcher struct {
	sender      EndpointSender
	subs        SubscriptionRegistry
	logger      *slog.Logger
	metrics     *metrics.Collector
	sendTimeout time.Duration
}

// NewDispatcher creates a Dispatcher. metrics may be nil.
func NewDispatcher(sender EndpointSender, subs SubscriptionRegistry, sendTimeout time.Duration, m *metrics.Collector, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		subs:        subs,
		logger:      logger,
		metrics:     m,
		sendTimeout: sendTimeout,
	}
}

// Dispatch sends payload to every subscription registered for userID and
// returns the number of attempted sends. A user with no subscriptions is a
// no-op, not an error. Sends run concurrently, each under its own timeout,
// and Dispatch waits for all of them. An endpoint answering 404 or 410 is
// removed from the registry.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, p Payload) int {
	subs, err := d.subs.ListByUser(ctx, userID)
	if err != nil {
		d.logger.Error("list subscriptions failed", "user_id", userID, "error", err)
		return 0
	}
	if len(subs) == 0 {
		return 0
	}

	payload, err := json.Marshal(p)
	if err != nil {
		d.logger.Error("marshal push payload failed", "user_id", userID, "error", err)
		return 0
	}

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub model.Subscription) {
			defer wg.Done()
			d.sendOne(ctx, sub, payload)
		}(sub)
	}
	wg.Wait()

	return len(subs)
}

func (d *Dispatcher) sendOne(ctx context.Context, sub model.Subscription, payload []byte) {
	sctx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	d.metrics.RecordPushAttempt()

	status, err := d.sender.Send(sctx, sub, payload)
	if err != nil {
		d.metrics.RecordPushFailure()
		d.logger.Warn("push send failed", "endpoint", sub.Endpoint, "error", err)
		return
	}

	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		// Endpoint expired or unsubscribed; drop it so future scans stop
		// attempting it.
		d.metrics.RecordPushFailure()
		d.logger.Info("pruning gone endpoint", "endpoint", sub.Endpoint, "status", status)
		if err := d.subs.Remove(ctx, sub.Endpoint); err != nil {
			d.logger.Warn("prune subscription failed", "endpoint", sub.Endpoint, "error", err)
		} else {
			d.metrics.RecordSubscriptionPruned()
		}
	case status >= 400:
		d.metrics.RecordPushFailure()
		d.logger.Warn("push rejected", "endpoint", sub.Endpoint, "status", status)
	}
}

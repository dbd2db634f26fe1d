// Package metrics collects and exposes Prometheus metrics for the reminder
// pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the reminder pipeline metrics. All record methods are
// nil-safe so components can run without metrics wired (tests, medctl).
type Collector struct {
	scans               prometheus.Counter
	scanDuration        prometheus.Histogram
	recordsScanned      prometheus.Counter
	remindersDispatched prometheus.Counter
	pushAttempts        prometheus.Counter
	pushFailures        prometheus.Counter
	subscriptionsPruned prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		scans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medtracker_reminder_scans_total",
			Help: "Completed reminder scan passes.",
		}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "medtracker_reminder_scan_duration_seconds",
			Help:    "Duration of reminder scan passes.",
			Buckets: prometheus.DefBuckets,
		}),
		recordsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medtracker_reminder_records_scanned_total",
			Help: "Medicine records evaluated across all scans.",
		}),
		remindersDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medtracker_reminders_dispatched_total",
			Help: "Reminder occurrences dispatched to at least one endpoint.",
		}),
		pushAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medtracker_push_attempts_total",
			Help: "Individual web-push send attempts.",
		}),
		pushFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medtracker_push_failures_total",
			Help: "Individual web-push send failures.",
		}),
		subscriptionsPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "medtracker_subscriptions_pruned_total",
			Help: "Subscriptions removed after the endpoint reported gone.",
		}),
	}

	reg.MustRegister(
		c.scans,
		c.scanDuration,
		c.recordsScanned,
		c.remindersDispatched,
		c.pushAttempts,
		c.pushFailures,
		c.subscriptionsPruned,
	)
	return c
}

func (c *Collector) RecordScan(d time.Duration, records int) {
	if c == nil {
		return
	}
	c.scans.Inc()
	c.scanDuration.Observe(d.Seconds())
	c.recordsScanned.Add(float64(records))
}

func (c *Collector) RecordReminderDispatched() {
	if c == nil {
		return
	}
	c.remindersDispatched.Inc()
}

func (c *Collector) RecordPushAttempt() {
	if c == nil {
		return
	}
	c.pushAttempts.Inc()
}

func (c *Collector) RecordPushFailure() {
	if c == nil {
		return
	}
	c.pushFailures.Inc()
}

func (c *Collector) RecordSubscriptionPruned() {
	if c == nil {
		return
	}
	c.subscriptionsPruned.Inc()
}

// Handler returns the /metrics HTTP handler for a registry, with the standard
// Go runtime and process collectors included.
func Handler(reg *prometheus.Registry) http.Handler {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

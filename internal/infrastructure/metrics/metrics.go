package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the marketplace counters. A nil *Metrics is valid and
// records nothing, which keeps use cases usable in tests.
type Metrics struct {
	sweepDuration prometheus.Histogram
	sweepOrders   *prometheus.CounterVec
	disputes      *prometheus.CounterVec
	verifications *prometheus.CounterVec
	orderMessages prometheus.Counter
	notifications *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "auto_confirm_sweep_duration_seconds",
			Help:    "Duration of auto-confirm sweeps in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		sweepOrders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auto_confirm_orders_total",
			Help: "Orders visited by the auto-confirm sweep, by outcome.",
		}, []string{"outcome"}),
		disputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "disputes_total",
			Help: "Dispute lifecycle events.",
		}, []string{"event"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bank_verifications_total",
			Help: "Bank account verification attempts, by result.",
		}, []string{"method", "result"}),
		orderMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_messages_total",
			Help: "Order chat messages sent.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notifications created, by type.",
		}, []string{"type"}),
	}
	reg.MustRegister(m.sweepDuration, m.sweepOrders, m.disputes, m.verifications, m.orderMessages, m.notifications)
	return m
}

func (m *Metrics) ObserveSweep(duration time.Duration, confirmed, skipped, failed int) {
	if m == nil {
		return
	}
	m.sweepDuration.Observe(duration.Seconds())
	m.sweepOrders.WithLabelValues("confirmed").Add(float64(confirmed))
	m.sweepOrders.WithLabelValues("skipped").Add(float64(skipped))
	m.sweepOrders.WithLabelValues("error").Add(float64(failed))
}

func (m *Metrics) IncDispute(event string) {
	if m == nil {
		return
	}
	m.disputes.WithLabelValues(normalizeLabel(event)).Inc()
}

func (m *Metrics) IncVerification(method, result string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(normalizeLabel(method), normalizeLabel(result)).Inc()
}

func (m *Metrics) IncOrderMessage() {
	if m == nil {
		return
	}
	m.orderMessages.Inc()
}

func (m *Metrics) IncNotification(kind string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

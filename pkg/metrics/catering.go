package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "catering"

// Result labels shared by the catering counters.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultDropped = "dropped"
	ResultInvalid = "invalid"
)

// CateringMetrics covers the order configurator, snapshot persistence and the email relay.
// A nil receiver or one built without a registerer is a no-op.
type CateringMetrics struct {
	snapshotOps   *prometheus.CounterVec
	submissions   *prometheus.CounterVec
	relaySends    *prometheus.CounterVec
	relayDuration *prometheus.HistogramVec
	activeOrders  prometheus.Gauge
}

func NewCateringMetrics(reg prometheus.Registerer) *CateringMetrics {
	if reg == nil {
		return &CateringMetrics{}
	}
	m := &CateringMetrics{
		snapshotOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_operations_total",
			Help:      "Snapshot store operations by kind and result.",
		}, []string{"op", "result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Order submissions by result.",
		}, []string{"result"}),
		relaySends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_sends_total",
			Help:      "Relay email sends by message kind, transport and result.",
		}, []string{"kind", "transport", "result"}),
		relayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "relay_send_duration_seconds",
			Help:      "Time spent delivering relay email.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		activeOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_orders",
			Help:      "Orders currently held in memory.",
		}),
	}
	reg.MustRegister(m.snapshotOps, m.submissions, m.relaySends, m.relayDuration, m.activeOrders)
	return m
}

func (m *CateringMetrics) SnapshotOp(op, result string) {
	if m == nil || m.snapshotOps == nil {
		return
	}
	m.snapshotOps.WithLabelValues(normalizeLabel(op), normalizeLabel(result)).Inc()
}

func (m *CateringMetrics) Submission(result string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(result)).Inc()
}

// RelaySend counts one delivery attempt and records how long it took.
func (m *CateringMetrics) RelaySend(kind, transport, result string, took time.Duration) {
	if m == nil || m.relaySends == nil {
		return
	}
	m.relaySends.WithLabelValues(normalizeLabel(kind), normalizeLabel(transport), normalizeLabel(result)).Inc()
	m.relayDuration.WithLabelValues(normalizeLabel(kind)).Observe(took.Seconds())
}

func (m *CateringMetrics) SetActiveOrders(n int) {
	if m == nil || m.activeOrders == nil {
		return
	}
	m.activeOrders.Set(float64(n))
}

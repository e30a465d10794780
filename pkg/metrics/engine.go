package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records transaction outcomes for the ledger engine.
type EngineMetrics struct {
	attempts  *prometheus.CounterVec
	conflicts *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	documents *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_tx_attempts_total",
		Help: "Transaction attempts per engine operation, including retries.",
	}, []string{"op"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_tx_conflicts_total",
		Help: "Transaction attempts aborted by optimistic-concurrency conflicts.",
	}, []string{"op"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_tx_duration_seconds",
		Help:    "End-to-end duration of engine transactions, retries included.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	documents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_documents_created_total",
		Help: "Documents persisted by the engine, by document type.",
	}, []string{"type"})
	reg.MustRegister(attempts, conflicts, duration, documents)
	return &EngineMetrics{
		attempts:  attempts,
		conflicts: conflicts,
		duration:  duration,
		documents: documents,
	}
}

// TxAttempt counts one transaction attempt for the named operation.
func (m *EngineMetrics) TxAttempt(op string) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(normalizeLabel(op)).Inc()
}

// TxConflict counts one conflict-aborted attempt for the named operation.
func (m *EngineMetrics) TxConflict(op string) {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.WithLabelValues(normalizeLabel(op)).Inc()
}

// TxDuration records the total duration of the named operation.
func (m *EngineMetrics) TxDuration(op string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(op)).Observe(d.Seconds())
}

// DocumentCreated counts one persisted document of the given type.
func (m *EngineMetrics) DocumentCreated(docType string) {
	if m == nil || m.documents == nil {
		return
	}
	m.documents.WithLabelValues(normalizeLabel(docType)).Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}

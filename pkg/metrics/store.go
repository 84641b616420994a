package metrics

import "github.com/prometheus/client_golang/prometheus"

// StoreMetrics tracks the entity store's durable writes.
type StoreMetrics struct {
	flushes   *prometheus.CounterVec
	conflicts *prometheus.CounterVec
}

// NewStoreMetrics registers entity store metrics on the provided registerer.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	if reg == nil {
		return &StoreMetrics{}
	}
	flushes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "entity_store_flush_total",
		Help: "Durable flushes per collection and outcome.",
	}, []string{"collection", "outcome"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "entity_store_conflict_retries_total",
		Help: "Version-token conflicts retried per collection.",
	}, []string{"collection"})
	reg.MustRegister(flushes, conflicts)
	return &StoreMetrics{flushes: flushes, conflicts: conflicts}
}

// IncFlush records a flush attempt outcome for the collection.
func (s *StoreMetrics) IncFlush(collection string, ok bool) {
	if s == nil || s.flushes == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	s.flushes.WithLabelValues(normalizeLabel(collection), outcome).Inc()
}

// IncConflictRetry records a stale-version retry for the collection.
func (s *StoreMetrics) IncConflictRetry(collection string) {
	if s == nil || s.conflicts == nil {
		return
	}
	s.conflicts.WithLabelValues(normalizeLabel(collection)).Inc()
}

// Package metrics exposes the engine's per-collection operation
// counters, snapshot-duration histogram and document-count gauge via
// an injected prometheus.Registerer. A nil Recorder (or one built
// without a registerer) is safe to call and records nothing — metrics
// are an optional, nil-safe addition, not a load-bearing dependency.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder wraps the prometheus collectors the engine emits.
type Recorder struct {
	operations       *prometheus.CounterVec
	snapshotDuration *prometheus.HistogramVec
	documents        *prometheus.GaugeVec
}

// New builds a Recorder and registers its collectors with reg. If reg
// is nil, New returns nil and every method on *Recorder becomes a
// documented no-op (nil receiver checks below).
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		return nil
	}
	r := &Recorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "docbase_operations_total",
			Help: "Count of collection operations by collection and operation name.",
		}, []string{"collection", "operation"}),
		snapshotDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docbase_snapshot_duration_seconds",
			Help:    "Duration of per-collection snapshot writes.",
			Buckets: prometheus.DefBuckets,
		}, []string{"collection"}),
		documents: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "docbase_collection_documents",
			Help: "Current document count per collection.",
		}, []string{"collection"}),
	}
	reg.MustRegister(r.operations, r.snapshotDuration, r.documents)
	return r
}

// ObserveOp records one occurrence of op against collection.
func (r *Recorder) ObserveOp(collection, op string) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(collection, op).Inc()
}

// ObserveSnapshot records a completed snapshot write's duration.
func (r *Recorder) ObserveSnapshot(collection string, d time.Duration) {
	if r == nil {
		return
	}
	r.snapshotDuration.WithLabelValues(collection).Observe(d.Seconds())
}

// SetDocuments sets the current document-count gauge for collection.
func (r *Recorder) SetDocuments(collection string, n int) {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(collection).Set(float64(n))
}

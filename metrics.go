package yum

import "github.com/prometheus/client_golang/prometheus"

// Recorder wraps a prometheus.Registry the way r3e-network-service_layer's
// pkg/metrics Recorder does, exposing the three update-level measurements
// spec.md §4.6's summary log line reports (packages added, packages
// deleted, update duration) as first-class collectors.
type Recorder struct {
	added    *prometheus.CounterVec
	deleted  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder registers this package's collectors against reg. Passing a
// nil reg returns a Recorder whose methods are safe no-ops, so instrumenting
// an update is always optional for the embedder.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	r := &Recorder{
		added: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yum_metadata_packages_added_total",
			Help: "Packages inserted into a cache database by an update call.",
		}, []string{"md_type"}),
		deleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yum_metadata_packages_deleted_total",
			Help: "Packages removed from a cache database by an update call.",
		}, []string{"md_type"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "yum_metadata_update_duration_seconds",
			Help:    "Wall-clock time of a single update call.",
			Buckets: prometheus.DefBuckets,
		}, []string{"md_type"}),
	}
	if reg != nil {
		reg.MustRegister(r.added, r.deleted, r.duration)
	}
	return r
}

func (r *Recorder) observe(mdType string, added, deleted uint32, seconds float64) {
	if r == nil {
		return
	}
	r.added.WithLabelValues(mdType).Add(float64(added))
	r.deleted.WithLabelValues(mdType).Add(float64(deleted))
	r.duration.WithLabelValues(mdType).Observe(seconds)
}

// Package metrics exposes reconciliation run metrics to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metric names.
const (
	MetricRunsTotal           = "reconciliation_runs_total"
	MetricRunDurationSeconds  = "reconciliation_run_duration_seconds"
	MetricEntriesSeenTotal    = "reconciliation_entries_seen_total"
	MetricMatchesCreatedTotal = "reconciliation_matches_created_total"
)

// Run outcomes used as the "result" label.
const (
	ResultSuccess           = "success"
	ResultCredentialMissing = "credential_missing"
	ResultUpstreamError     = "upstream_error"
	ResultSkippedLockHeld   = "skipped_lock_held"
)

// Recorder collects run metrics on its own registry.
type Recorder struct {
	registry       *prometheus.Registry
	runsTotal      *prometheus.CounterVec
	runDuration    prometheus.Histogram
	entriesSeen    prometheus.Counter
	matchesCreated prometheus.Counter
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	r := &Recorder{
		registry: registry,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRunsTotal,
			Help: "Reconciliation runs by result.",
		}, []string{"result"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRunDurationSeconds,
			Help:    "Wall time of reconciliation runs.",
			Buckets: prometheus.DefBuckets,
		}),
		entriesSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricEntriesSeenTotal,
			Help: "PIX credit entries examined.",
		}),
		matchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricMatchesCreatedTotal,
			Help: "Matched payments created.",
		}),
	}
	registry.MustRegister(
		r.runsTotal,
		r.runDuration,
		r.entriesSeen,
		r.matchesCreated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRun records one finished run. entries and matches are only added on success.
func (r *Recorder) ObserveRun(result string, elapsed time.Duration, entries, matches int) {
	if r == nil {
		return
	}
	r.runsTotal.WithLabelValues(result).Inc()
	r.runDuration.Observe(elapsed.Seconds())
	if result == ResultSuccess {
		r.entriesSeen.Add(float64(entries))
		r.matchesCreated.Add(float64(matches))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry (for testing).
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

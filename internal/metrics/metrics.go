// Package metrics records analysis counters on a private Prometheus registry
// and writes them in the node-exporter textfile format. A nil *Recorder is
// valid and records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the sbnet metrics.
type Recorder struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	eventsScanned    prometheus.Counter
	decisivePasses   *prometheus.CounterVec
	duelObservations *prometheus.CounterVec
	eventsSkipped    *prometheus.CounterVec
	analyses         prometheus.Counter
	matchingDuration prometheus.Histogram
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithNamespace sets the metric name prefix (default "sbnet").
func WithNamespace(ns string) Option {
	return func(r *Recorder) {
		if ns != "" {
			r.namespace = ns
		}
	}
}

// WithRegistry records onto an existing registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(r *Recorder) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// WithHistogramBuckets overrides the matching-duration buckets.
func WithHistogramBuckets(b []float64) Option {
	return func(r *Recorder) {
		if len(b) > 0 {
			r.buckets = b
		}
	}
}

// New returns a Recorder on its own registry unless WithRegistry is given.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		namespace: "sbnet",
		buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	}
	for _, o := range opts {
		o(r)
	}
	if r.registry == nil {
		r.registry = prometheus.NewRegistry()
	}

	auto := promauto.With(r.registry)
	r.eventsScanned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "events_scanned_total",
		Help:      "Events indexed across all analyses.",
	})
	r.decisivePasses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "decisive_passes_total",
		Help:      "Decisive pass observations emitted, by team.",
	}, []string{"team"})
	r.duelObservations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "duel_observations_total",
		Help:      "Scored duel observations, by rule.",
	}, []string{"rule"})
	r.eventsSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "events_skipped_total",
		Help:      "Candidate events dropped for data gaps, by stage.",
	}, []string{"stage"})
	r.analyses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "analyses_total",
		Help:      "Completed match analyses.",
	})
	r.matchingDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: r.namespace,
		Name:      "matching_duration_seconds",
		Help:      "Time spent in maximum-weight matching per graph.",
		Buckets:   r.buckets,
	})
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) EventsScanned(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.eventsScanned.Add(float64(n))
}

func (r *Recorder) DecisivePasses(team string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.decisivePasses.WithLabelValues(team).Add(float64(n))
}

func (r *Recorder) DuelObservations(rule string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.duelObservations.WithLabelValues(rule).Add(float64(n))
}

func (r *Recorder) EventsSkipped(stage string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.eventsSkipped.WithLabelValues(stage).Add(float64(n))
}

func (r *Recorder) AnalysisCompleted() {
	if r == nil {
		return
	}
	r.analyses.Inc()
}

// ObserveMatching records how long one matching took.
func (r *Recorder) ObserveMatching(d time.Duration) {
	if r == nil {
		return
	}
	r.matchingDuration.Observe(d.Seconds())
}

// WriteTextfile writes every metric to path in the textfile-collector format.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

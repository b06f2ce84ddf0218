package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes dashboard fetch metrics via Prometheus.
type Recorder struct {
	fetchesTotal *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	cyclesTotal  *prometheus.CounterVec
	lastClose    prometheus.Gauge
	fetchLatency *prometheus.HistogramVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on the given registry.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		fetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_fetches_total",
				Help: "Total number of upstream fetches by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cyclesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_refresh_cycles_total",
				Help: "Total number of refresh cycles by terminal state",
			},
			[]string{"state"},
		),
		lastClose: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stockpulse_last_close_price",
				Help: "Last close price of the tracked instrument",
			},
		),
		fetchLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_fetch_duration_seconds",
				Help:    "Duration of upstream fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
	}
}

// RecordFetch records a completed upstream fetch.
func (r *Recorder) RecordFetch(endpoint, outcome string) {
	r.fetchesTotal.WithLabelValues(endpoint, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCycle records a refresh cycle terminal state.
func (r *Recorder) RecordCycle(state string) {
	r.cyclesTotal.WithLabelValues(state).Inc()
}

// RecordLastClose records the most recent close price.
func (r *Recorder) RecordLastClose(price float64) {
	r.lastClose.Set(price)
}

// RecordFetchLatency records fetch latency in seconds.
func (r *Recorder) RecordFetchLatency(endpoint string, seconds float64) {
	r.fetchLatency.WithLabelValues(endpoint).Observe(seconds)
}

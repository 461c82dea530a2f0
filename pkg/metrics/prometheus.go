package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	quotesTotal   *prometheus.CounterVec
	rulesApplied  *prometheus.CounterVec
	rejectedTotal *prometheus.CounterVec
	cacheTotal    *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New registers the recorder's collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		quotesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mortgagecalc_quotes_total",
				Help: "Total number of quotes issued per mortgage product",
			},
			[]string{"product"},
		),
		rulesApplied: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mortgagecalc_rules_applied_total",
				Help: "Total number of pricing adjustments applied",
			},
			[]string{"rule"},
		),
		rejectedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mortgagecalc_requests_rejected_total",
				Help: "Quote requests rejected before pricing",
			},
			[]string{"reason"},
		),
		cacheTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mortgagecalc_quote_cache_total",
				Help: "Quote cache lookups by result",
			},
			[]string{"result"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mortgagecalc_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mortgagecalc_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordQuote(product string) {
	r.quotesTotal.WithLabelValues(product).Inc()
}

func (r *Recorder) RecordRuleApplied(rule string) {
	r.rulesApplied.WithLabelValues(rule).Inc()
}

func (r *Recorder) RecordRejected(reason string) {
	r.rejectedTotal.WithLabelValues(reason).Inc()
}

func (r *Recorder) RecordCache(result string) {
	r.cacheTotal.WithLabelValues(result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Noop discards every measurement.
type Noop struct{}

func (Noop) RecordQuote(string)            {}
func (Noop) RecordRuleApplied(string)      {}
func (Noop) RecordRejected(string)         {}
func (Noop) RecordCache(string)            {}
func (Noop) RecordError(string)            {}
func (Noop) RecordLatency(string, float64) {}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	index       *prometheus.GaugeVec
	level       *prometheus.CounterVec
	neutralized *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastPrice   *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New registers the recorder's collectors on the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers on reg; tests pass a fresh registry.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		index: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "meti_index_score",
				Help: "Latest computed score by component (final, market, geo)",
			},
			[]string{"component"},
		),
		level: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meti_index_computations_total",
				Help: "Index computations by resulting tension level",
			},
			[]string{"level"},
		),
		neutralized: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meti_neutralized_observations_total",
				Help: "Instrument timeframes scored as neutral because data was missing or failed",
			},
			[]string{"symbol", "timeframe"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meti_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "meti_last_price",
				Help: "Last observed reference price for an instrument",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meti_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordIndex(final, market, geo float64, level string) {
	r.index.WithLabelValues("final").Set(final)
	r.index.WithLabelValues("market").Set(market)
	r.index.WithLabelValues("geo").Set(geo)
	r.level.WithLabelValues(level).Inc()
}

func (r *Recorder) RecordNeutralized(symbol, timeframe string) {
	r.neutralized.WithLabelValues(symbol, timeframe).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

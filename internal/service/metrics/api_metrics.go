package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "meti",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of index API endpoints",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"endpoint"},
	)

	APIErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meti",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Errors by index API endpoint",
		},
		[]string{"endpoint", "kind"},
	)

	StreamClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "meti",
			Subsystem: "stream",
			Name:      "clients",
			Help:      "Connected WebSocket clients",
		},
	)
)

// Register adds the API collectors to the default registry once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(APILatency, APIErrors, StreamClients)
	})
}

// Observe records one endpoint call started at start.
func Observe(endpoint string, start time.Time) {
	APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func Fail(endpoint, kind string) {
	APIErrors.WithLabelValues(endpoint, kind).Inc()
}

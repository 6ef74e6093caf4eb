package rpc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics instruments the two in-scope RPC methods. Simulation results are
// never persisted, but request volume, latency, and fixed-point iteration
// counts are service health signals, not simulation state, so tracking them
// carries no such restriction.
var metrics = struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	accessListIters prometheus.Histogram
}{
	requests: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ganache",
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "Number of JSON-RPC requests handled, by method and outcome.",
	}, []string{"method", "outcome"}),
	duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ganache",
		Subsystem: "rpc",
		Name:      "request_duration_seconds",
		Help:      "Latency of JSON-RPC requests, by method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"}),
	accessListIters: promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ganache",
		Subsystem: "rpc",
		Name:      "create_access_list_iterations",
		Help:      "Fixed-point iterations consumed by eth_createAccessList.",
		Buckets:   []float64{1, 2, 3, 5, 10, 25, 100, 1000},
	}),
}

func observeOutcome(method string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.requests.WithLabelValues(method, outcome).Inc()
}

package hostaway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess      = "success"
	outcomeClientError  = "client_error"
	outcomeServerError  = "server_error"
	outcomeTimeout      = "timeout"
	outcomeCircuitOpen  = "circuit_open"
	outcomeTransportErr = "transport_error"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pms_upstream_requests_total",
		Help: "Requests sent to PMS providers, by operation and outcome.",
	}, []string{"provider", "operation", "outcome"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pms_upstream_request_duration_seconds",
		Help:    "Latency of requests sent to PMS providers.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
	}, []string{"provider", "operation"})
)

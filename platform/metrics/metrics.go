package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EngineOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cashflow_engine_operations_total",
		Help: "Engine operations processed, labeled by operation and outcome kind",
	}, []string{"op", "outcome"})

	EngineOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cashflow_engine_operation_duration_seconds",
		Help:    "Latency of engine operations including load and commit",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"op"})

	Events = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cashflow_events_total",
		Help: "Engine events published, labeled by kind",
	}, []string{"kind"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cashflow_http_requests_total",
		Help: "Total HTTP requests, labeled by status code",
	}, []string{"method", "route", "status"})
)

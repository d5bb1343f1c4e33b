package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	EvictExpired      = "expired"
	EvictUnauthorized = "unauthorized"
	EvictLogout       = "logout"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetpanel_http_requests_total",
		Help: "HTTP requests served, by route pattern, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fleetpanel_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	BackendCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetpanel_backend_calls_total",
		Help: "Calls to the REST backend, by method and outcome.",
	}, []string{"method", "outcome"})

	SessionEvictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetpanel_session_evictions_total",
		Help: "Sessions cleared, by reason.",
	}, []string{"reason"})

	GuardDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetpanel_guard_decisions_total",
		Help: "Route guard outcomes.",
	}, []string{"decision"})
)

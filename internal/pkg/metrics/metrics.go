package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wallet_dashboard"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by route and status code.",
	}, []string{"route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	UpstreamRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of calls to external collaborators.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"source", "operation"})

	UpstreamErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Failed calls to external collaborators.",
	}, []string{"source", "operation"})

	PricesResolvedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prices_resolved_total",
		Help:      "Asset prices resolved, by price source.",
	}, []string{"source"})

	DegradedPricesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degraded_prices_total",
		Help:      "Times the configured fallback SOL price was served.",
	})

	SnapshotCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_cache_lookups_total",
		Help:      "Snapshot cache lookups, by result (hit or miss).",
	}, []string{"result"})

	EndpointRotationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_endpoint_rotations_total",
		Help:      "RPC endpoint rotations, by the endpoint that failed.",
	}, []string{"endpoint"})
)

// MustRegisterMetrics registers every collector on reg.
func MustRegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		UpstreamRequestDuration,
		UpstreamErrorsTotal,
		PricesResolvedTotal,
		DegradedPricesTotal,
		SnapshotCacheLookups,
		EndpointRotationsTotal,
	)
}

// ObserveUpstream records the latency of an external call and counts it as failed when err is set.
func ObserveUpstream(source, operation string, started time.Time, err error) {
	UpstreamRequestDuration.WithLabelValues(source, operation).Observe(time.Since(started).Seconds())
	if err != nil {
		UpstreamErrorsTotal.WithLabelValues(source, operation).Inc()
	}
}

// Package metrics provides the centralized Prometheus metrics registry for
// wpexport. All metrics are defined in their respective packages (client,
// cache) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by wpexport.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/cache):
//   - wp_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - wp_cache_misses_total (Counter): Cache misses
//   - wp_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - wp_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - wp_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - wp_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - wp_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(wp_cache_hits_total[5m])) /
//   (sum(rate(wp_cache_hits_total[5m])) + sum(rate(wp_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(wp_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(wp_request_duration_seconds_bucket[5m]))

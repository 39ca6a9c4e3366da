// Package metrics documents the Prometheus metrics exposed by the
// Entrez client. All metrics are defined in their respective packages
// (client, cache, search) via promauto to keep registration local to the
// code that records them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registerer used by the library.
var Registry = prometheus.DefaultRegisterer

// Metrics Reference
//
// Request metrics (pkg/client):
//   - entrez_requests_total{endpoint, status} (Counter): requests by
//     endpoint (epost, efetch) and HTTP status ("network_error" for
//     connection failures)
//   - entrez_request_duration_seconds{endpoint} (Histogram): wall time
//     per remote call, retries included
//   - entrez_errors_total{class} (Counter): failures by class
//     (transient, fatal, config)
//
// Retry metrics (pkg/client):
//   - entrez_retries_total{endpoint} (Counter): retry attempts
//   - entrez_retry_backoff_seconds{endpoint} (Histogram): backoff waits
//   - entrez_retry_exhausted_total{endpoint} (Counter): calls that hit
//     the attempt cap
//
// Cache metrics (pkg/cache):
//   - entrez_cache_hits_total (Counter)
//   - entrez_cache_misses_total (Counter)
//   - entrez_cache_errors_total{operation} (Counter)
//
// Search metrics (pkg/search):
//   - entrez_search_batches_total{mode} (Counter): finished batches by
//     fetch mode (bulk, direct)
//   - entrez_search_aborts_total{cause} (Counter): aborted runs by cause
//     (post, fetch, parse)
//
// Example queries:
//
//   # Retry pressure
//   rate(entrez_retries_total[15m])
//
//   # Abort rate by cause
//   sum by (cause) (rate(entrez_search_aborts_total[1h]))
//
//   # Cache hit rate
//   rate(entrez_cache_hits_total[1h]) /
//   (rate(entrez_cache_hits_total[1h]) + rate(entrez_cache_misses_total[1h]))

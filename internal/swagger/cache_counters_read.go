package swagger

import "github.com/antonio-alexander/go-employee-directory/internal/data"

// swagger:route GET /api/cache/counters/ CacheCounter ReadCacheCounters
// Reads the hits and misses of every cache key.
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
// responses:
//   200: CacheCountersGetResponseOk

// swagger:response CacheCountersGetResponseOk
type CacheCountersGetResponseOk struct {
	// in:body
	CacheCounters data.CacheCounters `json:"cache_counters"`
}

// swagger:parameters ReadCacheCounters
type CacheCountersGetParams struct {
	// in:header
	CorrelationId string `json:"Correlation-Id"`
}

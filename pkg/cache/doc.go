// Package cache provides page-response caching with a Redis backend.
//
// The cache manager stores raw JSON page bodies keyed by resource path and
// query parameters, so repeated exports against the same endpoint skip the
// network entirely while entries are fresh:
//
// - Fixed TTL per entry (the WordPress REST API sends no usable expires header)
// - Automatic eviction via Redis key TTL
// - Prometheus metrics for observability
// - Deterministic cache key generation
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	// Create cache manager
//	manager := cache.NewManager(redisClient)
//
//	// Create cache key
//	key := cache.Key{
//		Resource: "wp-json/wp/v2/posts",
//		Query:    url.Values{"page": []string{"1"}, "per_page": []string{"100"}},
//	}
//
//	// Get from cache
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// Cache miss - fetch from the API
//	}
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - wp_cache_hits_total{layer="redis"} - Cache hits
//   - wp_cache_misses_total - Cache misses
//   - wp_cache_size_bytes{layer="redis"} - Cache size
//   - wp_cache_errors_total{operation} - Cache operation errors
package cache

package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key represents a unique identifier for a cached page response.
type Key struct {
	// Resource is the API resource path (e.g., "wp-json/wp/v2/posts")
	Resource string

	// Query are the request query parameters (e.g., {"page": "2", "per_page": "100"})
	Query url.Values
}

// String generates a deterministic cache key string.
// Format: wp:resource:query1=val1:query2=val2
//
// Example:
//
//	wp:wp-json/wp/v2/posts:page=2:per_page=100
func (k Key) String() string {
	parts := []string{"wp"}

	// Add resource (normalize path)
	resource := strings.Trim(k.Resource, "/")
	if resource != "" {
		parts = append(parts, resource)
	}

	// Add query params (sorted for determinism)
	if len(k.Query) > 0 {
		queryKeys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}

// Package paginator implements the sequential page-fetch loop for
// list-style REST endpoints.
//
// WordPress-style APIs page collections with 1-based "page" and "per_page"
// query parameters and signal the end of a collection with an empty JSON
// array. The fetcher walks pages in order, accumulating records until one of
// three stop conditions fires: an empty page, the configured page cap, or a
// transport failure.
//
// Example usage:
//
//	fetcher := paginator.New(apiClient)
//	records, result := fetcher.FetchAll(ctx, paginator.Options{
//		PerPage:  100,
//		MaxPages: 3,
//	})
//
// A transport failure stops the loop but keeps everything fetched so far:
// FetchAll never returns an error, it reports the stop reason (and the
// underlying failure, if any) in the Result.
package paginator

// Package export flattens raw API records into string fields and writes
// them as CSV.
//
// WordPress-style records mix plain scalars ("id", "date") with nested
// rendered mappings ("title": {"rendered": "<p>Hello</p>"}). A FieldValue
// keeps that distinction explicit: nested mappings contribute their
// "rendered" entry with literal <p> and </p> substrings removed, scalars
// contribute their string representation, and absent fields contribute
// nothing at all.
//
// Example usage:
//
//	records, _ := fetcher.FetchAll(ctx, paginator.Options{PerPage: 100})
//	err := export.Export(records, "out/posts.csv", []string{"title", "content"})
//
// The CSV header is derived solely from the first flattened record: later
// records with extra keys have those keys dropped, and missing keys render
// as empty cells.
package export

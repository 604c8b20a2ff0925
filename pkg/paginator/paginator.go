package paginator

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/wpexport/wpexport/pkg/logging"
)

// Source is the transport capability the fetcher needs: perform a single
// page GET and return the raw JSON body.
type Source interface {
	GetPage(ctx context.Context, params url.Values) ([]byte, error)
}

// Options controls a paginated fetch.
type Options struct {
	// Params are extra query parameters merged into every request.
	// The pagination controls ("page", "per_page") always win over Params.
	Params url.Values

	// PerPage is the item count requested per page (default: 100).
	PerPage int

	// MaxPages caps the number of pages issued. Zero means unbounded:
	// the loop then relies on the API eventually returning an empty page.
	MaxPages int
}

// StopReason identifies which condition terminated the fetch loop.
type StopReason string

const (
	// StopEmptyPage means the API returned an empty array (natural end).
	StopEmptyPage StopReason = "empty_page"

	// StopMaxPagesReached means the configured page cap was hit.
	StopMaxPagesReached StopReason = "max_pages_reached"

	// StopTransportError means a page request failed; everything fetched
	// before the failure is kept.
	StopTransportError StopReason = "transport_error"
)

// Result describes how a fetch ended.
type Result struct {
	// Pages is the number of pages whose records were accumulated.
	Pages int

	// Records is the total record count across all accumulated pages.
	Records int

	// Reason is the stop condition that ended the loop.
	Reason StopReason

	// Err is the underlying transport failure when Reason is
	// StopTransportError. It is diagnostic only and never fatal.
	Err error
}

// Fetcher walks a paginated collection sequentially.
type Fetcher struct {
	source Source
	logger zerolog.Logger
}

// New creates a fetcher over the given page source.
func New(source Source) *Fetcher {
	return &Fetcher{
		source: source,
		logger: logging.NewLogger("paginator"),
	}
}

// FetchAll fetches pages starting at 1 until a stop condition fires and
// returns the accumulated records in API return order, concatenated across
// pages in ascending page order. Duplicates across pages are preserved.
//
// A transport failure is a silent partial success: the records collected so
// far are returned together with a Result carrying the failure.
func (f *Fetcher) FetchAll(ctx context.Context, opts Options) ([]json.RawMessage, Result) {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = 100
	}

	f.logger.Info().
		Int("per_page", perPage).
		Int("max_pages", opts.MaxPages).
		Msg("Starting paginated fetch")

	var records []json.RawMessage
	pages := 0

	for page := 1; ; page++ {
		body, err := f.source.GetPage(ctx, pageParams(opts.Params, perPage, page))
		if err != nil {
			f.logger.Warn().
				Err(err).
				Int("page", page).
				Int("records", len(records)).
				Msg("Page fetch failed - returning partial results")
			return records, Result{
				Pages:   pages,
				Records: len(records),
				Reason:  StopTransportError,
				Err:     err,
			}
		}

		var pageRecords []json.RawMessage
		if err := json.Unmarshal(body, &pageRecords); err != nil {
			// Not a JSON array. Treated like a failed page: keep what we have.
			f.logger.Warn().
				Err(err).
				Int("page", page).
				Msg("Unexpected response shape - returning partial results")
			return records, Result{
				Pages:   pages,
				Records: len(records),
				Reason:  StopTransportError,
				Err:     err,
			}
		}

		if len(pageRecords) == 0 {
			f.logger.Info().
				Int("pages", pages).
				Int("records", len(records)).
				Msg("Fetch complete (empty page)")
			return records, Result{
				Pages:   pages,
				Records: len(records),
				Reason:  StopEmptyPage,
			}
		}

		records = append(records, pageRecords...)
		pages++

		f.logger.Debug().
			Int("page", page).
			Int("page_records", len(pageRecords)).
			Int("records", len(records)).
			Msg("Page fetched")

		if opts.MaxPages > 0 && page >= opts.MaxPages {
			f.logger.Info().
				Int("pages", pages).
				Int("records", len(records)).
				Msg("Fetch complete (max pages reached)")
			return records, Result{
				Pages:   pages,
				Records: len(records),
				Reason:  StopMaxPagesReached,
			}
		}
	}
}

// pageParams builds the query parameters for one page request. Caller
// parameters are merged in first so the pagination controls always win.
func pageParams(extra url.Values, perPage, page int) url.Values {
	params := url.Values{}
	for key, values := range extra {
		for _, v := range values {
			params.Add(key, v)
		}
	}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	return params
}

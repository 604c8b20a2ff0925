// Package testutil provides testing utilities for wpexport.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock API endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockWordPress is a configurable mock WordPress REST API server for testing.
type MockWordPress struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
	LastQuery         url.Values
	Queries           []url.Values
}

// NewMockWordPress creates a new mock WordPress API server.
func NewMockWordPress() *MockWordPress {
	mock := &MockWordPress{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.LastQuery = r.URL.Query()
		mock.Queries = append(mock.Queries, r.URL.Query())
		mock.mu.Unlock()

		// Check for custom handler
		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		// Default handler
		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockWordPress) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockWordPress) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockWordPress) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequestHeader = nil
	m.LastQuery = nil
	m.Queries = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockWordPress) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockWordPress) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		// Add delay if specified
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		// Set headers
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		// Write status and body
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetPagedResponse configures a path to serve the given JSON array bodies by
// their 1-based "page" query parameter. Pages past the end return "[]",
// mirroring how the WordPress API signals the end of a collection.
func (m *MockWordPress) SetPagedResponse(path string, pages []string) {
	m.SetHandler(path, PagedHandler(pages))
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockWordPress) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetQueries returns a copy of all recorded request query parameter sets.
func (m *MockWordPress) GetQueries() []url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	queries := make([]url.Values, len(m.Queries))
	copy(queries, m.Queries)
	return queries
}

// defaultHandler provides a default empty-collection response.
func (m *MockWordPress) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`[]`))
}

// PagedHandler creates a handler that serves JSON array bodies keyed by the
// "page" query parameter and an empty array past the last page.
func PagedHandler(pages []string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		w.WriteHeader(http.StatusOK)
		if page > len(pages) {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(pages[page-1]))
	}
}

// FailAfterHandler creates a handler that serves body for pages up to
// lastGoodPage and answers 500 for every page after it.
func FailAfterHandler(body string, lastGoodPage int) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		if page > lastGoodPage {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"code": "internal_server_error"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}

// NewHealthyResponse creates a standard 200 OK JSON response.
func NewHealthyResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewNotFoundResponse creates a 404 response in the WordPress error shape.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"code": "rest_no_route", "message": "No route was found matching the URL and request method."}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"code": "internal_server_error", "message": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// Post builds a minimal WordPress post object with rendered title and content.
func Post(title, content string) string {
	return `{"title": {"rendered": "` + title + `"}, "content": {"rendered": "` + content + `"}}`
}

package client

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wpexport/wpexport/internal/testutil"
)

// setupTestRedis creates a test Redis client, skipping when unavailable.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid config",
			config: Config{
				BaseURL:   "https://example.wordpress.com",
				UserAgent: "wpexport-test/1.0",
			},
			expectError: false,
		},
		{
			name: "empty base URL",
			config: Config{
				UserAgent: "wpexport-test/1.0",
			},
			expectError: true,
			errorMsg:    "base URL is required",
		},
		{
			name: "empty user agent",
			config: Config{
				BaseURL: "https://example.wordpress.com",
			},
			expectError: true,
			errorMsg:    "user-agent is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
					return
				}
				if client == nil {
					t.Error("Client is nil")
				}
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("https://example.wordpress.com")

	if cfg.BaseURL != "https://example.wordpress.com" {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, "https://example.wordpress.com")
	}
	if cfg.Resource != DefaultResource {
		t.Errorf("Resource = %q, want %q", cfg.Resource, DefaultResource)
	}
	if cfg.UserAgent == "" {
		t.Error("UserAgent should have a default")
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
}

func TestNew_NormalizesPaths(t *testing.T) {
	client, err := New(Config{
		BaseURL:   "https://example.wordpress.com/",
		Resource:  "/wp-json/wp/v2/pages/",
		UserAgent: "wpexport-test/1.0",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if client.config.BaseURL != "https://example.wordpress.com" {
		t.Errorf("BaseURL = %q, trailing slash should be trimmed", client.config.BaseURL)
	}
	if client.Resource() != "wp-json/wp/v2/pages" {
		t.Errorf("Resource() = %q, surrounding slashes should be trimmed", client.Resource())
	}
}

func newTestClient(t *testing.T, mock *testutil.MockWordPress) *Client {
	t.Helper()

	cfg := DefaultConfig(mock.URL())
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestGetPage_Success(t *testing.T) {
	mock := testutil.NewMockWordPress()
	defer mock.Close()

	body := `[` + testutil.Post("Hello", "World") + `]`
	mock.SetResponse("/"+DefaultResource, testutil.NewHealthyResponse(body))

	client := newTestClient(t, mock)

	got, err := client.GetPage(context.Background(), url.Values{"page": []string{"1"}})
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if string(got) != body {
		t.Errorf("GetPage body = %s, want %s", got, body)
	}
}

func TestGetPage_SetsHeaders(t *testing.T) {
	mock := testutil.NewMockWordPress()
	defer mock.Close()

	client := newTestClient(t, mock)

	if _, err := client.GetPage(context.Background(), nil); err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}

	ua := mock.LastRequestHeader.Get("User-Agent")
	if !strings.HasPrefix(ua, "wpexport/") {
		t.Errorf("User-Agent = %q, want wpexport/... prefix", ua)
	}
	if accept := mock.LastRequestHeader.Get("Accept"); accept != "application/json" {
		t.Errorf("Accept = %q, want application/json", accept)
	}
}

func TestGetPage_PassesQueryParameters(t *testing.T) {
	mock := testutil.NewMockWordPress()
	defer mock.Close()

	client := newTestClient(t, mock)

	params := url.Values{
		"page":       []string{"2"},
		"per_page":   []string{"50"},
		"categories": []string{"5"},
	}
	if _, err := client.GetPage(context.Background(), params); err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}

	for key, want := range map[string]string{"page": "2", "per_page": "50", "categories": "5"} {
		if got := mock.LastQuery.Get(key); got != want {
			t.Errorf("Query %s = %q, want %q", key, got, want)
		}
	}
}

func TestGetPage_ClientError(t *testing.T) {
	mock := testutil.NewMockWordPress()
	defer mock.Close()

	mock.SetResponse("/"+DefaultResource, testutil.NewNotFoundResponse())

	client := newTestClient(t, mock)

	_, err := client.GetPage(context.Background(), nil)
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if apiErr.ErrorClass != ErrorClassClient {
		t.Errorf("ErrorClass = %q, want %q", apiErr.ErrorClass, ErrorClassClient)
	}
}

func TestGetPage_ServerError(t *testing.T) {
	mock := testutil.NewMockWordPress()
	defer mock.Close()

	mock.SetResponse("/"+DefaultResource, testutil.NewServerErrorResponse())

	client := newTestClient(t, mock)

	_, err := client.GetPage(context.Background(), nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.ErrorClass != ErrorClassServer {
		t.Errorf("ErrorClass = %q, want %q", apiErr.ErrorClass, ErrorClassServer)
	}
}

func TestGetPage_NetworkError(t *testing.T) {
	// Point at a server that is no longer listening.
	mock := testutil.NewMockWordPress()
	addr := mock.URL()
	mock.Close()

	cfg := DefaultConfig(addr)
	cfg.Timeout = 2 * time.Second
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = client.GetPage(context.Background(), nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %v", err)
	}
	if apiErr.ErrorClass != ErrorClassNetwork {
		t.Errorf("ErrorClass = %q, want %q", apiErr.ErrorClass, ErrorClassNetwork)
	}
}

func TestGetPage_NoRetries(t *testing.T) {
	mock := testutil.NewMockWordPress()
	defer mock.Close()

	mock.SetResponse("/"+DefaultResource, testutil.NewServerErrorResponse())

	client := newTestClient(t, mock)

	if _, err := client.GetPage(context.Background(), nil); err == nil {
		t.Fatal("Expected error for 500 response")
	}

	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("Request count = %d, want 1 (no retries)", got)
	}
}

func TestGetPage_CachesPages(t *testing.T) {
	redisClient := setupTestRedis(t)

	mock := testutil.NewMockWordPress()
	defer mock.Close()

	body := `[` + testutil.Post("Cached", "Body") + `]`
	mock.SetResponse("/"+DefaultResource, testutil.NewHealthyResponse(body))

	cfg := DefaultConfig(mock.URL())
	cfg.Redis = redisClient
	cfg.CacheTTL = time.Minute
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	params := url.Values{"page": []string{"1"}, "per_page": []string{"100"}}

	first, err := client.GetPage(context.Background(), params)
	if err != nil {
		t.Fatalf("First GetPage failed: %v", err)
	}

	second, err := client.GetPage(context.Background(), params)
	if err != nil {
		t.Fatalf("Second GetPage failed: %v", err)
	}

	if string(first) != string(second) {
		t.Error("Cached body differs from original")
	}
	if got := mock.GetRequestCount(); got != 1 {
		t.Errorf("Request count = %d, want 1 (second page served from cache)", got)
	}
}

func TestGetPage_CacheKeyIncludesQuery(t *testing.T) {
	redisClient := setupTestRedis(t)

	mock := testutil.NewMockWordPress()
	defer mock.Close()

	mock.SetPagedResponse("/"+DefaultResource, []string{
		`[` + testutil.Post("One", "1") + `]`,
		`[` + testutil.Post("Two", "2") + `]`,
	})

	cfg := DefaultConfig(mock.URL())
	cfg.Redis = redisClient
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	page1, err := client.GetPage(context.Background(), url.Values{"page": []string{"1"}})
	if err != nil {
		t.Fatalf("GetPage page 1 failed: %v", err)
	}
	page2, err := client.GetPage(context.Background(), url.Values{"page": []string{"2"}})
	if err != nil {
		t.Fatalf("GetPage page 2 failed: %v", err)
	}

	if string(page1) == string(page2) {
		t.Error("Different pages must not collide in the cache")
	}
	if got := mock.GetRequestCount(); got != 2 {
		t.Errorf("Request count = %d, want 2", got)
	}
}

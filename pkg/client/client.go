// Package client provides the HTTP client for WordPress-style REST APIs
// with optional page caching and error classification.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/wpexport/wpexport/pkg/cache"
	"github.com/wpexport/wpexport/pkg/logging"
)

// Prometheus metrics for API client operations.
var (
	wpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wp_requests_total",
		Help: "Total API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	wpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wp_request_duration_seconds",
		Help:    "API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	wpErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wp_errors_total",
		Help: "Total API errors by class",
	}, []string{"class"})
)

// ErrorClass represents a classification of HTTP errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// DefaultResource is the standard WordPress posts collection.
const DefaultResource = "wp-json/wp/v2/posts"

// Client fetches pages from a single configured API resource.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration. Immutable once passed to New.
type Config struct {
	// BaseURL is the site address (e.g., "https://example.wordpress.com").
	BaseURL string

	// Resource is the API path fetched by GetPage (default: posts collection).
	Resource string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout for each page request.
	Timeout time.Duration

	// Redis enables page caching when set. Nil disables caching.
	Redis *redis.Client

	// CacheTTL is how long cached pages stay fresh.
	CacheTTL time.Duration
}

// DefaultConfig returns a safe default configuration for a site.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:   baseURL,
		Resource:  DefaultResource,
		UserAgent: "wpexport/0.1.0",
		Timeout:   30 * time.Second,
		CacheTTL:  5 * time.Minute,
	}
}

// New creates a new API client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Resource == "" {
		cfg.Resource = DefaultResource
	}
	cfg.Resource = strings.Trim(cfg.Resource, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	logger := logging.NewLogger("wp-client")

	// Page cache is optional
	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager = cache.NewManager(cfg.Redis)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:  cacheManager,
		config: cfg,
		logger: logger,
	}, nil
}

// Resource returns the configured API resource path.
func (c *Client) Resource() string {
	return c.config.Resource
}

// GetPage performs a single GET against the configured resource with the
// given query parameters and returns the raw JSON body.
//
// A non-2xx status or network failure returns an *APIError; no retries are
// attempted. Cached pages are served without touching the network.
func (c *Client) GetPage(ctx context.Context, params url.Values) ([]byte, error) {
	endpoint := "/" + c.config.Resource

	// Request timing
	startTime := time.Now()
	defer func() {
		wpRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	// Check cache first
	cacheKey := cache.Key{
		Resource: c.config.Resource,
		Query:    params,
	}

	if c.cache != nil {
		entry, err := c.cache.Get(ctx, cacheKey)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
		if entry != nil {
			c.logger.Debug().
				Str("endpoint", endpoint).
				Dur("ttl", entry.TTL()).
				Msg("Serving page from cache")
			return entry.Data, nil
		}
	}

	// Build request
	reqURL := c.config.BaseURL + endpoint
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("query", params.Encode()).
		Msg("Executing API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		wpErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		wpRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, &APIError{
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	wpRequestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errClass := classifyStatus(resp.StatusCode)
		wpErrorsTotal.WithLabelValues(string(errClass)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("API request error")

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		wpErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		}
	}

	// Cache the page body
	if c.cache != nil {
		entry := cache.NewEntry(body, resp.StatusCode, c.config.CacheTTL)
		if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache page")
		} else {
			c.logger.Debug().
				Str("endpoint", endpoint).
				Dur("ttl", entry.TTL()).
				Msg("Cached page")
		}
	}

	return body, nil
}

// classifyStatus categorizes an HTTP status code for observability and handling.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Signer produces authentication headers for a request.
type Signer interface {
	SignRequest(method, path string) (map[string]string, error)
}

// Client provides access to the Kalshi REST API.
type Client struct {
	baseURL    string
	signer     Signer
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
	pageSize     int
	pageDelay    time.Duration

	// sleep is swapped out in tests to observe backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client. Every request is signed with the
// given signer.
func NewClient(baseURL string, signer Signer, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		signer:  signer,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   5,
		retryBackoff: 2 * time.Second,
		pageSize:     1000,
		pageDelay:    100 * time.Millisecond,
		sleep:        sleepCtx,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the rate-limit retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithPagination sets the page size and the politeness delay between pages.
func WithPagination(size int, delay time.Duration) ClientOption {
	return func(c *Client) {
		c.pageSize = size
		c.pageDelay = delay
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ErrRetriesExhausted is returned when every rate-limit retry has been spent.
var ErrRetriesExhausted = errors.New("max retries exceeded")

// APIError represents an error response from the Kalshi API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kalshi api error %d: %s", e.StatusCode, e.Message)
}

// IsRateLimit reports whether the error is an HTTP 429.
func (e *APIError) IsRateLimit() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsRateLimited reports whether err is a rate-limit API error.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsRateLimit()
}

// doRequest performs a single signed HTTP request.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "kalshi-volumes/1.0")

	if c.signer != nil {
		// The signature covers the path only, never the query string.
		headers, err := c.signer.SignRequest(method, path)
		if err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// doWithRetry performs a request, retrying rate-limit responses with
// exponential backoff (backoff × 2^attempt). Any other error status
// propagates immediately.
func (c *Client) doWithRetry(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		body, err := c.doRequest(ctx, method, path, query)
		if err == nil {
			return body, nil
		}

		if !IsRateLimited(err) {
			return nil, err
		}

		wait := c.retryBackoff * (1 << attempt)
		c.logger.Warn("rate limited, backing off",
			"path", path,
			"wait", wait,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
		)

		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %s %s after %d attempts", ErrRetriesExhausted, method, path, c.maxRetries)
}

// get performs a GET request with rate-limit retries and decodes the
// JSON response into result.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := c.doWithRetry(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}

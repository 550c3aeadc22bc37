package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// GetMarkets fetches market metadata for a set of tickers in one request.
func (c *Client) GetMarkets(ctx context.Context, tickers []string) (*MarketsResponse, error) {
	query := url.Values{}
	if len(tickers) > 0 {
		query.Set("tickers", strings.Join(tickers, ","))
	}

	var resp MarketsResponse
	if err := c.get(ctx, "/markets", query, &resp); err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}

	return &resp, nil
}

package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// GetEvents fetches event metadata for a set of event tickers in one request.
func (c *Client) GetEvents(ctx context.Context, eventTickers []string) (*EventsResponse, error) {
	query := url.Values{}
	if len(eventTickers) > 0 {
		query.Set("event_tickers", strings.Join(eventTickers, ","))
	}

	var resp EventsResponse
	if err := c.get(ctx, "/events", query, &resp); err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}

	return &resp, nil
}

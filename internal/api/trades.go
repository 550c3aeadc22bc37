package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// GetTrades fetches a single page of trades.
func (c *Client) GetTrades(ctx context.Context, opts GetTradesOptions) (*TradesResponse, error) {
	query := url.Values{}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}
	query.Set("min_ts", strconv.FormatInt(opts.MinTS, 10))
	query.Set("max_ts", strconv.FormatInt(opts.MaxTS, 10))

	var resp TradesResponse
	if err := c.get(ctx, "/markets/trades", query, &resp); err != nil {
		return nil, fmt.Errorf("get trades: %w", err)
	}

	return &resp, nil
}

// GetAllTrades fetches every trade in the UTC span [minTS, maxTS) by
// following the pagination cursor until none remains. Trades are returned
// in server order. A short delay is applied between pages.
func (c *Client) GetAllTrades(ctx context.Context, minTS, maxTS int64) ([]APITrade, error) {
	c.logger.Info("fetching trades", "min_ts", minTS, "max_ts", maxTS)

	var allTrades []APITrade
	opts := GetTradesOptions{Limit: c.pageSize, MinTS: minTS, MaxTS: maxTS}
	page := 0

	for {
		resp, err := c.GetTrades(ctx, opts)
		if err != nil {
			return nil, err
		}

		allTrades = append(allTrades, resp.Trades...)
		page++

		if page%100 == 0 {
			c.logger.Info("trade fetch progress",
				"pages", page,
				"page_trades", len(resp.Trades),
				"total_trades", len(allTrades),
			)
		}

		if resp.Cursor == "" {
			break
		}
		opts.Cursor = resp.Cursor

		if c.pageDelay > 0 {
			if err := c.sleep(ctx, c.pageDelay); err != nil {
				return nil, err
			}
		}
	}

	c.logger.Info("trade fetch complete", "pages", page, "trades", len(allTrades))
	return allTrades, nil
}

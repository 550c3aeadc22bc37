package api

import "encoding/json"

// TradesResponse from GET /markets/trades
type TradesResponse struct {
	Trades []APITrade `json:"trades"`
	Cursor string     `json:"cursor"`
}

// APITrade represents a trade from the Kalshi API.
//
// The occurrence timestamp has appeared under several names and encodings
// (epoch seconds, epoch milliseconds, ISO 8601 text) across API versions;
// every candidate field is captured raw and decoded by ToModel.
type APITrade struct {
	TradeID string `json:"trade_id"`
	Ticker  string `json:"ticker"`
	Count   int64  `json:"count"`

	CreatedTime json.RawMessage `json:"created_time"`
	CreatedTS   json.RawMessage `json:"created_ts"`
	TS          json.RawMessage `json:"ts"`
	Timestamp   json.RawMessage `json:"timestamp"`
}

// MarketsResponse from GET /markets
type MarketsResponse struct {
	Markets []APIMarket `json:"markets"`
	Cursor  string      `json:"cursor"`
}

// APIMarket represents a market from the Kalshi API. Only the fields the
// pipeline classifies on are decoded.
type APIMarket struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Category    string `json:"category"`
}

// EventsResponse from GET /events
type EventsResponse struct {
	Events []APIEvent `json:"events"`
	Cursor string     `json:"cursor"`
}

// APIEvent represents an event from the Kalshi API.
type APIEvent struct {
	// The event identifier has been served as both "ticker" and
	// "event_ticker"; either may be set.
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Category    string `json:"category"`
}

// GetTradesOptions configures a GetTrades request.
type GetTradesOptions struct {
	Limit  int
	Cursor string
	MinTS  int64 // inclusive lower bound, epoch seconds UTC
	MaxTS  int64 // exclusive upper bound, epoch seconds UTC
}

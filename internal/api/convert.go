package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/kalshi-volumes/internal/model"
)

// ErrNoTimestamp is returned when none of a trade's timestamp fields parse.
var ErrNoTimestamp = errors.New("trade has no parseable timestamp")

// millisCutoff: epoch values above this are treated as milliseconds.
// 1e12 seconds is the year 33658, 1e12 milliseconds is September 2001.
const millisCutoff = 1e12

// EpochSeconds normalizes a numeric epoch value to seconds, detecting
// millisecond inputs by magnitude.
func EpochSeconds(x float64) int64 {
	if x > millisCutoff {
		return int64(x / 1000.0)
	}
	return int64(x)
}

// ParseTimestampString parses a timestamp in any recognized textual form:
// a digit string (epoch seconds or milliseconds) or ISO 8601 with or
// without a timezone offset. Naked local times are treated as UTC.
func ParseTimestampString(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty timestamp")
	}

	if isDigits(s) {
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("parse epoch %q: %w", s, err)
		}
		return EpochSeconds(x), nil
	}

	// time.Parse accepts fractional seconds even when the layout omits them.
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05-0700",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), nil
		}
	}

	// No offset at all: treat as UTC.
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC); err == nil {
		return t.Unix(), nil
	}

	return 0, fmt.Errorf("unrecognized timestamp format: %q", s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// parseTradeTime decodes one raw timestamp field, which may be a JSON
// number or a JSON string.
func parseTradeTime(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, errors.New("missing timestamp field")
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return EpochSeconds(num), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseTimestampString(s)
	}

	return 0, fmt.Errorf("timestamp is neither number nor string: %s", raw)
}

// ToModel converts an APITrade to a model.Trade. The occurrence time is
// taken from the first timestamp field that parses; ErrNoTimestamp is
// returned when no field does, and the caller drops the trade.
func (t *APITrade) ToModel() (model.Trade, error) {
	var ts int64
	parsed := false
	for _, raw := range []json.RawMessage{t.CreatedTime, t.CreatedTS, t.TS, t.Timestamp} {
		v, err := parseTradeTime(raw)
		if err != nil {
			continue
		}
		ts = v
		parsed = true
		break
	}
	if !parsed {
		return model.Trade{}, ErrNoTimestamp
	}

	// Trade IDs are informational; a malformed one is left zero rather than
	// failing the trade.
	tradeID, _ := uuid.Parse(t.TradeID)

	count := t.Count
	if count < 0 {
		count = 0
	}

	return model.Trade{
		TradeID: tradeID,
		Ticker:  t.Ticker,
		TS:      ts,
		Count:   count,
	}, nil
}

// ToMeta converts an APIMarket to its classification metadata, trimming
// whitespace the upstream occasionally includes.
func (m *APIMarket) ToMeta() model.MarketMeta {
	return model.MarketMeta{
		Category:    strings.TrimSpace(m.Category),
		EventTicker: strings.TrimSpace(m.EventTicker),
	}
}

// ResolvedTicker returns the event's identifier, whichever field carried it.
func (e *APIEvent) ResolvedTicker() string {
	if t := strings.TrimSpace(e.Ticker); t != "" {
		return t
	}
	return strings.TrimSpace(e.EventTicker)
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Upstream Types
// -----------------------------------------------------------------------------

// Trade represents an executed trade pulled from the exchange.
type Trade struct {
	TradeID uuid.UUID // Exchange-assigned trade ID
	Ticker  string    // Market ticker
	TS      int64     // Occurrence time (seconds since epoch, UTC)
	Count   int64     // Number of contracts traded
}

// MarketMeta holds the classification metadata looked up for a market.
type MarketMeta struct {
	Category    string // Free-text category label, may be empty
	EventTicker string // Owning event ticker, may be empty
}

// CategorySource records where a market's resolved category came from.
type CategorySource string

const (
	SourceMarket CategorySource = "market" // category on the market itself
	SourceEvent  CategorySource = "event"  // fallback to the owning event
	SourceNone   CategorySource = "none"   // neither carried a category
)

// CategoryInfo is the final category resolution for one ticker.
type CategoryInfo struct {
	Category    string
	Source      CategorySource
	EventTicker string
}

// -----------------------------------------------------------------------------
// Sports
// -----------------------------------------------------------------------------

// Sport is a normalized sport tag.
type Sport string

const (
	SportNone       Sport = ""
	SportNFL        Sport = "nfl"
	SportMLB        Sport = "mlb"
	SportWNBA       Sport = "wnba"
	SportNBA        Sport = "nba"
	SportNHL        Sport = "nhl"
	SportSoccer     Sport = "soccer"
	SportGolf       Sport = "golf"
	SportMotorsport Sport = "motorsport"
	SportTennis     Sport = "tennis"
	SportNCAAM      Sport = "ncaam"
	SportNCAAW      Sport = "ncaaw"
	SportNCAAF      Sport = "ncaaf"
	SportCombat     Sport = "combat"
)

// Sports enumerates every recognized sport in canonical order. The order is
// load-bearing: classifier rules are evaluated in this order (first match
// wins) and output columns are emitted in this order.
var Sports = []Sport{
	SportNFL,
	SportMLB,
	SportWNBA,
	SportNBA,
	SportNHL,
	SportSoccer,
	SportGolf,
	SportMotorsport,
	SportTennis,
	SportNCAAM,
	SportNCAAW,
	SportNCAAF,
	SportCombat,
}

// -----------------------------------------------------------------------------
// Output Types
// -----------------------------------------------------------------------------

// Date is a calendar day in the pipeline's local timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the Date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String formats the date as ISO 8601 (YYYY-MM-DD).
func (d Date) String() string {
	return d.Time(time.UTC).Format("2006-01-02")
}

// Time returns midnight of the date in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.Time(time.UTC).Before(other.Time(time.UTC))
}

// After reports whether d is later than other.
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// DailyVolume is one output row: traded volume for a single local calendar
// day, broken down by sport.
//
// Invariants:
//   - SportsVolume <= TotalVolume
//   - sum over BySport == SportsVolume (each trade counts toward at most one sport)
//   - SportsPct == round(SportsVolume/TotalVolume*100, 4 dp), 0 when TotalVolume is 0
type DailyVolume struct {
	Date         Date
	TotalVolume  int64
	SportsVolume int64
	SportsPct    float64
	BySport      map[Sport]int64
}

// SportVolume returns the volume recorded for s, 0 if absent.
func (v *DailyVolume) SportVolume(s Sport) int64 {
	if v.BySport == nil {
		return 0
	}
	return v.BySport[s]
}

package metadata

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rickgao/kalshi-volumes/internal/api"
	"github.com/rickgao/kalshi-volumes/internal/model"
)

// fakeLookup scripts responses per request.
type fakeLookup struct {
	marketCalls [][]string
	eventCalls  [][]string

	markets func(call int, tickers []string) (*api.MarketsResponse, error)
	events  func(call int, eventTickers []string) (*api.EventsResponse, error)
}

func (f *fakeLookup) GetMarkets(ctx context.Context, tickers []string) (*api.MarketsResponse, error) {
	f.marketCalls = append(f.marketCalls, tickers)
	return f.markets(len(f.marketCalls), tickers)
}

func (f *fakeLookup) GetEvents(ctx context.Context, eventTickers []string) (*api.EventsResponse, error) {
	f.eventCalls = append(f.eventCalls, eventTickers)
	return f.events(len(f.eventCalls), eventTickers)
}

func newTestResolver(t *testing.T, client Lookup) (*Resolver, *[]time.Duration) {
	t.Helper()
	r := NewResolver(client, Config{
		TickerBatch:   2,
		EventBatch:    2,
		RequestDelay:  time.Second,
		RateLimitWait: 10 * time.Second,
	}, slog.Default())

	var slept []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return r, &slept
}

func marketsFor(tickers []string) *api.MarketsResponse {
	resp := &api.MarketsResponse{}
	for _, tkr := range tickers {
		resp.Markets = append(resp.Markets, api.APIMarket{
			Ticker:      tkr,
			Category:    "cat-" + tkr,
			EventTicker: "EV-" + tkr,
		})
	}
	return resp
}

func TestResolveMarkets_Chunking(t *testing.T) {
	client := &fakeLookup{
		markets: func(call int, tickers []string) (*api.MarketsResponse, error) {
			return marketsFor(tickers), nil
		},
	}
	r, slept := newTestResolver(t, client)

	out, failed := r.ResolveMarkets(context.Background(), []string{"E", "C", "A", "D", "B"})
	if len(failed) != 0 {
		t.Fatalf("failed = %v, want none", failed)
	}
	if len(out) != 5 {
		t.Fatalf("got %d entries, want 5", len(out))
	}

	// Sorted input split into batches of 2.
	wantCalls := [][]string{{"A", "B"}, {"C", "D"}, {"E"}}
	if len(client.marketCalls) != len(wantCalls) {
		t.Fatalf("made %d calls, want %d", len(client.marketCalls), len(wantCalls))
	}
	for i, want := range wantCalls {
		if strings.Join(client.marketCalls[i], ",") != strings.Join(want, ",") {
			t.Errorf("call %d = %v, want %v", i, client.marketCalls[i], want)
		}
	}

	// Politeness delay between chunks, none after the last.
	if len(*slept) != 2 {
		t.Errorf("slept %d times, want 2", len(*slept))
	}

	if out["A"].Category != "cat-A" || out["A"].EventTicker != "EV-A" {
		t.Errorf("out[A] = %+v", out["A"])
	}
}

func TestResolveMarkets_FailedChunkOmitted(t *testing.T) {
	client := &fakeLookup{
		markets: func(call int, tickers []string) (*api.MarketsResponse, error) {
			if call == 2 {
				return nil, &api.APIError{StatusCode: 404, Message: "Not Found"}
			}
			return marketsFor(tickers), nil
		},
	}
	r, _ := newTestResolver(t, client)

	out, failed := r.ResolveMarkets(context.Background(), []string{"A", "B", "C", "D", "E"})

	// Chunk {C,D} failed: its tickers are absent, everything else intact.
	for _, tkr := range []string{"A", "B", "E"} {
		if _, ok := out[tkr]; !ok {
			t.Errorf("ticker %s missing from output", tkr)
		}
	}
	for _, tkr := range []string{"C", "D"} {
		if _, ok := out[tkr]; ok {
			t.Errorf("ticker %s should have been omitted", tkr)
		}
	}
	if strings.Join(failed, ",") != "C,D" {
		t.Errorf("failed = %v, want [C D]", failed)
	}
}

func TestResolveMarkets_RateLimitGetsOneExtraRetry(t *testing.T) {
	exhausted := &fakeLookup{
		markets: func(call int, tickers []string) (*api.MarketsResponse, error) {
			if call == 1 {
				return nil, api.ErrRetriesExhausted
			}
			return marketsFor(tickers), nil
		},
	}
	r, slept := newTestResolver(t, exhausted)

	out, failed := r.ResolveMarkets(context.Background(), []string{"A"})
	if len(failed) != 0 {
		t.Fatalf("failed = %v, want none", failed)
	}
	if _, ok := out["A"]; !ok {
		t.Fatal("ticker A missing after retry")
	}
	if len(exhausted.marketCalls) != 2 {
		t.Errorf("made %d calls, want 2 (original + one retry)", len(exhausted.marketCalls))
	}
	if len(*slept) != 1 || (*slept)[0] != 10*time.Second {
		t.Errorf("slept %v, want one 10s wait", *slept)
	}
}

func TestResolveMarkets_NonRateLimitNotRetried(t *testing.T) {
	client := &fakeLookup{
		markets: func(call int, tickers []string) (*api.MarketsResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	r, _ := newTestResolver(t, client)

	_, failed := r.ResolveMarkets(context.Background(), []string{"A"})
	if len(failed) != 1 {
		t.Fatalf("failed = %v, want [A]", failed)
	}
	if len(client.marketCalls) != 1 {
		t.Errorf("made %d calls, want 1", len(client.marketCalls))
	}
}

func TestResolveCategories_EventFallback(t *testing.T) {
	client := &fakeLookup{
		markets: func(call int, tickers []string) (*api.MarketsResponse, error) {
			return &api.MarketsResponse{Markets: []api.APIMarket{
				{Ticker: "HASCAT", Category: "Politics", EventTicker: "EV-P"},
				{Ticker: "BLANK", Category: "", EventTicker: "EV-B"},
				{Ticker: "ORPHAN", Category: "", EventTicker: ""},
			}}, nil
		},
		events: func(call int, eventTickers []string) (*api.EventsResponse, error) {
			if strings.Join(eventTickers, ",") != "EV-B" {
				t.Errorf("event lookup for %v, want [EV-B] only", eventTickers)
			}
			return &api.EventsResponse{Events: []api.APIEvent{
				{Ticker: "EV-B", Category: "Basketball"},
			}}, nil
		},
	}
	r, _ := newTestResolver(t, client)

	out := r.ResolveCategories(context.Background(), []string{"HASCAT", "BLANK", "ORPHAN"})

	if got := out["HASCAT"]; got.Category != "Politics" || got.Source != model.SourceMarket {
		t.Errorf("HASCAT = %+v, want Politics from market", got)
	}
	if got := out["BLANK"]; got.Category != "Basketball" || got.Source != model.SourceEvent {
		t.Errorf("BLANK = %+v, want Basketball from event", got)
	}
	if got := out["ORPHAN"]; got.Category != "" || got.Source != model.SourceNone {
		t.Errorf("ORPHAN = %+v, want empty from none", got)
	}
}

func TestResolveCategories_NoBlankCategoriesSkipsEventLookup(t *testing.T) {
	client := &fakeLookup{
		markets: func(call int, tickers []string) (*api.MarketsResponse, error) {
			return marketsFor(tickers), nil
		},
		events: func(call int, eventTickers []string) (*api.EventsResponse, error) {
			t.Error("event lookup should not happen when every market has a category")
			return &api.EventsResponse{}, nil
		},
	}
	r, _ := newTestResolver(t, client)

	out := r.ResolveCategories(context.Background(), []string{"A", "B"})
	if len(out) != 2 {
		t.Errorf("got %d entries, want 2", len(out))
	}
}

func TestResolveEventCategories_Empty(t *testing.T) {
	client := &fakeLookup{
		events: func(call int, eventTickers []string) (*api.EventsResponse, error) {
			t.Error("no lookup expected for empty input")
			return nil, nil
		},
	}
	r, _ := newTestResolver(t, client)

	out, failed := r.ResolveEventCategories(context.Background(), nil)
	if len(out) != 0 || len(failed) != 0 {
		t.Errorf("out = %v, failed = %v, want empty", out, failed)
	}
}

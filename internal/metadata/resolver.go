package metadata

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/rickgao/kalshi-volumes/internal/api"
	"github.com/rickgao/kalshi-volumes/internal/model"
)

// Lookup is the slice of the API client the resolver needs.
type Lookup interface {
	GetMarkets(ctx context.Context, tickers []string) (*api.MarketsResponse, error)
	GetEvents(ctx context.Context, eventTickers []string) (*api.EventsResponse, error)
}

// Config tunes lookup batching and pacing.
type Config struct {
	TickerBatch   int           // tickers per /markets request
	EventBatch    int           // event tickers per /events request
	RequestDelay  time.Duration // politeness delay between chunks
	RateLimitWait time.Duration // fixed wait before the one extra rate-limit retry
}

func (c *Config) applyDefaults() {
	if c.TickerBatch == 0 {
		c.TickerBatch = 20
	}
	if c.EventBatch == 0 {
		c.EventBatch = 20
	}
	if c.RequestDelay == 0 {
		c.RequestDelay = time.Second
	}
	if c.RateLimitWait == 0 {
		c.RateLimitWait = 10 * time.Second
	}
}

// Resolver looks up market and event categories.
type Resolver struct {
	client Lookup
	cfg    Config
	logger *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewResolver creates a Resolver.
func NewResolver(client Lookup, cfg Config, logger *slog.Logger) *Resolver {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		client: client,
		cfg:    cfg,
		logger: logger,
		sleep: func(ctx context.Context, d time.Duration) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
				return nil
			}
		},
	}
}

// ResolveMarkets returns ticker -> metadata for every ticker the API knows.
// Tickers in failed chunks are absent from the result and returned in the
// failure list.
func (r *Resolver) ResolveMarkets(ctx context.Context, tickers []string) (map[string]model.MarketMeta, []string) {
	out := make(map[string]model.MarketMeta, len(tickers))
	var failed []string

	chunks := chunkStrings(sorted(tickers), r.cfg.TickerBatch)
	r.logger.Info("resolving market metadata",
		"tickers", len(tickers),
		"chunks", len(chunks),
		"batch_size", r.cfg.TickerBatch,
	)

	for i, chunk := range chunks {
		resp, err := withRateLimitRetry(ctx, r, func() (*api.MarketsResponse, error) {
			return r.client.GetMarkets(ctx, chunk)
		})
		if err != nil {
			if ctx.Err() != nil {
				failed = append(failed, chunk...)
				return out, failed
			}
			r.logger.Warn("market lookup chunk failed",
				"chunk", i+1,
				"tickers", len(chunk),
				"error", err,
			)
			failed = append(failed, chunk...)
		} else {
			for _, m := range resp.Markets {
				if m.Ticker == "" {
					continue
				}
				out[m.Ticker] = m.ToMeta()
			}
		}

		if i < len(chunks)-1 {
			if err := r.sleep(ctx, r.cfg.RequestDelay); err != nil {
				return out, failed
			}
		}
	}

	return out, failed
}

// ResolveEventCategories returns event ticker -> category. Shape mirrors
// ResolveMarkets, including degrade-on-failure.
func (r *Resolver) ResolveEventCategories(ctx context.Context, eventTickers []string) (map[string]string, []string) {
	out := make(map[string]string, len(eventTickers))
	var failed []string

	if len(eventTickers) == 0 {
		return out, nil
	}

	chunks := chunkStrings(sorted(eventTickers), r.cfg.EventBatch)
	r.logger.Info("resolving event categories",
		"event_tickers", len(eventTickers),
		"chunks", len(chunks),
	)

	for i, chunk := range chunks {
		resp, err := withRateLimitRetry(ctx, r, func() (*api.EventsResponse, error) {
			return r.client.GetEvents(ctx, chunk)
		})
		if err != nil {
			if ctx.Err() != nil {
				failed = append(failed, chunk...)
				return out, failed
			}
			r.logger.Warn("event lookup chunk failed",
				"chunk", i+1,
				"events", len(chunk),
				"error", err,
			)
			failed = append(failed, chunk...)
		} else {
			for _, e := range resp.Events {
				if tkr := e.ResolvedTicker(); tkr != "" {
					out[tkr] = strings.TrimSpace(e.Category)
				}
			}
		}

		if i < len(chunks)-1 {
			if err := r.sleep(ctx, r.cfg.RequestDelay); err != nil {
				return out, failed
			}
		}
	}

	return out, failed
}

// ResolveCategories composes market and event lookups into the final
// category per ticker: the market's own category when present, else the
// owning event's, else empty. Lookup failures are logged once at the end.
func (r *Resolver) ResolveCategories(ctx context.Context, tickers []string) map[string]model.CategoryInfo {
	markets, marketFails := r.ResolveMarkets(ctx, tickers)

	// Only events owning a category-less market need a lookup.
	blankEvents := make(map[string]bool)
	for _, meta := range markets {
		if meta.Category == "" && meta.EventTicker != "" {
			blankEvents[meta.EventTicker] = true
		}
	}

	var eventCats map[string]string
	var eventFails []string
	if len(blankEvents) > 0 {
		eventCats, eventFails = r.ResolveEventCategories(ctx, keys(blankEvents))
	}

	out := make(map[string]model.CategoryInfo, len(markets))
	for tkr, meta := range markets {
		info := model.CategoryInfo{
			Source:      model.SourceNone,
			EventTicker: meta.EventTicker,
		}
		switch {
		case meta.Category != "":
			info.Category = meta.Category
			info.Source = model.SourceMarket
		case meta.EventTicker != "" && eventCats[meta.EventTicker] != "":
			info.Category = eventCats[meta.EventTicker]
			info.Source = model.SourceEvent
		}
		out[tkr] = info
	}

	if len(marketFails) > 0 || len(eventFails) > 0 {
		r.logger.Warn("metadata resolution incomplete",
			"failed_tickers", len(marketFails),
			"failed_events", len(eventFails),
		)
	}

	return out
}

// withRateLimitRetry runs fn once, and on a rate-limit flavored failure
// waits a longer fixed delay and tries exactly one more time. The client
// has already spent its own exponential backoff by the time this fires.
func withRateLimitRetry[T any](ctx context.Context, r *Resolver, fn func() (T, error)) (T, error) {
	resp, err := fn()
	if err == nil {
		return resp, nil
	}

	if api.IsRateLimited(err) || errors.Is(err, api.ErrRetriesExhausted) {
		r.logger.Warn("rate limited on metadata lookup, waiting before final retry",
			"wait", r.cfg.RateLimitWait,
		)
		if serr := r.sleep(ctx, r.cfg.RateLimitWait); serr != nil {
			return resp, serr
		}
		return fn()
	}

	return resp, err
}

func chunkStrings(items []string, size int) [][]string {
	if len(items) == 0 {
		return nil
	}
	var chunks [][]string
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}

func sorted(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	sort.Strings(out)
	return out
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/kalshi-volumes/internal/aggregate"
	"github.com/rickgao/kalshi-volumes/internal/api"
	"github.com/rickgao/kalshi-volumes/internal/classify"
	"github.com/rickgao/kalshi-volumes/internal/model"
)

// TradeFetcher pulls every trade in a UTC span.
type TradeFetcher interface {
	GetAllTrades(ctx context.Context, minTS, maxTS int64) ([]api.APITrade, error)
}

// CategoryResolver resolves classification metadata for a ticker set.
type CategoryResolver interface {
	ResolveCategories(ctx context.Context, tickers []string) map[string]model.CategoryInfo
}

// RowWriter persists the computed rows.
type RowWriter interface {
	UpsertDailyVolumes(ctx context.Context, rows []model.DailyVolume) (written int, failed []model.Date)
}

// Pipeline runs one fetch-aggregate-write pass.
type Pipeline struct {
	fetcher  TradeFetcher
	resolver CategoryResolver
	writer   RowWriter
	logger   *slog.Logger

	location     *time.Location
	lookbackDays int

	// now is swapped out in tests for a fixed clock.
	now func() time.Time
}

// New creates a Pipeline.
func New(fetcher TradeFetcher, resolver CategoryResolver, writer RowWriter, loc *time.Location, lookbackDays int, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		fetcher:      fetcher,
		resolver:     resolver,
		writer:       writer,
		logger:       logger,
		location:     loc,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// Run executes one pass over the lookback window ending yesterday.
func (p *Pipeline) Run(ctx context.Context) error {
	window := aggregate.WindowEndingYesterday(p.now(), p.location, p.lookbackDays)
	minTS, maxTS := window.UTCBounds()

	p.logger.Info("processing window",
		"start", window.Start.String(),
		"end", window.End.String(),
		"timezone", p.location.String(),
		"lookback_days", p.lookbackDays,
	)

	rawTrades, err := p.fetcher.GetAllTrades(ctx, minTS, maxTS)
	if err != nil {
		return fmt.Errorf("fetch trades: %w", err)
	}

	trades, dropped := convertTrades(rawTrades)
	if dropped > 0 {
		p.logger.Warn("dropped trades with unparseable timestamps", "dropped", dropped)
	}

	tickers := uniqueTickers(trades)
	p.logger.Info("bucketing trades",
		"trades", len(trades),
		"unique_tickers", len(tickers),
	)

	categories := p.resolver.ResolveCategories(ctx, tickers)

	rows := aggregate.Aggregate(trades, categories, window, classify.Classify)
	for _, row := range rows {
		p.logger.Info("daily volume",
			"date", row.Date.String(),
			"total", row.TotalVolume,
			"sports", row.SportsVolume,
			"sports_pct", row.SportsPct,
		)
	}

	written, failed := p.writer.UpsertDailyVolumes(ctx, rows)
	p.logger.Info("run complete",
		"rows", len(rows),
		"written", written,
		"failed", len(failed),
	)

	return nil
}

// convertTrades decodes API trades, dropping those without a usable
// timestamp.
func convertTrades(raw []api.APITrade) (trades []model.Trade, dropped int) {
	trades = make([]model.Trade, 0, len(raw))
	for i := range raw {
		t, err := raw[i].ToModel()
		if err != nil {
			dropped++
			continue
		}
		trades = append(trades, t)
	}
	return trades, dropped
}

func uniqueTickers(trades []model.Trade) []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, t := range trades {
		if t.Ticker != "" && !seen[t.Ticker] {
			seen[t.Ticker] = true
			tickers = append(tickers, t.Ticker)
		}
	}
	return tickers
}

package sink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/kalshi-volumes/internal/model"
)

// Execer is the slice of pgxpool.Pool the writer needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Writer upserts daily volume rows into the daily_volumes table.
type Writer struct {
	db     Execer
	logger *slog.Logger
}

// NewWriter creates a Writer on the given pool.
func NewWriter(db Execer, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{db: db, logger: logger}
}

// upsertSQL is built once from the sport list so the column set always
// matches the enumeration and its order.
var upsertSQL = buildUpsertSQL()

func buildUpsertSQL() string {
	cols := []string{"date", "total_volume", "sports_volume", "sports_pct"}
	for _, s := range model.Sports {
		cols = append(cols, string(s)+"_volume")
	}

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	var updates []string
	for _, c := range cols[1:] {
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}

	return fmt.Sprintf(
		"INSERT INTO daily_volumes (%s) VALUES (%s) ON CONFLICT (date) DO UPDATE SET %s",
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(updates, ", "),
	)
}

// rowArgs flattens a DailyVolume into upsertSQL's argument order.
func rowArgs(row model.DailyVolume) []any {
	args := []any{
		row.Date.String(),
		row.TotalVolume,
		row.SportsVolume,
		row.SportsPct,
	}
	for _, s := range model.Sports {
		args = append(args, row.SportVolume(s))
	}
	return args
}

// UpsertDailyVolumes writes every row, one upsert per date. A failed row is
// logged and skipped; the dates that failed are returned for the run
// summary.
func (w *Writer) UpsertDailyVolumes(ctx context.Context, rows []model.DailyVolume) (written int, failed []model.Date) {
	for _, row := range rows {
		if _, err := w.db.Exec(ctx, upsertSQL, rowArgs(row)...); err != nil {
			w.logger.Error("upsert failed",
				"date", row.Date.String(),
				"error", err,
			)
			failed = append(failed, row.Date)
			continue
		}
		written++
		w.logger.Debug("upserted row",
			"date", row.Date.String(),
			"total_volume", row.TotalVolume,
			"sports_volume", row.SportsVolume,
		)
	}

	if len(failed) > 0 {
		w.logger.Warn("some rows failed to upsert", "failed", len(failed), "written", written)
	}

	return written, failed
}

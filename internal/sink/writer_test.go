package sink

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/kalshi-volumes/internal/model"
)

// fakeExecer captures statements and fails on demand.
type fakeExecer struct {
	calls []struct {
		sql  string
		args []any
	}
	failOn map[string]bool // date string -> fail
}

func (f *fakeExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, struct {
		sql  string
		args []any
	}{sql, args})
	if date, ok := args[0].(string); ok && f.failOn[date] {
		return pgconn.CommandTag{}, errors.New("connection reset")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func sampleRow(day int, total int64) model.DailyVolume {
	return model.DailyVolume{
		Date:         model.Date{Year: 2024, Month: time.June, Day: day},
		TotalVolume:  total,
		SportsVolume: total / 2,
		SportsPct:    50.0,
		BySport:      map[model.Sport]int64{model.SportNFL: total / 2},
	}
}

func TestUpsertSQL(t *testing.T) {
	if !strings.HasPrefix(upsertSQL, "INSERT INTO daily_volumes") {
		t.Errorf("upsertSQL does not target daily_volumes: %s", upsertSQL)
	}
	if !strings.Contains(upsertSQL, "ON CONFLICT (date) DO UPDATE SET") {
		t.Error("upsertSQL is not an upsert keyed by date")
	}
	// Fixed columns plus one per sport.
	for _, s := range model.Sports {
		col := string(s) + "_volume"
		if !strings.Contains(upsertSQL, col) {
			t.Errorf("upsertSQL missing column %s", col)
		}
		if !strings.Contains(upsertSQL, col+" = EXCLUDED."+col) {
			t.Errorf("upsertSQL missing update for %s", col)
		}
	}
}

func TestRowArgs(t *testing.T) {
	row := sampleRow(1, 100)
	args := rowArgs(row)

	if want := 4 + len(model.Sports); len(args) != want {
		t.Fatalf("rowArgs returned %d args, want %d", len(args), want)
	}
	if args[0] != "2024-06-01" {
		t.Errorf("args[0] = %v, want 2024-06-01", args[0])
	}
	if args[1] != int64(100) || args[2] != int64(50) {
		t.Errorf("volume args = %v, %v, want 100, 50", args[1], args[2])
	}
	if args[3] != 50.0 {
		t.Errorf("pct arg = %v, want 50.0", args[3])
	}
	// nfl is first in the sport enumeration.
	if args[4] != int64(50) {
		t.Errorf("nfl arg = %v, want 50", args[4])
	}
	// Remaining sports are zero.
	for i := 5; i < len(args); i++ {
		if args[i] != int64(0) {
			t.Errorf("args[%d] = %v, want 0", i, args[i])
		}
	}
}

func TestUpsertDailyVolumes(t *testing.T) {
	db := &fakeExecer{}
	w := NewWriter(db, nil)

	rows := []model.DailyVolume{sampleRow(1, 10), sampleRow(2, 20)}
	written, failed := w.UpsertDailyVolumes(context.Background(), rows)

	if written != 2 || len(failed) != 0 {
		t.Errorf("written = %d, failed = %v, want 2 written", written, failed)
	}
	if len(db.calls) != 2 {
		t.Fatalf("made %d execs, want 2", len(db.calls))
	}
}

func TestUpsertDailyVolumes_FailureDoesNotBlockOthers(t *testing.T) {
	db := &fakeExecer{failOn: map[string]bool{"2024-06-02": true}}
	w := NewWriter(db, nil)

	rows := []model.DailyVolume{sampleRow(1, 10), sampleRow(2, 20), sampleRow(3, 30)}
	written, failed := w.UpsertDailyVolumes(context.Background(), rows)

	if written != 2 {
		t.Errorf("written = %d, want 2", written)
	}
	if len(failed) != 1 || failed[0].String() != "2024-06-02" {
		t.Errorf("failed = %v, want [2024-06-02]", failed)
	}
	// All three rows were attempted.
	if len(db.calls) != 3 {
		t.Errorf("made %d execs, want 3", len(db.calls))
	}
}

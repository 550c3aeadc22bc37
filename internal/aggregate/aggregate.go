package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/rickgao/kalshi-volumes/internal/model"
)

// Window is an inclusive range of local calendar days.
type Window struct {
	Start    model.Date
	End      model.Date
	Location *time.Location
}

// WindowEndingYesterday returns the lookback window of lookbackDays local
// days ending yesterday (relative to now in loc).
func WindowEndingYesterday(now time.Time, loc *time.Location, lookbackDays int) Window {
	end := model.DateOf(now.In(loc)).AddDays(-1)
	start := end.AddDays(-(lookbackDays - 1))
	return Window{Start: start, End: end, Location: loc}
}

// UTCBounds returns the window as a UTC epoch-seconds span: inclusive start
// of the first local day, exclusive end of the last.
func (w Window) UTCBounds() (minTS, maxTS int64) {
	minTS = w.Start.Time(w.Location).Unix()
	maxTS = w.End.AddDays(1).Time(w.Location).Unix()
	return minTS, maxTS
}

// Days lists every day in the window, ascending.
func (w Window) Days() []model.Date {
	var days []model.Date
	for d := w.Start; !d.After(w.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Classifier resolves a market's sport from its text fields.
type Classifier func(ticker, category, eventTicker string) model.Sport

// Aggregate rolls the trade list up into one DailyVolume row per day.
//
// Every day in the window appears in the output even with zero trades;
// trades whose local day falls outside the window still contribute a row
// for that day. Rows are sorted ascending by date, and for fixed inputs
// the output is fully deterministic.
func Aggregate(trades []model.Trade, categories map[string]model.CategoryInfo, w Window, classify Classifier) []model.DailyVolume {
	totalsByDay := make(map[model.Date]int64)
	tickersByDay := make(map[model.Date]map[string]int64)

	for _, t := range trades {
		day := model.DateOf(time.Unix(t.TS, 0).In(w.Location))
		totalsByDay[day] += t.Count

		if t.Ticker != "" {
			byTicker := tickersByDay[day]
			if byTicker == nil {
				byTicker = make(map[string]int64)
				tickersByDay[day] = byTicker
			}
			byTicker[t.Ticker] += t.Count
		}
	}

	// Seed the full window so quiet days still emit rows.
	for _, d := range w.Days() {
		if _, ok := totalsByDay[d]; !ok {
			totalsByDay[d] = 0
		}
	}

	days := make([]model.Date, 0, len(totalsByDay))
	for d := range totalsByDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	rows := make([]model.DailyVolume, 0, len(days))
	for _, day := range days {
		total := totalsByDay[day]

		bySport := make(map[model.Sport]int64, len(model.Sports))
		for _, s := range model.Sports {
			bySport[s] = 0
		}

		var sportsTotal int64
		for _, tkr := range sortedKeys(tickersByDay[day]) {
			qty := tickersByDay[day][tkr]
			info := categories[tkr]
			sport := classify(tkr, info.Category, info.EventTicker)
			if sport != model.SportNone {
				bySport[sport] += qty
				sportsTotal += qty
			}
		}

		rows = append(rows, model.DailyVolume{
			Date:         day,
			TotalVolume:  total,
			SportsVolume: sportsTotal,
			SportsPct:    percentage(sportsTotal, total),
			BySport:      bySport,
		})
	}

	return rows
}

// percentage returns part/whole*100 rounded to 4 decimal places, 0 when
// whole is 0.
func percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	pct := float64(part) / float64(whole) * 100.0
	return math.Round(pct*10000) / 10000
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

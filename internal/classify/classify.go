package classify

import (
	"regexp"

	"github.com/rickgao/kalshi-volumes/internal/model"
)

// rule binds one sport to its case-insensitive pattern.
type rule struct {
	sport   model.Sport
	pattern *regexp.Regexp
}

// rules in evaluation order. First match wins, so order is part of the
// contract: wnba must precede nba (every "wnba" string contains "nba"),
// and soccer precedes golf, motorsport, and tennis for fields that carry
// several league names.
var rules = []rule{
	{model.SportNFL, regexp.MustCompile(`(?i)nfl`)},
	{model.SportMLB, regexp.MustCompile(`(?i)mlb`)},
	{model.SportWNBA, regexp.MustCompile(`(?i)wnba`)},
	{model.SportNBA, regexp.MustCompile(`(?i)nba`)},
	{model.SportNHL, regexp.MustCompile(`(?i)nhl`)},
	{model.SportSoccer, regexp.MustCompile(`(?i)laliga|bundesliga|ucl|epl|mls|ligue1|seriea|fifa`)},
	{model.SportGolf, regexp.MustCompile(`(?i)pga`)},
	{model.SportMotorsport, regexp.MustCompile(`(?i)f1|nascar`)},
	{model.SportTennis, regexp.MustCompile(`(?i)atp|wta|mensingles|womensingles`)},
	{model.SportNCAAM, regexp.MustCompile(`(?i)kxmarmad|ncaam|ncaab`)},
	{model.SportNCAAW, regexp.MustCompile(`(?i)kxwmarmad|ncaaw`)},
	{model.SportNCAAF, regexp.MustCompile(`(?i)ncaaf`)},
	{model.SportCombat, regexp.MustCompile(`(?i)ufc|mma|boxing`)},
}

// Classify resolves the sport for a market from its ticker, category, and
// event ticker. Fields are tried in that order; the first non-empty field
// matching any rule wins, even when a later field would match a different
// rule. Returns model.SportNone when nothing matches.
func Classify(ticker, category, eventTicker string) model.Sport {
	for _, field := range []string{ticker, category, eventTicker} {
		if field == "" {
			continue
		}
		for _, r := range rules {
			if r.pattern.MatchString(field) {
				return r.sport
			}
		}
	}
	return model.SportNone
}

package engine

import (
	"time"
)

// Outcome is the three-way result of a match from the neutral
// perspective: home win, draw, or away win.
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
)

// Odds is a decimal-odds triple. A zero value means odds are unknown.
type Odds struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Known reports whether all three prices are usable decimal odds.
func (o Odds) Known() bool {
	return o.Home > 1.0 && o.Draw > 1.0 && o.Away > 1.0
}

// For returns the price of the given outcome.
func (o Odds) For(out Outcome) float64 {
	switch out {
	case OutcomeHome:
		return o.Home
	case OutcomeDraw:
		return o.Draw
	default:
		return o.Away
	}
}

// MatchContext carries situational signals the weighted model consumes.
// Absent values stay at their zero and are replaced by neutral defaults
// during factor normalization.
type MatchContext struct {
	H2HHomeWinPct    float64 `json:"h2hHomeWinPct"` // share of recent meetings won by the home side, 0-100
	HomeRestDays     int     `json:"homeRestDays"`  // days since each side last played
	AwayRestDays     int     `json:"awayRestDays"`
	TravelKM         float64 `json:"travelKm"`         // away side's travel distance
	HomeInjuryImpact float64 `json:"homeInjuryImpact"` // 0-100, severity of absences
	AwayInjuryImpact float64 `json:"awayInjuryImpact"`
}

// Match is one fixture or result. Goals carry the -1 sentinel until the
// match has been played. The engine never mutates a Match.
type Match struct {
	ID        string       `json:"id"`
	Date      time.Time    `json:"date"`
	HomeTeam  string       `json:"homeTeam"`
	AwayTeam  string       `json:"awayTeam"`
	HomeGoals int          `json:"homeGoals"`
	AwayGoals int          `json:"awayGoals"`
	Odds      Odds         `json:"odds"`
	Context   MatchContext `json:"context"`
}

// NewMatch returns an unplayed fixture between the two sides.
func NewMatch(id, home, away string, date time.Time) *Match {
	return &Match{
		ID:        id,
		Date:      date,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: -1,
		AwayGoals: -1,
	}
}

// HasBeenPlayed reports whether a result has been recorded.
func (m *Match) HasBeenPlayed() bool {
	return m.HomeGoals >= 0 && m.AwayGoals >= 0
}

// Result classifies the recorded score. ok is false for unplayed matches.
func (m *Match) Result() (Outcome, bool) {
	if !m.HasBeenPlayed() {
		return "", false
	}
	switch {
	case m.HomeGoals > m.AwayGoals:
		return OutcomeHome, true
	case m.HomeGoals < m.AwayGoals:
		return OutcomeAway, true
	default:
		return OutcomeDraw, true
	}
}

// Involves reports whether the named team plays in this match.
func (m *Match) Involves(team string) bool {
	return m.HomeTeam == team || m.AwayTeam == team
}

// TeamResult is a match result seen from one team's perspective.
type TeamResult string

const (
	ResultWin  TeamResult = "win"
	ResultDraw TeamResult = "draw"
	ResultLoss TeamResult = "loss"
)

// TeamMatchRecord is one completed match viewed from a single team's
// perspective. Built on demand from the match set, never persisted.
type TeamMatchRecord struct {
	Opponent     string
	Date         time.Time
	Home         bool
	GoalsFor     int
	GoalsAgainst int
	Result       TeamResult
}

// BuildTeamHistory filters to completed matches involving team, in the
// original chronological order with the most recent last, and classifies
// each result from the team's perspective.
func BuildTeamHistory(team string, matches []Match) []TeamMatchRecord {
	var history []TeamMatchRecord
	for i := range matches {
		m := &matches[i]
		if !m.HasBeenPlayed() || !m.Involves(team) {
			continue
		}
		rec := TeamMatchRecord{
			Opponent: m.AwayTeam,
			Date:     m.Date,
			Home:     true,
		}
		if m.AwayTeam == team {
			rec.Opponent = m.HomeTeam
			rec.Home = false
			rec.GoalsFor = m.AwayGoals
			rec.GoalsAgainst = m.HomeGoals
		} else {
			rec.GoalsFor = m.HomeGoals
			rec.GoalsAgainst = m.AwayGoals
		}
		switch {
		case rec.GoalsFor > rec.GoalsAgainst:
			rec.Result = ResultWin
		case rec.GoalsFor < rec.GoalsAgainst:
			rec.Result = ResultLoss
		default:
			rec.Result = ResultDraw
		}
		history = append(history, rec)
	}
	return history
}

// TeamsFromMatches returns every team name appearing in the match set,
// without duplicates, in first-appearance order.
func TeamsFromMatches(matches []Match) []string {
	seen := make(map[string]bool)
	var teams []string
	for i := range matches {
		for _, name := range []string{matches[i].HomeTeam, matches[i].AwayTeam} {
			if name != "" && !seen[name] {
				seen[name] = true
				teams = append(teams, name)
			}
		}
	}
	return teams
}

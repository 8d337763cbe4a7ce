package engine

import (
	"sort"
	"time"
)

// Snapshot is an immutable bundle of match data and the statistics
// derived from it. Refreshing produces a whole new Snapshot which the
// caller swaps in atomically; the engine never mutates one, so scoring
// stays race-free under concurrent refreshes.
type Snapshot struct {
	Matches   []Match
	Histories map[string][]TeamMatchRecord
	Ratings   map[string]TeamRating
	XG        map[string]TeamXG
	Averages  LeagueAverages
	Strengths map[string]TeamStrength
	BuiltAt   time.Time
}

// BuildSnapshot derives every per-team statistic from the match set in
// one pass pipeline. Pure function of its input.
func BuildSnapshot(matches []Match) *Snapshot {
	snap := &Snapshot{
		Matches:   matches,
		Histories: make(map[string][]TeamMatchRecord),
		BuiltAt:   time.Now(),
	}
	for _, team := range TeamsFromMatches(matches) {
		snap.Histories[team] = BuildTeamHistory(team, matches)
	}
	snap.Ratings = RatingsFromHistory(matches)
	snap.XG = XGStatsFromHistory(matches)
	snap.Averages = LeagueAveragesFrom(matches)
	snap.Strengths = TeamStrengths(snap.XG, snap.Averages)
	return snap
}

// HasData reports whether the snapshot contains any matches at all. An
// empty snapshot means "cannot score", not "zero successful scores".
func (s *Snapshot) HasData() bool {
	return s != nil && len(s.Matches) > 0
}

// Teams lists every known team in alphabetical order.
func (s *Snapshot) Teams() []string {
	teams := make([]string, 0, len(s.Histories))
	for team := range s.Histories {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// MatchByID finds a match in the snapshot.
func (s *Snapshot) MatchByID(id string) (*Match, bool) {
	for i := range s.Matches {
		if s.Matches[i].ID == id {
			return &s.Matches[i], true
		}
	}
	return nil, false
}

// CompletedMatches returns the played subset in chronological order.
func (s *Snapshot) CompletedMatches() []Match {
	var done []Match
	for i := range s.Matches {
		if s.Matches[i].HasBeenPlayed() {
			done = append(done, s.Matches[i])
		}
	}
	return done
}

// UpcomingMatches returns fixtures not yet played.
func (s *Snapshot) UpcomingMatches() []Match {
	var todo []Match
	for i := range s.Matches {
		if !s.Matches[i].HasBeenPlayed() {
			todo = append(todo, s.Matches[i])
		}
	}
	return todo
}

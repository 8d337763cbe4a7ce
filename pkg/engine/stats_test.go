package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// played returns a completed match on a fixed rolling date.
func played(n int, home, away string, hg, ag int) Match {
	m := NewMatch(fmt.Sprintf("m%d", n), home, away, time.Date(2025, 8, 1, 15, 0, 0, 0, time.UTC).AddDate(0, 0, n*7))
	m.HomeGoals = hg
	m.AwayGoals = ag
	return *m
}

func sampleMatches() []Match {
	return []Match{
		played(1, "Arsenal", "Chelsea", 2, 0),
		played(2, "Chelsea", "Spurs", 1, 1),
		played(3, "Spurs", "Arsenal", 0, 3),
		played(4, "Arsenal", "Spurs", 1, 1),
		played(5, "Chelsea", "Arsenal", 0, 1),
	}
}

func TestBuildTeamHistoryPerspective(t *testing.T) {
	history := BuildTeamHistory("Arsenal", sampleMatches())
	require.Len(t, history, 4)

	assert.Equal(t, "Chelsea", history[0].Opponent)
	assert.True(t, history[0].Home)
	assert.Equal(t, ResultWin, history[0].Result)

	// away win at Spurs seen from Arsenal's side
	assert.Equal(t, "Spurs", history[1].Opponent)
	assert.False(t, history[1].Home)
	assert.Equal(t, 3, history[1].GoalsFor)
	assert.Equal(t, 0, history[1].GoalsAgainst)
	assert.Equal(t, ResultWin, history[1].Result)
}

func TestBuildTeamHistorySkipsUnplayed(t *testing.T) {
	matches := sampleMatches()
	matches = append(matches, *NewMatch("m99", "Arsenal", "Chelsea", time.Now()))
	history := BuildTeamHistory("Arsenal", matches)
	assert.Len(t, history, 4)
}

func TestPeriodStatsWindow(t *testing.T) {
	history := BuildTeamHistory("Arsenal", sampleMatches())
	all := PeriodStatsFor(history, 0)
	assert.Equal(t, 4, all.Matches)
	assert.InDelta(t, 7.0/4, all.AvgGoalsFor, 0.0001)
	assert.InDelta(t, 0.75, all.WinRate, 0.0001)

	lastTwo := PeriodStatsFor(history, 2)
	assert.Equal(t, 2, lastTwo.Matches)
	assert.InDelta(t, 1.0, lastTwo.AvgGoalsFor, 0.0001)
	assert.InDelta(t, 0.5, lastTwo.WinRate, 0.0001)
}

func TestPeriodStatsEmptyHistoryDefaults(t *testing.T) {
	s := PeriodStatsFor(nil, 10)
	assert.Equal(t, 0, s.Matches)
	assert.Equal(t, 1.5, s.AvgGoalsFor)
	assert.Equal(t, 1.5, s.AvgGoalsAgainst)
	assert.Equal(t, 0.5, s.WinRate)
}

func TestRatingsFormulas(t *testing.T) {
	ratings := RatingsFromHistory(sampleMatches())
	arsenal := ratings["Arsenal"]
	// 7 goals in 4 games: offense = 50 + 1.75*15 = 76.25
	assert.InDelta(t, 76.25, arsenal.Offense, 0.0001)
	// 1 conceded in 4: defense = 95 - 0.25*15 = 91.25
	assert.InDelta(t, 91.25, arsenal.Defense, 0.0001)
	// 3 wins in 4: form = 40 + 0.75*55 = 81.25
	assert.InDelta(t, 81.25, arsenal.Form, 0.0001)
}

func TestRatingsClamped(t *testing.T) {
	matches := []Match{played(1, "Goals FC", "Sieve United", 9, 0)}
	ratings := RatingsFromHistory(matches)
	assert.Equal(t, 95.0, ratings["Goals FC"].Offense)
	assert.Equal(t, 95.0, ratings["Goals FC"].Defense)
	assert.Equal(t, 95.0, ratings["Goals FC"].Form)
	assert.Equal(t, 50.0, ratings["Sieve United"].Offense)
	assert.Equal(t, 50.0, ratings["Sieve United"].Defense)
	assert.Equal(t, 40.0, ratings["Sieve United"].Form)
}

func TestRatingsIdempotent(t *testing.T) {
	matches := sampleMatches()
	first := RatingsFromHistory(matches)
	second := RatingsFromHistory(matches)
	assert.Equal(t, first, second)
}

func TestUnknownTeamGetsNeutralRating(t *testing.T) {
	r := NeutralRating()
	assert.Equal(t, 70.0, r.Offense)
	assert.Equal(t, 70.0, r.Defense)
	assert.Equal(t, 70.0, r.Form)
}

func TestXGDefaultsWithoutSample(t *testing.T) {
	xg := defaultXG()
	assert.Equal(t, 1.35, xg.XG)
	assert.Equal(t, 1.35, xg.XGA)
	assert.Equal(t, 1.45, xg.HomeXG)
	assert.Equal(t, 1.15, xg.AwayXG)
}

func TestLeagueAveragesFallBackToPriors(t *testing.T) {
	avg := LeagueAveragesFrom(nil)
	assert.Equal(t, 1.50, avg.Overall)
	assert.Equal(t, 1.45, avg.Home)
	assert.Equal(t, 1.15, avg.Away)
}

func TestLeagueAveragesFromResults(t *testing.T) {
	matches := []Match{
		played(1, "A", "B", 2, 1),
		played(2, "B", "A", 1, 0),
	}
	avg := LeagueAveragesFrom(matches)
	assert.InDelta(t, 1.0, avg.Overall, 0.0001)
	assert.InDelta(t, 1.5, avg.Home, 0.0001)
	assert.InDelta(t, 0.5, avg.Away, 0.0001)
}

func TestStrengthGuardsNonPositiveAverage(t *testing.T) {
	assert.Equal(t, 1.0, strengthRatio(1.4, 0))
	assert.Equal(t, 1.0, strengthRatio(1.4, -2))
	assert.InDelta(t, 2.0, strengthRatio(3.0, 1.5), 0.0001)
}

func TestSnapshotBuild(t *testing.T) {
	snap := BuildSnapshot(sampleMatches())
	require.True(t, snap.HasData())
	assert.ElementsMatch(t, []string{"Arsenal", "Chelsea", "Spurs"}, snap.Teams())
	assert.Len(t, snap.CompletedMatches(), 5)
	assert.Empty(t, snap.UpcomingMatches())

	m, ok := snap.MatchByID("m3")
	require.True(t, ok)
	assert.Equal(t, "Spurs", m.HomeTeam)
}

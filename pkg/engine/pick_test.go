package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgePercent(t *testing.T) {
	assert.InDelta(t, 75.0, EdgePercent(0.70, 0.40), 0.0001)
	assert.InDelta(t, -50.0, EdgePercent(0.20, 0.40), 0.0001)
	assert.Equal(t, 0.0, EdgePercent(0.50, 0))
}

func TestWeightedConfidenceClampsAtTen(t *testing.T) {
	// edge 75% -> tier 10, probability >=0.60 -> +1, gap 1.5 -> +1, raw 12
	conf, expl := WeightedConfidence(0.70, 0.40, 2.5, 1.0)
	assert.Equal(t, 10, conf)
	assert.Contains(t, expl, "edge 75.0%")
}

func TestWeightedConfidenceFloor(t *testing.T) {
	// edge -60% -> tier 1, weak probability and murky projection drag below
	conf, _ := WeightedConfidence(0.20, 0.50, 1.5, 1.4)
	assert.Equal(t, 1, conf)
}

func TestWeightedConfidenceMidRange(t *testing.T) {
	// edge 7% -> tier 6, prob 0.45 -> +0, gap 0.6 -> +0
	conf, _ := WeightedConfidence(0.45, 0.42, 1.9, 1.3)
	assert.Equal(t, 6, conf)
}

func TestPoissonConfidenceLambdaGap(t *testing.T) {
	// identical edge, only the lambda gap differs
	wide, _ := PoissonConfidence(0.55, 0.50, 2.4, 1.1)
	narrow, _ := PoissonConfidence(0.55, 0.50, 1.6, 1.5)
	middle, _ := PoissonConfidence(0.55, 0.50, 1.9, 1.4)
	assert.Equal(t, middle+1, wide)
	assert.Equal(t, middle-1, narrow)
}

func pickFixture() (*Snapshot, *Match) {
	matches := sampleMatches()
	fixture := NewMatch("next", "Arsenal", "Chelsea", time.Date(2025, 10, 4, 15, 0, 0, 0, time.UTC))
	fixture.Odds = Odds{Home: 1.80, Draw: 3.60, Away: 4.50}
	matches = append(matches, *fixture)
	snap := BuildSnapshot(matches)
	m, _ := snap.MatchByID("next")
	return snap, m
}

func TestGeneratePickWeighted(t *testing.T) {
	snap, match := pickFixture()
	model := mustPreset("preset-balanced")

	pick, err := GeneratePick(model, match, snap)
	require.NoError(t, err)
	assert.Equal(t, PickKey{ModelID: "preset-balanced", MatchID: "next"}, pick.Key)
	assert.Equal(t, pick.Probabilities.Likeliest(), pick.Outcome)
	assert.Equal(t, match.Odds.For(pick.Outcome), pick.Odds)
	assert.InDelta(t, 1/pick.Odds, pick.MarketProb, 0.001)
	assert.NotEmpty(t, pick.HomeBreakdown)
	assert.NotEmpty(t, pick.AwayBreakdown)
	assert.GreaterOrEqual(t, pick.Confidence, 1)
	assert.LessOrEqual(t, pick.Confidence, 10)
}

func TestGeneratePickPoisson(t *testing.T) {
	snap, match := pickFixture()
	model := mustPreset("preset-poisson")

	pick, err := GeneratePick(model, match, snap)
	require.NoError(t, err)
	assert.Empty(t, pick.HomeBreakdown)
	assert.Greater(t, pick.HomeScore, 0.0)
	assert.Greater(t, pick.AwayScore, 0.0)
	assert.Equal(t, pick.Probabilities.Likeliest(), pick.Outcome)
}

func TestGeneratePickRequiresOdds(t *testing.T) {
	snap, _ := pickFixture()
	bare := NewMatch("bare", "Arsenal", "Chelsea", time.Now())
	_, err := GeneratePick(mustPreset("preset-balanced"), bare, snap)
	assert.ErrorIs(t, err, ErrNoMarketOdds)
}

func TestGeneratePickEmptySnapshot(t *testing.T) {
	fixture := NewMatch("next", "A", "B", time.Now())
	fixture.Odds = Odds{Home: 2.0, Draw: 3.2, Away: 3.8}
	_, err := GeneratePick(mustPreset("preset-balanced"), fixture, &Snapshot{})
	assert.ErrorIs(t, err, ErrNoMatchData)
}

func TestGeneratePickEdgeUsesExactImpliedProbability(t *testing.T) {
	snap, _ := pickFixture()
	fixture := NewMatch("thirds", "Arsenal", "Chelsea", time.Date(2025, 10, 11, 15, 0, 0, 0, time.UTC))
	// 3.00 on every outcome: the implied probability is 1/3, which the
	// 3-decimal display value 0.333 does not represent exactly.
	fixture.Odds = Odds{Home: 3.0, Draw: 3.0, Away: 3.0}

	pick, err := GeneratePick(mustPreset("preset-balanced"), fixture, snap)
	require.NoError(t, err)
	assert.Equal(t, 0.333, pick.MarketProb)

	exact := round2((pick.ModelProb - 1.0/3.0) / (1.0 / 3.0) * 100)
	assert.Equal(t, exact, pick.EdgePercent)
}

func mustPreset(id string) *ScoringModel {
	m, err := PresetByID(id)
	if err != nil {
		panic(err)
	}
	return m
}

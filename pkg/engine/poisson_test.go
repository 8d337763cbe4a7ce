package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoissonPMFBasics(t *testing.T) {
	// P(0; 1) = e^-1
	assert.InDelta(t, 0.3679, poissonPMF(1.0, 0), 0.0001)
	// P(2; 2) = 2e^-2
	assert.InDelta(t, 0.2707, poissonPMF(2.0, 2), 0.0001)
}

func TestPoissonZeroLambdaIsDeterministic(t *testing.T) {
	assert.Equal(t, 1.0, poissonPMF(0, 0))
	assert.Equal(t, 0.0, poissonPMF(0, 1))
	assert.Equal(t, 1.0, poissonPMF(-0.5, 0))
}

func TestEqualStrengthBucketsSumToOne(t *testing.T) {
	avg := LeagueAverages{Overall: 1.35, Home: 1.35, Away: 1.35}
	strengths := map[string]TeamStrength{}
	proj := ProjectPoisson("Arsenal", "Chelsea", avg, strengths)

	require.InDelta(t, 1.35, proj.LambdaHome, 0.001)
	require.InDelta(t, 1.35, proj.LambdaAway, 0.001)
	sum := proj.Probabilities.Home + proj.Probabilities.Draw + proj.Probabilities.Away
	assert.InDelta(t, 1.0, sum, 0.002)
	// symmetric matchup cannot favour either side beyond rounding
	assert.InDelta(t, proj.Probabilities.Home, proj.Probabilities.Away, 0.001)
}

func TestLambdaUsesVenueSplitStrengths(t *testing.T) {
	avg := LeagueAverages{Overall: 1.50, Home: 1.45, Away: 1.15}
	strengths := map[string]TeamStrength{
		"Liverpool": {AttackHome: 1.4, DefenseHome: 0.8, AttackAway: 1.2, DefenseAway: 0.9},
		"Everton":   {AttackHome: 0.9, DefenseHome: 1.1, AttackAway: 0.8, DefenseAway: 1.2},
	}
	lh, la := PoissonLambdas("Liverpool", "Everton", avg, strengths)
	assert.InDelta(t, 1.45*1.4*1.2, lh, 0.0001)
	assert.InDelta(t, 1.15*0.8*0.8, la, 0.0001)
}

func TestStrongerAttackWinsTheBuckets(t *testing.T) {
	avg := LeagueAverages{Overall: 1.50, Home: 1.45, Away: 1.15}
	strengths := map[string]TeamStrength{
		"City":  {AttackHome: 1.6, DefenseHome: 0.7, AttackAway: 1.5, DefenseAway: 0.7},
		"Luton": {AttackHome: 0.7, DefenseHome: 1.4, AttackAway: 0.6, DefenseAway: 1.5},
	}
	proj := ProjectPoisson("City", "Luton", avg, strengths)
	assert.Greater(t, proj.Probabilities.Home, proj.Probabilities.Away)
	assert.Greater(t, proj.Probabilities.Home, proj.Probabilities.Draw)
}

func TestUnknownTeamsCountAsAverage(t *testing.T) {
	avg := LeagueAverages{Overall: 1.50, Home: 1.45, Away: 1.15}
	lh, la := PoissonLambdas("Nowhere FC", "Ghost Town", avg, nil)
	assert.InDelta(t, 1.45, lh, 0.0001)
	assert.InDelta(t, 1.15, la, 0.0001)
}

func TestScoreGridDimensions(t *testing.T) {
	proj := ProjectPoisson("A", "B", LeagueAverages{Overall: 1.5, Home: 1.45, Away: 1.15}, nil)
	require.Len(t, proj.ScoreGrid, Config.MaxGoals+1)
	for _, row := range proj.ScoreGrid {
		require.Len(t, row, Config.MaxGoals+1)
	}
}

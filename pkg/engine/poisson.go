package engine

import "math"

// PoissonProjection is the full output of the Poisson model for one
// match: the two goal rates, the truncated scoreline grid, and the
// bucketed outcome probabilities.
type PoissonProjection struct {
	LambdaHome    float64              `json:"lambdaHome"`
	LambdaAway    float64              `json:"lambdaAway"`
	Probabilities OutcomeProbabilities `json:"probabilities"`
	ScoreGrid     [][]float64          `json:"scoreGrid"`
}

// poissonPMF is P(k; λ) = e^-λ · λ^k / k!. A non-positive λ collapses to
// the deterministic zero-goal distribution, which avoids domain errors
// and matches the only sensible reading of "expected to score nothing".
func poissonPMF(lambda float64, k int) float64 {
	if lambda <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	logP := -lambda + float64(k)*math.Log(lambda) - logFactorial(k)
	return math.Exp(logP)
}

func logFactorial(k int) float64 {
	var sum float64
	for i := 2; i <= k; i++ {
		sum += math.Log(float64(i))
	}
	return sum
}

// scorelineGrid is the joint probability of every scoreline up to
// maxGoals per side, assuming independent goal counts.
func scorelineGrid(lambdaHome, lambdaAway float64, maxGoals int) [][]float64 {
	homePMF := make([]float64, maxGoals+1)
	awayPMF := make([]float64, maxGoals+1)
	for k := 0; k <= maxGoals; k++ {
		homePMF[k] = poissonPMF(lambdaHome, k)
		awayPMF[k] = poissonPMF(lambdaAway, k)
	}
	grid := make([][]float64, maxGoals+1)
	for i := 0; i <= maxGoals; i++ {
		grid[i] = make([]float64, maxGoals+1)
		for j := 0; j <= maxGoals; j++ {
			grid[i][j] = homePMF[i] * awayPMF[j]
		}
	}
	return grid
}

// PoissonLambdas computes the expected goal rates for a matchup from the
// league scoring averages and each side's venue-split strengths. Teams
// missing from the strength map count as exactly average.
func PoissonLambdas(homeTeam, awayTeam string, avg LeagueAverages, strengths map[string]TeamStrength) (lambdaHome, lambdaAway float64) {
	average := TeamStrength{Attack: 1, Defense: 1, AttackHome: 1, AttackAway: 1, DefenseHome: 1, DefenseAway: 1}
	home, ok := strengths[homeTeam]
	if !ok {
		home = average
	}
	away, ok := strengths[awayTeam]
	if !ok {
		away = average
	}
	lambdaHome = avg.Home * home.AttackHome * away.DefenseAway
	lambdaAway = avg.Away * away.AttackAway * home.DefenseHome
	return lambdaHome, lambdaAway
}

// ProjectPoisson runs the full Poisson model for one matchup. Scoreline
// cells accumulate into home-win, draw and away-win buckets which are
// then renormalized to recover the mass lost to truncation.
func ProjectPoisson(homeTeam, awayTeam string, avg LeagueAverages, strengths map[string]TeamStrength) PoissonProjection {
	lambdaHome, lambdaAway := PoissonLambdas(homeTeam, awayTeam, avg, strengths)
	grid := scorelineGrid(lambdaHome, lambdaAway, Config.MaxGoals)

	var home, draw, away float64
	for i := range grid {
		for j := range grid[i] {
			switch {
			case i > j:
				home += grid[i][j]
			case i == j:
				draw += grid[i][j]
			default:
				away += grid[i][j]
			}
		}
	}

	total := home + draw + away
	if total > 0 {
		home /= total
		draw /= total
		away /= total
	}

	return PoissonProjection{
		LambdaHome: round2(lambdaHome),
		LambdaAway: round2(lambdaAway),
		Probabilities: OutcomeProbabilities{
			Home: round3(home),
			Draw: round3(draw),
			Away: round3(away),
		},
		ScoreGrid: grid,
	}
}

package datasource

import (
	"math"

	"github.com/betgenius/betgenius/pkg/engine"
)

// overround is the margin applied when deriving odds so they resemble a
// bookmaker's book rather than a fair one.
const overround = 1.05

// DeriveMissingOdds prices every match that has no market odds from the
// Poisson projection over the completed matches in the same set. The
// derivation is deterministic so repeated refreshes and simulations
// agree.
func DeriveMissingOdds(matches []engine.Match) {
	snap := engine.BuildSnapshot(matches)
	for i := range matches {
		m := &matches[i]
		if m.Odds.Known() {
			continue
		}
		proj := engine.ProjectPoisson(m.HomeTeam, m.AwayTeam, snap.Averages, snap.Strengths)
		m.Odds = engine.Odds{
			Home: derivedPrice(proj.Probabilities.Home),
			Draw: derivedPrice(proj.Probabilities.Draw),
			Away: derivedPrice(proj.Probabilities.Away),
		}
	}
}

// derivedPrice converts a probability to decimal odds with margin.
func derivedPrice(prob float64) float64 {
	if prob <= 0 {
		prob = 0.01
	}
	price := 1 / (prob * overround)
	price = math.Max(price, 1.01)
	return math.Round(price*100) / 100
}

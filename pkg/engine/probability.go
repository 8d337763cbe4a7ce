package engine

import "math"

// OutcomeProbabilities is the three-way probability triple for a match.
// After clamping the values may not sum to exactly 1; consumers must
// tolerate that rather than renormalize.
type OutcomeProbabilities struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// For returns the probability assigned to the given outcome.
func (p OutcomeProbabilities) For(out Outcome) float64 {
	switch out {
	case OutcomeHome:
		return p.Home
	case OutcomeDraw:
		return p.Draw
	default:
		return p.Away
	}
}

// Likeliest is the outcome with the highest probability. Ties resolve
// home before draw before away.
func (p OutcomeProbabilities) Likeliest() Outcome {
	best := OutcomeHome
	bestProb := p.Home
	if p.Draw > bestProb {
		best, bestProb = OutcomeDraw, p.Draw
	}
	if p.Away > bestProb {
		best = OutcomeAway
	}
	return best
}

// ToOutcomeProbabilities converts two projected scores into win/draw/loss
// probabilities. A score gap beyond the favourite cutoff puts one side in
// a favourite regime; inside the cutoff the draw probability grows as the
// projections converge, peaking at 40% for identical scores.
func ToOutcomeProbabilities(homeScore, awayScore float64) OutcomeProbabilities {
	cfg := Config
	diff := homeScore - awayScore

	var home, draw, away float64
	switch {
	case diff > cfg.FavouriteCutoff:
		home = cfg.FavouriteBase + math.Min(diff*cfg.FavouritePerGoal, cfg.FavouriteCap)
		draw = cfg.DrawBase - math.Min(diff*cfg.DrawPenaltyPerGoal, cfg.DrawPenaltyCap)
		away = 1 - home - draw
	case diff < -cfg.FavouriteCutoff:
		away = cfg.FavouriteBase + math.Min(-diff*cfg.FavouritePerGoal, cfg.FavouriteCap)
		draw = cfg.DrawBase - math.Min(-diff*cfg.DrawPenaltyPerGoal, cfg.DrawPenaltyCap)
		home = 1 - away - draw
	default:
		evenness := 1 - math.Abs(diff)/cfg.FavouriteCutoff
		draw = cfg.DrawBase + cfg.DrawEvenBonus*evenness
		remaining := 1 - draw
		homeShare := 0.5 + diff*cfg.LeanPerGoal
		home = remaining * homeShare
		away = remaining * (1 - homeShare)
	}

	return OutcomeProbabilities{
		Home: round3(clamp(home, cfg.MinOutcomeProb, cfg.MaxOutcomeProb)),
		Draw: round3(clamp(draw, cfg.MinDrawProb, cfg.MaxDrawProb)),
		Away: round3(clamp(away, cfg.MinOutcomeProb, cfg.MaxOutcomeProb)),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

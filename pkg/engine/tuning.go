package engine

import "fmt"

// Tuning holds every empirical constant the engine uses. The values are
// hand-calibrated against historical seasons rather than fitted, so they
// live in one place where they can be adjusted without touching the
// model code.
type Tuning struct {
	// Projection bounds
	BaseGoals float64 // league-typical goals per team per match
	MinScore  float64 // floor on a projected score
	MaxScore  float64 // cap on a projected score

	// Statistics windows and neutral fallbacks
	DefaultPeriod       int     // trailing window when a model omits one
	NeutralRating       float64 // offense/defense/form for unseen teams
	DefaultGoalsFor     float64 // per-match rate when a window is empty
	DefaultGoalsAgainst float64
	DefaultWinRate      float64

	// Expected-goals priors for teams and leagues with no sample
	DefaultXG          float64
	DefaultHomeXG      float64
	DefaultAwayXG      float64
	LeagueAvgGoals     float64
	LeagueHomeAvgGoals float64
	LeagueAwayAvgGoals float64

	// Poisson truncation. Mass beyond MaxGoals is recovered by
	// renormalizing the outcome buckets.
	MaxGoals int

	// Probability converter coefficients (see ToOutcomeProbabilities)
	FavouriteCutoff    float64 // score diff beyond which one side is clear favourite
	FavouriteBase      float64
	FavouritePerGoal   float64
	FavouriteCap       float64
	DrawBase           float64
	DrawEvenBonus      float64
	DrawPenaltyPerGoal float64
	DrawPenaltyCap     float64
	LeanPerGoal        float64 // tilt of the non-draw split inside the even band
	MinOutcomeProb     float64
	MaxOutcomeProb     float64
	MinDrawProb        float64
	MaxDrawProb        float64

	// Confidence scoring
	LambdaGapStrong float64 // λ gap treated as a clear Poisson favourite
	LambdaGapWeak   float64 // λ gap below which the matchup is a coin flip

	// Per-factor impact multipliers for the weighted model, reflecting
	// each factor's typical magnitude of effect on goals scored.
	FactorMultipliers map[string]float64

	// Simulation
	StakeUnit float64 // flat stake per simulated bet
}

// DefaultTuning returns the calibrated production constants.
func DefaultTuning() *Tuning {
	return &Tuning{
		BaseGoals: 1.5,
		MinScore:  0.3,
		MaxScore:  4.0,

		DefaultPeriod:       10,
		NeutralRating:       70.0,
		DefaultGoalsFor:     1.5,
		DefaultGoalsAgainst: 1.5,
		DefaultWinRate:      0.5,

		DefaultXG:          1.35,
		DefaultHomeXG:      1.45,
		DefaultAwayXG:      1.15,
		LeagueAvgGoals:     1.50,
		LeagueHomeAvgGoals: 1.45,
		LeagueAwayAvgGoals: 1.15,

		MaxGoals: 6,

		FavouriteCutoff:    0.8,
		FavouriteBase:      0.55,
		FavouritePerGoal:   0.1,
		FavouriteCap:       0.3,
		DrawBase:           0.25,
		DrawEvenBonus:      0.15,
		DrawPenaltyPerGoal: 0.05,
		DrawPenaltyCap:     0.15,
		LeanPerGoal:        0.1,
		MinOutcomeProb:     0.05,
		MaxOutcomeProb:     0.85,
		MinDrawProb:        0.10,
		MaxDrawProb:        0.40,

		LambdaGapStrong: 1.0,
		LambdaGapWeak:   0.3,

		FactorMultipliers: map[string]float64{
			FactorOffense:    3.0,
			FactorDefense:    1.2,
			FactorRecentForm: 2.0,
			FactorWinRate:    1.0,
			FactorGoalDiff:   0.8,
			FactorHomeAdv:    1.0,
			FactorInjuries:   1.5,
			FactorHeadToHead: 0.5,
			FactorRestDays:   0.4,
			FactorTravel:     0.3,
			FactorMotivation: 0.3,
			FactorReferee:    0.2,
			FactorWeather:    0.2,
		},

		StakeUnit: 10.0,
	}
}

// Config is the live tuning used by package-level operations.
var Config *Tuning

func init() {
	Config = DefaultTuning()
}

// Validate checks the tuning for values that would break the math.
func (t *Tuning) Validate() error {
	if t.MinScore <= 0 || t.MaxScore <= t.MinScore {
		return fmt.Errorf("invalid score bounds [%f, %f]", t.MinScore, t.MaxScore)
	}
	if t.DefaultPeriod <= 0 {
		return fmt.Errorf("default period must be positive, got %d", t.DefaultPeriod)
	}
	if t.MaxGoals < 1 {
		return fmt.Errorf("poisson truncation must cover at least one goal, got %d", t.MaxGoals)
	}
	if t.StakeUnit <= 0 {
		return fmt.Errorf("stake unit must be positive, got %f", t.StakeUnit)
	}
	for name, m := range t.FactorMultipliers {
		if m <= 0 {
			return fmt.Errorf("factor %s has non-positive multiplier %f", name, m)
		}
	}
	return nil
}

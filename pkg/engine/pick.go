package engine

import (
	"fmt"
	"math"
	"time"
)

// PickKey identifies a pick by the model and match that produced it.
// Structured on purpose: string-concatenated ids break as soon as an id
// contains the separator.
type PickKey struct {
	ModelID string `json:"modelId"`
	MatchID string `json:"matchId"`
}

// Pick is one recommendation: the outcome the model favours for a match,
// its edge over the market, and the audit trail of how the projection
// was built.
type Pick struct {
	Key           PickKey              `json:"key"`
	ModelName     string               `json:"modelName"`
	HomeTeam      string               `json:"homeTeam"`
	AwayTeam      string               `json:"awayTeam"`
	KickOff       time.Time            `json:"kickOff"`
	Outcome       Outcome              `json:"outcome"`
	HomeScore     float64              `json:"homeScore"`
	AwayScore     float64              `json:"awayScore"`
	Probabilities OutcomeProbabilities `json:"probabilities"`
	ModelProb     float64              `json:"modelProbability"`
	MarketProb    float64              `json:"marketProbability"`
	Odds          float64              `json:"odds"`
	EdgePercent   float64              `json:"edgePercent"`
	Confidence    int                  `json:"confidence"`
	Explanation   string               `json:"explanation"`
	HomeBreakdown []FactorContribution `json:"homeBreakdown,omitempty"`
	AwayBreakdown []FactorContribution `json:"awayBreakdown,omitempty"`
}

// EdgePercent is the percentage by which the model probability beats
// (or trails) the market-implied probability.
func EdgePercent(modelProb, marketProb float64) float64 {
	if marketProb <= 0 {
		return 0
	}
	return (modelProb - marketProb) / marketProb * 100
}

// edgeTier maps an edge percentage onto the 1-10 base confidence tiers.
func edgeTier(edge float64) float64 {
	switch {
	case edge <= -20:
		return 1
	case edge <= -10:
		return 2
	case edge <= -5:
		return 3
	case edge <= 0:
		return 4
	case edge < 5:
		return 5
	case edge < 10:
		return 6
	case edge < 15:
		return 7
	case edge < 20:
		return 8
	case edge < 30:
		return 9
	default:
		return 10
	}
}

func clampConfidence(raw float64) int {
	c := int(math.Round(raw))
	if c < 1 {
		return 1
	}
	if c > 10 {
		return 10
	}
	return c
}

// WeightedConfidence scores picks from the weighted-factor model: the
// edge tier adjusted by model probability strength and by how clearly
// the two projections separate.
func WeightedConfidence(modelProb, marketProb, homeScore, awayScore float64) (int, string) {
	edge := EdgePercent(modelProb, marketProb)
	tier := edgeTier(edge)

	var probAdj float64
	switch {
	case modelProb >= 0.60:
		probAdj = 1.0
	case modelProb >= 0.50:
		probAdj = 0.5
	case modelProb >= 0.40:
		probAdj = 0
	default:
		probAdj = -0.5
	}

	clarity := math.Abs(homeScore - awayScore)
	var clarityAdj float64
	switch {
	case clarity >= 1.5:
		clarityAdj = 1.0
	case clarity >= 1.0:
		clarityAdj = 0.5
	case clarity >= 0.5:
		clarityAdj = 0
	default:
		clarityAdj = -0.5
	}

	conf := clampConfidence(tier + probAdj + clarityAdj)
	expl := fmt.Sprintf("edge %.1f%% (tier %.0f), probability %.0f%% (%+.1f), projection gap %.2f (%+.1f)",
		edge, tier, modelProb*100, probAdj, clarity, clarityAdj)
	return conf, expl
}

// PoissonConfidence scores picks from the Poisson model: the edge tier
// with a λ-gap adjustment. A wide gap between the goal rates marks a
// clear favourite, a narrow one a coin flip.
func PoissonConfidence(modelProb, marketProb, lambdaHome, lambdaAway float64) (int, string) {
	edge := EdgePercent(modelProb, marketProb)
	tier := edgeTier(edge)

	gap := math.Abs(lambdaHome - lambdaAway)
	var gapAdj float64
	switch {
	case gap >= Config.LambdaGapStrong:
		gapAdj = 1
	case gap < Config.LambdaGapWeak:
		gapAdj = -1
	}

	conf := clampConfidence(tier + gapAdj)
	expl := fmt.Sprintf("edge %.1f%% (tier %.0f), lambda gap %.2f (%+.0f)", edge, tier, gap, gapAdj)
	return conf, expl
}

// GeneratePick scores one match under the given model and selects the
// highest-value outcome. The match must carry decimal odds; the snapshot
// must contain data.
func GeneratePick(model *ScoringModel, match *Match, snap *Snapshot) (*Pick, error) {
	if !snap.HasData() {
		return nil, ErrNoMatchData
	}
	if !match.Odds.Known() {
		return nil, fmt.Errorf("match %s: %w", match.ID, ErrNoMarketOdds)
	}

	pick := &Pick{
		Key:       PickKey{ModelID: model.ID, MatchID: match.ID},
		ModelName: model.Name,
		HomeTeam:  match.HomeTeam,
		AwayTeam:  match.AwayTeam,
		KickOff:   match.Date,
	}

	switch model.Kind {
	case ModelWeighted:
		homeScore, homeBreakdown := ProjectGoals(match.HomeTeam, model, true, match.Context, snap)
		awayScore, awayBreakdown := ProjectGoals(match.AwayTeam, model, false, match.Context, snap)
		pick.HomeScore = homeScore
		pick.AwayScore = awayScore
		pick.HomeBreakdown = homeBreakdown
		pick.AwayBreakdown = awayBreakdown
		pick.Probabilities = ToOutcomeProbabilities(homeScore, awayScore)
		pick.Outcome = pick.Probabilities.Likeliest()
		pick.Odds = match.Odds.For(pick.Outcome)
		pick.ModelProb = pick.Probabilities.For(pick.Outcome)
		// Edge and confidence use the exact implied probability; the
		// rounded MarketProb is for display only.
		implied := 1 / pick.Odds
		pick.MarketProb = round3(implied)
		pick.EdgePercent = round2(EdgePercent(pick.ModelProb, implied))
		pick.Confidence, pick.Explanation = WeightedConfidence(pick.ModelProb, implied, homeScore, awayScore)
	case ModelPoisson:
		proj := ProjectPoisson(match.HomeTeam, match.AwayTeam, snap.Averages, snap.Strengths)
		pick.HomeScore = proj.LambdaHome
		pick.AwayScore = proj.LambdaAway
		pick.Probabilities = proj.Probabilities
		pick.Outcome = pick.Probabilities.Likeliest()
		pick.Odds = match.Odds.For(pick.Outcome)
		pick.ModelProb = pick.Probabilities.For(pick.Outcome)
		implied := 1 / pick.Odds
		pick.MarketProb = round3(implied)
		pick.EdgePercent = round2(EdgePercent(pick.ModelProb, implied))
		pick.Confidence, pick.Explanation = PoissonConfidence(pick.ModelProb, implied, proj.LambdaHome, proj.LambdaAway)
	default:
		return nil, fmt.Errorf("model %s has unknown kind %q", model.ID, model.Kind)
	}

	return pick, nil
}

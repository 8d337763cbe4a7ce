package engine

import "math"

// FactorContribution is one row of a projection's audit breakdown.
type FactorContribution struct {
	Name          string  `json:"name"`
	RawValue      float64 `json:"rawValue"`
	Normalized    float64 `json:"normalizedValue"`
	WeightPercent float64 `json:"weightPercent"`
	Contribution  float64 `json:"contribution"`
	Description   string  `json:"description"`
}

// factorMidpoint is the neutral normalized value: factors above it push
// the projection up, below it pull it down.
const factorMidpoint = 0.5

var factorDescriptions = map[string]string{
	FactorOffense:    "goals scored per match over the goals window",
	FactorDefense:    "goals conceded per match over the goals window",
	FactorRecentForm: "win rate over the form window",
	FactorWinRate:    "win rate over the win-rate window",
	FactorGoalDiff:   "average goal difference over the goals window",
	FactorHomeAdv:    "fixed home ground benefit",
	FactorInjuries:   "impact of current squad absences",
	FactorHeadToHead: "record in recent meetings between the sides",
	FactorRestDays:   "days of recovery since the previous match",
	FactorTravel:     "away side travel burden",
	FactorMotivation: "drive inferred from current form rating",
	FactorReferee:    "referee tendencies (neutral placeholder)",
	FactorWeather:    "forecast conditions (neutral placeholder)",
}

// goalRateRamp maps a per-match goal rate onto [0, 0.45]: 0 goals is the
// bottom of the band, 3 or more is the top.
func goalRateRamp(rate float64) float64 {
	return math.Min(rate, 3.0) / 3.0 * 0.45
}

// factorInputs bundles everything factor normalization reads.
type factorInputs struct {
	rating    TeamRating
	formStats PeriodStats
	goalStats PeriodStats
	winStats  PeriodStats
	isHome    bool
	ctx       MatchContext
}

// normalizedFactor returns the raw and normalized [0,1] value for one
// factor. Missing context falls back to neutral defaults.
func normalizedFactor(name string, in factorInputs) (raw, norm float64) {
	switch name {
	case FactorOffense:
		raw = in.goalStats.AvgGoalsFor
		return raw, 0.5 + goalRateRamp(raw)
	case FactorDefense:
		raw = in.goalStats.AvgGoalsAgainst
		return raw, 0.95 - goalRateRamp(raw)
	case FactorRecentForm:
		raw = in.formStats.WinRate
		return raw, raw
	case FactorWinRate:
		raw = in.winStats.WinRate
		return raw, raw
	case FactorGoalDiff:
		raw = in.goalStats.AvgGoalDiff
		return raw, clamp((raw+2)/4, 0, 1)
	case FactorHomeAdv:
		if in.isHome {
			return 1, 0.85
		}
		return 0, 0.15
	case FactorInjuries:
		raw = in.ctx.HomeInjuryImpact
		if !in.isHome {
			raw = in.ctx.AwayInjuryImpact
		}
		if raw <= 0 {
			return 0, 0.9
		}
		return raw, 1 - math.Min(raw, 100)/100
	case FactorHeadToHead:
		raw = in.ctx.H2HHomeWinPct
		if raw <= 0 {
			raw = 50
		}
		if in.isHome {
			return raw, raw / 100
		}
		return raw, 1 - raw/100
	case FactorRestDays:
		days := in.ctx.HomeRestDays
		if !in.isHome {
			days = in.ctx.AwayRestDays
		}
		if days <= 0 {
			days = 4
		}
		raw = float64(days)
		return raw, math.Min(raw/7, 1)
	case FactorTravel:
		if in.isHome {
			return 0, 0.5
		}
		raw = in.ctx.TravelKM
		if raw <= 0 {
			return 0, 0.5
		}
		return raw, 1 - math.Min(raw/400, 1)
	case FactorMotivation:
		raw = in.rating.Form
		return raw, raw / 100
	case FactorReferee, FactorWeather:
		return 0.5, 0.5
	default:
		return 0, factorMidpoint
	}
}

// ProjectGoals projects the expected goals the team scores in this match
// under the given weighted model, with a full per-factor breakdown. An
// unknown team or a zero-sum weight set degenerates to the neutral base
// projection with no breakdown; neither is an error.
func ProjectGoals(team string, model *ScoringModel, isHome bool, ctx MatchContext, snap *Snapshot) (float64, []FactorContribution) {
	rating, known := snap.Ratings[team]
	if !known {
		return Config.BaseGoals, nil
	}
	weights, ok := model.NormalizedWeights()
	if !ok {
		return Config.BaseGoals, nil
	}

	history := snap.Histories[team]
	in := factorInputs{
		rating:    rating,
		formStats: PeriodStatsFor(history, model.periodOrDefault(model.FormPeriod)),
		goalStats: PeriodStatsFor(history, model.periodOrDefault(model.GoalsPeriod)),
		winStats:  PeriodStatsFor(history, model.periodOrDefault(model.WinRatePeriod)),
		isHome:    isHome,
		ctx:       ctx,
	}

	score := Config.BaseGoals
	breakdown := make([]FactorContribution, 0, len(weights))
	for _, name := range FactorOrder {
		fraction, weighted := weights[name]
		if !weighted {
			continue
		}
		raw, norm := normalizedFactor(name, in)
		contribution := (norm - factorMidpoint) * fraction * Config.FactorMultipliers[name]
		score += contribution
		breakdown = append(breakdown, FactorContribution{
			Name:          name,
			RawValue:      round3(raw),
			Normalized:    round3(norm),
			WeightPercent: round2(fraction * 100),
			Contribution:  round3(contribution),
			Description:   factorDescriptions[name],
		})
	}

	return round2(clamp(score, Config.MinScore, Config.MaxScore)), breakdown
}

package engine

import (
	"fmt"
	"strings"
	"time"
)

// ModelKind selects the scoring algorithm a model uses. The variant is
// explicit so dispatch is an exhaustive switch rather than a sentinel
// key hidden inside the weight map.
type ModelKind string

const (
	ModelWeighted ModelKind = "weighted"
	ModelPoisson  ModelKind = "poisson"
)

// Factor keys accepted by the weighted model. The set is closed: unknown
// keys in a weight map are ignored, absent keys weigh zero.
const (
	FactorOffense    = "team_offense"
	FactorDefense    = "team_defense"
	FactorRecentForm = "recent_form"
	FactorWinRate    = "win_rate"
	FactorGoalDiff   = "goal_difference"
	FactorHomeAdv    = "home_advantage"
	FactorInjuries   = "injuries"
	FactorHeadToHead = "head_to_head"
	FactorRestDays   = "rest_days"
	FactorTravel     = "travel_distance"
	FactorMotivation = "motivation_level"
	FactorReferee    = "referee_influence"
	FactorWeather    = "weather_conditions"
)

// FactorOrder fixes the reporting order of factor breakdowns so
// responses are deterministic.
var FactorOrder = []string{
	FactorOffense,
	FactorDefense,
	FactorRecentForm,
	FactorWinRate,
	FactorGoalDiff,
	FactorHomeAdv,
	FactorInjuries,
	FactorHeadToHead,
	FactorRestDays,
	FactorTravel,
	FactorMotivation,
	FactorReferee,
	FactorWeather,
}

// periodSuffix marks weight keys that size statistic windows instead of
// weighting a factor. They are excluded from normalization.
const periodSuffix = "_period"

// ScoringModel is a named scoring configuration: either a weighted-factor
// model carrying weights and window sizes, or the Poisson model.
type ScoringModel struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Kind        ModelKind          `json:"kind"`
	Weights     map[string]float64 `json:"weights,omitempty"`

	FormPeriod    int `json:"formPeriod,omitempty"`
	GoalsPeriod   int `json:"goalsPeriod,omitempty"`
	WinRatePeriod int `json:"winRatePeriod,omitempty"`

	Preset    bool      `json:"preset"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewWeightedModel builds a user model, clamping each weight to [0,100]
// and coercing the window sizes to positive integers.
func NewWeightedModel(id, name, description string, weights map[string]float64) *ScoringModel {
	m := &ScoringModel{
		ID:          id,
		Name:        name,
		Description: description,
		Kind:        ModelWeighted,
		Weights:     make(map[string]float64, len(weights)),
		CreatedAt:   time.Now(),
	}
	for key, w := range weights {
		m.Weights[strings.ToLower(key)] = clamp(w, 0, 100)
	}
	m.FormPeriod = coercePeriod(m.Weights, "form"+periodSuffix)
	m.GoalsPeriod = coercePeriod(m.Weights, "goals"+periodSuffix)
	m.WinRatePeriod = coercePeriod(m.Weights, "win_rate"+periodSuffix)
	return m
}

func coercePeriod(weights map[string]float64, key string) int {
	if v, ok := weights[key]; ok && v >= 1 {
		return int(v)
	}
	return Config.DefaultPeriod
}

// Validate rejects models the engine cannot score.
func (m *ScoringModel) Validate() error {
	if m.ID == "" || m.Name == "" {
		return fmt.Errorf("model requires an id and a name")
	}
	switch m.Kind {
	case ModelWeighted:
		for key, w := range m.Weights {
			if w < 0 {
				return fmt.Errorf("weight %s is negative: %f", key, w)
			}
		}
		return nil
	case ModelPoisson:
		return nil
	default:
		return fmt.Errorf("unknown model kind %q", m.Kind)
	}
}

// NormalizedWeights returns factor-weight fractions summing to 1,
// excluding window-size keys. ok is false when the usable weights sum to
// zero, in which case the model degenerates to the neutral projection.
func (m *ScoringModel) NormalizedWeights() (map[string]float64, bool) {
	var sum float64
	usable := make(map[string]float64)
	for key, w := range m.Weights {
		if strings.HasSuffix(key, periodSuffix) || w <= 0 {
			continue
		}
		usable[key] = w
		sum += w
	}
	if sum == 0 {
		return nil, false
	}
	for key := range usable {
		usable[key] /= sum
	}
	return usable, true
}

func (m *ScoringModel) periodOrDefault(p int) int {
	if p >= 1 {
		return p
	}
	return Config.DefaultPeriod
}

// Presets returns the built-in immutable models. A fresh slice each call
// so callers cannot mutate the shipped configurations.
func Presets() []*ScoringModel {
	return []*ScoringModel{
		{
			ID:          "preset-balanced",
			Name:        "Balanced Pro",
			Description: "Even weighting across every signal, the sensible default",
			Kind:        ModelWeighted,
			Preset:      true,
			FormPeriod:  10, GoalsPeriod: 10, WinRatePeriod: 10,
			Weights: map[string]float64{
				FactorOffense: 10, FactorDefense: 10, FactorRecentForm: 10,
				FactorWinRate: 5, FactorGoalDiff: 5, FactorInjuries: 10,
				FactorHomeAdv: 10, FactorHeadToHead: 10, FactorRestDays: 10,
				FactorTravel: 10, FactorReferee: 5, FactorWeather: 5,
				FactorMotivation: 5,
			},
		},
		{
			ID:          "preset-form-focused",
			Name:        "Form Hunter",
			Description: "Chases momentum: recent results dominate the score",
			Kind:        ModelWeighted,
			Preset:      true,
			FormPeriod:  5, GoalsPeriod: 5, WinRatePeriod: 10,
			Weights: map[string]float64{
				FactorRecentForm: 25, FactorWinRate: 15, FactorGoalDiff: 10,
				FactorHomeAdv: 12, FactorRestDays: 12, FactorOffense: 8,
				FactorDefense: 8, FactorInjuries: 5, FactorHeadToHead: 5,
				FactorTravel: 3, FactorMotivation: 3, FactorReferee: 2,
				FactorWeather: 2,
			},
		},
		{
			ID:          "preset-stats-heavy",
			Name:        "Stats Machine",
			Description: "Season-long scoring and conceding rates over narrative",
			Kind:        ModelWeighted,
			Preset:      true,
			FormPeriod:  15, GoalsPeriod: 15, WinRatePeriod: 15,
			Weights: map[string]float64{
				FactorOffense: 20, FactorDefense: 20, FactorHeadToHead: 15,
				FactorInjuries: 12, FactorGoalDiff: 10, FactorWinRate: 8,
				FactorRecentForm: 8, FactorHomeAdv: 5, FactorRestDays: 4,
				FactorTravel: 3, FactorMotivation: 2, FactorReferee: 2,
				FactorWeather: 1,
			},
		},
		{
			ID:          "preset-poisson",
			Name:        "Poisson xG",
			Description: "Scoreline distribution from league-relative attack and defense strengths",
			Kind:        ModelPoisson,
			Preset:      true,
		},
	}
}

// PresetByID returns the named preset, or ErrModelNotFound.
func PresetByID(id string) (*ScoringModel, error) {
	for _, p := range Presets() {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("preset %s: %w", id, ErrModelNotFound)
}

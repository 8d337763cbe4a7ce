package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizedWeightsSumToOne(t *testing.T) {
	m := NewWeightedModel("u1", "Custom", "", map[string]float64{
		FactorOffense: 30, FactorDefense: 20, FactorRecentForm: 50,
	})
	weights, ok := m.NormalizedWeights()
	require.True(t, ok)
	var sum float64
	for _, w := range weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, 0.5, weights[FactorRecentForm], 1e-9)
}

func TestZeroWeightsDegenerate(t *testing.T) {
	m := NewWeightedModel("u2", "Empty", "", map[string]float64{FactorOffense: 0})
	_, ok := m.NormalizedWeights()
	assert.False(t, ok)
}

func TestPeriodKeysExcludedFromNormalization(t *testing.T) {
	m := NewWeightedModel("u3", "Windows", "", map[string]float64{
		FactorOffense:  50,
		"form_period":  5,
		"goals_period": 8,
	})
	assert.Equal(t, 5, m.FormPeriod)
	assert.Equal(t, 8, m.GoalsPeriod)
	assert.Equal(t, Config.DefaultPeriod, m.WinRatePeriod)

	weights, ok := m.NormalizedWeights()
	require.True(t, ok)
	assert.InDelta(t, 1.0, weights[FactorOffense], 1e-9)
	assert.NotContains(t, weights, "form_period")
}

func TestWeightsClampedToHundred(t *testing.T) {
	m := NewWeightedModel("u4", "Hot", "", map[string]float64{
		FactorOffense: 250, FactorDefense: -10,
	})
	assert.Equal(t, 100.0, m.Weights[FactorOffense])
	assert.Equal(t, 0.0, m.Weights[FactorDefense])
}

func TestPresets(t *testing.T) {
	presets := Presets()
	require.Len(t, presets, 4)
	for _, p := range presets {
		assert.True(t, p.Preset)
		assert.NoError(t, p.Validate())
	}

	poisson, err := PresetByID("preset-poisson")
	require.NoError(t, err)
	assert.Equal(t, ModelPoisson, poisson.Kind)

	_, err = PresetByID("preset-imaginary")
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestPresetsAreCopies(t *testing.T) {
	first, err := PresetByID("preset-balanced")
	require.NoError(t, err)
	first.Weights[FactorOffense] = 0

	again, err := PresetByID("preset-balanced")
	require.NoError(t, err)
	assert.Equal(t, 10.0, again.Weights[FactorOffense])
}

func TestValidateRejectsUnknownKind(t *testing.T) {
	m := &ScoringModel{ID: "x", Name: "X", Kind: ModelKind("quantum")}
	assert.Error(t, m.Validate())
}

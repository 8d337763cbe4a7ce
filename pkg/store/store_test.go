package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/betgenius/betgenius/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "betgenius_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestModelRoundTrip(t *testing.T) {
	s := openTestStore(t)
	model := engine.NewWeightedModel("", "My Edge", "custom blend", map[string]float64{
		engine.FactorOffense: 40, engine.FactorRecentForm: 35, engine.FactorHomeAdv: 25,
		"form_period": 6,
	})
	require.NoError(t, s.SaveModel(model))
	require.NotEmpty(t, model.ID)

	loaded, err := s.GetModel(model.ID)
	require.NoError(t, err)
	assert.Equal(t, "My Edge", loaded.Name)
	assert.Equal(t, engine.ModelWeighted, loaded.Kind)
	assert.Equal(t, 6, loaded.FormPeriod)
	assert.Equal(t, 40.0, loaded.Weights[engine.FactorOffense])
}

func TestGetModelResolvesPresets(t *testing.T) {
	s := openTestStore(t)
	preset, err := s.GetModel("preset-poisson")
	require.NoError(t, err)
	assert.Equal(t, engine.ModelPoisson, preset.Kind)

	_, err = s.GetModel("missing")
	assert.ErrorIs(t, err, engine.ErrModelNotFound)
}

func TestPresetsAreImmutable(t *testing.T) {
	s := openTestStore(t)
	model := engine.NewWeightedModel("preset-balanced", "Imposter", "", map[string]float64{
		engine.FactorOffense: 100,
	})
	assert.ErrorIs(t, s.SaveModel(model), ErrPresetImmutable)
	assert.ErrorIs(t, s.DeleteModel("preset-poisson"), ErrPresetImmutable)
}

func TestListModelsIncludesPresetsAndStored(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SaveModel(engine.NewWeightedModel("", "Z custom", "", map[string]float64{
		engine.FactorOffense: 100,
	})))

	models, err := s.ListModels()
	require.NoError(t, err)
	require.Len(t, models, 5)
	assert.Equal(t, "preset-balanced", models[0].ID)
	assert.Equal(t, "Z custom", models[4].Name)
}

func TestDeleteModel(t *testing.T) {
	s := openTestStore(t)
	model := engine.NewWeightedModel("", "Short lived", "", map[string]float64{
		engine.FactorOffense: 100,
	})
	require.NoError(t, s.SaveModel(model))
	require.NoError(t, s.DeleteModel(model.ID))

	_, err := s.GetModel(model.ID)
	assert.ErrorIs(t, err, engine.ErrModelNotFound)
	assert.ErrorIs(t, s.DeleteModel(model.ID), engine.ErrModelNotFound)
}

func TestMatchCacheRoundTrip(t *testing.T) {
	s := openTestStore(t)
	m := engine.NewMatch("m1", "Arsenal", "Chelsea", time.Date(2025, 9, 13, 15, 0, 0, 0, time.UTC))
	m.HomeGoals = 2
	m.AwayGoals = 1
	m.Odds = engine.Odds{Home: 1.9, Draw: 3.5, Away: 4.1}
	m.Context = engine.MatchContext{
		H2HHomeWinPct:    60,
		HomeRestDays:     6,
		AwayRestDays:     3,
		TravelKM:         12,
		HomeInjuryImpact: 15,
		AwayInjuryImpact: 40,
	}

	require.NoError(t, s.ReplaceMatches([]engine.Match{*m}))
	loaded, err := s.LoadMatches()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, *m, loaded[0])

	// replacing drops the previous cache
	require.NoError(t, s.ReplaceMatches(nil))
	loaded, err = s.LoadMatches()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestJournalLifecycle(t *testing.T) {
	s := openTestStore(t)
	entry := &JournalEntry{
		ModelID:  "preset-balanced",
		MatchID:  "m1",
		HomeTeam: "Arsenal", AwayTeam: "Chelsea",
		Pick:  string(engine.OutcomeHome),
		Stake: 25, OddsTaken: 2.10,
	}
	require.NoError(t, s.AddJournalEntry(entry))
	require.NotEmpty(t, entry.ID)
	assert.Equal(t, JournalPending, entry.Status)

	settled, err := s.SettleJournalEntry(entry.ID, JournalWon)
	require.NoError(t, err)
	assert.InDelta(t, 27.5, settled.ProfitLoss, 0.001)
	assert.NotEmpty(t, settled.SettledAt)

	// settling twice is rejected
	_, err = s.SettleJournalEntry(entry.ID, JournalLost)
	assert.Error(t, err)
}

func TestJournalSettleArithmetic(t *testing.T) {
	lost := &JournalEntry{ID: "a", Stake: 10, OddsTaken: 3.0, Status: JournalPending}
	require.NoError(t, lost.Settle(JournalLost))
	assert.Equal(t, -10.0, lost.ProfitLoss)

	void := &JournalEntry{ID: "b", Stake: 10, OddsTaken: 3.0, Status: JournalPending}
	require.NoError(t, void.Settle(JournalVoid))
	assert.Equal(t, 0.0, void.ProfitLoss)

	bad := &JournalEntry{ID: "c", Stake: 10, OddsTaken: 3.0, Status: JournalPending}
	assert.Error(t, bad.Settle("maybe"))
}

func TestJournalValidation(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.AddJournalEntry(&JournalEntry{Stake: 0, OddsTaken: 2.0}))
	assert.Error(t, s.AddJournalEntry(&JournalEntry{Stake: 10, OddsTaken: 1.0}))
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	add := func(stake, odds float64) *JournalEntry {
		e := &JournalEntry{ModelID: "m", MatchID: "x", Pick: "home", Stake: stake, OddsTaken: odds}
		require.NoError(t, s.AddJournalEntry(e))
		return e
	}
	won := add(10, 2.0)
	lost := add(10, 3.0)
	add(10, 2.5) // stays pending

	_, err := s.SettleJournalEntry(won.ID, JournalWon)
	require.NoError(t, err)
	_, err = s.SettleJournalEntry(lost.ID, JournalLost)
	require.NoError(t, err)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Won)
	assert.Equal(t, 1, stats.Lost)
	assert.InDelta(t, 50.0, stats.WinRatePct, 0.001)
	assert.InDelta(t, 30.0, stats.TotalStaked, 0.001)
	assert.InDelta(t, 0.0, stats.Profit, 0.001) // +10 and -10
	assert.InDelta(t, 0.0, stats.ROIPct, 0.001)
}

package engine

import (
	"errors"
	"fmt"
	"sort"

	"github.com/betgenius/betgenius/internal/logger"
)

// SimulationOptions filter which completed matches a backtest replays.
type SimulationOptions struct {
	// MinConfidence skips picks below the threshold. Skipped matches are
	// excluded entirely, not counted as misses.
	MinConfidence int
	// MatchIDs restricts the replay to an explicit subset when non-empty.
	MatchIDs []string
}

// BreakdownLine is one histogram bucket of a simulation report.
type BreakdownLine struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
}

// SimPrediction is one replayed pick with its verdict.
type SimPrediction struct {
	MatchID     string  `json:"matchId"`
	HomeTeam    string  `json:"homeTeam"`
	AwayTeam    string  `json:"awayTeam"`
	Predicted   Outcome `json:"predicted"`
	Actual      Outcome `json:"actual"`
	Correct     bool    `json:"correct"`
	Confidence  int     `json:"confidence"`
	Odds        float64 `json:"odds"`
	EdgePercent float64 `json:"edgePercent"`
}

// SimulationReport aggregates a backtest of one model over historical
// completed matches.
type SimulationReport struct {
	ModelID             string                     `json:"modelId"`
	ModelName           string                     `json:"modelName"`
	TotalGames          int                        `json:"totalGames"`
	CorrectPredictions  int                        `json:"correctPredictions"`
	AccuracyPercent     float64                    `json:"accuracyPercent"`
	ConfidenceBreakdown map[int]*BreakdownLine     `json:"confidenceBreakdown"`
	OutcomeBreakdown    map[Outcome]*BreakdownLine `json:"outcomeBreakdown"`
	TotalStake          float64                    `json:"totalStake"`
	TotalReturn         float64                    `json:"totalReturn"`
	NetProfit           float64                    `json:"netProfit"`
	ROIPercent          float64                    `json:"roiPercent"`
	AverageWinningOdds  float64                    `json:"averageWinningOdds"`
	Predictions         []SimPrediction            `json:"predictions"`
}

// Simulate replays the scoring pipeline over the snapshot's completed
// matches under one model, scoring each match blind and comparing the
// pick to the recorded result. Zero eligible matches is an error, never
// a report with zero denominators.
func Simulate(model *ScoringModel, snap *Snapshot, opts SimulationOptions) (*SimulationReport, error) {
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	if !snap.HasData() {
		return nil, fmt.Errorf("simulate: %w", ErrNoMatchData)
	}

	var subset map[string]bool
	if len(opts.MatchIDs) > 0 {
		subset = make(map[string]bool, len(opts.MatchIDs))
		for _, id := range opts.MatchIDs {
			subset[id] = true
		}
	}

	report := &SimulationReport{
		ModelID:             model.ID,
		ModelName:           model.Name,
		ConfidenceBreakdown: make(map[int]*BreakdownLine),
		OutcomeBreakdown:    make(map[Outcome]*BreakdownLine),
	}

	completed := snap.CompletedMatches()
	logger.Debug("simulating model over completed matches", model.ID, len(completed))

	for i := range completed {
		match := &completed[i]
		if subset != nil && !subset[match.ID] {
			continue
		}
		actual, _ := match.Result()

		pick, err := GeneratePick(model, match, snap)
		if err != nil {
			if errors.Is(err, ErrNoMarketOdds) {
				continue
			}
			return nil, fmt.Errorf("simulate match %s: %w", match.ID, err)
		}
		if pick.Confidence < opts.MinConfidence {
			continue
		}

		correct := pick.Outcome == actual
		report.TotalGames++
		if correct {
			report.CorrectPredictions++
		}

		if line := report.ConfidenceBreakdown[pick.Confidence]; line == nil {
			report.ConfidenceBreakdown[pick.Confidence] = &BreakdownLine{}
		}
		if line := report.OutcomeBreakdown[pick.Outcome]; line == nil {
			report.OutcomeBreakdown[pick.Outcome] = &BreakdownLine{}
		}
		report.ConfidenceBreakdown[pick.Confidence].Total++
		report.OutcomeBreakdown[pick.Outcome].Total++
		if correct {
			report.ConfidenceBreakdown[pick.Confidence].Correct++
			report.OutcomeBreakdown[pick.Outcome].Correct++
		}

		report.TotalStake += Config.StakeUnit
		if correct {
			report.TotalReturn += Config.StakeUnit * pick.Odds
		}

		report.Predictions = append(report.Predictions, SimPrediction{
			MatchID:     match.ID,
			HomeTeam:    match.HomeTeam,
			AwayTeam:    match.AwayTeam,
			Predicted:   pick.Outcome,
			Actual:      actual,
			Correct:     correct,
			Confidence:  pick.Confidence,
			Odds:        pick.Odds,
			EdgePercent: pick.EdgePercent,
		})
	}

	if report.TotalGames == 0 {
		return nil, fmt.Errorf("simulate model %s: %w", model.ID, ErrEmptyResultSet)
	}

	report.AccuracyPercent = round2(float64(report.CorrectPredictions) / float64(report.TotalGames) * 100)
	report.NetProfit = round2(report.TotalReturn - report.TotalStake)
	report.ROIPercent = round2(report.NetProfit / report.TotalStake * 100)
	if report.CorrectPredictions > 0 {
		report.AverageWinningOdds = round2(report.TotalReturn / float64(report.CorrectPredictions))
	}
	report.TotalStake = round2(report.TotalStake)
	report.TotalReturn = round2(report.TotalReturn)

	sort.SliceStable(report.Predictions, func(i, j int) bool {
		return report.Predictions[i].Confidence > report.Predictions[j].Confidence
	})

	logger.Info("simulation complete", report.ModelID, report.TotalGames, report.AccuracyPercent)
	return report, nil
}

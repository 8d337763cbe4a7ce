package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/betgenius/betgenius/pkg/engine"
)

const timeLayout = time.RFC3339

// ModelRecord is a persisted scoring model. Weights are stored as a JSON
// blob since sqlite has no map column.
type ModelRecord struct {
	ID          string `column:"id" dbtype:"TEXT" primary:"true" json:"id"`
	Name        string `column:"name" dbtype:"TEXT NOT NULL" json:"name"`
	Description string `column:"description" dbtype:"TEXT" json:"description"`
	Kind        string `column:"kind" dbtype:"TEXT NOT NULL" json:"kind"`
	WeightsJSON string `column:"weights" dbtype:"TEXT" json:"-"`

	FormPeriod    int    `column:"form_period" dbtype:"INTEGER" json:"formPeriod"`
	GoalsPeriod   int    `column:"goals_period" dbtype:"INTEGER" json:"goalsPeriod"`
	WinRatePeriod int    `column:"win_rate_period" dbtype:"INTEGER" json:"winRatePeriod"`
	CreatedAt     string `column:"created_at" dbtype:"TEXT" json:"createdAt"`
	UpdatedAt     string `column:"updated_at" dbtype:"TEXT" json:"updatedAt"`
}

func (m *ModelRecord) TableName() string { return "scoring_model" }

func (m *ModelRecord) PrimaryKey() map[string]any {
	return map[string]any{"id": m.ID}
}

func (m *ModelRecord) BeforeSave() error {
	now := time.Now().UTC().Format(timeLayout)
	if m.CreatedAt == "" {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return nil
}

// RecordFromModel flattens an engine model for persistence.
func RecordFromModel(model *engine.ScoringModel) (*ModelRecord, error) {
	weights, err := json.Marshal(model.Weights)
	if err != nil {
		return nil, fmt.Errorf("failed to encode weights for model %s: %w", model.ID, err)
	}
	return &ModelRecord{
		ID:            model.ID,
		Name:          model.Name,
		Description:   model.Description,
		Kind:          string(model.Kind),
		WeightsJSON:   string(weights),
		FormPeriod:    model.FormPeriod,
		GoalsPeriod:   model.GoalsPeriod,
		WinRatePeriod: model.WinRatePeriod,
	}, nil
}

// ToModel rebuilds the engine model from a stored record.
func (m *ModelRecord) ToModel() (*engine.ScoringModel, error) {
	model := &engine.ScoringModel{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Kind:          engine.ModelKind(m.Kind),
		FormPeriod:    m.FormPeriod,
		GoalsPeriod:   m.GoalsPeriod,
		WinRatePeriod: m.WinRatePeriod,
	}
	if m.WeightsJSON != "" && m.WeightsJSON != "null" {
		if err := json.Unmarshal([]byte(m.WeightsJSON), &model.Weights); err != nil {
			return nil, fmt.Errorf("failed to decode weights for model %s: %w", m.ID, err)
		}
	}
	if created, err := time.Parse(timeLayout, m.CreatedAt); err == nil {
		model.CreatedAt = created
	}
	return model, model.Validate()
}

// Journal entry statuses.
const (
	JournalPending = "pending"
	JournalWon     = "won"
	JournalLost    = "lost"
	JournalVoid    = "void"
)

// JournalEntry records a wager a user committed to from a pick.
type JournalEntry struct {
	ID          string  `column:"id" dbtype:"TEXT" primary:"true" json:"id"`
	ModelID     string  `column:"model_id" dbtype:"TEXT" index:"true" json:"modelId"`
	MatchID     string  `column:"match_id" dbtype:"TEXT" index:"true" json:"matchId"`
	HomeTeam    string  `column:"home_team" dbtype:"TEXT" json:"homeTeam"`
	AwayTeam    string  `column:"away_team" dbtype:"TEXT" json:"awayTeam"`
	Pick        string  `column:"pick" dbtype:"TEXT" json:"pick"`
	Confidence  int     `column:"confidence" dbtype:"INTEGER" json:"confidence"`
	EdgePercent float64 `column:"edge_percent" dbtype:"REAL" json:"edgePercent"`
	Stake       float64 `column:"stake" dbtype:"REAL" json:"stake"`
	OddsTaken   float64 `column:"odds_taken" dbtype:"REAL" json:"oddsTaken"`
	Status      string  `column:"status" dbtype:"TEXT" index:"true" json:"status"`
	ProfitLoss  float64 `column:"profit_loss" dbtype:"REAL" json:"profitLoss"`
	CreatedAt   string  `column:"created_at" dbtype:"TEXT" json:"createdAt"`
	SettledAt   string  `column:"settled_at" dbtype:"TEXT" json:"settledAt,omitempty"`
}

func (j *JournalEntry) TableName() string { return "journal" }

func (j *JournalEntry) PrimaryKey() map[string]any {
	return map[string]any{"id": j.ID}
}

func (j *JournalEntry) BeforeSave() error {
	if j.Stake <= 0 {
		return fmt.Errorf("journal entry %s has non-positive stake %f", j.ID, j.Stake)
	}
	if j.OddsTaken <= 1.0 {
		return fmt.Errorf("journal entry %s has invalid odds %f", j.ID, j.OddsTaken)
	}
	if j.Status == "" {
		j.Status = JournalPending
	}
	if j.CreatedAt == "" {
		j.CreatedAt = time.Now().UTC().Format(timeLayout)
	}
	return nil
}

// Settle resolves a pending entry. Winning pays stake at the odds taken,
// losing forfeits the stake, a void returns it.
func (j *JournalEntry) Settle(result string) error {
	if j.Status != JournalPending {
		return fmt.Errorf("journal entry %s is already settled as %s", j.ID, j.Status)
	}
	switch result {
	case JournalWon:
		j.ProfitLoss = j.Stake * (j.OddsTaken - 1)
	case JournalLost:
		j.ProfitLoss = -j.Stake
	case JournalVoid:
		j.ProfitLoss = 0
	default:
		return fmt.Errorf("unknown settlement result %q", result)
	}
	j.Status = result
	j.SettledAt = time.Now().UTC().Format(timeLayout)
	return nil
}

// MatchRecord caches one match of the last ingested snapshot so the
// service can start without refetching upstream feeds.
type MatchRecord struct {
	ID        string  `column:"id" dbtype:"TEXT" primary:"true"`
	Date      string  `column:"date" dbtype:"TEXT" index:"true"`
	HomeTeam  string  `column:"home_team" dbtype:"TEXT" index:"true"`
	AwayTeam  string  `column:"away_team" dbtype:"TEXT" index:"true"`
	HomeGoals int     `column:"home_goals" dbtype:"INTEGER"`
	AwayGoals int     `column:"away_goals" dbtype:"INTEGER"`
	OddsHome  float64 `column:"odds_home" dbtype:"REAL"`
	OddsDraw  float64 `column:"odds_draw" dbtype:"REAL"`
	OddsAway  float64 `column:"odds_away" dbtype:"REAL"`

	H2HHomeWinPct    float64 `column:"h2h_home_win_pct" dbtype:"REAL"`
	HomeRestDays     int     `column:"home_rest_days" dbtype:"INTEGER"`
	AwayRestDays     int     `column:"away_rest_days" dbtype:"INTEGER"`
	TravelKM         float64 `column:"travel_km" dbtype:"REAL"`
	HomeInjuryImpact float64 `column:"home_injury_impact" dbtype:"REAL"`
	AwayInjuryImpact float64 `column:"away_injury_impact" dbtype:"REAL"`
}

func (m *MatchRecord) TableName() string { return "matches" }

func (m *MatchRecord) PrimaryKey() map[string]any {
	return map[string]any{"id": m.ID}
}

func (m *MatchRecord) BeforeSave() error {
	if m.ID == "" {
		return fmt.Errorf("match record requires an id")
	}
	return nil
}

// RecordFromMatch flattens an engine match for the cache table.
func RecordFromMatch(m *engine.Match) *MatchRecord {
	return &MatchRecord{
		ID:               m.ID,
		Date:             m.Date.UTC().Format(timeLayout),
		HomeTeam:         m.HomeTeam,
		AwayTeam:         m.AwayTeam,
		HomeGoals:        m.HomeGoals,
		AwayGoals:        m.AwayGoals,
		OddsHome:         m.Odds.Home,
		OddsDraw:         m.Odds.Draw,
		OddsAway:         m.Odds.Away,
		H2HHomeWinPct:    m.Context.H2HHomeWinPct,
		HomeRestDays:     m.Context.HomeRestDays,
		AwayRestDays:     m.Context.AwayRestDays,
		TravelKM:         m.Context.TravelKM,
		HomeInjuryImpact: m.Context.HomeInjuryImpact,
		AwayInjuryImpact: m.Context.AwayInjuryImpact,
	}
}

// ToMatch rebuilds the engine match from the cache row.
func (m *MatchRecord) ToMatch() engine.Match {
	date, _ := time.Parse(timeLayout, m.Date)
	return engine.Match{
		ID:        m.ID,
		Date:      date,
		HomeTeam:  m.HomeTeam,
		AwayTeam:  m.AwayTeam,
		HomeGoals: m.HomeGoals,
		AwayGoals: m.AwayGoals,
		Odds:      engine.Odds{Home: m.OddsHome, Draw: m.OddsDraw, Away: m.OddsAway},
		Context: engine.MatchContext{
			H2HHomeWinPct:    m.H2HHomeWinPct,
			HomeRestDays:     m.HomeRestDays,
			AwayRestDays:     m.AwayRestDays,
			TravelKM:         m.TravelKM,
			HomeInjuryImpact: m.HomeInjuryImpact,
			AwayInjuryImpact: m.AwayInjuryImpact,
		},
	}
}

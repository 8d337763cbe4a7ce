package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/betgenius/betgenius/pkg/engine"
	"github.com/google/uuid"
)

// ErrPresetImmutable rejects writes against the shipped presets.
var ErrPresetImmutable = errors.New("preset models cannot be modified or deleted")

// SaveModel persists a user-created scoring model. Preset ids are
// reserved.
func (s *Store) SaveModel(model *engine.ScoringModel) error {
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	if _, err := engine.PresetByID(model.ID); err == nil {
		return fmt.Errorf("model %s: %w", model.ID, ErrPresetImmutable)
	}
	if err := model.Validate(); err != nil {
		return fmt.Errorf("invalid model: %w", err)
	}
	record, err := RecordFromModel(model)
	if err != nil {
		return err
	}
	return s.Save(record)
}

// GetModel resolves an id against the presets first, then stored user
// models. Unknown ids are ErrModelNotFound.
func (s *Store) GetModel(id string) (*engine.ScoringModel, error) {
	if preset, err := engine.PresetByID(id); err == nil {
		return preset, nil
	}
	record := &ModelRecord{}
	err := s.FindByPrimaryKey(record, map[string]any{"id": id})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("model %s: %w", id, engine.ErrModelNotFound)
	}
	if err != nil {
		return nil, err
	}
	return record.ToModel()
}

// ListModels returns the presets followed by every stored user model.
func (s *Store) ListModels() ([]*engine.ScoringModel, error) {
	models := engine.Presets()
	rows, err := s.FindWhere(&ModelRecord{}, "")
	if err != nil {
		return nil, err
	}
	var stored []*engine.ScoringModel
	for _, row := range rows {
		model, err := row.(*ModelRecord).ToModel()
		if err != nil {
			return nil, err
		}
		stored = append(stored, model)
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].Name < stored[j].Name })
	return append(models, stored...), nil
}

// DeleteModel removes a user model. Presets cannot be deleted.
func (s *Store) DeleteModel(id string) error {
	if _, err := engine.PresetByID(id); err == nil {
		return fmt.Errorf("model %s: %w", id, ErrPresetImmutable)
	}
	record := &ModelRecord{ID: id}
	exists, err := s.Exists(record)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("model %s: %w", id, engine.ErrModelNotFound)
	}
	return s.Delete(record)
}

// ReplaceMatches swaps the cached snapshot for a new match set.
func (s *Store) ReplaceMatches(matches []engine.Match) error {
	if _, err := s.db.Exec("DELETE FROM matches"); err != nil {
		return fmt.Errorf("failed to clear match cache: %w", err)
	}
	records := make([]Persistable, 0, len(matches))
	for i := range matches {
		records = append(records, RecordFromMatch(&matches[i]))
	}
	return s.BulkSave(records)
}

// LoadMatches returns the cached snapshot in date order.
func (s *Store) LoadMatches() ([]engine.Match, error) {
	rows, err := s.FindWhere(&MatchRecord{}, "")
	if err != nil {
		return nil, err
	}
	matches := make([]engine.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, row.(*MatchRecord).ToMatch())
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Date.Before(matches[j].Date) })
	return matches, nil
}

// AddJournalEntry records a new wager. A missing id is generated.
func (s *Store) AddJournalEntry(entry *JournalEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return s.Save(entry)
}

// GetJournalEntry loads one entry. A missing id surfaces sql.ErrNoRows
// for callers to translate.
func (s *Store) GetJournalEntry(id string) (*JournalEntry, error) {
	entry := &JournalEntry{}
	err := s.FindByPrimaryKey(entry, map[string]any{"id": id})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("journal entry %s not found: %w", id, sql.ErrNoRows)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListJournal returns every entry, newest first.
func (s *Store) ListJournal() ([]*JournalEntry, error) {
	rows, err := s.FindWhere(&JournalEntry{}, "")
	if err != nil {
		return nil, err
	}
	entries := make([]*JournalEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.(*JournalEntry))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt > entries[j].CreatedAt })
	return entries, nil
}

// SettleJournalEntry resolves a pending entry and persists the result.
func (s *Store) SettleJournalEntry(id, result string) (*JournalEntry, error) {
	entry, err := s.GetJournalEntry(id)
	if err != nil {
		return nil, err
	}
	if err := entry.Settle(result); err != nil {
		return nil, err
	}
	if err := s.Save(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteJournalEntry removes an entry.
func (s *Store) DeleteJournalEntry(id string) error {
	entry, err := s.GetJournalEntry(id)
	if err != nil {
		return err
	}
	return s.Delete(entry)
}

// JournalStats aggregates the betting journal.
type JournalStats struct {
	Total       int     `json:"total"`
	Pending     int     `json:"pending"`
	Won         int     `json:"won"`
	Lost        int     `json:"lost"`
	Void        int     `json:"void"`
	WinRatePct  float64 `json:"winRatePct"`
	TotalStaked float64 `json:"totalStaked"`
	Profit      float64 `json:"profit"`
	ROIPct      float64 `json:"roiPct"`
}

// Stats summarizes the journal. Win rate and ROI cover settled entries
// only; both are zero when nothing has settled.
func (s *Store) Stats() (*JournalStats, error) {
	entries, err := s.ListJournal()
	if err != nil {
		return nil, err
	}
	stats := &JournalStats{}
	var settledStake float64
	for _, e := range entries {
		stats.Total++
		switch e.Status {
		case JournalWon:
			stats.Won++
		case JournalLost:
			stats.Lost++
		case JournalVoid:
			stats.Void++
		default:
			stats.Pending++
		}
		stats.TotalStaked += e.Stake
		if e.Status != JournalPending {
			stats.Profit += e.ProfitLoss
			if e.Status != JournalVoid {
				settledStake += e.Stake
			}
		}
	}
	if decided := stats.Won + stats.Lost; decided > 0 {
		stats.WinRatePct = float64(stats.Won) / float64(decided) * 100
	}
	if settledStake > 0 {
		stats.ROIPct = stats.Profit / settledStake * 100
	}
	return stats, nil
}

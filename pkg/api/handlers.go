package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/betgenius/betgenius/internal/logger"
	"github.com/betgenius/betgenius/pkg/engine"
	"github.com/betgenius/betgenius/pkg/store"
	"github.com/gorilla/mux"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	info := map[string]any{
		"service": "betgenius",
		"version": "1.0",
		"ready":   snap.HasData(),
	}
	if snap.HasData() {
		info["matches"] = len(snap.Matches)
		info["teams"] = len(snap.Teams())
		info["builtAt"] = snap.BuiltAt.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, info)
}

type teamSummary struct {
	Name   string            `json:"name"`
	Rating engine.TeamRating `json:"rating"`
}

func (s *Server) handleTeams(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	if !snap.HasData() {
		writeError(w, engine.ErrNoMatchData)
		return
	}
	teams := make([]teamSummary, 0, len(snap.Histories))
	for _, name := range snap.Teams() {
		teams = append(teams, teamSummary{Name: name, Rating: snap.Ratings[name]})
	}
	writeJSON(w, http.StatusOK, teams)
}

// handleGames lists matches in the snapshot. ?status=completed or
// ?status=upcoming narrows the set.
func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	snap := s.Snapshot()
	if !snap.HasData() {
		writeError(w, engine.ErrNoMatchData)
		return
	}
	var matches []engine.Match
	switch r.URL.Query().Get("status") {
	case "completed":
		matches = snap.CompletedMatches()
	case "upcoming":
		matches = snap.UpcomingMatches()
	case "":
		matches = snap.Matches
	default:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "status must be completed or upcoming"})
		return
	}
	if matches == nil {
		matches = []engine.Match{}
	}
	writeJSON(w, http.StatusOK, matches)
}

// handleRefresh pulls fresh match data, rebuilds the snapshot and
// persists the match cache. Concurrent refreshes are serialized.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	matches, err := s.source.Refresh(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	snap := engine.BuildSnapshot(matches)
	s.snapshot.Store(snap)
	if err := s.store.ReplaceMatches(matches); err != nil {
		logger.Error("failed to persist match cache", err)
	}
	logger.Inform("refreshed match data", len(matches))
	writeJSON(w, http.StatusOK, map[string]any{
		"matches": len(matches),
		"teams":   len(snap.Teams()),
	})
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.store.ListModels()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

type createModelRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Kind        string             `json:"kind"`
	Weights     map[string]float64 `json:"weights"`
}

func (s *Server) handleCreateModel(w http.ResponseWriter, r *http.Request) {
	var req createModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "model name is required"})
		return
	}
	var model *engine.ScoringModel
	switch engine.ModelKind(req.Kind) {
	case engine.ModelPoisson:
		model = &engine.ScoringModel{
			Name:        req.Name,
			Description: req.Description,
			Kind:        engine.ModelPoisson,
			CreatedAt:   time.Now(),
		}
	case engine.ModelWeighted, "":
		model = engine.NewWeightedModel("", req.Name, req.Description, req.Weights)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("unknown model kind %q", req.Kind)})
		return
	}
	if err := s.store.SaveModel(model); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, model)
}

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	model, err := s.store.GetModel(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

func (s *Server) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteModel(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type generatePicksRequest struct {
	ModelID  string   `json:"modelId"`
	MatchIDs []string `json:"matchIds"`
}

// handleGeneratePicks scores upcoming fixtures with the chosen model.
// Matches without market odds are skipped rather than failing the batch.
func (s *Server) handleGeneratePicks(w http.ResponseWriter, r *http.Request) {
	var req generatePicksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	model, err := s.store.GetModel(req.ModelID)
	if err != nil {
		writeError(w, err)
		return
	}
	snap := s.Snapshot()
	if !snap.HasData() {
		writeError(w, engine.ErrNoMatchData)
		return
	}

	candidates := snap.UpcomingMatches()
	if len(req.MatchIDs) > 0 {
		wanted := make(map[string]bool, len(req.MatchIDs))
		for _, id := range req.MatchIDs {
			wanted[id] = true
		}
		var filtered []engine.Match
		for _, m := range candidates {
			if wanted[m.ID] {
				filtered = append(filtered, m)
			}
		}
		candidates = filtered
	}

	picks := make([]*engine.Pick, 0, len(candidates))
	for i := range candidates {
		pick, err := engine.GeneratePick(model, &candidates[i], snap)
		if err != nil {
			if errors.Is(err, engine.ErrNoMarketOdds) {
				continue
			}
			writeError(w, err)
			return
		}
		picks = append(picks, pick)
	}
	writeJSON(w, http.StatusOK, picks)
}

type createJournalRequest struct {
	ModelID     string  `json:"modelId"`
	MatchID     string  `json:"matchId"`
	HomeTeam    string  `json:"homeTeam"`
	AwayTeam    string  `json:"awayTeam"`
	Pick        string  `json:"pick"`
	Confidence  int     `json:"confidence"`
	EdgePercent float64 `json:"edgePercent"`
	Stake       float64 `json:"stake"`
	OddsTaken   float64 `json:"oddsTaken"`
}

func (s *Server) handleCreateJournal(w http.ResponseWriter, r *http.Request) {
	var req createJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	entry := &store.JournalEntry{
		ModelID:     req.ModelID,
		MatchID:     req.MatchID,
		HomeTeam:    req.HomeTeam,
		AwayTeam:    req.AwayTeam,
		Pick:        req.Pick,
		Confidence:  req.Confidence,
		EdgePercent: req.EdgePercent,
		Stake:       req.Stake,
		OddsTaken:   req.OddsTaken,
	}
	if err := s.store.AddJournalEntry(entry); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListJournal(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.ListJournal()
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []*store.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleDeleteJournal(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteJournalEntry(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type settleRequest struct {
	Result string `json:"result"`
}

func (s *Server) handleSettleJournal(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	entry, err := s.store.SettleJournalEntry(mux.Vars(r)["id"], req.Result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, err)
			return
		}
		// Double settles and unknown results are caller errors.
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type simulateRequest struct {
	ModelID       string   `json:"modelId"`
	MinConfidence int      `json:"minConfidence"`
	MatchIDs      []string `json:"matchIds"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	model, err := s.store.GetModel(req.ModelID)
	if err != nil {
		writeError(w, err)
		return
	}
	report, err := engine.Simulate(model, s.Snapshot(), engine.SimulationOptions{
		MinConfidence: req.MinConfidence,
		MatchIDs:      req.MatchIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

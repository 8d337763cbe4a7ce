package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/betgenius/betgenius/internal/logger"
	"github.com/betgenius/betgenius/pkg/engine"
	"github.com/betgenius/betgenius/pkg/store"
	"github.com/gorilla/mux"
)

// MatchSource abstracts the ingestion collaborator so tests can refresh
// from canned data.
type MatchSource interface {
	Refresh(ctx context.Context) ([]engine.Match, error)
}

// Server exposes the prediction engine over HTTP. The match snapshot is
// held behind an atomic pointer and swapped wholesale on refresh, so
// in-flight scoring always sees a consistent snapshot.
type Server struct {
	store     *store.Store
	source    MatchSource
	snapshot  atomic.Pointer[engine.Snapshot]
	refreshMu sync.Mutex
}

// New builds a server around the given store and match source.
func New(st *store.Store, source MatchSource) *Server {
	return &Server{store: st, source: source}
}

// SetSnapshot installs a snapshot directly, used at startup with the
// cached match set and by tests.
func (s *Server) SetSnapshot(snap *engine.Snapshot) {
	s.snapshot.Store(snap)
}

// Snapshot returns the current snapshot, which may be nil before the
// first refresh.
func (s *Server) Snapshot() *engine.Snapshot {
	return s.snapshot.Load()
}

// Router wires every endpoint under /api.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	api.HandleFunc("/teams", s.handleTeams).Methods(http.MethodGet)
	api.HandleFunc("/games", s.handleGames).Methods(http.MethodGet)
	api.HandleFunc("/refresh-data", s.handleRefresh).Methods(http.MethodPost)

	api.HandleFunc("/models", s.handleListModels).Methods(http.MethodGet)
	api.HandleFunc("/models", s.handleCreateModel).Methods(http.MethodPost)
	api.HandleFunc("/models/{id}", s.handleGetModel).Methods(http.MethodGet)
	api.HandleFunc("/models/{id}", s.handleDeleteModel).Methods(http.MethodDelete)

	api.HandleFunc("/picks/generate", s.handleGeneratePicks).Methods(http.MethodPost)

	api.HandleFunc("/journal", s.handleListJournal).Methods(http.MethodGet)
	api.HandleFunc("/journal", s.handleCreateJournal).Methods(http.MethodPost)
	api.HandleFunc("/journal/{id}", s.handleDeleteJournal).Methods(http.MethodDelete)
	api.HandleFunc("/journal/{id}/settle", s.handleSettleJournal).Methods(http.MethodPatch)

	api.HandleFunc("/simulate", s.handleSimulate).Methods(http.MethodPost)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	r.Use(logRequests)
	return r
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("handled request", r.Method, r.URL.Path, time.Since(start).String())
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("failed to encode response", err)
		}
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps engine and store failures onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrModelNotFound), errors.Is(err, sql.ErrNoRows):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrEmptyResultSet), errors.Is(err, engine.ErrNoMarketOdds):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrPresetImmutable):
		status = http.StatusForbidden
	case errors.Is(err, engine.ErrNoMatchData):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/betgenius/betgenius/internal/logger"
	"github.com/betgenius/betgenius/pkg/api"
	"github.com/betgenius/betgenius/pkg/datasource"
	"github.com/betgenius/betgenius/pkg/engine"
	"github.com/betgenius/betgenius/pkg/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if envOr("BETGENIUS_DEBUG", "") != "" {
		logger.SetLevel(logger.DEBUG)
	}
	logger.Info("starting betgenius server")

	addr := envOr("BETGENIUS_ADDR", ":8080")
	dbPath := envOr("BETGENIUS_DB", "betgenius.db")
	season := envOr("BETGENIUS_SEASON", "2025")
	token := os.Getenv("FOOTBALL_DATA_TOKEN")
	if token == "" {
		logger.Warn("FOOTBALL_DATA_TOKEN not set, fixtures API disabled, scrape fallback only")
	}

	st, err := store.Open(dbPath)
	if err != nil {
		logger.Fatal("failed to open database", err)
	}
	defer st.Close()

	source := datasource.NewPremierLeague(token, season)
	srv := api.New(st, source)

	// Serve from the cached match set immediately; a refresh replaces it.
	cached, err := st.LoadMatches()
	if err != nil {
		logger.Warn("failed to load cached matches", err)
	}
	srv.SetSnapshot(engine.BuildSnapshot(cached))
	if len(cached) > 0 {
		logger.Inform("loaded cached matches", len(cached))
	} else {
		logger.Inform("no cached matches, POST /api/refresh-data to ingest")
	}

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Highlight("listening on", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", err)
		}
	}()

	<-done
	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", err)
	}
}

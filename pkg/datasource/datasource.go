package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/betgenius/betgenius/internal/logger"
	"github.com/betgenius/betgenius/pkg/engine"
	"github.com/betgenius/betgenius/pkg/transport"
)

// Source ingests fixtures, results and odds for one competition. The
// primary feed is the football-data.org v4 API; a scraped league page
// serves as fallback, and football-data.co.uk CSVs enrich completed
// matches with averaged bookmaker odds.
type Source struct {
	APIToken    string
	Competition string // football-data.org competition code, e.g. "PL"
	Season      string // starting year, e.g. "2025"
	OddsCSVURL  string // football-data.co.uk season file
	FixturesURL string // scrape fallback league page
}

// NewPremierLeague returns the default Premier League source for the
// given season.
func NewPremierLeague(apiToken, season string) *Source {
	shortSeason := season
	if len(season) == 4 {
		// football-data.co.uk names season files E0 under e.g. 2526
		next := season[2:]
		shortSeason = next + nextYearSuffix(season)
	}
	return &Source{
		APIToken:    apiToken,
		Competition: "PL",
		Season:      season,
		OddsCSVURL:  fmt.Sprintf("https://www.football-data.co.uk/mmz4281/%s/E0.csv", shortSeason),
		FixturesURL: "https://www.fotmob.com/leagues/47/matches/premier-league",
	}
}

func nextYearSuffix(season string) string {
	var year int
	fmt.Sscanf(season, "%d", &year)
	return fmt.Sprintf("%02d", (year+1)%100)
}

// Refresh fetches the current match set: API first, scrape fallback,
// then CSV odds enrichment and derived odds for any fixture the market
// has not priced. Failing both feeds is an upstream error.
func (s *Source) Refresh(ctx context.Context) ([]engine.Match, error) {
	matches, err := s.fetchFromAPI(ctx)
	if err != nil {
		logger.Warn("fixtures API unavailable, falling back to page scrape", err)
		matches, err = s.fetchFromPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("all fixture feeds failed: %w", err)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("fixture feed returned no matches: %w", engine.ErrNoMatchData)
	}

	if s.OddsCSVURL != "" {
		rows, err := s.fetchOddsCSV(ctx)
		if err != nil {
			logger.Warn("odds CSV unavailable, keeping feed odds", err)
		} else {
			merged := MergeOdds(matches, rows)
			logger.Info("merged bookmaker odds into matches", merged, len(matches))
		}
	}

	DeriveMissingOdds(matches)
	logger.Inform("refreshed match data", len(matches))
	return matches, nil
}

// football-data.org v4 wire format, reduced to the fields we consume.
type apiMatchesResponse struct {
	Matches []struct {
		ID       int       `json:"id"`
		UTCDate  time.Time `json:"utcDate"`
		Status   string    `json:"status"`
		HomeTeam struct {
			Name string `json:"name"`
		} `json:"homeTeam"`
		AwayTeam struct {
			Name string `json:"name"`
		} `json:"awayTeam"`
		Score struct {
			FullTime struct {
				Home *int `json:"home"`
				Away *int `json:"away"`
			} `json:"fullTime"`
		} `json:"score"`
	} `json:"matches"`
}

func (s *Source) fetchFromAPI(ctx context.Context) ([]engine.Match, error) {
	if s.APIToken == "" {
		return nil, fmt.Errorf("no API token configured")
	}
	url := fmt.Sprintf("https://api.football-data.org/v4/competitions/%s/matches?season=%s",
		s.Competition, s.Season)

	var resp apiMatchesResponse
	err := transport.GetJSON(ctx, url, map[string]string{"X-Auth-Token": s.APIToken}, &resp)
	if err != nil {
		return nil, err
	}

	matches := make([]engine.Match, 0, len(resp.Matches))
	for _, am := range resp.Matches {
		m := engine.NewMatch(fmt.Sprintf("fd-%d", am.ID), am.HomeTeam.Name, am.AwayTeam.Name, am.UTCDate)
		if am.Status == "FINISHED" && am.Score.FullTime.Home != nil && am.Score.FullTime.Away != nil {
			m.HomeGoals = *am.Score.FullTime.Home
			m.AwayGoals = *am.Score.FullTime.Away
		}
		matches = append(matches, *m)
	}
	return matches, nil
}

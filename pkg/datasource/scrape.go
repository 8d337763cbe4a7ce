package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/betgenius/betgenius/internal/logger"
	"github.com/betgenius/betgenius/pkg/engine"
	"github.com/betgenius/betgenius/pkg/transport"
)

// Scrape fallback: league pages built on Next.js embed their full data
// payload as JSON in a script#__NEXT_DATA__ element, so no JavaScript
// execution is needed to read the fixture list.

type nextData struct {
	Props struct {
		PageProps struct {
			Matches struct {
				AllMatches []scrapedMatch `json:"allMatches"`
			} `json:"matches"`
		} `json:"pageProps"`
	} `json:"props"`
}

type scrapedMatch struct {
	ID   json.Number `json:"id"`
	Home struct {
		Name string `json:"name"`
	} `json:"home"`
	Away struct {
		Name string `json:"name"`
	} `json:"away"`
	Status struct {
		UTCTime  time.Time `json:"utcTime"`
		Finished bool      `json:"finished"`
		ScoreStr string    `json:"scoreStr"`
	} `json:"status"`
}

func (s *Source) fetchFromPage(ctx context.Context) ([]engine.Match, error) {
	if s.FixturesURL == "" {
		return nil, fmt.Errorf("no fixtures page configured")
	}
	html, err := transport.Get(ctx, s.FixturesURL, nil)
	if err != nil {
		return nil, err
	}
	return parseLeaguePage(html)
}

func parseLeaguePage(html []byte) ([]engine.Match, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse league page: %w", err)
	}

	payload := doc.Find("script#__NEXT_DATA__").First().Text()
	if payload == "" {
		return nil, fmt.Errorf("league page has no embedded data payload")
	}

	var data nextData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("failed to decode embedded page data: %w", err)
	}

	scraped := data.Props.PageProps.Matches.AllMatches
	matches := make([]engine.Match, 0, len(scraped))
	for _, sm := range scraped {
		if sm.Home.Name == "" || sm.Away.Name == "" {
			continue
		}
		m := engine.NewMatch("fm-"+sm.ID.String(), sm.Home.Name, sm.Away.Name, sm.Status.UTCTime)
		if sm.Status.Finished {
			if _, err := fmt.Sscanf(sm.Status.ScoreStr, "%d - %d", &m.HomeGoals, &m.AwayGoals); err != nil {
				logger.Warn("unparseable score string", sm.Status.ScoreStr)
				m.HomeGoals, m.AwayGoals = -1, -1
			}
		}
		matches = append(matches, *m)
	}
	logger.Debug("scraped matches from league page", len(matches))
	return matches, nil
}

package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/betgenius/betgenius/internal/logger"
	"github.com/betgenius/betgenius/pkg/engine"
	"github.com/betgenius/betgenius/pkg/transport"
	"github.com/betgenius/betgenius/pkg/util"
)

// OddsRow is one completed match from a football-data.co.uk CSV with its
// averaged closing prices.
type OddsRow struct {
	Date     time.Time
	HomeTeam string
	AwayTeam string
	Odds     engine.Odds
}

// Bookmaker column prefixes used when no precomputed average exists.
var bookmakerPrefixes = []string{"B365", "BW", "IW", "PS", "WH", "VC"}

func (s *Source) fetchOddsCSV(ctx context.Context) ([]OddsRow, error) {
	data, err := transport.Get(ctx, s.OddsCSVURL, nil)
	if err != nil {
		return nil, err
	}
	return ParseOddsCSV(string(data))
}

// ParseOddsCSV reads a season file. Rows with unparseable dates or no
// odds at all are skipped, not fatal.
func ParseOddsCSV(content string) ([]OddsRow, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse odds CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("odds CSV has no data rows")
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}

	var rows []OddsRow
	for _, record := range records[1:] {
		cell := func(column string) string {
			idx, ok := header[column]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		date, err := parseCSVDate(cell("Date"))
		if err != nil {
			continue
		}
		home, away := cell("HomeTeam"), cell("AwayTeam")
		if home == "" || away == "" {
			continue
		}
		odds := engine.Odds{
			Home: averageOdds(cell, "H"),
			Draw: averageOdds(cell, "D"),
			Away: averageOdds(cell, "A"),
		}
		if !odds.Known() {
			continue
		}
		rows = append(rows, OddsRow{Date: date, HomeTeam: home, AwayTeam: away, Odds: odds})
	}
	logger.Debug("parsed odds CSV rows", len(rows))
	return rows, nil
}

// averageOdds resolves the price for one outcome column suffix,
// preferring the precomputed closing average, then the precomputed
// match average, then the mean over individual bookmakers.
func averageOdds(cell func(string) string, suffix string) float64 {
	for _, prefix := range []string{"AvgC", "Avg"} {
		if v, err := util.GetAsFloat(cell(prefix + suffix)); err == nil && v > 1.0 {
			return v
		}
	}
	var sum float64
	var n int
	for _, bookie := range bookmakerPrefixes {
		if v, err := util.GetAsFloat(cell(bookie + suffix)); err == nil && v > 1.0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func parseCSVDate(value string) (time.Time, error) {
	for _, layout := range []string{"02/01/2006", "02/01/06"} {
		if d, err := time.Parse(layout, value); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// MergeOdds copies CSV prices onto matches whose teams fuzzy-match and
// whose dates fall on the same or adjacent day (feeds disagree about
// kickoff timezone around midnight). Returns how many matches were
// priced.
func MergeOdds(matches []engine.Match, rows []OddsRow) int {
	merged := 0
	for i := range matches {
		m := &matches[i]
		if m.Odds.Known() {
			continue
		}
		for _, row := range rows {
			if !sameFixture(m, row) {
				continue
			}
			m.Odds = row.Odds
			merged++
			break
		}
	}
	return merged
}

func sameFixture(m *engine.Match, row OddsRow) bool {
	dayGap := m.Date.Truncate(24 * time.Hour).Sub(row.Date.Truncate(24 * time.Hour))
	if dayGap < -24*time.Hour || dayGap > 24*time.Hour {
		return false
	}
	return util.IsFuzzyMatch(m.HomeTeam, row.HomeTeam) && util.IsFuzzyMatch(m.AwayTeam, row.AwayTeam)
}

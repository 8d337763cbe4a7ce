package engine

// PeriodStats aggregates a trailing window of a team's match records.
type PeriodStats struct {
	Matches      int
	GoalsFor     int
	GoalsAgainst int
	Wins         int
	Draws        int
	Losses       int

	AvgGoalsFor     float64
	AvgGoalsAgainst float64
	AvgGoalDiff     float64
	WinRate         float64
}

// PeriodStatsFor aggregates the last window records of the history, or
// all of them when window <= 0. An empty history is valid and yields the
// neutral defaults rather than a division by zero.
func PeriodStatsFor(history []TeamMatchRecord, window int) PeriodStats {
	if window > 0 && len(history) > window {
		history = history[len(history)-window:]
	}
	var s PeriodStats
	for _, rec := range history {
		s.Matches++
		s.GoalsFor += rec.GoalsFor
		s.GoalsAgainst += rec.GoalsAgainst
		switch rec.Result {
		case ResultWin:
			s.Wins++
		case ResultDraw:
			s.Draws++
		default:
			s.Losses++
		}
	}
	if s.Matches == 0 {
		s.AvgGoalsFor = Config.DefaultGoalsFor
		s.AvgGoalsAgainst = Config.DefaultGoalsAgainst
		s.WinRate = Config.DefaultWinRate
		return s
	}
	n := float64(s.Matches)
	s.AvgGoalsFor = float64(s.GoalsFor) / n
	s.AvgGoalsAgainst = float64(s.GoalsAgainst) / n
	s.AvgGoalDiff = float64(s.GoalsFor-s.GoalsAgainst) / n
	s.WinRate = float64(s.Wins) / n
	return s
}

// TeamRating scores a team's offense, defense and form on a 0-100 scale.
type TeamRating struct {
	Offense float64 `json:"offense"`
	Defense float64 `json:"defense"`
	Form    float64 `json:"form"`
	Matches int     `json:"matches"`
}

// NeutralRating is the rating assigned to a team with no completed
// matches.
func NeutralRating() TeamRating {
	n := Config.NeutralRating
	return TeamRating{Offense: n, Defense: n, Form: n}
}

// RatingsFromHistory derives a rating for every team appearing in at
// least one completed match. Pure function of its input.
func RatingsFromHistory(matches []Match) map[string]TeamRating {
	ratings := make(map[string]TeamRating)
	for _, team := range TeamsFromMatches(matches) {
		history := BuildTeamHistory(team, matches)
		if len(history) == 0 {
			ratings[team] = NeutralRating()
			continue
		}
		s := PeriodStatsFor(history, 0)
		ratings[team] = TeamRating{
			Offense: clamp(50+s.AvgGoalsFor*15, 50, 95),
			Defense: clamp(95-s.AvgGoalsAgainst*15, 50, 95),
			Form:    clamp(40+s.WinRate*55, 40, 95),
			Matches: s.Matches,
		}
	}
	return ratings
}

// TeamXG holds per-match expected-goal rates, proxied by actual goals.
// The home/away split feeds the Poisson strength calculation.
type TeamXG struct {
	XG      float64 `json:"xg"`
	XGA     float64 `json:"xga"`
	HomeXG  float64 `json:"homeXg"`
	HomeXGA float64 `json:"homeXga"`
	AwayXG  float64 `json:"awayXg"`
	AwayXGA float64 `json:"awayXga"`
}

func defaultXG() TeamXG {
	return TeamXG{
		XG:      Config.DefaultXG,
		XGA:     Config.DefaultXG,
		HomeXG:  Config.DefaultHomeXG,
		HomeXGA: Config.DefaultHomeXG,
		AwayXG:  Config.DefaultAwayXG,
		AwayXGA: Config.DefaultAwayXG,
	}
}

// XGStatsFromHistory accumulates per-team goal rates split by venue.
// Teams with no sample for a split keep the league-typical prior for it.
func XGStatsFromHistory(matches []Match) map[string]TeamXG {
	stats := make(map[string]TeamXG)
	for _, team := range TeamsFromMatches(matches) {
		history := BuildTeamHistory(team, matches)
		xg := defaultXG()
		var home, away []TeamMatchRecord
		for _, rec := range history {
			if rec.Home {
				home = append(home, rec)
			} else {
				away = append(away, rec)
			}
		}
		if len(history) > 0 {
			s := PeriodStatsFor(history, 0)
			xg.XG = s.AvgGoalsFor
			xg.XGA = s.AvgGoalsAgainst
		}
		if len(home) > 0 {
			s := PeriodStatsFor(home, 0)
			xg.HomeXG = s.AvgGoalsFor
			xg.HomeXGA = s.AvgGoalsAgainst
		}
		if len(away) > 0 {
			s := PeriodStatsFor(away, 0)
			xg.AwayXG = s.AvgGoalsFor
			xg.AwayXGA = s.AvgGoalsAgainst
		}
		stats[team] = xg
	}
	return stats
}

// LeagueAverages are goals per team per match across the whole league,
// split by venue.
type LeagueAverages struct {
	Overall float64 `json:"overall"`
	Home    float64 `json:"home"`
	Away    float64 `json:"away"`
}

// LeagueAveragesFrom computes league scoring rates from completed
// matches, falling back to fixed priors when no matches exist.
func LeagueAveragesFrom(matches []Match) LeagueAverages {
	var homeGoals, awayGoals, played int
	for i := range matches {
		if !matches[i].HasBeenPlayed() {
			continue
		}
		played++
		homeGoals += matches[i].HomeGoals
		awayGoals += matches[i].AwayGoals
	}
	if played == 0 {
		return LeagueAverages{
			Overall: Config.LeagueAvgGoals,
			Home:    Config.LeagueHomeAvgGoals,
			Away:    Config.LeagueAwayAvgGoals,
		}
	}
	n := float64(played)
	return LeagueAverages{
		Overall: float64(homeGoals+awayGoals) / (2 * n),
		Home:    float64(homeGoals) / n,
		Away:    float64(awayGoals) / n,
	}
}

// TeamStrength is a team's scoring and conceding rate relative to the
// league average. 1.0 is exactly average; always strictly positive.
type TeamStrength struct {
	Attack      float64 `json:"attack"`
	Defense     float64 `json:"defense"`
	AttackHome  float64 `json:"attackHome"`
	AttackAway  float64 `json:"attackAway"`
	DefenseHome float64 `json:"defenseHome"`
	DefenseAway float64 `json:"defenseAway"`
}

// strengthRatio guards against a non-positive league average.
func strengthRatio(rate, leagueAvg float64) float64 {
	if leagueAvg <= 0 {
		return 1.0
	}
	return rate / leagueAvg
}

// TeamStrengths divides each team's rates by the corresponding league
// average.
func TeamStrengths(xgStats map[string]TeamXG, avg LeagueAverages) map[string]TeamStrength {
	strengths := make(map[string]TeamStrength, len(xgStats))
	for team, xg := range xgStats {
		strengths[team] = TeamStrength{
			Attack:      strengthRatio(xg.XG, avg.Overall),
			Defense:     strengthRatio(xg.XGA, avg.Overall),
			AttackHome:  strengthRatio(xg.HomeXG, avg.Home),
			AttackAway:  strengthRatio(xg.AwayXG, avg.Away),
			DefenseHome: strengthRatio(xg.HomeXGA, avg.Away),
			DefenseAway: strengthRatio(xg.AwayXGA, avg.Home),
		}
	}
	return strengths
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

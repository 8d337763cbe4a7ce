package util

import (
	"math"
	"strings"
)

// Team-name reconciliation. The odds CSVs abbreviate club names ("Man
// United", "Nott'm Forest") while the fixtures API spells them out, so
// merging the two feeds needs fuzzy matching rather than equality.

// tokenAliases expands the abbreviations the odds CSVs use.
var tokenAliases = map[string]string{
	"man":    "manchester",
	"utd":    "united",
	"nottm":  "nottingham",
	"spurs":  "tottenham",
	"wolves": "wolverhampton wanderers",
	"qpr":    "queens park rangers",
}

// NormalizeTeamName strips the decorations that vary between feeds and
// expands common abbreviations.
func NormalizeTeamName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, suffix := range []string{" fc", " afc"} {
		n = strings.TrimSuffix(n, suffix)
	}
	n = strings.ReplaceAll(n, "'", "")
	n = strings.ReplaceAll(n, "&", "and")
	tokens := strings.Fields(n)
	for i, tok := range tokens {
		if full, ok := tokenAliases[tok]; ok {
			tokens[i] = full
		}
	}
	return strings.Join(tokens, " ")
}

// IsFuzzyMatch reports whether two team names refer to the same club,
// tolerating an edit distance of 2 on the best-aligned substring.
func IsFuzzyMatch(a, b string) bool {
	return FuzzyMatch(a, b) <= 2
}

// FuzzyMatch slides the shorter normalized name across the longer one
// and returns the smallest Levenshtein distance found.
func FuzzyMatch(a, b string) int {
	a = NormalizeTeamName(a)
	b = NormalizeTeamName(b)

	shorter, longer := a, b
	if len(a) > len(b) {
		shorter, longer = b, a
	}

	best := math.MaxInt32
	for i := 0; i+len(shorter) <= len(longer); i++ {
		d := LevenshteinDistance(shorter, longer[i:i+len(shorter)])
		if d < best {
			best = d
		}
		if best == 0 {
			break
		}
	}
	return best
}

// LevenshteinDistance is the edit distance between two strings.
func LevenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			matrix[i][j] = min3(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}
	return matrix[len(s1)][len(s2)]
}

func min3(a, b, c int) int {
	if a < b && a < c {
		return a
	}
	if b < c {
		return b
	}
	return c
}

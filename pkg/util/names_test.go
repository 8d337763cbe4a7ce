package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTeamName(t *testing.T) {
	assert.Equal(t, "arsenal", NormalizeTeamName("Arsenal FC"))
	assert.Equal(t, "nottingham forest", NormalizeTeamName("Nott'm Forest"))
	assert.Equal(t, "brighton and hove albion", NormalizeTeamName("Brighton & Hove Albion"))
}

func TestFuzzyMatchAcrossFeeds(t *testing.T) {
	assert.True(t, IsFuzzyMatch("Manchester United FC", "Man United"))
	assert.True(t, IsFuzzyMatch("Wolverhampton Wanderers FC", "Wolves"))
	assert.True(t, IsFuzzyMatch("Arsenal", "Arsenal FC"))
	assert.False(t, IsFuzzyMatch("Everton", "Arsenal"))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, LevenshteinDistance("spurs", "spurs"))
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 5, LevenshteinDistance("", "derby"))
}

func TestGetAsFloat(t *testing.T) {
	f, err := GetAsFloat("2.35")
	assert.NoError(t, err)
	assert.Equal(t, 2.35, f)

	_, err = GetAsFloat("")
	assert.Error(t, err)

	_, err = GetAsFloat(nil)
	assert.Error(t, err)
}

func TestGetAsInteger(t *testing.T) {
	n, err := GetAsInteger(" 3 ")
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = GetAsInteger(int64(7))
	assert.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = GetAsInteger(2.5)
	assert.Error(t, err)
}

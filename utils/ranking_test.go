package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoQuestAPI/internal/types/challenge"
)

func sampleChallenges() []*challenge.Challenge {
	return []*challenge.Challenge{
		{ID: "a", Title: "Sunrise Hike"},
		{ID: "b", Title: "Street Art Walk"},
		{ID: "c", Title: "Harbor Swim"},
	}
}

func TestExtractBoldTitles(t *testing.T) {
	text := "Try **Street Art Walk** first, then **harbor swim**. Skip the rest."

	assert.Equal(t, []string{"Street Art Walk", "harbor swim"}, ExtractBoldTitles(text))
	assert.Empty(t, ExtractBoldTitles("no emphasis at all"))
}

func TestMarkRecommended(t *testing.T) {
	in := sampleChallenges()

	out := MarkRecommended(in, []string{"harbor swim"})

	require.Len(t, out, 3)
	assert.Equal(t, "Sunrise Hike", out[0].Title)
	assert.Equal(t, "Harbor Swim (Recommended)", out[2].Title)
	assert.Equal(t, "Harbor Swim", in[2].Title, "input must not be mutated")
}

func TestParseRankedIDs(t *testing.T) {
	assert.Equal(t, []string{"c", "a", "b"}, ParseRankedIDs(" c, a ,,b "))
}

func TestRankByIDs(t *testing.T) {
	out := RankByIDs(sampleChallenges(), []string{"c", "zzz", "c", "a"})

	ids := make([]string, 0, len(out))
	for _, c := range out {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoQuestAPI/internal/types/challenge"
)

func TestNewGenAIRecommender_RequiresKey(t *testing.T) {
	_, err := NewGenAIRecommender(context.Background(), "", "")
	require.Error(t, err)
}

func TestDescribe(t *testing.T) {
	out := describe([]*challenge.Challenge{
		{ID: "a1", Title: "Harbor Swim", Category: "water", Description: "Swim to the buoy"},
		{ID: "b2", Title: "Night Run", Category: "running", Description: "Ten km after dark"},
	})

	assert.Equal(t, "a1: Harbor Swim - water - Swim to the buoy\nb2: Night Run - running - Ten km after dark\n", out)
}

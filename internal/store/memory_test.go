package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoQuestAPI/internal/types/challenge"
	"geoQuestAPI/internal/types/finalpage"
)

func ptr[T any](v T) *T { return &v }

func TestMemoryStore_MergeStateKeepsUnsetFields(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	key := challenge.StateKey("u1", "c1")

	accepted := challenge.StatusAccepted
	require.NoError(t, s.MergeState(ctx, key, challenge.StatePatch{
		UserID:         ptr("u1"),
		ChallengeID:    ptr("c1"),
		Status:         &accepted,
		ChallengeTitle: ptr("Harbor Swim"),
		Latitude:       ptr(40.7),
	}))

	dropped := challenge.StatusDropped
	require.NoError(t, s.MergeState(ctx, key, challenge.StatePatch{Status: &dropped}))

	st, err := s.GetState(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusDropped, st.Status)
	assert.Equal(t, "Harbor Swim", st.ChallengeTitle)
	require.NotNil(t, st.Latitude)
	assert.Equal(t, 40.7, *st.Latitude)
}

func TestMemoryStore_GetStateMissing(t *testing.T) {
	_, err := NewMemoryStore().GetState(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListChallengesPaginates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"oldest", "middle", "newest"} {
		_, err := s.CreateChallenge(ctx, &challenge.Challenge{ID: id, Timestamp: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	page, err := s.ListChallenges(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "newest", page[0].ID)
	assert.Equal(t, "middle", page[1].ID)

	page, err = s.ListChallenges(ctx, 2, "middle")
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "oldest", page[0].ID)

	_, err = s.ListChallenges(ctx, 2, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_FinalPageIsCopied(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	page := &finalpage.FinalPage{ChallengeID: "c1", Posts: []finalpage.Post{{ID: "p1"}}}
	require.NoError(t, s.SaveFinalPage(ctx, page))
	page.Posts[0].ID = "mutated"

	got, err := s.GetFinalPage(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.Posts[0].ID)
}

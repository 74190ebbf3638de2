package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoQuestAPI/internal/store"
	"geoQuestAPI/internal/types/challenge"
)

var (
	empireState = challenge.Coordinate{Latitude: 40.7580, Longitude: -73.9855}
	greenpoint  = challenge.Coordinate{Latitude: 40.730, Longitude: -73.935}
	nullIsland  = challenge.Coordinate{Latitude: 0, Longitude: 0}
)

type recordingNotifier struct {
	mu     sync.Mutex
	states []*challenge.UserChallengeState
}

func (n *recordingNotifier) NotifyCompleted(ctx context.Context, st *challenge.UserChallengeState) {
	n.mu.Lock()
	defer n.mu.Unlock()
	cp := *st
	n.states = append(n.states, &cp)
}

type failingProgressStore struct {
	*store.MemoryStore
	mergeErr error
}

func (f *failingProgressStore) MergeState(ctx context.Context, key string, p challenge.StatePatch) error {
	return f.mergeErr
}

func newTestLifecycle(t *testing.T) (*LifecycleService, *store.MemoryStore, *time.Time) {
	t.Helper()
	mem := store.NewMemoryStore()
	svc := NewLifecycleService(mem)
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, mem, &now
}

func testChallenge() *challenge.Challenge {
	expiry := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	return &challenge.Challenge{
		ID:           "ch-1",
		Title:        "Top of the Empire",
		LocationName: "Midtown",
		Location:     challenge.Location{Latitude: empireState.Latitude, Longitude: empireState.Longitude},
		ExpiryDate:   &expiry,
	}
}

func TestAccept_ThenGetReturnsAcceptedRecord(t *testing.T) {
	svc, _, now := newTestLifecycle(t)
	ctx := context.Background()

	_, err := svc.Accept(ctx, "user-1", testChallenge())
	require.NoError(t, err)

	st, err := svc.Get(ctx, "user-1", "ch-1")
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusAccepted, st.Status)
	require.NotNil(t, st.AcceptedAt)
	assert.True(t, st.AcceptedAt.Equal(*now))
	assert.Nil(t, st.CompletedAt)
	assert.Equal(t, "Top of the Empire", st.ChallengeTitle)
	assert.Equal(t, "Midtown", st.LocationName)
	require.NotNil(t, st.ExpiryDate)
}

func TestAccept_DuplicateKeepsAcceptedAt(t *testing.T) {
	svc, _, now := newTestLifecycle(t)
	ctx := context.Background()

	_, err := svc.Accept(ctx, "user-1", testChallenge())
	require.NoError(t, err)
	first := *now

	*now = now.Add(time.Hour)
	st, err := svc.Accept(ctx, "user-1", testChallenge())
	require.NoError(t, err)
	assert.True(t, st.AcceptedAt.Equal(first))
}

func TestAccept_AfterDropReopens(t *testing.T) {
	svc, _, _ := newTestLifecycle(t)
	ctx := context.Background()

	_, err := svc.Accept(ctx, "user-1", testChallenge())
	require.NoError(t, err)
	_, err = svc.Drop(ctx, "user-1", "ch-1")
	require.NoError(t, err)

	st, err := svc.Accept(ctx, "user-1", testChallenge())
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusAccepted, st.Status)
}

func TestAccept_AfterCompleteRejected(t *testing.T) {
	svc, _, _ := newTestLifecycle(t)
	ctx := context.Background()

	_, err := svc.Accept(ctx, "user-1", testChallenge())
	require.NoError(t, err)
	_, _, err = svc.Complete(ctx, "user-1", "ch-1", greenpoint)
	require.NoError(t, err)

	_, err = svc.Accept(ctx, "user-1", testChallenge())
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestAccept_StoreFailureSurfaces(t *testing.T) {
	boom := errors.New("firestore unavailable")
	svc := NewLifecycleService(&failingProgressStore{MemoryStore: store.NewMemoryStore(), mergeErr: boom})

	_, err := svc.Accept(context.Background(), "user-1", testChallenge())
	assert.ErrorIs(t, err, boom)
}

func TestDropAndComplete_StoreFailureSurfaces(t *testing.T) {
	boom := errors.New("firestore unavailable")
	ctx := context.Background()

	accepted := func(t *testing.T) (*LifecycleService, *store.MemoryStore, *recordingNotifier) {
		t.Helper()
		mem := store.NewMemoryStore()
		_, err := NewLifecycleService(mem).Accept(ctx, "user-1", testChallenge())
		require.NoError(t, err)

		notifier := &recordingNotifier{}
		svc := NewLifecycleService(&failingProgressStore{MemoryStore: mem, mergeErr: boom})
		svc.SetCompletionNotifier(notifier)
		return svc, mem, notifier
	}

	t.Run("drop", func(t *testing.T) {
		svc, mem, _ := accepted(t)

		_, err := svc.Drop(ctx, "user-1", "ch-1")
		assert.ErrorIs(t, err, boom)

		stored, err := mem.GetState(ctx, challenge.StateKey("user-1", "ch-1"))
		require.NoError(t, err)
		assert.Equal(t, challenge.StatusAccepted, stored.Status)
	})

	t.Run("complete", func(t *testing.T) {
		svc, mem, notifier := accepted(t)

		_, result, err := svc.Complete(ctx, "user-1", "ch-1", greenpoint)
		assert.ErrorIs(t, err, boom)
		assert.True(t, result.IsWithinRadius)
		assert.Empty(t, notifier.states)

		stored, err := mem.GetState(ctx, challenge.StateKey("user-1", "ch-1"))
		require.NoError(t, err)
		assert.Equal(t, challenge.StatusAccepted, stored.Status)
		assert.Nil(t, stored.CompletedAt)
	})
}

func TestDrop(t *testing.T) {
	t.Run("missing record is not created", func(t *testing.T) {
		svc, mem, _ := newTestLifecycle(t)
		ctx := context.Background()

		_, err := svc.Drop(ctx, "user-1", "ch-1")
		assert.ErrorIs(t, err, ErrUserChallengeNotFound)

		_, err = mem.GetState(ctx, challenge.StateKey("user-1", "ch-1"))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("accepted record becomes dropped", func(t *testing.T) {
		svc, _, _ := newTestLifecycle(t)
		ctx := context.Background()

		_, err := svc.Accept(ctx, "user-1", testChallenge())
		require.NoError(t, err)

		st, err := svc.Drop(ctx, "user-1", "ch-1")
		require.NoError(t, err)
		assert.Equal(t, challenge.StatusDropped, st.Status)
		assert.Equal(t, "Top of the Empire", st.ChallengeTitle)
	})

	t.Run("dropping twice is an invalid transition", func(t *testing.T) {
		svc, _, _ := newTestLifecycle(t)
		ctx := context.Background()

		_, err := svc.Accept(ctx, "user-1", testChallenge())
		require.NoError(t, err)
		_, err = svc.Drop(ctx, "user-1", "ch-1")
		require.NoError(t, err)

		_, err = svc.Drop(ctx, "user-1", "ch-1")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestComplete_WithinRadius(t *testing.T) {
	svc, _, now := newTestLifecycle(t)
	notifier := &recordingNotifier{}
	svc.SetCompletionNotifier(notifier)
	ctx := context.Background()

	_, err := svc.Accept(ctx, "user-1", testChallenge())
	require.NoError(t, err)

	*now = now.Add(2 * time.Hour)
	st, result, err := svc.Complete(ctx, "user-1", "ch-1", greenpoint)
	require.NoError(t, err)
	assert.True(t, result.IsWithinRadius)
	assert.Equal(t, challenge.StatusCompleted, st.Status)
	require.NotNil(t, st.CompletedAt)
	assert.True(t, st.CompletedAt.Equal(*now))

	stored, err := svc.Get(ctx, "user-1", "ch-1")
	require.NoError(t, err)
	assert.Equal(t, "Top of the Empire", stored.ChallengeTitle)
	assert.Equal(t, "Midtown", stored.LocationName)
	assert.NotNil(t, stored.CompletedAt)

	require.Len(t, notifier.states, 1)
	assert.Equal(t, "ch-1", notifier.states[0].ChallengeID)
}

func TestComplete_OutsideRadiusDoesNotWrite(t *testing.T) {
	svc, _, _ := newTestLifecycle(t)
	notifier := &recordingNotifier{}
	svc.SetCompletionNotifier(notifier)
	ctx := context.Background()

	_, err := svc.Accept(ctx, "user-1", testChallenge())
	require.NoError(t, err)

	_, result, err := svc.Complete(ctx, "user-1", "ch-1", nullIsland)
	assert.ErrorIs(t, err, ErrOutsideGeofence)
	assert.False(t, result.IsWithinRadius)
	assert.Greater(t, result.DistanceMeters, 8_000_000.0)

	stored, err := svc.Get(ctx, "user-1", "ch-1")
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusAccepted, stored.Status)
	assert.Nil(t, stored.CompletedAt)
	assert.Empty(t, notifier.states)
}

func TestComplete_Preconditions(t *testing.T) {
	svc, _, _ := newTestLifecycle(t)
	ctx := context.Background()

	_, _, err := svc.Complete(ctx, "user-1", "ch-1", greenpoint)
	assert.ErrorIs(t, err, ErrUserChallengeNotFound)

	_, err = svc.Accept(ctx, "user-1", testChallenge())
	require.NoError(t, err)
	_, err = svc.Drop(ctx, "user-1", "ch-1")
	require.NoError(t, err)

	_, _, err = svc.Complete(ctx, "user-1", "ch-1", greenpoint)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestComplete_MissingTarget(t *testing.T) {
	svc, mem, _ := newTestLifecycle(t)
	ctx := context.Background()

	accepted := challenge.StatusAccepted
	require.NoError(t, mem.MergeState(ctx, challenge.StateKey("user-1", "legacy"), challenge.StatePatch{Status: &accepted}))

	_, _, err := svc.Complete(ctx, "user-1", "legacy", greenpoint)
	assert.ErrorIs(t, err, ErrTargetUnknown)
}

func TestListForUser(t *testing.T) {
	svc, _, _ := newTestLifecycle(t)
	ctx := context.Background()

	states, err := svc.ListForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, states)
	assert.Empty(t, states)

	other := testChallenge()
	other.ID = "ch-2"
	_, err = svc.Accept(ctx, "user-1", testChallenge())
	require.NoError(t, err)
	_, err = svc.Accept(ctx, "user-1", other)
	require.NoError(t, err)
	_, err = svc.Accept(ctx, "user-2", other)
	require.NoError(t, err)

	states, err = svc.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "ch-1", states[0].ChallengeID)
	assert.Equal(t, "ch-2", states[1].ChallengeID)
}

func TestCheckProximity(t *testing.T) {
	svc, _, _ := newTestLifecycle(t)

	assert.True(t, svc.CheckProximity(greenpoint, empireState).IsWithinRadius)
	assert.False(t, svc.CheckProximity(nullIsland, empireState).IsWithinRadius)
}

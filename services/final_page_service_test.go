package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoQuestAPI/internal/store"
	"geoQuestAPI/internal/types/finalpage"
)

type finalPageFixture struct {
	svc       *FinalPageService
	lifecycle *LifecycleService
	mem       *store.MemoryStore
	now       time.Time
}

func newFinalPageFixture(t *testing.T) *finalPageFixture {
	t.Helper()
	mem := store.NewMemoryStore()
	c := testChallenge()
	c.CreatorID = "creator"
	c.Category = "sightseeing"
	_, err := mem.CreateChallenge(context.Background(), c)
	require.NoError(t, err)

	lifecycle := NewLifecycleService(mem)
	svc := NewFinalPageService(mem, NewCatalogService(mem), lifecycle, NewLeaderboardService(mem))
	f := &finalPageFixture{svc: svc, lifecycle: lifecycle, mem: mem, now: time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)}
	svc.now = func() time.Time { return f.now }
	return f
}

func (f *finalPageFixture) finish(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.lifecycle.Accept(ctx, userID, testChallenge())
	require.NoError(t, err)
	_, _, err = f.lifecycle.Complete(ctx, userID, "ch-1", greenpoint)
	require.NoError(t, err)
}

func ptr[T any](v T) *T { return &v }

func TestFinalPage_LockedUntilCompleted(t *testing.T) {
	f := newFinalPageFixture(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, "walker", "ch-1")
	assert.ErrorIs(t, err, ErrFinalPageLocked)

	f.finish(t, "walker")

	view, err := f.svc.Get(ctx, "walker", "ch-1")
	require.NoError(t, err)
	assert.Equal(t, "Top of the Empire", view.PageTitle)
	assert.Equal(t, "ch-1-final", view.ID)
	require.NotNil(t, view.Leaderboard)
	require.Len(t, view.Leaderboard.Entries, 1)
	assert.Equal(t, "walker", view.Leaderboard.Entries[0].UserID)
}

func TestFinalPage_CreatorCanAlwaysRead(t *testing.T) {
	f := newFinalPageFixture(t)

	view, err := f.svc.Get(context.Background(), "creator", "ch-1")
	require.NoError(t, err)
	assert.Equal(t, "sightseeing", view.Category)
	assert.Empty(t, view.Posts)
}

func TestFinalPage_UnknownChallenge(t *testing.T) {
	f := newFinalPageFixture(t)

	_, err := f.svc.Get(context.Background(), "creator", "missing")
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestFinalPage_UpsertCreatorOnly(t *testing.T) {
	f := newFinalPageFixture(t)
	ctx := context.Background()
	f.finish(t, "walker")

	_, err := f.svc.Upsert(ctx, "walker", "ch-1", finalpage.UpsertFinalPageRequest{PageTitle: ptr("hijacked")})
	assert.ErrorIs(t, err, ErrNotChallengeCreator)

	page, err := f.svc.Upsert(ctx, "creator", "ch-1", finalpage.UpsertFinalPageRequest{
		PageTitle:     ptr("You made it"),
		PageImageURLs: []string{"https://img.example/top.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "You made it", page.PageTitle)
	assert.Equal(t, "Midtown", page.PageLocation)
	assert.Equal(t, f.now.UnixMilli(), page.PageTimestamp)

	stored, err := f.mem.GetFinalPage(ctx, "ch-1")
	require.NoError(t, err)
	assert.Equal(t, "You made it", stored.PageTitle)
	assert.Equal(t, []string{"https://img.example/top.jpg"}, stored.PageImageURLs)
}

func TestFinalPage_PostsAndStories(t *testing.T) {
	f := newFinalPageFixture(t)
	ctx := context.Background()
	req := finalpage.AddEntryRequest{Text: " view from the top ", ImageURL: "https://img.example/view.jpg"}

	_, err := f.svc.AddPost(ctx, "stranger", "ch-1", req)
	assert.ErrorIs(t, err, ErrFinalPageLocked)

	f.finish(t, "walker")
	f.finish(t, "runner")

	post, err := f.svc.AddPost(ctx, "walker", "ch-1", req)
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "view from the top", post.Text)

	story, err := f.svc.AddStory(ctx, "runner", "ch-1", req)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.RemovePost(ctx, "runner", "ch-1", post.ID), ErrNotEntryAuthor)
	assert.ErrorIs(t, f.svc.RemovePost(ctx, "walker", "ch-1", "nope"), ErrEntryNotFound)
	require.NoError(t, f.svc.RemovePost(ctx, "walker", "ch-1", post.ID))
	require.NoError(t, f.svc.RemoveStory(ctx, "creator", "ch-1", story.ID))

	view, err := f.svc.Get(ctx, "walker", "ch-1")
	require.NoError(t, err)
	assert.Empty(t, view.Posts)
	assert.Empty(t, view.Stories)
}

func TestFinalPage_BlankEntryTextRejected(t *testing.T) {
	f := newFinalPageFixture(t)
	ctx := context.Background()
	f.finish(t, "walker")

	_, err := f.svc.AddPost(ctx, "walker", "ch-1", finalpage.AddEntryRequest{Text: "   ", ImageURL: "https://img.example/view.jpg"})
	assert.ErrorIs(t, err, ErrInvalidEntry)
	_, err = f.svc.AddStory(ctx, "walker", "ch-1", finalpage.AddEntryRequest{Text: "\t\n", ImageURL: "https://img.example/view.jpg"})
	assert.ErrorIs(t, err, ErrInvalidEntry)

	view, err := f.svc.Get(ctx, "walker", "ch-1")
	require.NoError(t, err)
	assert.Empty(t, view.Posts)
	assert.Empty(t, view.Stories)
}

func TestFinalPage_ChallengeLeaderboardGated(t *testing.T) {
	f := newFinalPageFixture(t)
	ctx := context.Background()

	_, err := f.svc.ChallengeLeaderboard(ctx, "stranger", "ch-1")
	assert.ErrorIs(t, err, ErrFinalPageLocked)

	f.finish(t, "walker")

	board, err := f.svc.ChallengeLeaderboard(ctx, "walker", "ch-1")
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, "walker", board.Entries[0].UserID)

	_, err = f.svc.ChallengeLeaderboard(ctx, "creator", "ch-1")
	assert.NoError(t, err)

	_, err = f.svc.ChallengeLeaderboard(ctx, "stranger", "ch-1")
	assert.ErrorIs(t, err, ErrFinalPageLocked)

	_, err = f.svc.ChallengeLeaderboard(ctx, "walker", "missing")
	assert.ErrorIs(t, err, ErrChallengeNotFound)
}

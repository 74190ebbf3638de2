package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"geoQuestAPI/internal/store"
	"geoQuestAPI/internal/types/challenge"
	"geoQuestAPI/internal/types/finalpage"
	"geoQuestAPI/internal/types/leaderboard"
)

type entryKind string

const (
	kindPost  entryKind = "post"
	kindStory entryKind = "story"
)

// FinalPageService serves the community page behind a completed challenge.
type FinalPageService struct {
	store       FinalPageStore
	catalog     *CatalogService
	lifecycle   *LifecycleService
	leaderboard *LeaderboardService
	now         func() time.Time

	// Page edits are read-modify-write on a single document.
	mu sync.Mutex
}

func NewFinalPageService(store FinalPageStore, catalog *CatalogService, lifecycle *LifecycleService, lb *LeaderboardService) *FinalPageService {
	return &FinalPageService{
		store:       store,
		catalog:     catalog,
		lifecycle:   lifecycle,
		leaderboard: lb,
		now:         time.Now,
	}
}

// access loads the challenge and reports whether userID created or completed it.
func (s *FinalPageService) access(ctx context.Context, userID, challengeID string) (*challenge.Challenge, bool, bool, error) {
	c, err := s.catalog.Get(ctx, challengeID)
	if err != nil {
		return nil, false, false, err
	}
	if c.CreatorID == userID {
		return c, true, false, nil
	}
	done, err := s.lifecycle.IsCompleted(ctx, userID, challengeID)
	if err != nil {
		return nil, false, false, err
	}
	return c, false, done, nil
}

// load returns the stored page, or a fresh one seeded from the challenge.
func (s *FinalPageService) load(ctx context.Context, c *challenge.Challenge) (*finalpage.FinalPage, error) {
	page, err := s.store.GetFinalPage(ctx, c.ID)
	if err == nil {
		return page, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load final page: %w", err)
	}

	page = &finalpage.FinalPage{
		ID:               finalpage.DocID(c.ID),
		ChallengeID:      c.ID,
		Category:         c.Category,
		CreatorID:        c.CreatorID,
		CreatorName:      c.CreatorName,
		CreatorAvatarURL: c.CreatorAvatarURL,
		PageTitle:        c.Title,
		PageDescription:  c.Description,
		PageLocation:     c.LocationName,
		PageVideoURL:     c.VideoURL,
		PageImageURLs:    append([]string{}, c.ImageURLs...),
		Posts:            []finalpage.Post{},
		Stories:          []finalpage.Story{},
	}
	if c.ExpiryDate != nil {
		page.PageExpiryDate = c.ExpiryDate.Format("2006-01-02")
	}
	return page, nil
}

func (s *FinalPageService) Get(ctx context.Context, userID, challengeID string) (*finalpage.FinalPageView, error) {
	c, isCreator, completed, err := s.access(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if !isCreator && !completed {
		return nil, ErrFinalPageLocked
	}

	page, err := s.load(ctx, c)
	if err != nil {
		return nil, err
	}

	board, err := s.leaderboard.ForChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	return &finalpage.FinalPageView{FinalPage: *page, Leaderboard: board}, nil
}

// ChallengeLeaderboard returns the finishers of challengeID under the same
// creator-or-completer rule as the page itself.
func (s *FinalPageService) ChallengeLeaderboard(ctx context.Context, userID, challengeID string) (*leaderboard.ChallengeLeaderboard, error) {
	_, isCreator, completed, err := s.access(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if !isCreator && !completed {
		return nil, ErrFinalPageLocked
	}
	return s.leaderboard.ForChallenge(ctx, challengeID)
}

func (s *FinalPageService) Upsert(ctx context.Context, userID, challengeID string, req finalpage.UpsertFinalPageRequest) (*finalpage.FinalPage, error) {
	c, isCreator, _, err := s.access(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if !isCreator {
		return nil, ErrNotChallengeCreator
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.load(ctx, c)
	if err != nil {
		return nil, err
	}

	if req.PageTitle != nil {
		page.PageTitle = *req.PageTitle
	}
	if req.PageDescription != nil {
		page.PageDescription = *req.PageDescription
	}
	if req.PageLocation != nil {
		page.PageLocation = *req.PageLocation
	}
	if req.PageExpiryDate != nil {
		page.PageExpiryDate = *req.PageExpiryDate
	}
	if req.PageVideoURL != nil {
		page.PageVideoURL = *req.PageVideoURL
	}
	if req.PageImageURLs != nil {
		page.PageImageURLs = req.PageImageURLs
	}
	page.PageTimestamp = s.now().UnixMilli()

	if err := s.store.SaveFinalPage(ctx, page); err != nil {
		return nil, fmt.Errorf("failed to save final page: %w", err)
	}

	zap.S().Infow("Final page saved", "challenge", challengeID, "creator", userID)
	return page, nil
}

func (s *FinalPageService) AddPost(ctx context.Context, userID, challengeID string, req finalpage.AddEntryRequest) (*finalpage.Post, error) {
	return s.addEntry(ctx, kindPost, userID, challengeID, req)
}

func (s *FinalPageService) AddStory(ctx context.Context, userID, challengeID string, req finalpage.AddEntryRequest) (*finalpage.Story, error) {
	return s.addEntry(ctx, kindStory, userID, challengeID, req)
}

func (s *FinalPageService) RemovePost(ctx context.Context, userID, challengeID, postID string) error {
	return s.removeEntry(ctx, kindPost, userID, challengeID, postID)
}

func (s *FinalPageService) RemoveStory(ctx context.Context, userID, challengeID, storyID string) error {
	return s.removeEntry(ctx, kindStory, userID, challengeID, storyID)
}

func (s *FinalPageService) addEntry(ctx context.Context, kind entryKind, userID, challengeID string, req finalpage.AddEntryRequest) (*finalpage.Post, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrInvalidEntry
	}

	c, isCreator, completed, err := s.access(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if !isCreator && !completed {
		return nil, ErrFinalPageLocked
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.load(ctx, c)
	if err != nil {
		return nil, err
	}

	entry := finalpage.Post{
		ID:        uuid.New().String(),
		AuthorID:  userID,
		Text:      text,
		ImageURL:  req.ImageURL,
		CreatedAt: s.now().UTC(),
	}
	if kind == kindStory {
		page.Stories = append(page.Stories, entry)
	} else {
		page.Posts = append(page.Posts, entry)
	}

	if err := s.store.SaveFinalPage(ctx, page); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", kind, err)
	}
	return &entry, nil
}

func (s *FinalPageService) removeEntry(ctx context.Context, kind entryKind, userID, challengeID, entryID string) error {
	c, isCreator, _, err := s.access(ctx, userID, challengeID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.load(ctx, c)
	if err != nil {
		return err
	}

	entries := page.Posts
	if kind == kindStory {
		entries = page.Stories
	}

	idx := -1
	for i, e := range entries {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrEntryNotFound
	}
	if !isCreator && entries[idx].AuthorID != userID {
		return ErrNotEntryAuthor
	}

	entries = append(entries[:idx], entries[idx+1:]...)
	if kind == kindStory {
		page.Stories = entries
	} else {
		page.Posts = entries
	}

	if err := s.store.SaveFinalPage(ctx, page); err != nil {
		return fmt.Errorf("failed to remove %s: %w", kind, err)
	}
	return nil
}

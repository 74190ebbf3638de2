package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"geoQuestAPI/internal/store"
	"geoQuestAPI/internal/types/challenge"
	"geoQuestAPI/utils"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50

	rankingCacheTTL = 10 * time.Minute
)

// Recommender is the LLM used to personalise a catalog page.
type Recommender interface {
	// RankIDs returns challenge ids ordered by relevance to preferences.
	RankIDs(ctx context.Context, preferences string, challenges []*challenge.Challenge) ([]string, error)
	// RecommendTitles returns the titles worth highlighting without any preferences.
	RecommendTitles(ctx context.Context, challenges []*challenge.Challenge) ([]string, error)
}

type RankingCache interface {
	GetRanking(ctx context.Context, key string) ([]string, error)
	SetRanking(ctx context.Context, key string, ids []string, ttl time.Duration) error
}

// TopicSubscriber subscribes a device to a challenge's completion pushes.
type TopicSubscriber interface {
	SubscribeToChallenge(ctx context.Context, tokens []string, topic string) error
}

type ListParams struct {
	PageSize        int
	Cursor          string
	UserPreferences string
}

type CatalogService struct {
	store       CatalogStore
	recommender Recommender
	cache       RankingCache
	subscriber  TopicSubscriber
	now         func() time.Time
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store, now: time.Now}
}

// SetRecommender enables LLM ranking. cache may be nil.
func (s *CatalogService) SetRecommender(r Recommender, cache RankingCache) {
	s.recommender = r
	s.cache = cache
}

// SetTopicSubscriber lets creators receive completion pushes for their challenges.
func (s *CatalogService) SetTopicSubscriber(sub TopicSubscriber) {
	s.subscriber = sub
}

func (s *CatalogService) List(ctx context.Context, p ListParams) (*challenge.ListResponse, error) {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	// One extra row tells us whether another page exists.
	page, err := s.store.ListChallenges(ctx, size+1, p.Cursor)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCursor
		}
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	resp := &challenge.ListResponse{}
	if len(page) > size {
		page = page[:size]
		last := page[len(page)-1].ID
		resp.NextCursor = &last
	}

	resp.Challenges = s.personalise(ctx, page, strings.TrimSpace(p.UserPreferences))
	if resp.Challenges == nil {
		resp.Challenges = []*challenge.Challenge{}
	}
	return resp, nil
}

// personalise never fails: any recommender error leaves the page as stored.
func (s *CatalogService) personalise(ctx context.Context, page []*challenge.Challenge, preferences string) []*challenge.Challenge {
	if s.recommender == nil || len(page) == 0 {
		return page
	}

	if preferences == "" {
		titles, err := s.recommender.RecommendTitles(ctx, page)
		if err != nil {
			zap.S().Warnf("Recommender: highlighting titles failed: %v", err)
			return page
		}
		return utils.MarkRecommended(page, titles)
	}

	key := rankingKey(preferences, page)
	if s.cache != nil {
		ids, err := s.cache.GetRanking(ctx, key)
		if err != nil {
			zap.S().Warnf("Recommender: cache read failed: %v", err)
		} else if ids != nil {
			return utils.RankByIDs(page, ids)
		}
	}

	ids, err := s.recommender.RankIDs(ctx, preferences, page)
	if err != nil {
		zap.S().Warnf("Recommender: ranking failed: %v", err)
		return page
	}

	if s.cache != nil {
		if err := s.cache.SetRanking(ctx, key, ids, rankingCacheTTL); err != nil {
			zap.S().Warnf("Recommender: cache write failed: %v", err)
		}
	}
	return utils.RankByIDs(page, ids)
}

func rankingKey(preferences string, page []*challenge.Challenge) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(preferences)))
	for _, c := range page {
		h.Write([]byte{0})
		h.Write([]byte(c.ID))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (s *CatalogService) Get(ctx context.Context, id string) (*challenge.Challenge, error) {
	c, err := s.store.GetChallenge(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return c, nil
}

func (s *CatalogService) Create(ctx context.Context, creatorID string, req challenge.CreateChallengeRequest) (*challenge.Challenge, error) {
	imageURLs := make([]string, 0, len(req.ImageURLs))
	for _, u := range req.ImageURLs {
		if u = strings.TrimSpace(u); u != "" {
			imageURLs = append(imageURLs, u)
		}
	}
	if len(imageURLs) == 0 {
		return nil, fmt.Errorf("%w: at least one image url is required", ErrInvalidChallenge)
	}
	if req.Location.Latitude == 0 && req.Location.Longitude == 0 {
		return nil, fmt.Errorf("%w: a location is required", ErrInvalidChallenge)
	}
	if !utils.IsValidLatitude(req.Location.Latitude) || !utils.IsValidLongitude(req.Location.Longitude) {
		return nil, fmt.Errorf("%w: location out of range", ErrInvalidChallenge)
	}

	c := &challenge.Challenge{
		Title:            strings.TrimSpace(req.Title),
		Description:      strings.TrimSpace(req.Description),
		ImageURLs:        imageURLs,
		VideoURL:         req.VideoURL,
		Location:         req.Location,
		LocationName:     req.LocationName,
		CreatorID:        creatorID,
		CreatorName:      req.CreatorName,
		CreatorAvatarURL: req.CreatorAvatarURL,
		Category:         req.Category,
		Timestamp:        s.now().UTC(),
		ExpiryDate:       req.ExpiryDate,
	}

	id, err := s.store.CreateChallenge(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}
	c.ID = id

	if s.subscriber != nil && req.DeviceToken != "" {
		if err := s.subscriber.SubscribeToChallenge(ctx, []string{req.DeviceToken}, TopicForChallenge(id)); err != nil {
			zap.S().Warnf("Failed to subscribe creator %s to challenge %s: %v", creatorID, id, err)
		}
	}

	zap.S().Infow("Challenge created", "id", id, "creator", creatorID, "category", c.Category)
	return c, nil
}

func (s *CatalogService) ListByCreator(ctx context.Context, creatorID string) ([]*challenge.Challenge, error) {
	cs, err := s.store.ListChallengesByCreator(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list created challenges: %w", err)
	}
	if cs == nil {
		cs = []*challenge.Challenge{}
	}
	return cs, nil
}

package services

import (
	"context"

	"geoQuestAPI/internal/types/challenge"
	"geoQuestAPI/internal/types/finalpage"
)

// ProgressStore persists UserChallengeState records by their deterministic key.
type ProgressStore interface {
	GetState(ctx context.Context, key string) (*challenge.UserChallengeState, error)
	MergeState(ctx context.Context, key string, patch challenge.StatePatch) error
	ListStatesByUser(ctx context.Context, userID string) ([]*challenge.UserChallengeState, error)
	// ListCompleted returns completed records of one challenge, or of all when challengeID is empty.
	ListCompleted(ctx context.Context, challengeID string) ([]*challenge.UserChallengeState, error)
}

type CatalogStore interface {
	CreateChallenge(ctx context.Context, c *challenge.Challenge) (string, error)
	GetChallenge(ctx context.Context, id string) (*challenge.Challenge, error)
	ListChallenges(ctx context.Context, pageSize int, afterID string) ([]*challenge.Challenge, error)
	ListChallengesByCreator(ctx context.Context, creatorID string) ([]*challenge.Challenge, error)
}

type FinalPageStore interface {
	GetFinalPage(ctx context.Context, challengeID string) (*finalpage.FinalPage, error)
	SaveFinalPage(ctx context.Context, page *finalpage.FinalPage) error
}

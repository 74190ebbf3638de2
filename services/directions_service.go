package services

import (
	"context"
	"fmt"

	"geoQuestAPI/internal/types/challenge"
)

type DirectionsSuggester interface {
	SuggestDirections(ctx context.Context, start, end challenge.Coordinate) (string, error)
}

type DirectionsService struct {
	suggester DirectionsSuggester
}

// NewDirectionsService accepts a nil suggester; Suggest then reports ErrRecommenderUnavailable.
func NewDirectionsService(suggester DirectionsSuggester) *DirectionsService {
	return &DirectionsService{suggester: suggester}
}

func (s *DirectionsService) Suggest(ctx context.Context, start, end challenge.Coordinate) (*challenge.DirectionsResponse, error) {
	if s.suggester == nil {
		return nil, ErrRecommenderUnavailable
	}

	text, err := s.suggester.SuggestDirections(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest directions: %w", err)
	}
	return &challenge.DirectionsResponse{Suggestion: text}, nil
}

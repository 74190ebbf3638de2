package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"geoQuestAPI/internal/store"
	"geoQuestAPI/internal/types/challenge"
	"geoQuestAPI/utils"
)

// CompletionNotifier is told about every successful completion. It must not block.
type CompletionNotifier interface {
	NotifyCompleted(ctx context.Context, state *challenge.UserChallengeState)
}

type LifecycleService struct {
	store    ProgressStore
	notifier CompletionNotifier
	now      func() time.Time
}

func NewLifecycleService(store ProgressStore) *LifecycleService {
	return &LifecycleService{
		store: store,
		now:   time.Now,
	}
}

// SetCompletionNotifier lets main.go plug in the completion dispatcher.
func (s *LifecycleService) SetCompletionNotifier(n CompletionNotifier) {
	s.notifier = n
}

func (s *LifecycleService) load(ctx context.Context, userID, challengeID string) (*challenge.UserChallengeState, error) {
	st, err := s.store.GetState(ctx, challenge.StateKey(userID, challengeID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserChallengeNotFound
		}
		return nil, fmt.Errorf("failed to load user challenge: %w", err)
	}
	return st, nil
}

// Accept records that userID took on the challenge, copying the fields the
// "my challenges" view needs. Accepting again after a drop reopens the record and
// keeps the original acceptedAt.
func (s *LifecycleService) Accept(ctx context.Context, userID string, c *challenge.Challenge) (*challenge.UserChallengeState, error) {
	existing, err := s.load(ctx, userID, c.ID)
	if err != nil && !errors.Is(err, ErrUserChallengeNotFound) {
		return nil, err
	}
	if existing != nil && existing.Status == challenge.StatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	status := challenge.StatusAccepted
	locationName := c.LocationName
	if locationName == "" {
		locationName = c.Location.Address
	}

	patch := challenge.StatePatch{
		UserID:         &userID,
		ChallengeID:    &c.ID,
		Status:         &status,
		ChallengeTitle: &c.Title,
		LocationName:   &locationName,
		Latitude:       &c.Location.Latitude,
		Longitude:      &c.Location.Longitude,
		ExpiryDate:     c.ExpiryDate,
	}
	if existing == nil || existing.AcceptedAt == nil {
		now := s.now()
		patch.AcceptedAt = &now
	}

	if err := s.store.MergeState(ctx, challenge.StateKey(userID, c.ID), patch); err != nil {
		return nil, fmt.Errorf("failed to accept challenge: %w", err)
	}
	challengeTransitions.WithLabelValues(string(status)).Inc()

	if existing == nil {
		existing = &challenge.UserChallengeState{}
	}
	patch.Apply(existing)
	return existing, nil
}

func (s *LifecycleService) Drop(ctx context.Context, userID, challengeID string) (*challenge.UserChallengeState, error) {
	st, err := s.load(ctx, userID, challengeID)
	if err != nil {
		return nil, err
	}
	if st.Status != challenge.StatusAccepted {
		return nil, fmt.Errorf("%w: cannot drop a %s challenge", ErrInvalidTransition, st.Status)
	}

	status := challenge.StatusDropped
	patch := challenge.StatePatch{Status: &status}
	if err := s.store.MergeState(ctx, challenge.StateKey(userID, challengeID), patch); err != nil {
		return nil, fmt.Errorf("failed to drop challenge: %w", err)
	}
	challengeTransitions.WithLabelValues(string(status)).Inc()

	patch.Apply(st)
	return st, nil
}

// CheckProximity evaluates user against target without touching any record.
func (s *LifecycleService) CheckProximity(user, target challenge.Coordinate) challenge.ProximityResult {
	result := utils.CheckProximity(user, target)
	if result.IsWithinRadius {
		geofenceChecks.WithLabelValues("within").Inc()
	} else {
		geofenceChecks.WithLabelValues("outside").Inc()
	}
	return result
}

// Complete marks the challenge completed if position is within the geofence of the
// target captured at accept time. The proximity result is returned on success and on
// ErrOutsideGeofence so callers can report the distance.
func (s *LifecycleService) Complete(ctx context.Context, userID, challengeID string, position challenge.Coordinate) (*challenge.UserChallengeState, challenge.ProximityResult, error) {
	st, err := s.load(ctx, userID, challengeID)
	if err != nil {
		return nil, challenge.ProximityResult{}, err
	}
	if st.Status == challenge.StatusCompleted {
		return nil, challenge.ProximityResult{}, ErrAlreadyCompleted
	}
	if st.Status != challenge.StatusAccepted {
		return nil, challenge.ProximityResult{}, fmt.Errorf("%w: cannot complete a %s challenge", ErrInvalidTransition, st.Status)
	}

	target, ok := st.Target()
	if !ok {
		return nil, challenge.ProximityResult{}, ErrTargetUnknown
	}

	result := s.CheckProximity(position, target)
	if !result.IsWithinRadius {
		zap.S().Infow("Completion rejected outside geofence",
			"user", userID, "challenge", challengeID, "distance_m", result.DistanceMeters)
		return nil, result, ErrOutsideGeofence
	}

	status := challenge.StatusCompleted
	now := s.now()
	patch := challenge.StatePatch{Status: &status, CompletedAt: &now}
	if err := s.store.MergeState(ctx, challenge.StateKey(userID, challengeID), patch); err != nil {
		return nil, result, fmt.Errorf("failed to complete challenge: %w", err)
	}
	challengeTransitions.WithLabelValues(string(status)).Inc()

	patch.Apply(st)
	if s.notifier != nil {
		s.notifier.NotifyCompleted(ctx, st)
	}
	return st, result, nil
}

func (s *LifecycleService) Get(ctx context.Context, userID, challengeID string) (*challenge.UserChallengeState, error) {
	return s.load(ctx, userID, challengeID)
}

func (s *LifecycleService) ListForUser(ctx context.Context, userID string) ([]*challenge.UserChallengeState, error) {
	states, err := s.store.ListStatesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user challenges: %w", err)
	}
	if states == nil {
		states = []*challenge.UserChallengeState{}
	}
	return states, nil
}

// IsCompleted reports whether userID has completed challengeID.
func (s *LifecycleService) IsCompleted(ctx context.Context, userID, challengeID string) (bool, error) {
	st, err := s.load(ctx, userID, challengeID)
	if err != nil {
		if errors.Is(err, ErrUserChallengeNotFound) {
			return false, nil
		}
		return false, err
	}
	return st.Status == challenge.StatusCompleted, nil
}

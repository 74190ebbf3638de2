package services

import "errors"

var (
	ErrChallengeNotFound     = errors.New("challenge not found")
	ErrUserChallengeNotFound = errors.New("user challenge not found")
	ErrAlreadyCompleted      = errors.New("challenge already completed")
	ErrInvalidTransition     = errors.New("invalid challenge status transition")
	ErrOutsideGeofence       = errors.New("user is outside the challenge geofence")
	ErrTargetUnknown         = errors.New("challenge target location unknown")
	ErrInvalidCursor         = errors.New("invalid pagination cursor")
	ErrInvalidChallenge      = errors.New("invalid challenge")

	ErrFinalPageLocked     = errors.New("final page is locked until the challenge is completed")
	ErrNotChallengeCreator = errors.New("only the challenge creator can edit the final page")
	ErrEntryNotFound       = errors.New("post or story not found")
	ErrNotEntryAuthor      = errors.New("only the author or the challenge creator can remove this entry")
	ErrInvalidEntry        = errors.New("post or story text is required")

	ErrRecommenderUnavailable = errors.New("llm recommender is not configured")
)

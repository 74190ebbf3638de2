package store

import (
	"errors"
)

// Collection names shared by every document backend.
const (
	ChallengesCollection     = "challenges"
	UserChallengesCollection = "userChallenges"
	FinalPagesCollection     = "finalpages"
)

var ErrNotFound = errors.New("document not found")

package challenge

import (
	"time"
)

type Status string

const (
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusDropped   Status = "dropped"
)

// Coordinate is a WGS84 point in signed degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude" firestore:"latitude"`
	Longitude float64 `json:"longitude" firestore:"longitude"`
}

type Location struct {
	Latitude  float64 `json:"latitude" firestore:"latitude"`
	Longitude float64 `json:"longitude" firestore:"longitude"`
	Address   string  `json:"address,omitempty" firestore:"address,omitempty"`
}

func (l Location) Coordinate() Coordinate {
	return Coordinate{Latitude: l.Latitude, Longitude: l.Longitude}
}

// Challenge is a catalog entry. The lifecycle only reads Location and ExpiryDate.
type Challenge struct {
	ID               string     `json:"id" firestore:"-"`
	Title            string     `json:"title" firestore:"title"`
	Description      string     `json:"description" firestore:"description"`
	ImageURLs        []string   `json:"imageUrls" firestore:"imageUrls"`
	VideoURL         string     `json:"videoUrl,omitempty" firestore:"videoUrl,omitempty"`
	Location         Location   `json:"location" firestore:"location"`
	LocationName     string     `json:"locationName,omitempty" firestore:"locationName,omitempty"`
	CreatorID        string     `json:"creatorId" firestore:"creatorId"`
	CreatorName      string     `json:"creatorName" firestore:"creatorName"`
	CreatorAvatarURL string     `json:"creatorAvatarUrl" firestore:"creatorAvatarUrl"`
	Category         string     `json:"category" firestore:"category"`
	Timestamp        time.Time  `json:"timestamp" firestore:"timestamp"`
	ExpiryDate       *time.Time `json:"expiryDate,omitempty" firestore:"expiryDate,omitempty"`
	Likes            int        `json:"likes,omitempty" firestore:"likes,omitempty"`
	Views            int        `json:"views,omitempty" firestore:"views,omitempty"`
}

// UserChallengeState is the per-(user, challenge) progress record.
// Title, location and expiry are copied at accept time so reads need no join.
type UserChallengeState struct {
	UserID         string     `json:"userId" firestore:"userId" db:"user_id"`
	ChallengeID    string     `json:"challengeId" firestore:"challengeId" db:"challenge_id"`
	Status         Status     `json:"challengeStatus" firestore:"challengeStatus" db:"status"`
	AcceptedAt     *time.Time `json:"acceptedAt,omitempty" firestore:"acceptedAt,omitempty" db:"accepted_at"`
	CompletedAt    *time.Time `json:"completedAt,omitempty" firestore:"completedAt,omitempty" db:"completed_at"`
	ChallengeTitle string     `json:"challengeTitle,omitempty" firestore:"challengeTitle,omitempty" db:"challenge_title"`
	LocationName   string     `json:"locationName,omitempty" firestore:"locationName,omitempty" db:"location_name"`
	Latitude       *float64   `json:"latitude,omitempty" firestore:"latitude,omitempty" db:"latitude"`
	Longitude      *float64   `json:"longitude,omitempty" firestore:"longitude,omitempty" db:"longitude"`
	ExpiryDate     *time.Time `json:"expiryDate,omitempty" firestore:"expiryDate,omitempty" db:"expiry_date"`
}

// Target returns the denormalized challenge location, if one was captured.
func (s *UserChallengeState) Target() (Coordinate, bool) {
	if s.Latitude == nil || s.Longitude == nil {
		return Coordinate{}, false
	}
	return Coordinate{Latitude: *s.Latitude, Longitude: *s.Longitude}, true
}

// StatePatch is a set-with-merge write: nil fields are left as stored.
type StatePatch struct {
	UserID         *string
	ChallengeID    *string
	Status         *Status
	AcceptedAt     *time.Time
	CompletedAt    *time.Time
	ChallengeTitle *string
	LocationName   *string
	Latitude       *float64
	Longitude      *float64
	ExpiryDate     *time.Time
}

// Apply merges the patch into s.
func (p StatePatch) Apply(s *UserChallengeState) {
	if p.UserID != nil {
		s.UserID = *p.UserID
	}
	if p.ChallengeID != nil {
		s.ChallengeID = *p.ChallengeID
	}
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.AcceptedAt != nil {
		t := *p.AcceptedAt
		s.AcceptedAt = &t
	}
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		s.CompletedAt = &t
	}
	if p.ChallengeTitle != nil {
		s.ChallengeTitle = *p.ChallengeTitle
	}
	if p.LocationName != nil {
		s.LocationName = *p.LocationName
	}
	if p.Latitude != nil {
		v := *p.Latitude
		s.Latitude = &v
	}
	if p.Longitude != nil {
		v := *p.Longitude
		s.Longitude = &v
	}
	if p.ExpiryDate != nil {
		t := *p.ExpiryDate
		s.ExpiryDate = &t
	}
}

// StateKey is the deterministic document key of a user's challenge record.
func StateKey(userID, challengeID string) string {
	return userID + "_" + challengeID
}

type ProximityResult struct {
	IsWithinRadius bool    `json:"isWithinRadius"`
	DistanceMeters float64 `json:"calculatedDistance"`
}

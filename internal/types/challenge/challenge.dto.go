package challenge

import "time"

type CheckLocationRequest struct {
	UserLatitude       *float64 `json:"userLatitude" validate:"required,lat"`
	UserLongitude      *float64 `json:"userLongitude" validate:"required,lng"`
	ChallengeLatitude  *float64 `json:"challengeLatitude" validate:"required,lat"`
	ChallengeLongitude *float64 `json:"challengeLongitude" validate:"required,lng"`
}

type CompleteChallengeRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,lat"`
	Longitude *float64 `json:"longitude" validate:"required,lng"`
}

type CreateChallengeRequest struct {
	Title            string     `json:"title" validate:"required"`
	Description      string     `json:"description" validate:"required"`
	ImageURLs        []string   `json:"imageUrls" validate:"required,min=1"`
	VideoURL         string     `json:"videoUrl,omitempty"`
	Location         Location   `json:"location"`
	LocationName     string     `json:"locationName,omitempty"`
	CreatorName      string     `json:"creatorName" validate:"required"`
	CreatorAvatarURL string     `json:"creatorAvatarUrl" validate:"required"`
	Category         string     `json:"category" validate:"required"`
	ExpiryDate       *time.Time `json:"expiryDate,omitempty"`

	// DeviceToken, when set, subscribes the creator to completion pushes.
	DeviceToken string `json:"deviceToken,omitempty"`
}

type ChallengeDetailResponse struct {
	*Challenge
	ChallengeStatus Status `json:"challengeStatus,omitempty"`
}

type CompleteChallengeResponse struct {
	UserChallenge *UserChallengeState `json:"userChallenge"`
	ProximityResult
}

type ListResponse struct {
	Challenges []*Challenge `json:"challenges"`
	NextCursor *string      `json:"nextCursor"`
}

type ShareResponse struct {
	ChallengeID  string `json:"challengeId"`
	DeepLink     string `json:"deepLink"`
	QrCodeBase64 string `json:"qrCodeBase64"`
}

type DirectionsRequest struct {
	StartLat *float64 `json:"startLat" validate:"required,lat"`
	StartLon *float64 `json:"startLon" validate:"required,lng"`
	EndLat   *float64 `json:"endLat" validate:"required,lat"`
	EndLon   *float64 `json:"endLon" validate:"required,lng"`
}

type DirectionsResponse struct {
	Suggestion string `json:"suggestion"`
}

package finalpage

import (
	"time"

	"geoQuestAPI/internal/types/leaderboard"
)

type Post struct {
	ID        string    `json:"id" firestore:"id"`
	AuthorID  string    `json:"authorId" firestore:"authorId"`
	Text      string    `json:"text" firestore:"text"`
	ImageURL  string    `json:"imageUrl" firestore:"imageUrl"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// Story has the same shape as a post but is rendered in the stories rail.
type Story = Post

// FinalPage is the community page unlocked once a challenge is completed.
type FinalPage struct {
	ID               string   `json:"id" firestore:"id"`
	ChallengeID      string   `json:"challengeId" firestore:"challengeId"`
	Category         string   `json:"category" firestore:"category"`
	CreatorID        string   `json:"creatorId" firestore:"creatorId"`
	CreatorName      string   `json:"creatorName" firestore:"creatorName"`
	CreatorAvatarURL string   `json:"creatorAvatarUrl" firestore:"creatorAvatarUrl"`
	PageTitle        string   `json:"pageTitle" firestore:"pageTitle"`
	PageDescription  string   `json:"pageDescription" firestore:"pageDescription"`
	PageLocation     string   `json:"pageLocation" firestore:"pageLocation"`
	PageExpiryDate   string   `json:"pageExpiryDate" firestore:"pageExpiryDate"`
	PageVideoURL     string   `json:"pageVideoUrl" firestore:"pageVideoUrl"`
	PageImageURLs    []string `json:"pageImageUrls" firestore:"pageImageUrls"`
	// PageTimestamp is unix millis of the last save.
	PageTimestamp int64   `json:"pageTimestamp" firestore:"pageTimestamp"`
	Posts         []Post  `json:"posts" firestore:"posts"`
	Stories       []Story `json:"stories" firestore:"stories"`
}

type FinalPageView struct {
	FinalPage
	Leaderboard *leaderboard.ChallengeLeaderboard `json:"leaderboard"`
}

// DocID is the document id a challenge's final page is stored under.
func DocID(challengeID string) string {
	return challengeID + "-final"
}

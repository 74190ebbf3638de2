package leaderboard

import "time"

type LeaderboardEntry struct {
	UserID          string    `json:"user_id"`
	Rank            int       `json:"rank"`
	CompletedCount  int       `json:"completed_count"`
	LastCompletedAt time.Time `json:"last_completed_at"`
}

type Leaderboard struct {
	Entries      []*LeaderboardEntry `json:"entries"`
	UserPosition *LeaderboardEntry   `json:"user_position"`
	TotalUsers   int                 `json:"total_users"`
}

// ChallengeEntry is one finisher of a single challenge, ranked by finish time.
type ChallengeEntry struct {
	UserID      string    `json:"user_id"`
	Rank        int       `json:"rank"`
	CompletedAt time.Time `json:"completed_at"`
}

type ChallengeLeaderboard struct {
	ChallengeID string            `json:"challenge_id"`
	Entries     []*ChallengeEntry `json:"entries"`
	Total       int               `json:"total"`
}

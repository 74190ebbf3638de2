package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"geoQuestAPI/internal/types/challenge"
	"geoQuestAPI/internal/types/leaderboard"
)

const globalLeaderboardSize = 50

type LeaderboardService struct {
	store ProgressStore
}

func NewLeaderboardService(store ProgressStore) *LeaderboardService {
	return &LeaderboardService{store: store}
}

// ForChallenge ranks the finishers of one challenge by completion time.
func (s *LeaderboardService) ForChallenge(ctx context.Context, challengeID string) (*leaderboard.ChallengeLeaderboard, error) {
	states, err := s.store.ListCompleted(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load finishers: %w", err)
	}

	sort.SliceStable(states, func(i, j int) bool {
		return completedAt(states[i]).Before(completedAt(states[j]))
	})

	board := &leaderboard.ChallengeLeaderboard{
		ChallengeID: challengeID,
		Entries:     make([]*leaderboard.ChallengeEntry, 0, len(states)),
		Total:       len(states),
	}
	for i, st := range states {
		board.Entries = append(board.Entries, &leaderboard.ChallengeEntry{
			UserID:      st.UserID,
			Rank:        i + 1,
			CompletedAt: completedAt(st),
		})
	}
	return board, nil
}

// Global ranks users by completed challenge count. Equal count and equal last
// completion share a rank and the next rank is skipped, like SQL RANK().
func (s *LeaderboardService) Global(ctx context.Context, userID string) (*leaderboard.Leaderboard, error) {
	states, err := s.store.ListCompleted(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}

	byUser := make(map[string]*leaderboard.LeaderboardEntry)
	for _, st := range states {
		e, ok := byUser[st.UserID]
		if !ok {
			e = &leaderboard.LeaderboardEntry{UserID: st.UserID}
			byUser[st.UserID] = e
		}
		e.CompletedCount++
		if at := completedAt(st); at.After(e.LastCompletedAt) {
			e.LastCompletedAt = at
		}
	}

	entries := make([]*leaderboard.LeaderboardEntry, 0, len(byUser))
	for _, e := range byUser {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.CompletedCount != b.CompletedCount {
			return a.CompletedCount > b.CompletedCount
		}
		if !a.LastCompletedAt.Equal(b.LastCompletedAt) {
			return a.LastCompletedAt.Before(b.LastCompletedAt)
		}
		return a.UserID < b.UserID
	})

	for i, e := range entries {
		if i > 0 && sameStanding(entries[i-1], e) {
			e.Rank = entries[i-1].Rank
		} else {
			e.Rank = i + 1
		}
	}

	board := &leaderboard.Leaderboard{TotalUsers: len(entries)}
	if len(entries) > globalLeaderboardSize {
		board.Entries = entries[:globalLeaderboardSize]
	} else {
		board.Entries = entries
	}
	if e, ok := byUser[userID]; ok {
		board.UserPosition = e
	}
	return board, nil
}

func sameStanding(a, b *leaderboard.LeaderboardEntry) bool {
	return a.CompletedCount == b.CompletedCount && a.LastCompletedAt.Equal(b.LastCompletedAt)
}

func completedAt(st *challenge.UserChallengeState) time.Time {
	if st.CompletedAt == nil {
		return time.Time{}
	}
	return *st.CompletedAt
}

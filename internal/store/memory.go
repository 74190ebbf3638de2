package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"geoQuestAPI/internal/types/challenge"
	"geoQuestAPI/internal/types/finalpage"
)

// MemoryStore keeps every collection in process memory. It backs STORE_DRIVER=memory
// and the tests; contents are lost on restart.
type MemoryStore struct {
	mu         sync.RWMutex
	challenges map[string]*challenge.Challenge
	states     map[string]*challenge.UserChallengeState
	finalPages map[string]*finalpage.FinalPage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		challenges: make(map[string]*challenge.Challenge),
		states:     make(map[string]*challenge.UserChallengeState),
		finalPages: make(map[string]*finalpage.FinalPage),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) GetState(ctx context.Context, key string) (*challenge.UserChallengeState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[key]
	if !ok {
		return nil, fmt.Errorf("user challenge %s: %w", key, ErrNotFound)
	}
	cp := *st
	return &cp, nil
}

func (s *MemoryStore) MergeState(ctx context.Context, key string, patch challenge.StatePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[key]
	if !ok {
		st = &challenge.UserChallengeState{}
		s.states[key] = st
	}
	patch.Apply(st)
	return nil
}

func (s *MemoryStore) ListStatesByUser(ctx context.Context, userID string) ([]*challenge.UserChallengeState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*challenge.UserChallengeState
	for _, st := range s.states {
		if st.UserID == userID {
			cp := *st
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChallengeID < out[j].ChallengeID })
	return out, nil
}

func (s *MemoryStore) ListCompleted(ctx context.Context, challengeID string) ([]*challenge.UserChallengeState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*challenge.UserChallengeState
	for _, st := range s.states {
		if st.Status != challenge.StatusCompleted {
			continue
		}
		if challengeID != "" && st.ChallengeID != challengeID {
			continue
		}
		cp := *st
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) CreateChallenge(ctx context.Context, c *challenge.Challenge) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	s.challenges[cp.ID] = &cp
	return cp.ID, nil
}

func (s *MemoryStore) GetChallenge(ctx context.Context, id string) (*challenge.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.challenges[id]
	if !ok {
		return nil, fmt.Errorf("challenge %s: %w", id, ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

// ListChallenges pages through challenges newest first, starting after afterID.
func (s *MemoryStore) ListChallenges(ctx context.Context, pageSize int, afterID string) ([]*challenge.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.sortedChallengesLocked()

	start := 0
	if afterID != "" {
		start = -1
		for i, c := range all {
			if c.ID == afterID {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return nil, fmt.Errorf("cursor %s: %w", afterID, ErrNotFound)
		}
	}

	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (s *MemoryStore) ListChallengesByCreator(ctx context.Context, creatorID string) ([]*challenge.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*challenge.Challenge
	for _, c := range s.sortedChallengesLocked() {
		if c.CreatorID == creatorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryStore) sortedChallengesLocked() []*challenge.Challenge {
	all := make([]*challenge.Challenge, 0, len(s.challenges))
	for _, c := range s.challenges {
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].ID < all[j].ID
		}
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	return all
}

func (s *MemoryStore) GetFinalPage(ctx context.Context, challengeID string) (*finalpage.FinalPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.finalPages[finalpage.DocID(challengeID)]
	if !ok {
		return nil, fmt.Errorf("final page %s: %w", challengeID, ErrNotFound)
	}
	return copyFinalPage(p), nil
}

func (s *MemoryStore) SaveFinalPage(ctx context.Context, page *finalpage.FinalPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finalPages[finalpage.DocID(page.ChallengeID)] = copyFinalPage(page)
	return nil
}

func copyFinalPage(p *finalpage.FinalPage) *finalpage.FinalPage {
	cp := *p
	cp.PageImageURLs = append([]string(nil), p.PageImageURLs...)
	cp.Posts = append([]finalpage.Post(nil), p.Posts...)
	cp.Stories = append([]finalpage.Story(nil), p.Stories...)
	return &cp
}

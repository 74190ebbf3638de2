package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"geoQuestAPI/internal/types/challenge"
	"geoQuestAPI/internal/types/finalpage"
)

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(ctx context.Context, app *firebase.App) (*FirestoreStore, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) Ping(ctx context.Context) error {
	// Any read proves connectivity; a missing document is fine.
	_, err := s.client.Collection(ChallengesCollection).Doc("_health").Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return err
	}
	return nil
}

func notFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (s *FirestoreStore) GetState(ctx context.Context, key string) (*challenge.UserChallengeState, error) {
	snap, err := s.client.Collection(UserChallengesCollection).Doc(key).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("user challenge %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user challenge: %w", err)
	}

	var st challenge.UserChallengeState
	if err := snap.DataTo(&st); err != nil {
		return nil, fmt.Errorf("failed to decode user challenge: %w", err)
	}
	return &st, nil
}

func (s *FirestoreStore) MergeState(ctx context.Context, key string, patch challenge.StatePatch) error {
	fields := patchFields(patch)
	if len(fields) == 0 {
		return nil
	}

	_, err := s.client.Collection(UserChallengesCollection).Doc(key).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to merge user challenge: %w", err)
	}
	return nil
}

// patchFields maps the non-nil patch fields to their firestore field names.
func patchFields(p challenge.StatePatch) map[string]interface{} {
	fields := make(map[string]interface{})
	if p.UserID != nil {
		fields["userId"] = *p.UserID
	}
	if p.ChallengeID != nil {
		fields["challengeId"] = *p.ChallengeID
	}
	if p.Status != nil {
		fields["challengeStatus"] = string(*p.Status)
	}
	if p.AcceptedAt != nil {
		fields["acceptedAt"] = *p.AcceptedAt
	}
	if p.CompletedAt != nil {
		fields["completedAt"] = *p.CompletedAt
	}
	if p.ChallengeTitle != nil {
		fields["challengeTitle"] = *p.ChallengeTitle
	}
	if p.LocationName != nil {
		fields["locationName"] = *p.LocationName
	}
	if p.Latitude != nil {
		fields["latitude"] = *p.Latitude
	}
	if p.Longitude != nil {
		fields["longitude"] = *p.Longitude
	}
	if p.ExpiryDate != nil {
		fields["expiryDate"] = *p.ExpiryDate
	}
	return fields
}

func (s *FirestoreStore) ListStatesByUser(ctx context.Context, userID string) ([]*challenge.UserChallengeState, error) {
	q := s.client.Collection(UserChallengesCollection).Where("userId", "==", userID)
	return collectStates(q.Documents(ctx))
}

func (s *FirestoreStore) ListCompleted(ctx context.Context, challengeID string) ([]*challenge.UserChallengeState, error) {
	q := s.client.Collection(UserChallengesCollection).Where("challengeStatus", "==", string(challenge.StatusCompleted))
	if challengeID != "" {
		q = q.Where("challengeId", "==", challengeID)
	}
	return collectStates(q.Documents(ctx))
}

func collectStates(iter *firestore.DocumentIterator) ([]*challenge.UserChallengeState, error) {
	defer iter.Stop()

	var out []*challenge.UserChallengeState
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate user challenges: %w", err)
		}

		var st challenge.UserChallengeState
		if err := doc.DataTo(&st); err != nil {
			return nil, fmt.Errorf("failed to decode user challenge %s: %w", doc.Ref.ID, err)
		}
		out = append(out, &st)
	}
	return out, nil
}

func (s *FirestoreStore) CreateChallenge(ctx context.Context, c *challenge.Challenge) (string, error) {
	ref, _, err := s.client.Collection(ChallengesCollection).Add(ctx, c)
	if err != nil {
		return "", fmt.Errorf("failed to create challenge: %w", err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) GetChallenge(ctx context.Context, id string) (*challenge.Challenge, error) {
	snap, err := s.client.Collection(ChallengesCollection).Doc(id).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("challenge %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	var c challenge.Challenge
	if err := snap.DataTo(&c); err != nil {
		return nil, fmt.Errorf("failed to decode challenge: %w", err)
	}
	c.ID = snap.Ref.ID
	return &c, nil
}

func (s *FirestoreStore) ListChallenges(ctx context.Context, pageSize int, afterID string) ([]*challenge.Challenge, error) {
	q := s.client.Collection(ChallengesCollection).OrderBy("timestamp", firestore.Desc).Limit(pageSize)

	if afterID != "" {
		cursor, err := s.client.Collection(ChallengesCollection).Doc(afterID).Get(ctx)
		if err != nil {
			if notFound(err) {
				return nil, fmt.Errorf("cursor %s: %w", afterID, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to resolve cursor: %w", err)
		}
		q = q.StartAfter(cursor)
	}

	return collectChallenges(q.Documents(ctx))
}

func (s *FirestoreStore) ListChallengesByCreator(ctx context.Context, creatorID string) ([]*challenge.Challenge, error) {
	q := s.client.Collection(ChallengesCollection).Where("creatorId", "==", creatorID)
	return collectChallenges(q.Documents(ctx))
}

func collectChallenges(iter *firestore.DocumentIterator) ([]*challenge.Challenge, error) {
	defer iter.Stop()

	challenges := []*challenge.Challenge{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate challenges: %w", err)
		}

		var c challenge.Challenge
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("failed to decode challenge %s: %w", doc.Ref.ID, err)
		}
		c.ID = doc.Ref.ID
		challenges = append(challenges, &c)
	}
	return challenges, nil
}

func (s *FirestoreStore) GetFinalPage(ctx context.Context, challengeID string) (*finalpage.FinalPage, error) {
	snap, err := s.client.Collection(FinalPagesCollection).Doc(finalpage.DocID(challengeID)).Get(ctx)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("final page %s: %w", challengeID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get final page: %w", err)
	}

	var page finalpage.FinalPage
	if err := snap.DataTo(&page); err != nil {
		return nil, fmt.Errorf("failed to decode final page: %w", err)
	}
	return &page, nil
}

func (s *FirestoreStore) SaveFinalPage(ctx context.Context, page *finalpage.FinalPage) error {
	_, err := s.client.Collection(FinalPagesCollection).Doc(finalpage.DocID(page.ChallengeID)).Set(ctx, page)
	if err != nil {
		return fmt.Errorf("failed to save final page: %w", err)
	}
	return nil
}

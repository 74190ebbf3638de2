package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"geoQuestAPI/internal/types/challenge"
)

// PostgresProgressStore keeps user challenge records in Postgres when
// PROGRESS_DRIVER=postgres. The catalog and final pages stay in the document store.
type PostgresProgressStore struct {
	db *pgxpool.Pool
}

func NewPostgresProgressStore(db *pgxpool.Pool) *PostgresProgressStore {
	return &PostgresProgressStore{db: db}
}

// NewPool opens a pgx pool with the same sizing the API has always used.
func NewPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

func (s *PostgresProgressStore) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS user_challenges (
		id              TEXT PRIMARY KEY,
		user_id         TEXT,
		challenge_id    TEXT,
		status          TEXT,
		accepted_at     TIMESTAMPTZ,
		completed_at    TIMESTAMPTZ,
		challenge_title TEXT,
		location_name   TEXT,
		latitude        DOUBLE PRECISION,
		longitude       DOUBLE PRECISION,
		expiry_date     TIMESTAMPTZ
	);
	CREATE INDEX IF NOT EXISTS idx_user_challenges_user ON user_challenges (user_id);
	CREATE INDEX IF NOT EXISTS idx_user_challenges_completed ON user_challenges (challenge_id) WHERE status = 'completed';
	`

	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create user_challenges table: %w", err)
	}
	return nil
}

func (s *PostgresProgressStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

const stateColumns = `user_id, challenge_id, status, accepted_at, completed_at,
		challenge_title, location_name, latitude, longitude, expiry_date`

func (s *PostgresProgressStore) GetState(ctx context.Context, key string) (*challenge.UserChallengeState, error) {
	query := `SELECT ` + stateColumns + ` FROM user_challenges WHERE id = $1`

	st, err := scanState(s.db.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user challenge %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user challenge: %w", err)
	}
	return st, nil
}

// MergeState upserts the row; NULL parameters keep the stored column value.
func (s *PostgresProgressStore) MergeState(ctx context.Context, key string, p challenge.StatePatch) error {
	query := `
	INSERT INTO user_challenges (id, user_id, challenge_id, status, accepted_at, completed_at,
		challenge_title, location_name, latitude, longitude, expiry_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE SET
		user_id         = COALESCE(EXCLUDED.user_id, user_challenges.user_id),
		challenge_id    = COALESCE(EXCLUDED.challenge_id, user_challenges.challenge_id),
		status          = COALESCE(EXCLUDED.status, user_challenges.status),
		accepted_at     = COALESCE(EXCLUDED.accepted_at, user_challenges.accepted_at),
		completed_at    = COALESCE(EXCLUDED.completed_at, user_challenges.completed_at),
		challenge_title = COALESCE(EXCLUDED.challenge_title, user_challenges.challenge_title),
		location_name   = COALESCE(EXCLUDED.location_name, user_challenges.location_name),
		latitude        = COALESCE(EXCLUDED.latitude, user_challenges.latitude),
		longitude       = COALESCE(EXCLUDED.longitude, user_challenges.longitude),
		expiry_date     = COALESCE(EXCLUDED.expiry_date, user_challenges.expiry_date)
	`

	var statusValue *string
	if p.Status != nil {
		v := string(*p.Status)
		statusValue = &v
	}

	_, err := s.db.Exec(ctx, query,
		key,
		p.UserID,
		p.ChallengeID,
		statusValue,
		p.AcceptedAt,
		p.CompletedAt,
		p.ChallengeTitle,
		p.LocationName,
		p.Latitude,
		p.Longitude,
		p.ExpiryDate,
	)
	if err != nil {
		return fmt.Errorf("failed to merge user challenge: %w", err)
	}
	return nil
}

func (s *PostgresProgressStore) ListStatesByUser(ctx context.Context, userID string) ([]*challenge.UserChallengeState, error) {
	query := `SELECT ` + stateColumns + ` FROM user_challenges WHERE user_id = $1 ORDER BY challenge_id`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user challenges: %w", err)
	}
	return collectRows(rows)
}

func (s *PostgresProgressStore) ListCompleted(ctx context.Context, challengeID string) ([]*challenge.UserChallengeState, error) {
	query := `
	SELECT ` + stateColumns + `
	FROM user_challenges
	WHERE status = 'completed'
	  AND ($1 = '' OR challenge_id = $1)
	ORDER BY completed_at
	`

	rows, err := s.db.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed challenges: %w", err)
	}
	return collectRows(rows)
}

func collectRows(rows pgx.Rows) ([]*challenge.UserChallengeState, error) {
	defer rows.Close()

	var out []*challenge.UserChallengeState
	for rows.Next() {
		st, err := scanState(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user challenge row: %w", err)
		}
		out = append(out, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func scanState(row pgx.Row) (*challenge.UserChallengeState, error) {
	var (
		st                                               challenge.UserChallengeState
		userID, challengeID, status, title, locationName *string
	)

	err := row.Scan(
		&userID,
		&challengeID,
		&status,
		&st.AcceptedAt,
		&st.CompletedAt,
		&title,
		&locationName,
		&st.Latitude,
		&st.Longitude,
		&st.ExpiryDate,
	)
	if err != nil {
		return nil, err
	}

	st.UserID = deref(userID)
	st.ChallengeID = deref(challengeID)
	st.Status = challenge.Status(deref(status))
	st.ChallengeTitle = deref(title)
	st.LocationName = deref(locationName)
	return &st, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

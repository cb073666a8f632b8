package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"orgtodo/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, account_id, org_id, refresh_jti, refresh_token_hash, expires_at, revoked_at, created_at, last_seen_at
		 FROM sessions WHERE id = $1`, id)
	var (
		s          domain.Session
		orgID      sql.NullString
		revokedAt  sql.NullTime
		lastSeenAt sql.NullTime
	)
	err := row.Scan(&s.ID, &s.AccountID, &orgID, &s.RefreshJti, &s.RefreshTokenHash, &s.ExpiresAt, &revokedAt, &s.CreatedAt, &lastSeenAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if orgID.Valid {
		s.OrgID = orgID.String
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		s.RevokedAt = &t
	}
	if lastSeenAt.Valid {
		t := lastSeenAt.Time
		s.LastSeenAt = &t
	}
	return &s, nil
}

// Create persists the session. The session must have ID set; it is not assigned here.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	orgID := sql.NullString{String: s.OrgID, Valid: s.OrgID != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, account_id, org_id, refresh_jti, refresh_token_hash, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.AccountID, orgID, s.RefreshJti, s.RefreshTokenHash, s.ExpiresAt, s.CreatedAt,
	)
	return err
}

// Revoke marks the session revoked. Revoking an unknown or already revoked session is a no-op.
func (r *PostgresRepository) Revoke(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL",
		id, time.Now().UTC(),
	)
	return err
}

// RevokeAllByAccount revokes every active session of the account. Used on refresh token reuse.
func (r *PostgresRepository) RevokeAllByAccount(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET revoked_at = $2 WHERE account_id = $1 AND revoked_at IS NULL",
		accountID, time.Now().UTC(),
	)
	return err
}

// UpdateRefreshToken binds the session to a newly rotated refresh token.
func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, sessionID, jti, refreshTokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE sessions SET refresh_jti = $2, refresh_token_hash = $3 WHERE id = $1",
		sessionID, jti, refreshTokenHash,
	)
	return err
}

// UpdateLastSeen records session activity.
func (r *PostgresRepository) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, "UPDATE sessions SET last_seen_at = $2 WHERE id = $1", id, at)
	return err
}

// DeleteExpired removes sessions whose lifetime ended before the cutoff,
// revoked or not. Returns the number of rows removed.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < $1", before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

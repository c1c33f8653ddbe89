package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storegate/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, user_id, user_agent, ip_address, fingerprint, hashed_refresh_token, expires_at, revoked_at, created_at`

// GetByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	return scanSession(row)
}

// GetActiveByUserAndDevice returns the non-revoked, unexpired session for the
// given user and device fingerprint, or nil if there is none. The revocation and
// expiry filters live in the query so every caller reuses only usable sessions.
func (r *PostgresRepository) GetActiveByUserAndDevice(ctx context.Context, userID, fingerprint string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+sessionColumns+` FROM sessions
		WHERE user_id = $1 AND fingerprint = $2 AND revoked_at IS NULL AND expires_at > now()`,
		userID, fingerprint)
	return scanSession(row)
}

// Create persists the session and returns the stored row. The session must have
// ID set. The partial unique index on (user_id, fingerprint) rejects a second
// live session for the same device; callers surface that as a conflict.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	hash := sql.NullString{String: s.HashedRefreshToken, Valid: s.HashedRefreshToken != ""}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO sessions (id, user_id, user_agent, ip_address, fingerprint, hashed_refresh_token, expires_at, revoked_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+sessionColumns,
		s.ID, s.UserID, s.UserAgent, s.IPAddress, s.Fingerprint, hash, s.ExpiresAt, timeToNullTime(s.RevokedAt), s.CreatedAt)
	return scanSession(row)
}

// UpdateRefreshToken replaces the session's stored refresh-token hash. This is
// the rotation point: the previous refresh token stops verifying immediately.
func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, sessionID, hashedRefreshToken string) error {
	hash := sql.NullString{String: hashedRefreshToken, Valid: hashedRefreshToken != ""}
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET hashed_refresh_token = $2 WHERE id = $1`,
		sessionID, hash)
	return err
}

// Revoke clears the stored hash, expires the session, and sets the revocation
// timestamp in one atomic update. Revocation is terminal.
func (r *PostgresRepository) Revoke(ctx context.Context, id string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET hashed_refresh_token = NULL, expires_at = $2, revoked_at = $2
		WHERE id = $1 AND revoked_at IS NULL`,
		id, now)
	return err
}

func scanSession(row *sql.Row) (*domain.Session, error) {
	var s domain.Session
	var hash sql.NullString
	var revokedAt sql.NullTime
	err := row.Scan(&s.ID, &s.UserID, &s.UserAgent, &s.IPAddress, &s.Fingerprint, &hash, &s.ExpiresAt, &revokedAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if hash.Valid {
		s.HashedRefreshToken = hash.String
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		s.RevokedAt = &t
	}
	return &s, nil
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

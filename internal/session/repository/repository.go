package repository

import (
	"context"

	"storegate/internal/session/domain"
)

// Repository defines persistence for sessions. The store is the sole
// synchronization point for session state: the engine holds no locks and relies
// on the (user_id, fingerprint) uniqueness constraint to resolve concurrent
// find-or-create races.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// GetActiveByUserAndDevice returns the non-revoked, unexpired session for
	// the given user and device fingerprint, or nil if there is none.
	GetActiveByUserAndDevice(ctx context.Context, userID, fingerprint string) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) (*domain.Session, error)
	// UpdateRefreshToken replaces the stored refresh-token hash; the previous
	// refresh token becomes unverifiable immediately.
	UpdateRefreshToken(ctx context.Context, sessionID, hashedRefreshToken string) error
	// Revoke clears the stored hash, expires the session, and sets the
	// revocation timestamp in one atomic update.
	Revoke(ctx context.Context, id string) error
}

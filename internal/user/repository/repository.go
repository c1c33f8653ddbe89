package repository

import (
	"context"

	"storegate/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	// SetEmailVerified marks the user's email as verified. No-op if already verified.
	SetEmailVerified(ctx context.Context, userID string) error
}

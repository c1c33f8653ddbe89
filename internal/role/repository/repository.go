package repository

import (
	"context"

	"storegate/internal/role/domain"
)

// Repository defines persistence for roles.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	// Create persists the role and its permission links in one transaction and
	// returns the stored row.
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
}

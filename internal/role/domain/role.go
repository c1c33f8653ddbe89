package domain

import "time"

// PermissionAll is the base permission every store owner role links to. Seeded by
// the initial migration; role creation fails if it is missing.
const PermissionAll = "all"

// Role is a named set of permissions scoped to one store.
type Role struct {
	ID          string
	Name        string
	Description string
	StoreID     string
	Permissions []string
	CreatedAt   time.Time
}

// OwnerRole returns the default administrative role created for a store at signup.
func OwnerRole(id, storeID string, now time.Time) *Role {
	return &Role{
		ID:          id,
		Name:        "owner",
		Description: "Owner of the store",
		StoreID:     storeID,
		Permissions: []string{PermissionAll},
		CreatedAt:   now,
	}
}

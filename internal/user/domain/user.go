package domain

import (
	"errors"
	"time"
)

// User is the identity root. One user belongs to one store and carries the role
// created for it at signup.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	StoreID       string
	EmailVerified bool
	RoleID        string // empty until a role is assigned
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if u.StoreID == "" {
		return errors.New("store id is required")
	}
	return nil
}

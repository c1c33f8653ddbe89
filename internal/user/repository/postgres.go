package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storegate/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, email, password_hash, store_id, email_verified, role_id, created_at, updated_at`

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns the user with the given email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// Create persists the user and returns the stored row. The user must have ID set;
// it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	roleID := sql.NullString{String: u.RoleID, Valid: u.RoleID != ""}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash, store_id, email_verified, role_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		u.ID, u.Email, u.PasswordHash, u.StoreID, u.EmailVerified, roleID, u.CreatedAt, u.UpdatedAt)
	return scanUser(row)
}

// SetEmailVerified marks the user's email as verified. No-op when the user does
// not exist or is already verified.
func (r *PostgresRepository) SetEmailVerified(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET email_verified = TRUE, updated_at = $2
		WHERE id = $1 AND email_verified = FALSE`,
		userID, time.Now().UTC())
	return err
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var roleID sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.StoreID, &u.EmailVerified, &roleID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if roleID.Valid {
		u.RoleID = roleID.String
	}
	return &u, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"storegate/internal/role/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a role repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the role for id with its permission names, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, store_id, created_at FROM roles WHERE id = $1`, id).
		Scan(&role.ID, &role.Name, &role.Description, &role.StoreID, &role.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT permission_name FROM role_permissions WHERE role_id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		role.Permissions = append(role.Permissions, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &role, nil
}

// Create persists the role and its permission links in one transaction and
// returns the stored row. Fails if a linked permission does not exist.
func (r *PostgresRepository) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var created domain.Role
	err = tx.QueryRowContext(ctx, `
		INSERT INTO roles (id, name, description, store_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, description, store_id, created_at`,
		role.ID, role.Name, role.Description, role.StoreID, role.CreatedAt).
		Scan(&created.ID, &created.Name, &created.Description, &created.StoreID, &created.CreatedAt)
	if err != nil {
		return nil, err
	}
	for _, perm := range role.Permissions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO role_permissions (role_id, permission_name) VALUES ($1, $2)`,
			created.ID, perm); err != nil {
			return nil, err
		}
		created.Permissions = append(created.Permissions, perm)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &created, nil
}

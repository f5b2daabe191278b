package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticketdesk/ticketdesk/internal/domain"
)

// RoleRepository manages the roles reference table.
type RoleRepository interface {
	List(ctx context.Context) ([]domain.RoleRecord, error)
	GetByID(ctx context.Context, id int64) (*domain.RoleRecord, error)
	GetByName(ctx context.Context, name domain.Role) (*domain.RoleRecord, error)
	Create(ctx context.Context, role *domain.RoleRecord) error
	UpdateName(ctx context.Context, id int64, name domain.Role) error
	Delete(ctx context.Context, id int64) error
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository constructs repository.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) List(ctx context.Context) ([]domain.RoleRecord, error) {
	const query = `SELECT id, name, created_at FROM roles ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RoleRecord
	for rows.Next() {
		var role domain.RoleRecord
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}

func (r *roleRepository) GetByID(ctx context.Context, id int64) (*domain.RoleRecord, error) {
	const query = `SELECT id, name, created_at FROM roles WHERE id=$1`
	var role domain.RoleRecord
	if err := r.pool.QueryRow(ctx, query, id).Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetByName(ctx context.Context, name domain.Role) (*domain.RoleRecord, error) {
	const query = `SELECT id, name, created_at FROM roles WHERE name=$1`
	var role domain.RoleRecord
	if err := r.pool.QueryRow(ctx, query, name).Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) Create(ctx context.Context, role *domain.RoleRecord) error {
	const query = `
        INSERT INTO roles (name)
        VALUES ($1)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query, role.Name).Scan(&role.ID, &role.CreatedAt)
}

func (r *roleRepository) UpdateName(ctx context.Context, id int64, name domain.Role) error {
	const query = `UPDATE roles SET name=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, name, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roleRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM roles WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

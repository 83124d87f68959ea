package sqlite

import (
	"context"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
)

type rolesRepo struct {
	db dbtx
}

func (r *rolesRepo) CreateRole(ctx context.Context, name string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO roles (name) VALUES (?)`, name)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *rolesRepo) GetRoleByID(ctx context.Context, id int64) (domain.Role, error) {
	var ro domain.Role
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM roles WHERE id = ?`, id,
	).Scan(&ro.ID, &ro.Name, &ro.CreatedAt, &ro.UpdatedAt)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return ro, nil
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	var ro domain.Role
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM roles WHERE name = ?`, name,
	).Scan(&ro.ID, &ro.Name, &ro.CreatedAt, &ro.UpdatedAt)
	if err != nil {
		return domain.Role{}, mapNotFound(err)
	}
	return ro, nil
}

func (r *rolesRepo) ListAll(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRoles(rows)
}

func (r *rolesRepo) RenameRole(ctx context.Context, id int64, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE roles SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, name, id)
	if err != nil {
		return mapConstraint(err)
	}
	return expectAffected(res, nil)
}

func (r *rolesRepo) DeleteRole(ctx context.Context, id int64) error {
	return expectAffected(r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id))
}

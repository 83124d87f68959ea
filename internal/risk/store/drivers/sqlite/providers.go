package sqlite

import (
	"context"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
)

const providerColumns = `id, name, description, country, created_at, updated_at`

type providersRepo struct {
	db dbtx
}

func scanProvider(row interface{ Scan(...any) error }) (domain.Provider, error) {
	var p domain.Provider
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Country, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *providersRepo) CreateProvider(ctx context.Context, p domain.Provider) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO providers (name, description, country) VALUES (?, ?, ?)`,
		p.Name, p.Description, p.Country,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *providersRepo) GetProviderByID(ctx context.Context, id int64) (domain.Provider, error) {
	p, err := scanProvider(r.db.QueryRowContext(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE id = ?`, id))
	if err != nil {
		return domain.Provider{}, mapNotFound(err)
	}
	return p, nil
}

func (r *providersRepo) GetProviderByName(ctx context.Context, name string) (domain.Provider, error) {
	p, err := scanProvider(r.db.QueryRowContext(ctx,
		`SELECT `+providerColumns+` FROM providers WHERE name = ?`, name))
	if err != nil {
		return domain.Provider{}, mapNotFound(err)
	}
	return p, nil
}

func (r *providersRepo) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+providerColumns+` FROM providers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var providers []domain.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

func (r *providersRepo) UpdateProvider(ctx context.Context, p domain.Provider) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE providers
		SET name = ?, description = ?, country = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.Name, p.Description, p.Country, p.ID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return expectAffected(res, nil)
}

func (r *providersRepo) DeleteProvider(ctx context.Context, id int64) error {
	return expectAffected(r.db.ExecContext(ctx, `DELETE FROM providers WHERE id = ?`, id))
}

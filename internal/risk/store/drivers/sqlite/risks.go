package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
)

// Each listing has its own projection. fullRisk carries provider_id,
// listRisk leaves it out, userRisk appends the related user and countryRisk
// appends the provider's country.
const (
	fullRiskColumns = `r.id, r.provider_id, r.name, r.description, r.probability, r.impact, r.created_at, r.updated_at`
	listRiskColumns = `r.id, r.name, r.description, r.probability, r.impact, r.created_at, r.updated_at`
)

type projection int

const (
	fullRisk projection = iota
	listRisk
	userRisk
	countryRisk
)

// likeEscaper makes a LIKE pattern match its input literally. Queries using
// it must declare ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type risksRepo struct {
	db dbtx
}

func scanRisk(row interface{ Scan(...any) error }, p projection) (domain.Risk, error) {
	var (
		r          domain.Risk
		providerID int64
		userID     int64
		country    string
		created    time.Time
		updated    time.Time
	)

	hasProvider := p == fullRisk || p == countryRisk

	dest := []any{&r.ID}
	if hasProvider {
		dest = append(dest, &providerID)
	}
	dest = append(dest, &r.Name, &r.Description, &r.Probability, &r.Impact, &created, &updated)
	switch p {
	case userRisk:
		dest = append(dest, &userID)
	case countryRisk:
		dest = append(dest, &country)
	}

	if err := row.Scan(dest...); err != nil {
		return domain.Risk{}, err
	}

	r.CreatedAt = timePtr(created)
	r.UpdatedAt = timePtr(updated)
	if hasProvider {
		r.ProviderID = int64Ptr(providerID)
	}
	switch p {
	case userRisk:
		r.UserID = int64Ptr(userID)
	case countryRisk:
		r.Country = stringPtr(country)
	}
	return r, nil
}

func (r *risksRepo) list(ctx context.Context, p projection, query string, args ...any) ([]domain.Risk, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	risks := []domain.Risk{}
	for rows.Next() {
		risk, err := scanRisk(rows, p)
		if err != nil {
			return nil, err
		}
		risks = append(risks, risk)
	}
	return risks, rows.Err()
}

func (r *risksRepo) CreateRisk(ctx context.Context, risk domain.Risk) (int64, error) {
	var providerID int64
	if risk.ProviderID != nil {
		providerID = *risk.ProviderID
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO risks (provider_id, name, description, probability, impact)
		VALUES (?, ?, ?, ?, ?)`,
		providerID, risk.Name, risk.Description, risk.Probability, risk.Impact,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *risksRepo) GetRiskByID(ctx context.Context, id int64) (domain.Risk, error) {
	risk, err := scanRisk(r.db.QueryRowContext(ctx,
		`SELECT `+fullRiskColumns+` FROM risks r WHERE r.id = ?`, id), fullRisk)
	if err != nil {
		return domain.Risk{}, mapNotFound(err)
	}
	return risk, nil
}

func (r *risksRepo) ListRisks(ctx context.Context) ([]domain.Risk, error) {
	return r.list(ctx, fullRisk, `SELECT `+fullRiskColumns+` FROM risks r ORDER BY r.id`)
}

func (r *risksRepo) ListRisksByProvider(ctx context.Context, providerID int64) ([]domain.Risk, error) {
	return r.list(ctx, listRisk,
		`SELECT `+listRiskColumns+` FROM risks r WHERE r.provider_id = ? ORDER BY r.id`, providerID)
}

func (r *risksRepo) ListRisksByUser(ctx context.Context, userID int64) ([]domain.Risk, error) {
	return r.list(ctx, userRisk, `
		SELECT `+listRiskColumns+`, ru.user_id
		FROM risks r
		JOIN risk_users ru ON ru.risk_id = r.id
		WHERE ru.user_id = ?
		ORDER BY r.id`, userID)
}

func (r *risksRepo) ListRisksBySubstring(ctx context.Context, text string) ([]domain.Risk, error) {
	pattern := "%" + likeEscaper.Replace(text) + "%"
	return r.list(ctx, listRisk, `
		SELECT `+listRiskColumns+`
		FROM risks r
		WHERE r.name LIKE ? ESCAPE '\' OR r.description LIKE ? ESCAPE '\'
		ORDER BY r.id`, pattern, pattern)
}

func (r *risksRepo) ListRisksByProbability(ctx context.Context, level domain.Classification) ([]domain.Risk, error) {
	return r.list(ctx, listRisk,
		`SELECT `+listRiskColumns+` FROM risks r WHERE r.probability = ? ORDER BY r.id`, level)
}

func (r *risksRepo) ListRisksByImpact(ctx context.Context, level domain.Classification) ([]domain.Risk, error) {
	return r.list(ctx, listRisk,
		`SELECT `+listRiskColumns+` FROM risks r WHERE r.impact = ? ORDER BY r.id`, level)
}

func (r *risksRepo) ListRisksByCountry(ctx context.Context, cca3 string) ([]domain.Risk, error) {
	return r.list(ctx, countryRisk, `
		SELECT `+fullRiskColumns+`, p.country
		FROM risks r
		JOIN providers p ON p.id = r.provider_id
		WHERE p.country = ? COLLATE NOCASE
		ORDER BY r.id`, cca3)
}

func (r *risksRepo) UpdateRisk(ctx context.Context, risk domain.Risk) error {
	var providerID int64
	if risk.ProviderID != nil {
		providerID = *risk.ProviderID
	}
	return expectAffected(r.db.ExecContext(ctx, `
		UPDATE risks
		SET name = ?, description = ?, probability = ?, impact = ?, provider_id = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		risk.Name, risk.Description, risk.Probability, risk.Impact, providerID, risk.ID,
	))
}

func (r *risksRepo) DeleteRisk(ctx context.Context, id int64) error {
	return expectAffected(r.db.ExecContext(ctx, `DELETE FROM risks WHERE id = ?`, id))
}

func (r *risksRepo) LinkUser(ctx context.Context, riskID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO risk_users (risk_id, user_id) VALUES (?, ?)`, riskID, userID)
	return mapConstraint(err)
}

func (r *risksRepo) UnlinkUser(ctx context.Context, riskID, userID int64) error {
	return expectAffected(r.db.ExecContext(ctx,
		`DELETE FROM risk_users WHERE risk_id = ? AND user_id = ?`, riskID, userID))
}

package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Drivers implement it and expose
// sub-repositories so a Tx-scoped store can hand out the same repos without
// callers nesting transactions.
type Store interface {
	Users() Users
	Roles() Roles
	Providers() Providers
	Risks() Risks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a user and returns its assigned id.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserWithRoles returns the user with Roles populated.
	GetUserWithRoles(ctx context.Context, id int64) (domain.User, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	ListUsersByRole(ctx context.Context, roleName string) ([]domain.User, error)

	// UpdateUser writes email and name and bumps updated_at.
	UpdateUser(ctx context.Context, u domain.User) error
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error

	// DeleteUser cascades to user_roles and risk_users.
	DeleteUser(ctx context.Context, userID int64) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)

	LinkRole(ctx context.Context, userID, roleID int64) error
	UnlinkRole(ctx context.Context, userID, roleID int64) error
	ListRoles(ctx context.Context, userID int64) ([]domain.Role, error)
}

type Roles interface {
	CreateRole(ctx context.Context, name string) (int64, error)
	GetRoleByID(ctx context.Context, id int64) (domain.Role, error)
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)
	ListAll(ctx context.Context) ([]domain.Role, error)
	RenameRole(ctx context.Context, id int64, name string) error

	// DeleteRole removes a role and its user links.
	DeleteRole(ctx context.Context, id int64) error
}

type Providers interface {
	CreateProvider(ctx context.Context, p domain.Provider) (int64, error)
	GetProviderByID(ctx context.Context, id int64) (domain.Provider, error)
	GetProviderByName(ctx context.Context, name string) (domain.Provider, error)
	ListProviders(ctx context.Context) ([]domain.Provider, error)
	UpdateProvider(ctx context.Context, p domain.Provider) error

	// DeleteProvider cascades to the provider's risks.
	DeleteProvider(ctx context.Context, id int64) error
}

// Risks exposes one listing per filter criterion. Each listing selects its
// own projection: ByProvider, ByUser, BySubstring, ByProbability and
// ByImpact leave ProviderID nil; ByCountry fills Country.
type Risks interface {
	CreateRisk(ctx context.Context, r domain.Risk) (int64, error)
	GetRiskByID(ctx context.Context, id int64) (domain.Risk, error)
	ListRisks(ctx context.Context) ([]domain.Risk, error)

	ListRisksByProvider(ctx context.Context, providerID int64) ([]domain.Risk, error)
	ListRisksByUser(ctx context.Context, userID int64) ([]domain.Risk, error)
	ListRisksBySubstring(ctx context.Context, text string) ([]domain.Risk, error)
	ListRisksByProbability(ctx context.Context, level domain.Classification) ([]domain.Risk, error)
	ListRisksByImpact(ctx context.Context, level domain.Classification) ([]domain.Risk, error)
	ListRisksByCountry(ctx context.Context, cca3 string) ([]domain.Risk, error)

	UpdateRisk(ctx context.Context, r domain.Risk) error
	DeleteRisk(ctx context.Context, id int64) error

	LinkUser(ctx context.Context, riskID, userID int64) error
	UnlinkUser(ctx context.Context, riskID, userID int64) error
}

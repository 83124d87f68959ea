package risksdk

import "time"

// ============================================================================
// Auth Types
// ============================================================================

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is returned by login and refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds
	ExpiresIn int `json:"expires_in"`
}

// ============================================================================
// Resource Types
// ============================================================================

type Role struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type User struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Roles     []Role     `json:"roles,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type Provider struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Country     string     `json:"country"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Risk fields other than the id, name, description and levels are only
// present when the query that produced the risk selected them.
type Risk struct {
	ID          int64      `json:"id"`
	ProviderID  *int64     `json:"provider_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Probability string     `json:"probability"`
	Impact      string     `json:"impact"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	UserID      *int64     `json:"user_id,omitempty"`
	Country     *string    `json:"country,omitempty"`
}

type CountryNames struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type Country struct {
	CCA3       string              `json:"cca3"`
	Names      CountryNames        `json:"name"`
	Capital    string              `json:"capital,omitempty"`
	Region     string              `json:"region,omitempty"`
	Subregion  string              `json:"subregion,omitempty"`
	Population int64               `json:"population,omitempty"`
	Languages  map[string]string   `json:"languages,omitempty"`
	Currencies map[string]Currency `json:"currencies,omitempty"`
	Timezones  []string            `json:"timezones,omitempty"`
}

// ============================================================================
// Request Types
// ============================================================================

type CreateRiskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Probability string `json:"probability"`
	Impact      string `json:"impact"`
	ProviderID  int64  `json:"provider_id"`
}

// UpdateRiskRequest changes only the non-nil fields.
type UpdateRiskRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Probability *string `json:"probability,omitempty"`
	Impact      *string `json:"impact,omitempty"`
	ProviderID  *int64  `json:"provider_id,omitempty"`
}

type CreateProviderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Country     string `json:"country"`
}

type UpdateProviderRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Country     *string `json:"country,omitempty"`
}

type RoleRequest struct {
	Name string `json:"name"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// ============================================================================
// List Types
// ============================================================================

type ListRisksResponse struct {
	Risks []Risk `json:"risks"`
}

type ListProvidersResponse struct {
	Providers []Provider `json:"providers"`
}

type ListRolesResponse struct {
	Roles []Role `json:"roles"`
}

type ListUsersResponse struct {
	Users []User `json:"users"`
}

type ListCountriesResponse struct {
	Countries []Country `json:"countries"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime,omitempty"`
	Version string `json:"version,omitempty"`

	// Checks is only set by /readyz
	Checks *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Secrets  string `json:"secrets"`
}

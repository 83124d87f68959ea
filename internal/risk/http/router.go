package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/aussiebroadwan/riskregister/internal/risk/service"
	"github.com/aussiebroadwan/riskregister/internal/risk/store"
	"github.com/aussiebroadwan/riskregister/pkg/httpx"
	"github.com/aussiebroadwan/riskregister/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/riskregister/api/risk" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	gatherer     prometheus.Gatherer

	store           store.Store
	AuthService     *service.AuthService
	UserService     *service.UserService
	RoleService     *service.RoleService
	ProviderService *service.ProviderService
	RiskService     *service.RiskService
	CountryService  *service.CountryService
}

// NewRouter builds a router whose HTTP metrics are registered with reg and
// exposed from gatherer on /metrics.
func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	reg prometheus.Registerer,
	gatherer prometheus.Gatherer,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		gatherer:     gatherer,
		store:        st,
	}

	// Metrics sits innermost so it sees the pattern the mux matched.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.NewMetrics(reg, "riskregister").Middleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerRisks()
	r.registerProviders()
	r.registerCountries()
	r.registerRoles()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Risk Register API
//	@version		0.1.0
//	@description	Records organizational risks tied to providers and countries, classified by probability and impact.
//	@description
//	@description				Access and refresh tokens are HS256 JWTs signed with separate secrets.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/riskregister
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(httpx.TokenVerifierFunc(r.AuthService.VerifyAccess))
}

// admin chains authentication with the admin role check.
func (r *Router) admin(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h, r.authn(), httpx.RequireRole(r.UserService, domain.AdminRoleName))
}

func (r *Router) authed(h http.HandlerFunc) http.Handler {
	return httpx.Chain(h, r.authn())
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService, UserService: r.UserService}

	r.Mux.HandleFunc("POST /v1/register", h.HandleRegister)
	r.Mux.HandleFunc("POST /v1/login", h.HandleLogin)
	r.Mux.HandleFunc("POST /v1/refresh", h.HandleRefresh)

	r.Mux.Handle("POST /v1/logout", r.authed(h.HandleLogout))
	r.Mux.Handle("GET /v1/me", r.authed(h.HandleMe))
}

func (r *Router) registerRisks() {
	h := &RisksHandler{RiskService: r.RiskService, UserService: r.UserService}

	r.Mux.Handle("GET /v1/risks", r.authed(h.HandleList))
	r.Mux.Handle("POST /v1/risks", r.authed(h.HandleCreate))
	r.Mux.Handle("GET /v1/risks/{id}", r.authed(h.HandleGet))
	r.Mux.Handle("PUT /v1/risks/{id}", r.authed(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/risks/{id}", r.authed(h.HandleDelete))
	r.Mux.Handle("POST /v1/risks/{id}/users/{userID}", r.authed(h.HandleRelateUser))
	r.Mux.Handle("DELETE /v1/risks/{id}/users/{userID}", r.authed(h.HandleUnrelateUser))
}

func (r *Router) registerProviders() {
	h := &ProvidersHandler{ProviderService: r.ProviderService}

	r.Mux.Handle("GET /v1/providers", r.authed(h.HandleList))
	r.Mux.Handle("GET /v1/providers/{id}", r.authed(h.HandleGet))
	r.Mux.Handle("POST /v1/providers", r.admin(h.HandleCreate))
	r.Mux.Handle("PUT /v1/providers/{id}", r.admin(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/providers/{id}", r.admin(h.HandleDelete))
}

func (r *Router) registerCountries() {
	h := &CountriesHandler{CountryService: r.CountryService}

	r.Mux.Handle("GET /v1/countries", r.authed(h.HandleList))
	r.Mux.Handle("GET /v1/countries/{cca3}", r.authed(h.HandleGet))
}

func (r *Router) registerRoles() {
	h := &RolesHandler{RoleService: r.RoleService}

	r.Mux.Handle("GET /v1/roles", r.admin(h.HandleList))
	r.Mux.Handle("GET /v1/roles/{id}", r.admin(h.HandleGet))
	r.Mux.Handle("GET /v1/roles/{id}/users", r.admin(h.HandleMembers))
	r.Mux.Handle("POST /v1/roles", r.admin(h.HandleCreate))
	r.Mux.Handle("PUT /v1/roles/{id}", r.admin(h.HandleRename))
	r.Mux.Handle("DELETE /v1/roles/{id}", r.admin(h.HandleDelete))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("GET /v1/users", r.admin(h.HandleList))
	r.Mux.Handle("GET /v1/users/{id}", r.admin(h.HandleGet))
	r.Mux.Handle("PUT /v1/users/{id}", r.admin(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/users/{id}", r.admin(h.HandleDelete))
	r.Mux.Handle("POST /v1/users/{id}/roles/{roleID}", r.admin(h.HandleGrantRole))
	r.Mux.Handle("DELETE /v1/users/{id}/roles/{roleID}", r.admin(h.HandleRevokeRole))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.AuthService))
	r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{}))
}

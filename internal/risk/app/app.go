package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/riskregister/internal/risk/country"
	httpapi "github.com/aussiebroadwan/riskregister/internal/risk/http"
	"github.com/aussiebroadwan/riskregister/internal/risk/service"
	"github.com/aussiebroadwan/riskregister/internal/risk/store"
	"github.com/aussiebroadwan/riskregister/internal/risk/store/drivers/sqlite"
	"github.com/aussiebroadwan/riskregister/pkg/cryptox"
	"github.com/aussiebroadwan/riskregister/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the risk register together and owns its lifecycle.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db        store.Store
	redis     *redis.Client
	countries *country.CachedLookup
	hasher    cryptox.Hasher

	authService     *service.AuthService
	userService     *service.UserService
	roleService     *service.RoleService
	providerService *service.ProviderService
	riskService     *service.RiskService
	countryService  *service.CountryService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with every dependency initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "risk-register",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.JWTSecret == "" || cfg.RefreshSecret == "" {
		// Token issuance fails with a configuration error until both are set.
		app.logger.Warn("JWT_SECRET or REFRESH_SECRET not set, logins will fail")
	}

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.Hasher{Pepper: pepper}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	app.initCountries()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("risk register starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down risk register...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("risk register stopped")
	return nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	if app.cfg.DatabaseFile == ":memory:" {
		dsn = ":memory:"
	}

	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initCountries puts a cache in front of the country service. Redis is used
// when configured and reachable, memory otherwise.
func (app *Application) initCountries() {
	var cache country.Cache = country.NewMemoryCache()

	if app.cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddr})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			app.logger.Warn("redis unreachable, caching countries in memory",
				"addr", app.cfg.RedisAddr, "error", err)
			_ = client.Close()
		} else {
			app.redis = client
			cache = country.NewRedisCache(client)
			app.logger.Info("caching countries in redis", "addr", app.cfg.RedisAddr)
		}
	}

	app.countries = &country.CachedLookup{
		Source: country.NewClient(app.cfg.CountryAPIURL),
		Cache:  cache,
		TTL:    app.cfg.CountryCacheTTL,
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	tokens := &service.TokenService{
		AccessTTL:  app.cfg.AccessTokenTTL,
		RefreshTTL: app.cfg.RefreshTokenTTL,
		Leeway:     app.cfg.TokenLeeway,
	}

	app.authService = &service.AuthService{
		Store:  app.db,
		Tokens: tokens,
		Secrets: service.Secrets{
			Access:  []byte(app.cfg.JWTSecret),
			Refresh: []byte(app.cfg.RefreshSecret),
		},
		Hasher: app.hasher,
	}
	app.userService = &service.UserService{Store: app.db, Hasher: app.hasher}
	app.roleService = &service.RoleService{Store: app.db}
	app.providerService = &service.ProviderService{Store: app.db, Countries: app.countries}
	app.riskService = &service.RiskService{
		Store: app.db,
		Composer: &service.FilterComposer{
			Users:     app.db.Users(),
			Providers: app.db.Providers(),
			Countries: app.countries,
			Risks:     app.db.Risks(),
		},
	}
	app.countryService = &service.CountryService{Countries: app.countries, Catalog: app.countries}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		prometheus.DefaultRegisterer,
		prometheus.DefaultGatherer,
	)

	router.AuthService = app.authService
	router.UserService = app.userService
	router.RoleService = app.roleService
	router.ProviderService = app.providerService
	router.RiskService = app.riskService
	router.CountryService = app.countryService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

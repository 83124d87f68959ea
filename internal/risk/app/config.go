package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/riskregister/pkg/jwtx"
	"github.com/joho/godotenv"
)

type Config struct {
	JWTSecret     string // Required: access token signing secret
	RefreshSecret string // Required: refresh token signing secret

	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 30m)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 24h)
	TokenLeeway     time.Duration // Optional: clock skew tolerated on exp (default: 10s, 0 disables, negative means default)

	DatabaseFile    string        // Optional: path to SQLite database file (default: ./risk.db)
	PepperFile      string        // Optional: path to file containing pepper for password hashing (default: ./pepper)
	CountryAPIURL   string        // Optional: country service base URL (default: restcountries v3.1)
	CountryCacheTTL time.Duration // Optional: how long resolved countries stay cached (default: 24h)
	RedisAddr       string        // Optional: host:port of a Redis used as the country cache

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the configuration from the environment after loading
// envFiles into it. Variables already set win over file values. With no
// envFiles, ./.env is loaded if it exists.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}

	return Config{
		JWTSecret:           os.Getenv("JWT_SECRET"),
		RefreshSecret:       os.Getenv("REFRESH_SECRET"),
		AccessTokenTTL:      getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL:     getEnvDurationOrDefault("REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		TokenLeeway:         getEnvDurationOrDefault("TOKEN_LEEWAY", jwtx.DefaultLeeway),
		DatabaseFile:        getEnvOrDefault("DATABASE_FILE", "risk.db"),
		PepperFile:          getEnvOrDefault("PEPPER_FILE", "pepper"),
		CountryAPIURL:       getEnvOrDefault("COUNTRY_API_URL", "https://restcountries.com/v3.1"),
		CountryCacheTTL:     getEnvDurationOrDefault("COUNTRY_CACHE_TTL", 24*time.Hour),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

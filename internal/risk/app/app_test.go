package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/riskregister/pkg/risksdk"
	"github.com/stretchr/testify/require"
)

func TestApplicationServes(t *testing.T) {
	dir := t.TempDir()
	countryAPI := httptest.NewServer(nil)
	t.Cleanup(countryAPI.Close)

	application, err := New(Config{
		JWTSecret:           "access-secret",
		RefreshSecret:       "refresh-secret",
		DatabaseFile:        filepath.Join(dir, "risk.db"),
		PepperFile:          filepath.Join(dir, "pepper"),
		CountryAPIURL:       countryAPI.URL,
		CountryCacheTTL:     time.Hour,
		RedisAddr:           "127.0.0.1:1",
		LogLevel:            "error",
		LogFormat:           "text",
		ShutdownGracePeriod: time.Second,
	})
	require.NoError(t, err, "an unreachable redis falls back to memory")
	require.Nil(t, application.redis)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(srv.Close)

	ctx := context.Background()
	c := risksdk.NewClient(srv.URL)

	ready, err := c.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	_, err = c.Register(ctx, risksdk.RegisterRequest{Email: "ann@example.com", Password: "correct horse", Name: "Ann"})
	require.NoError(t, err)
	s, err := c.Login(ctx, "ann@example.com", "correct horse")
	require.NoError(t, err)

	_, err = s.GetCountry(ctx, "COL")
	var apiErr *risksdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Country Code not found", apiErr.Description)

	require.NoError(t, application.Shutdown())
}

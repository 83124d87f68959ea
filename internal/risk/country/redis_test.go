package country

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("redis container test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisCache(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	cache := NewRedisCache(client)

	_, ok, err := cache.Get(ctx, "COL")
	require.NoError(t, err)
	require.False(t, ok)

	want := domain.Country{
		CCA3:       "COL",
		Capital:    "Bogotá",
		Names:      domain.CountryNames{Common: "Colombia", Official: "Republic of Colombia"},
		Currencies: map[string]domain.Currency{"COP": {Name: "Colombian peso", Symbol: "$"}},
	}
	require.NoError(t, cache.Set(ctx, "COL", want, time.Minute))

	got, ok, err := cache.Get(ctx, "COL")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)

	ttl, err := client.TTL(ctx, "country:COL").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))

	src := &countingSource{known: map[string]bool{"AUS": true}}
	lookup := &CachedLookup{Source: src, Cache: cache, TTL: time.Minute}
	for range 3 {
		_, err := lookup.GetCountryByCCA3(ctx, "aus")
		require.NoError(t, err)
	}
	require.Equal(t, 1, src.calls)
}

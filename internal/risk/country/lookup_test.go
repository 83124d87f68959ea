package country

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	calls int
	known map[string]bool
}

func (s *countingSource) GetCountryByCCA3(_ context.Context, cca3 string) (domain.Country, error) {
	s.calls++
	if s.known[cca3] {
		return domain.Country{CCA3: cca3}, nil
	}
	return domain.Country{}, ErrNotFound
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (domain.Country, bool, error) {
	return domain.Country{}, false, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, domain.Country, time.Duration) error {
	return errors.New("connection refused")
}

func TestCachedLookup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	src := &countingSource{known: map[string]bool{"COL": true}}
	lookup := &CachedLookup{Source: src, Cache: NewMemoryCache(), TTL: time.Hour}

	for _, code := range []string{"col", "COL", "Col"} {
		c, err := lookup.GetCountryByCCA3(ctx, code)
		require.NoError(t, err)
		require.Equal(t, "COL", c.CCA3)
	}
	require.Equal(t, 1, src.calls, "hits are served from the cache")

	for range 2 {
		_, err := lookup.GetCountryByCCA3(ctx, "XYZ")
		require.ErrorIs(t, err, ErrNotFound)
	}
	require.Equal(t, 3, src.calls, "misses are not cached")
}

func TestCachedLookupSurvivesBrokenCache(t *testing.T) {
	t.Parallel()
	src := &countingSource{known: map[string]bool{"AUS": true}}
	lookup := &CachedLookup{Source: src, Cache: brokenCache{}}

	c, err := lookup.GetCountryByCCA3(context.Background(), "aus")
	require.NoError(t, err)
	require.Equal(t, "AUS", c.CCA3)
}

func TestMemoryCacheExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.Now = func() time.Time { return now }

	require.NoError(t, cache.Set(ctx, "COL", domain.Country{CCA3: "COL"}, time.Minute))
	_, ok, err := cache.Get(ctx, "COL")
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "COL")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, cache.Set(ctx, "AUS", domain.Country{CCA3: "AUS"}, 0))
	now = now.Add(24 * 365 * time.Hour)
	_, ok, _ = cache.Get(ctx, "AUS")
	require.True(t, ok, "zero ttl never expires")
}

type listingSource struct {
	countingSource
	all []domain.Country
}

func (s *listingSource) ListCountries(context.Context) ([]domain.Country, error) {
	return s.all, nil
}

func TestCachedLookupListCountries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("primes the cache", func(t *testing.T) {
		src := &listingSource{all: []domain.Country{{CCA3: "col"}, {CCA3: "AUS"}, {}}}
		lookup := &CachedLookup{Source: src, Cache: NewMemoryCache(), TTL: time.Hour}

		all, err := lookup.ListCountries(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)

		for _, code := range []string{"COL", "aus"} {
			_, err := lookup.GetCountryByCCA3(ctx, code)
			require.NoError(t, err)
		}
		require.Zero(t, src.calls, "listed countries are served from the cache")
	})

	t.Run("source cannot list", func(t *testing.T) {
		lookup := &CachedLookup{Source: &countingSource{}, Cache: NewMemoryCache()}
		_, err := lookup.ListCountries(ctx)
		require.ErrorIs(t, err, ErrListUnsupported)
	})

	t.Run("broken cache still lists", func(t *testing.T) {
		src := &listingSource{all: []domain.Country{{CCA3: "COL"}}}
		lookup := &CachedLookup{Source: src, Cache: brokenCache{}}
		all, err := lookup.ListCountries(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
	})
}

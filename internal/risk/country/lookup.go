package country

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/aussiebroadwan/riskregister/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "riskregister",
	Subsystem: "country",
	Name:      "cache_lookups_total",
	Help:      "Country lookups by cache outcome.",
}, []string{"result"})

// ErrListUnsupported is returned by ListCountries when Source cannot list.
var ErrListUnsupported = errors.New("country: source cannot list countries")

// CachedLookup serves countries from Cache and falls back to Source. Only
// successful lookups are cached, so a code that failed once is retried.
type CachedLookup struct {
	Source Lookup
	Cache  Cache
	TTL    time.Duration
}

func (c *CachedLookup) GetCountryByCCA3(ctx context.Context, cca3 string) (domain.Country, error) {
	l := slogx.FromContext(ctx)
	key := strings.ToUpper(cca3)

	country, ok, err := c.Cache.Get(ctx, key)
	switch {
	case err != nil:
		cacheResults.WithLabelValues("error").Inc()
		l.Warn("country cache read failed", "cca3", key, "error", err)
	case ok:
		cacheResults.WithLabelValues("hit").Inc()
		return country, nil
	default:
		cacheResults.WithLabelValues("miss").Inc()
	}

	country, err = c.Source.GetCountryByCCA3(ctx, key)
	if err != nil {
		return domain.Country{}, err
	}

	if err := c.Cache.Set(ctx, key, country, c.TTL); err != nil {
		l.Warn("country cache write failed", "cca3", key, "error", err)
	}
	return country, nil
}

// ListCountries always asks Source for the full list and primes the cache
// with every entry, so later code lookups are served locally.
func (c *CachedLookup) ListCountries(ctx context.Context) ([]domain.Country, error) {
	lister, ok := c.Source.(Lister)
	if !ok {
		return nil, ErrListUnsupported
	}

	countries, err := lister.ListCountries(ctx)
	if err != nil {
		return nil, err
	}

	l := slogx.FromContext(ctx)
	for _, country := range countries {
		if country.CCA3 == "" {
			continue
		}
		if err := c.Cache.Set(ctx, strings.ToUpper(country.CCA3), country, c.TTL); err != nil {
			l.Warn("country cache write failed", "cca3", country.CCA3, "error", err)
			break
		}
	}
	return countries, nil
}

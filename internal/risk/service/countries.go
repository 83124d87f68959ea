package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
)

// CountryCatalog enumerates every known country.
type CountryCatalog interface {
	ListCountries(ctx context.Context) ([]domain.Country, error)
}

type CountryService struct {
	Countries CountryLookup

	// Catalog backs List. Nil disables listing.
	Catalog CountryCatalog
}

func (s *CountryService) Get(ctx context.Context, cca3 string) (domain.Country, error) {
	if utf8.RuneCountInString(cca3) != 3 {
		return domain.Country{}, invalid("cca3 must have 3 characters")
	}
	country, err := s.Countries.GetCountryByCCA3(ctx, cca3)
	if err != nil {
		return domain.Country{}, unresolved("Country Code not found", err)
	}
	return country, nil
}

// List returns every country sorted by code.
func (s *CountryService) List(ctx context.Context) ([]domain.Country, error) {
	if s.Catalog == nil {
		return nil, fmt.Errorf("%w: no country catalog configured", ErrConfiguration)
	}
	countries, err := s.Catalog.ListCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	slices.SortFunc(countries, func(a, b domain.Country) int {
		return strings.Compare(a.CCA3, b.CCA3)
	})
	return countries, nil
}

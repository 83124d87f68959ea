package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/aussiebroadwan/riskregister/internal/risk/store"
	"github.com/aussiebroadwan/riskregister/pkg/slogx"
)

type ProviderInput struct {
	Name        string `label:"Name" validate:"min=5"`
	Description string `label:"Description" validate:"min=5"`
	Country     string `label:"Country Code" validate:"cca3"`
}

// ProviderUpdate carries the fields an update may change. Nil means unchanged.
type ProviderUpdate struct {
	Name        *string `label:"Name" validate:"omitnil,min=5"`
	Description *string `label:"Description" validate:"omitnil,min=5"`
	Country     *string `label:"Country Code" validate:"omitnil,cca3"`
}

// ProviderService manages providers. Countries is consulted so every
// provider points at a country the lookup knows.
type ProviderService struct {
	Store     store.Store
	Countries CountryLookup
}

func (s *ProviderService) List(ctx context.Context) ([]domain.Provider, error) {
	return s.Store.Providers().ListProviders(ctx)
}

func (s *ProviderService) Get(ctx context.Context, id int64) (domain.Provider, error) {
	if id < 1 {
		return domain.Provider{}, invalid("Invalid id")
	}
	p, err := s.Store.Providers().GetProviderByID(ctx, id)
	if err != nil {
		return domain.Provider{}, notFound(err, "Provider not found")
	}
	return p, nil
}

func (s *ProviderService) GetByName(ctx context.Context, name string) (domain.Provider, error) {
	p, err := s.Store.Providers().GetProviderByName(ctx, name)
	if err != nil {
		return domain.Provider{}, notFound(err, "Provider not found")
	}
	return p, nil
}

func (s *ProviderService) Create(ctx context.Context, in ProviderInput) (domain.Provider, error) {
	if err := check(in); err != nil {
		return domain.Provider{}, err
	}

	country, err := s.resolveCountry(ctx, in.Country)
	if err != nil {
		return domain.Provider{}, err
	}

	_, err = s.Store.Providers().GetProviderByName(ctx, in.Name)
	switch {
	case err == nil:
		return domain.Provider{}, conflict("Provider already registered")
	case !errors.Is(err, store.ErrNotFound):
		return domain.Provider{}, err
	}

	id, err := s.Store.Providers().CreateProvider(ctx, domain.Provider{
		Name:        in.Name,
		Description: in.Description,
		Country:     country.CCA3,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.Provider{}, conflict("Provider already registered")
	}
	if err != nil {
		return domain.Provider{}, err
	}

	slogx.FromContext(ctx).Info("provider created", "provider_id", id, "country", country.CCA3)
	return s.Store.Providers().GetProviderByID(ctx, id)
}

func (s *ProviderService) Update(ctx context.Context, id int64, upd ProviderUpdate) (domain.Provider, error) {
	if upd.Name == nil && upd.Description == nil && upd.Country == nil {
		return domain.Provider{}, errNoValidParameters
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return domain.Provider{}, err
	}
	if err := check(upd); err != nil {
		return domain.Provider{}, err
	}

	if upd.Name != nil && *upd.Name != p.Name {
		_, err := s.Store.Providers().GetProviderByName(ctx, *upd.Name)
		if err == nil {
			return domain.Provider{}, conflict("The provider name is already registered")
		}
		if !errors.Is(err, store.ErrNotFound) {
			return domain.Provider{}, err
		}
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Country != nil {
		country, err := s.resolveCountry(ctx, *upd.Country)
		if err != nil {
			return domain.Provider{}, err
		}
		p.Country = country.CCA3
	}

	err = s.Store.Providers().UpdateProvider(ctx, p)
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.Provider{}, conflict("The provider name is already registered")
	}
	if err != nil {
		return domain.Provider{}, err
	}
	return s.Store.Providers().GetProviderByID(ctx, id)
}

// Delete removes a provider together with its risks.
func (s *ProviderService) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return invalid("Invalid id")
	}
	return notFound(s.Store.Providers().DeleteProvider(ctx, id), "Provider not found")
}

func (s *ProviderService) resolveCountry(ctx context.Context, code string) (domain.Country, error) {
	country, err := s.Countries.GetCountryByCCA3(ctx, code)
	if err != nil {
		return domain.Country{}, unresolved("Country Code not found", err)
	}
	return country, nil
}

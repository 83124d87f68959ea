package risksdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

func (s *Session) ListProviders(ctx context.Context) ([]Provider, error) {
	var out ListProvidersResponse
	if err := s.getJSON(ctx, "/v1/providers", &out); err != nil {
		return nil, err
	}
	return out.Providers, nil
}

func (s *Session) GetProvider(ctx context.Context, id int64) (*Provider, error) {
	var p Provider
	if err := s.getJSON(ctx, fmt.Sprintf("/v1/providers/%d", id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProvider requires the admin role.
func (s *Session) CreateProvider(ctx context.Context, req CreateProviderRequest) (*Provider, error) {
	var p Provider
	if err := s.sendJSON(ctx, http.MethodPost, "/v1/providers", req, &p, http.StatusCreated); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProvider requires the admin role.
func (s *Session) UpdateProvider(ctx context.Context, id int64, req UpdateProviderRequest) (*Provider, error) {
	var p Provider
	if err := s.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/v1/providers/%d", id), req, &p, http.StatusOK); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProvider requires the admin role. The provider's risks go with it.
func (s *Session) DeleteProvider(ctx context.Context, id int64) error {
	return s.sendNoContent(ctx, http.MethodDelete, fmt.Sprintf("/v1/providers/%d", id))
}

// ListCountries returns every country known to the register, sorted by code.
func (s *Session) ListCountries(ctx context.Context) ([]Country, error) {
	var out ListCountriesResponse
	if err := s.getJSON(ctx, "/v1/countries", &out); err != nil {
		return nil, err
	}
	return out.Countries, nil
}

func (s *Session) GetCountry(ctx context.Context, cca3 string) (*Country, error) {
	var c Country
	if err := s.getJSON(ctx, "/v1/countries/"+url.PathEscape(cca3), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

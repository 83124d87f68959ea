// Package country resolves ISO 3166-1 alpha-3 codes against the public
// REST Countries API, optionally behind a cache.
package country

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
)

const DefaultBaseURL = "https://restcountries.com/v3.1"

var ErrNotFound = errors.New("Country Code not found")

// fields limits the API response to what domain.Country holds.
const fields = "cca3,capital,region,subregion,population,name,languages,currencies,timezones"

// Lookup resolves a single country by its alpha-3 code.
type Lookup interface {
	GetCountryByCCA3(ctx context.Context, cca3 string) (domain.Country, error)
}

// Lister is a Lookup that can also enumerate every country.
type Lister interface {
	ListCountries(ctx context.Context) ([]domain.Country, error)
}

// Client talks to the REST Countries API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

type apiCountry struct {
	CCA3       string   `json:"cca3"`
	Capital    []string `json:"capital"`
	Region     string   `json:"region"`
	Subregion  string   `json:"subregion"`
	Population int64    `json:"population"`
	Name       struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	Languages  map[string]string `json:"languages"`
	Currencies map[string]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
	Timezones []string `json:"timezones"`
}

func (a apiCountry) toDomain() domain.Country {
	c := domain.Country{
		CCA3:       a.CCA3,
		Region:     a.Region,
		Subregion:  a.Subregion,
		Population: a.Population,
		Names:      domain.CountryNames{Common: a.Name.Common, Official: a.Name.Official},
		Languages:  a.Languages,
		Timezones:  a.Timezones,
	}
	if len(a.Capital) > 0 {
		c.Capital = a.Capital[0]
	}
	if len(a.Currencies) > 0 {
		c.Currencies = make(map[string]domain.Currency, len(a.Currencies))
		for code, cur := range a.Currencies {
			c.Currencies[code] = domain.Currency{Name: cur.Name, Symbol: cur.Symbol}
		}
	}
	return c
}

// GetCountryByCCA3 fetches one country. Any non-200 answer or an empty body
// is reported as ErrNotFound.
func (c *Client) GetCountryByCCA3(ctx context.Context, cca3 string) (domain.Country, error) {
	body, err := c.get(ctx, "alpha/"+url.PathEscape(cca3))
	if err != nil {
		return domain.Country{}, err
	}

	countries, err := decodeCountries(body)
	if err != nil {
		return domain.Country{}, fmt.Errorf("country: decode %s: %w", cca3, err)
	}
	if len(countries) == 0 || countries[0].CCA3 == "" {
		return domain.Country{}, ErrNotFound
	}
	return countries[0].toDomain(), nil
}

// ListCountries fetches every country the API knows.
func (c *Client) ListCountries(ctx context.Context) ([]domain.Country, error) {
	body, err := c.get(ctx, "all")
	if err != nil {
		return nil, err
	}
	countries, err := decodeCountries(body)
	if err != nil {
		return nil, fmt.Errorf("country: decode list: %w", err)
	}

	out := make([]domain.Country, len(countries))
	for i, a := range countries {
		out[i] = a.toDomain()
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/"+path+"?fields="+fields, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("country: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrNotFound
	}
	return io.ReadAll(io.LimitReader(resp.Body, 8<<20))
}

// decodeCountries accepts both the array the alpha endpoint returns and a
// bare object.
func decodeCountries(body []byte) ([]apiCountry, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if body[0] == '[' {
		var list []apiCountry
		err := json.Unmarshal(body, &list)
		return list, err
	}
	var one apiCountry
	if err := json.Unmarshal(body, &one); err != nil {
		return nil, err
	}
	return []apiCountry{one}, nil
}

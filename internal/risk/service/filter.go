package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/aussiebroadwan/riskregister/internal/risk/store"
	"github.com/aussiebroadwan/riskregister/pkg/slogx"
)

// FilterKey names one criterion kind.
type FilterKey string

const (
	FilterID          FilterKey = "id"
	FilterProvider    FilterKey = "provider_id"
	FilterUser        FilterKey = "user_id"
	FilterString      FilterKey = "string"
	FilterProbability FilterKey = "probability"
	FilterImpact      FilterKey = "impact"
	FilterCountry     FilterKey = "country"
)

// filterOrder is the order criteria are intersected in. Membership does not
// depend on it, only which representation of a risk survives.
var filterOrder = []FilterKey{
	FilterProvider,
	FilterUser,
	FilterString,
	FilterProbability,
	FilterImpact,
	FilterCountry,
}

// Filters maps each criterion to its resolved value. Provider and user values
// are numeric ids once composed.
type Filters map[FilterKey]string

const (
	msgUnknownFilter    = "Filter must be in provider_id, user_id, string, probability, impact or country"
	msgProviderNotFound = "The given provider does not exist"
	msgUserNotFound     = "The given user does not exist"
	msgEmptyString      = "String must have at least 1 character"
	msgCountryLength    = "Country Code must have 3 characters"
	msgRiskNotFound     = "Risk not found"
	msgInvalidID        = "Invalid id"
)

func levelMessage(field string) string {
	return field + " must be " + domain.ClassificationList()
}

type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

type ProviderLookup interface {
	GetProviderByID(ctx context.Context, id int64) (domain.Provider, error)
	GetProviderByName(ctx context.Context, name string) (domain.Provider, error)
}

type CountryLookup interface {
	GetCountryByCCA3(ctx context.Context, cca3 string) (domain.Country, error)
}

// RiskLookup is the read side of store.Risks the composer narrows with.
type RiskLookup interface {
	ListRisks(ctx context.Context) ([]domain.Risk, error)
	GetRiskByID(ctx context.Context, id int64) (domain.Risk, error)
	ListRisksByProvider(ctx context.Context, providerID int64) ([]domain.Risk, error)
	ListRisksByUser(ctx context.Context, userID int64) ([]domain.Risk, error)
	ListRisksBySubstring(ctx context.Context, text string) ([]domain.Risk, error)
	ListRisksByProbability(ctx context.Context, level domain.Classification) ([]domain.Risk, error)
	ListRisksByImpact(ctx context.Context, level domain.Classification) ([]domain.Risk, error)
	ListRisksByCountry(ctx context.Context, cca3 string) ([]domain.Risk, error)
}

// FilterComposer parses filter expressions and resolves them into risks.
// It holds only its lookups, so one value can serve concurrent requests.
type FilterComposer struct {
	Users     UserLookup
	Providers ProviderLookup
	Countries CountryLookup
	Risks     RiskLookup
}

// Filter composes expr and resolves the result in one go.
func (c *FilterComposer) Filter(ctx context.Context, expr string) ([]domain.Risk, error) {
	filters, err := c.Compose(ctx, expr)
	if err != nil {
		return nil, err
	}
	return c.Resolve(ctx, filters)
}

// Compose turns a comma separated expression such as
// "provider:acme,probability:HIGH,col" into typed filters. Tokens are
// classified by shape, not position. A later token of the same kind
// replaces an earlier one.
func (c *FilterComposer) Compose(ctx context.Context, expr string) (Filters, error) {
	filters := Filters{}
	for _, raw := range strings.Split(expr, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		key, value, err := c.classify(ctx, token)
		if err != nil {
			slogx.FromContext(ctx).Info("risk filter rejected", "token", token, "error", err)
			return nil, err
		}
		filters[key] = value
	}
	return filters, nil
}

func (c *FilterComposer) classify(ctx context.Context, token string) (FilterKey, string, error) {
	prefix, value, hasPrefix := strings.Cut(token, ":")
	if hasPrefix {
		switch prefix {
		case "provider":
			id, err := c.providerID(ctx, value)
			return FilterProvider, id, err
		case "user":
			id, err := c.userID(ctx, value)
			return FilterUser, id, err
		case "probability":
			if _, err := domain.ParseClassification(value); err != nil {
				return "", "", invalid(levelMessage("Probability"))
			}
			return FilterProbability, value, nil
		case "impact":
			if _, err := domain.ParseClassification(value); err != nil {
				return "", "", invalid(levelMessage("Impact"))
			}
			return FilterImpact, value, nil
		}
	}

	if utf8.RuneCountInString(token) == 3 && c.Countries != nil {
		if country, err := c.Countries.GetCountryByCCA3(ctx, token); err == nil {
			return FilterCountry, country.CCA3, nil
		}
	}
	return FilterString, token, nil
}

func (c *FilterComposer) providerID(ctx context.Context, ref string) (string, error) {
	if isNumeric(ref) {
		return ref, nil
	}
	if ref == "" {
		return "", unresolved(msgProviderNotFound, nil)
	}
	p, err := c.Providers.GetProviderByName(ctx, ref)
	if err != nil {
		return "", unresolved(msgProviderNotFound, err)
	}
	return strconv.FormatInt(p.ID, 10), nil
}

func (c *FilterComposer) userID(ctx context.Context, ref string) (string, error) {
	if isNumeric(ref) {
		return ref, nil
	}
	if ref == "" {
		return "", unresolved(msgUserNotFound, nil)
	}
	u, err := c.Users.GetUserByEmail(ctx, ref)
	if err != nil {
		return "", unresolved(msgUserNotFound, err)
	}
	return strconv.FormatInt(u.ID, 10), nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Resolve narrows the full risk list by every filter present. An id filter
// short-circuits and returns that single risk. Any failing criterion fails
// the whole call; partial lists are never returned.
func (c *FilterComposer) Resolve(ctx context.Context, filters Filters) ([]domain.Risk, error) {
	for key := range filters {
		if key != FilterID && !isOrdered(key) {
			return nil, invalid(msgUnknownFilter)
		}
	}

	if raw, ok := filters[FilterID]; ok {
		risk, err := c.byID(ctx, raw)
		if err != nil {
			return nil, err
		}
		return []domain.Risk{risk}, nil
	}

	candidates, err := c.Risks.ListRisks(ctx)
	if err != nil {
		return nil, err
	}

	for _, key := range filterOrder {
		value, ok := filters[key]
		if !ok {
			continue
		}
		sub, err := c.sublist(ctx, key, value)
		if err != nil {
			slogx.FromContext(ctx).Info("risk filter failed", "filter", string(key), "error", err)
			return nil, err
		}
		candidates = intersect(candidates, sub)
	}
	return candidates, nil
}

func isOrdered(key FilterKey) bool {
	for _, k := range filterOrder {
		if k == key {
			return true
		}
	}
	return false
}

func (c *FilterComposer) byID(ctx context.Context, raw string) (domain.Risk, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return domain.Risk{}, invalid(msgInvalidID)
	}
	risk, err := c.Risks.GetRiskByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Risk{}, unresolved(msgRiskNotFound, err)
	}
	return risk, err
}

func (c *FilterComposer) sublist(ctx context.Context, key FilterKey, value string) ([]domain.Risk, error) {
	switch key {
	case FilterProvider:
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, unresolved(msgProviderNotFound, err)
		}
		return c.Risks.ListRisksByProvider(ctx, id)
	case FilterUser:
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, unresolved(msgUserNotFound, err)
		}
		return c.Risks.ListRisksByUser(ctx, id)
	case FilterString:
		if value == "" {
			return nil, invalid(msgEmptyString)
		}
		return c.Risks.ListRisksBySubstring(ctx, value)
	case FilterProbability:
		level, err := domain.ParseClassification(value)
		if err != nil {
			return nil, invalid(levelMessage("Probability"))
		}
		return c.Risks.ListRisksByProbability(ctx, level)
	case FilterImpact:
		level, err := domain.ParseClassification(value)
		if err != nil {
			return nil, invalid(levelMessage("Impact"))
		}
		return c.Risks.ListRisksByImpact(ctx, level)
	case FilterCountry:
		if utf8.RuneCountInString(value) != 3 {
			return nil, invalid(msgCountryLength)
		}
		return c.Risks.ListRisksByCountry(ctx, value)
	}
	return nil, invalid(msgUnknownFilter)
}

// intersect keeps the risks of current whose id also appears in next. When
// both sides hold the id, the representation with strictly more populated
// fields wins, so a sparse projection never replaces a richer one.
func intersect(current, next []domain.Risk) []domain.Risk {
	byID := make(map[int64]domain.Risk, len(next))
	for _, r := range next {
		byID[r.ID] = r
	}

	out := make([]domain.Risk, 0, len(current))
	for _, r := range current {
		other, ok := byID[r.ID]
		if !ok {
			continue
		}
		if other.PopulatedFields() > r.PopulatedFields() {
			r = other
		}
		out = append(out, r)
	}
	return out
}

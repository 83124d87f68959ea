package http

import (
	"time"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/aussiebroadwan/riskregister/pkg/risksdk"
)

func toRole(r domain.Role) risksdk.Role {
	return risksdk.Role{ID: r.ID, Name: r.Name, CreatedAt: timeRef(r.CreatedAt), UpdatedAt: timeRef(r.UpdatedAt)}
}

func toUser(u domain.User) risksdk.User {
	out := risksdk.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: timeRef(u.CreatedAt),
		UpdatedAt: timeRef(u.UpdatedAt),
	}
	for _, r := range u.Roles {
		out.Roles = append(out.Roles, toRole(r))
	}
	return out
}

func toProvider(p domain.Provider) risksdk.Provider {
	return risksdk.Provider{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Country:     p.Country,
		CreatedAt:   timeRef(p.CreatedAt),
		UpdatedAt:   timeRef(p.UpdatedAt),
	}
}

func toRisk(r domain.Risk) risksdk.Risk {
	return risksdk.Risk{
		ID:          r.ID,
		ProviderID:  r.ProviderID,
		Name:        r.Name,
		Description: r.Description,
		Probability: string(r.Probability),
		Impact:      string(r.Impact),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		UserID:      r.UserID,
		Country:     r.Country,
	}
}

func toCountry(c domain.Country) risksdk.Country {
	out := risksdk.Country{
		CCA3:       c.CCA3,
		Names:      risksdk.CountryNames{Common: c.Names.Common, Official: c.Names.Official},
		Capital:    c.Capital,
		Region:     c.Region,
		Subregion:  c.Subregion,
		Population: c.Population,
		Languages:  c.Languages,
		Timezones:  c.Timezones,
	}
	if len(c.Currencies) > 0 {
		out.Currencies = make(map[string]risksdk.Currency, len(c.Currencies))
		for code, cur := range c.Currencies {
			out.Currencies[code] = risksdk.Currency{Name: cur.Name, Symbol: cur.Symbol}
		}
	}
	return out
}

func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

func timeRef(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

package http_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	httpapi "github.com/aussiebroadwan/riskregister/internal/risk/http"
	"github.com/aussiebroadwan/riskregister/internal/risk/service"
	"github.com/aussiebroadwan/riskregister/internal/risk/store/drivers/sqlite"
	"github.com/aussiebroadwan/riskregister/pkg/cryptox"
	"github.com/aussiebroadwan/riskregister/pkg/risksdk"
	"github.com/aussiebroadwan/riskregister/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type stubCountries map[string]string

func (s stubCountries) GetCountryByCCA3(_ context.Context, cca3 string) (domain.Country, error) {
	code := strings.ToUpper(cca3)
	name, ok := s[code]
	if !ok {
		return domain.Country{}, errors.New("Country Code not found")
	}
	return domain.Country{CCA3: code, Names: domain.CountryNames{Common: name}}, nil
}

func (s stubCountries) ListCountries(context.Context) ([]domain.Country, error) {
	out := make([]domain.Country, 0, len(s))
	for code, name := range s {
		out = append(out, domain.Country{CCA3: code, Names: domain.CountryNames{Common: name}})
	}
	return out, nil
}

var countries = stubCountries{"COL": "Colombia", "AUS": "Australia"}

func newTestServer(t *testing.T) (*httptest.Server, *risksdk.Client) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	hasher := cryptox.Hasher{Pepper: []byte("test-pepper"), Cost: 4}
	logger := slogx.New(slogx.Config{Service: "test", Level: "error", Format: "text"})
	reg := prometheus.NewRegistry()

	router := httpapi.NewRouter("test", st, logger, reg, reg)
	router.AuthService = &service.AuthService{
		Store:  st,
		Tokens: &service.TokenService{},
		Secrets: service.Secrets{
			Access:  []byte("access-secret"),
			Refresh: []byte("refresh-secret"),
		},
		Hasher: hasher,
	}
	router.UserService = &service.UserService{Store: st, Hasher: hasher}
	router.RoleService = &service.RoleService{Store: st}
	router.ProviderService = &service.ProviderService{Store: st, Countries: countries}
	router.RiskService = &service.RiskService{
		Store: st,
		Composer: &service.FilterComposer{
			Users:     st.Users(),
			Providers: st.Providers(),
			Countries: countries,
			Risks:     st.Risks(),
		},
	}
	router.CountryService = &service.CountryService{Countries: countries, Catalog: countries}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, risksdk.NewClient(srv.URL)
}

// signIn registers an account and logs it in. The first account of a
// server is its admin.
func signIn(t *testing.T, c *risksdk.Client, email, name string) *risksdk.Session {
	t.Helper()
	ctx := context.Background()

	_, err := c.Register(ctx, risksdk.RegisterRequest{Email: email, Password: "correct horse", Name: name})
	require.NoError(t, err)
	s, err := c.Login(ctx, email, "correct horse")
	require.NoError(t, err)
	return s
}

func requireAPIError(t *testing.T, err error, status int, code, msg string) {
	t.Helper()
	var apiErr *risksdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
	if msg != "" {
		require.Equal(t, msg, apiErr.Description)
	}
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	srv, c := newTestServer(t)

	admin := signIn(t, c, "ann@example.com", "Ann")

	me, err := admin.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "ann@example.com", me.Email)
	require.Len(t, me.Roles, 2)

	t.Run("duplicate registration", func(t *testing.T) {
		_, err := c.Register(ctx, risksdk.RegisterRequest{Email: "ann@example.com", Password: "correct horse", Name: "Ann"})
		requireAPIError(t, err, http.StatusConflict, risksdk.ErrorCodeConflict, "User already registered")
	})

	t.Run("registration validation", func(t *testing.T) {
		_, err := c.Register(ctx, risksdk.RegisterRequest{Email: "nope", Password: "correct horse", Name: "Nope"})
		requireAPIError(t, err, http.StatusBadRequest, risksdk.ErrorCodeInvalidRequest, "Invalid email format")
	})

	t.Run("login failures are uniform", func(t *testing.T) {
		_, errWrong := c.PasswordGrant(ctx, "ann@example.com", "wrong horse")
		_, errUnknown := c.PasswordGrant(ctx, "nobody@example.com", "correct horse")
		requireAPIError(t, errWrong, http.StatusUnauthorized, risksdk.ErrorCodeInvalidGrant, "")
		require.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("refresh rotates", func(t *testing.T) {
		before := admin.RefreshToken()
		require.NoError(t, admin.Refresh(ctx))
		require.NotEmpty(t, admin.AccessToken())

		_, err := admin.Me(ctx)
		require.NoError(t, err)

		_, err = c.RefreshGrant(ctx, "not-a-token")
		requireAPIError(t, err, http.StatusUnauthorized, risksdk.ErrorCodeInvalidToken, "")

		_, err = c.RefreshGrant(ctx, admin.AccessToken())
		requireAPIError(t, err, http.StatusUnauthorized, risksdk.ErrorCodeInvalidToken, "")

		// The old refresh token is not revoked.
		_, err = c.RefreshGrant(ctx, before)
		require.NoError(t, err)
	})

	t.Run("bearer required", func(t *testing.T) {
		for _, header := range []string{"", "Bearer garbage", "Bearer " + admin.RefreshToken()} {
			req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/me", nil)
			require.NoError(t, err)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			require.Contains(t, resp.Header.Get("WWW-Authenticate"), `error="invalid_token"`)
			require.Contains(t, string(body), "invalid_token")
		}
	})

	t.Run("logout", func(t *testing.T) {
		s, err := c.Login(ctx, "ann@example.com", "correct horse")
		require.NoError(t, err)
		require.NoError(t, s.Logout(ctx))
		require.Empty(t, s.AccessToken())
	})
}

func TestRiskLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, c := newTestServer(t)

	admin := signIn(t, c, "ann@example.com", "Ann")
	bob := signIn(t, c, "bob@example.com", "Bob")

	_, err := bob.CreateProvider(ctx, risksdk.CreateProviderRequest{Name: "Sneaky Ltd", Description: "Not allowed", Country: "AUS"})
	requireAPIError(t, err, http.StatusForbidden, risksdk.ErrorCodeInsufficientScope, "")

	_, err = admin.CreateProvider(ctx, risksdk.CreateProviderRequest{Name: "Nowhere Inc", Description: "Lost vendor", Country: "XYZ"})
	requireAPIError(t, err, http.StatusNotFound, risksdk.ErrorCodeNotFound, "Country Code not found")

	acme, err := admin.CreateProvider(ctx, risksdk.CreateProviderRequest{Name: "Acme Corp", Description: "Coffee beans", Country: "col"})
	require.NoError(t, err)
	require.Equal(t, "COL", acme.Country)

	globex, err := admin.CreateProvider(ctx, risksdk.CreateProviderRequest{Name: "Globex", Description: "Freight haulage", Country: "AUS"})
	require.NoError(t, err)

	flood, err := bob.CreateRisk(ctx, risksdk.CreateRiskRequest{
		Name: "Flood", Description: "Warehouse floods", Probability: "HIGH", Impact: "VERY_HIGH", ProviderID: acme.ID,
	})
	require.NoError(t, err)
	_, err = bob.CreateRisk(ctx, risksdk.CreateRiskRequest{
		Name: "Strike", Description: "Port strike", Probability: "LOW", Impact: "HIGH", ProviderID: acme.ID,
	})
	require.NoError(t, err)
	_, err = admin.CreateRisk(ctx, risksdk.CreateRiskRequest{
		Name: "Cyclone", Description: "Depot flooding", Probability: "HIGH", Impact: "MEDIUM", ProviderID: globex.ID,
	})
	require.NoError(t, err)

	_, err = bob.CreateRisk(ctx, risksdk.CreateRiskRequest{
		Name: "Bad", Description: "Bad level", Probability: "high", Impact: "LOW", ProviderID: acme.ID,
	})
	requireAPIError(t, err, http.StatusBadRequest, risksdk.ErrorCodeInvalidRequest,
		"Probability must be VERY_LOW, LOW, MEDIUM, HIGH or VERY_HIGH")

	names := func(risks []risksdk.Risk) []string {
		out := make([]string, len(risks))
		for i, r := range risks {
			out[i] = r.Name
		}
		return out
	}

	t.Run("filters", func(t *testing.T) {
		tests := []struct {
			filter string
			want   []string
		}{
			{"", []string{"Flood", "Strike", "Cyclone"}},
			{"probability:HIGH", []string{"Flood", "Cyclone"}},
			{"probability:HIGH,provider:Acme Corp", []string{"Flood"}},
			{"provider:" + strconv.FormatInt(globex.ID, 10), []string{"Cyclone"}},
			{"user:bob@example.com", []string{"Flood", "Strike"}},
			{"flood", []string{"Flood", "Cyclone"}},
			{"col", []string{"Flood", "Strike"}},
			{"aus,impact:MEDIUM", []string{"Cyclone"}},
			{"zzz", []string{}},
		}
		for _, tt := range tests {
			risks, err := bob.ListRisks(ctx, tt.filter)
			require.NoError(t, err, tt.filter)
			require.ElementsMatch(t, tt.want, names(risks), tt.filter)
		}

		risks, err := bob.ListRisks(ctx, "col")
		require.NoError(t, err)
		for _, r := range risks {
			require.NotNil(t, r.Country)
			require.Equal(t, "COL", *r.Country)
		}
	})

	t.Run("filter failures", func(t *testing.T) {
		_, err := bob.ListRisks(ctx, "probability:HIGH,provider:acme")
		requireAPIError(t, err, http.StatusNotFound, risksdk.ErrorCodeNotFound, "The given provider does not exist")

		_, err = bob.ListRisks(ctx, "user:ghost@example.com")
		requireAPIError(t, err, http.StatusNotFound, risksdk.ErrorCodeNotFound, "The given user does not exist")

		_, err = bob.ListRisks(ctx, "impact:SEVERE")
		requireAPIError(t, err, http.StatusBadRequest, risksdk.ErrorCodeInvalidRequest,
			"Impact must be VERY_LOW, LOW, MEDIUM, HIGH or VERY_HIGH")
	})

	t.Run("get update delete", func(t *testing.T) {
		got, err := bob.GetRisk(ctx, flood.ID)
		require.NoError(t, err)
		require.Equal(t, "Flood", got.Name)
		require.Equal(t, acme.ID, *got.ProviderID)

		_, err = bob.GetRisk(ctx, 9999)
		requireAPIError(t, err, http.StatusNotFound, risksdk.ErrorCodeNotFound, "Risk not found")

		_, err = bob.UpdateRisk(ctx, flood.ID, risksdk.UpdateRiskRequest{})
		requireAPIError(t, err, http.StatusBadRequest, risksdk.ErrorCodeInvalidRequest, "No parameters to update provided")

		impact := "LOW"
		updated, err := bob.UpdateRisk(ctx, flood.ID, risksdk.UpdateRiskRequest{Impact: &impact})
		require.NoError(t, err)
		require.Equal(t, "LOW", updated.Impact)
		require.Equal(t, "HIGH", updated.Probability)

		annMe, err := admin.Me(ctx)
		require.NoError(t, err)
		require.NoError(t, bob.RelateUser(ctx, flood.ID, annMe.ID))
		err = bob.RelateUser(ctx, flood.ID, annMe.ID)
		requireAPIError(t, err, http.StatusConflict, risksdk.ErrorCodeConflict, "User already related to this risk")

		risks, err := bob.ListRisks(ctx, "user:ann@example.com")
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"Flood", "Cyclone"}, names(risks))

		require.NoError(t, bob.UnrelateUser(ctx, flood.ID, annMe.ID))

		require.NoError(t, bob.DeleteRisk(ctx, flood.ID))
		err = bob.DeleteRisk(ctx, flood.ID)
		requireAPIError(t, err, http.StatusNotFound, risksdk.ErrorCodeNotFound, "Risk not found")
	})

	t.Run("deleting a provider removes its risks", func(t *testing.T) {
		require.NoError(t, admin.DeleteProvider(ctx, acme.ID))
		risks, err := bob.ListRisks(ctx, "")
		require.NoError(t, err)
		require.Equal(t, []string{"Cyclone"}, names(risks))
	})

	t.Run("countries", func(t *testing.T) {
		country, err := bob.GetCountry(ctx, "aus")
		require.NoError(t, err)
		require.Equal(t, "AUS", country.CCA3)
		require.Equal(t, "Australia", country.Names.Common)

		_, err = bob.GetCountry(ctx, "au")
		requireAPIError(t, err, http.StatusBadRequest, risksdk.ErrorCodeInvalidRequest, "cca3 must have 3 characters")

		all, err := bob.ListCountries(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, "AUS", all[0].CCA3)
		require.Equal(t, "COL", all[1].CCA3)
		require.Equal(t, "Colombia", all[1].Names.Common)
	})
}

func TestAdminRoutes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, c := newTestServer(t)

	admin := signIn(t, c, "ann@example.com", "Ann")
	bob := signIn(t, c, "bob@example.com", "Bob")

	_, err := bob.ListRoles(ctx)
	requireAPIError(t, err, http.StatusForbidden, risksdk.ErrorCodeInsufficientScope, "")

	roles, err := admin.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)

	auditor, err := admin.CreateRole(ctx, "auditor")
	require.NoError(t, err)
	_, err = admin.CreateRole(ctx, "auditor")
	requireAPIError(t, err, http.StatusConflict, risksdk.ErrorCodeConflict, "Role already exists")

	renamed, err := admin.RenameRole(ctx, auditor.ID, "reviewer")
	require.NoError(t, err)
	require.Equal(t, "reviewer", renamed.Name)

	err = admin.DeleteRole(ctx, domain.DefaultRoleID)
	requireAPIError(t, err, http.StatusBadRequest, risksdk.ErrorCodeInvalidRequest, "You cannot delete the main role")

	users, err := admin.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	bobMe, err := bob.Me(ctx)
	require.NoError(t, err)

	admins, err := admin.ListRoleMembers(ctx, domain.AdminRoleID)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	require.Equal(t, "ann@example.com", admins[0].Email)

	require.NoError(t, admin.GrantRole(ctx, bobMe.ID, domain.AdminRoleID))
	_, err = bob.ListRoles(ctx)
	require.NoError(t, err, "bob is an admin now")

	admins, err = bob.ListRoleMembers(ctx, domain.AdminRoleID)
	require.NoError(t, err)
	require.Len(t, admins, 2)

	members, err := admin.ListRoleMembers(ctx, domain.DefaultRoleID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	_, err = admin.ListRoleMembers(ctx, 999)
	requireAPIError(t, err, http.StatusNotFound, risksdk.ErrorCodeNotFound, "Role not found")

	err = admin.GrantRole(ctx, bobMe.ID, domain.AdminRoleID)
	requireAPIError(t, err, http.StatusConflict, risksdk.ErrorCodeConflict, "User already has this role")

	require.NoError(t, admin.RevokeRole(ctx, bobMe.ID, domain.AdminRoleID))
	_, err = bob.ListRoles(ctx)
	requireAPIError(t, err, http.StatusForbidden, risksdk.ErrorCodeInsufficientScope, "")

	name := "Robert"
	updated, err := admin.UpdateUser(ctx, bobMe.ID, risksdk.UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Robert", updated.Name)

	taken := "ann@example.com"
	_, err = admin.UpdateUser(ctx, bobMe.ID, risksdk.UpdateUserRequest{Email: &taken})
	requireAPIError(t, err, http.StatusConflict, risksdk.ErrorCodeConflict, "Email already registered")

	require.NoError(t, admin.DeleteRole(ctx, auditor.ID))
	require.NoError(t, admin.DeleteUser(ctx, bobMe.ID))

	_, err = bob.Me(ctx)
	requireAPIError(t, err, http.StatusUnauthorized, risksdk.ErrorCodeInvalidToken, "")
}

func TestUpdateBodies(t *testing.T) {
	t.Parallel()
	srv, c := newTestServer(t)
	admin := signIn(t, c, "ann@example.com", "Ann")

	put := func(body string) *http.Response {
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/v1/roles/1", strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+admin.AccessToken())
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	tests := []struct {
		name, body, want string
	}{
		{"empty object", `{}`, "No parameters to update provided"},
		{"unknown fields only", `{"colour":"red"}`, "No valid parameters to update provided"},
		{"malformed", `{`, "Invalid JSON in request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := put(tt.body)
			body, _ := io.ReadAll(resp.Body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Contains(t, string(body), tt.want)
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	srv, c := newTestServer(t)

	live, err := c.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := c.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Secrets)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `riskregister_http_requests_total{method="GET",route="GET /livez",status="200"} 1`)
}

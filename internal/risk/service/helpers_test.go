package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/aussiebroadwan/riskregister/internal/risk/store/drivers/sqlite"
	"github.com/aussiebroadwan/riskregister/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store     *sqlite.Store
	auth      *AuthService
	users     *UserService
	roles     *RoleService
	providers *ProviderService
	risks     *RiskService
	countries *CountryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	hasher := cryptox.Hasher{Pepper: []byte("test-pepper"), Cost: 4}
	countries := fakeCountries{"COL": true, "AUS": true, "NZL": true}
	tokens, _ := fixedClock(epoch)

	return &testEnv{
		store: s,
		auth: &AuthService{
			Store:   s,
			Tokens:  tokens,
			Secrets: testSecrets,
			Hasher:  hasher,
		},
		users:     &UserService{Store: s, Hasher: hasher},
		roles:     &RoleService{Store: s},
		providers: &ProviderService{Store: s, Countries: countries},
		risks: &RiskService{
			Store: s,
			Composer: &FilterComposer{
				Users:     s.Users(),
				Providers: s.Providers(),
				Countries: countries,
				Risks:     s.Risks(),
			},
		},
		countries: &CountryService{Countries: countries, Catalog: countries},
	}
}

func ptrTo[T any](v T) *T { return &v }

func requireValidation(t *testing.T, err error, msg string) {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, msg, ve.Message)
}

func requireResolution(t *testing.T, err error, msg string) {
	t.Helper()
	var re *ResolutionError
	require.ErrorAs(t, err, &re)
	require.Equal(t, msg, re.Message)
}

func requireConflict(t *testing.T, err error, msg string) {
	t.Helper()
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, msg, ce.Message)
}

var bg = context.Background()

func itoa(v int64) string { return strconv.FormatInt(v, 10) }

package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/aussiebroadwan/riskregister/internal/risk/store"
	"github.com/aussiebroadwan/riskregister/internal/risk/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedProvider(t *testing.T, s store.Store, name, country string) int64 {
	t.Helper()
	id, err := s.Providers().CreateProvider(context.Background(), domain.Provider{
		Name:        name,
		Description: "provider " + name,
		Country:     country,
	})
	require.NoError(t, err)
	return id
}

func seedRisk(t *testing.T, s store.Store, providerID int64, name string, p, i domain.Classification) int64 {
	t.Helper()
	id, err := s.Risks().CreateRisk(context.Background(), domain.Risk{
		ProviderID:  &providerID,
		Name:        name,
		Description: "description of " + name,
		Probability: p,
		Impact:      i,
	})
	require.NoError(t, err)
	return id
}

func TestMigrationsSeedRoles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	roles, err := s.Roles().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	require.Equal(t, domain.DefaultRoleName, roles[0].Name)
	require.Equal(t, domain.DefaultRoleID, roles[0].ID)
	require.Equal(t, domain.AdminRoleName, roles[1].Name)

	// Applying twice is a no-op.
	require.NoError(t, s.ApplyMigrations())
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	id, err := s.Users().CreateUser(ctx, domain.User{Email: "ann@example.com", Name: "Ann", PasswordHash: "h"})
	require.NoError(t, err)
	require.Positive(t, id)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := s.Users().CreateUser(ctx, domain.User{Email: "ann@example.com", Name: "Other", PasswordHash: "h"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("lookup", func(t *testing.T) {
		u, err := s.Users().GetUserByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		require.Equal(t, id, u.ID)
		require.False(t, u.CreatedAt.IsZero())

		_, err = s.Users().GetUserByID(ctx, 999)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("roles", func(t *testing.T) {
		require.NoError(t, s.Users().LinkRole(ctx, id, domain.DefaultRoleID))
		require.NoError(t, s.Users().LinkRole(ctx, id, domain.AdminRoleID))
		require.ErrorIs(t, s.Users().LinkRole(ctx, id, domain.AdminRoleID), store.ErrAlreadyExists)

		u, err := s.Users().GetUserWithRoles(ctx, id)
		require.NoError(t, err)
		require.True(t, u.HasRole(domain.AdminRoleName))

		admins, err := s.Users().ListUsersByRole(ctx, domain.AdminRoleName)
		require.NoError(t, err)
		require.Len(t, admins, 1)

		require.NoError(t, s.Users().UnlinkRole(ctx, id, domain.AdminRoleID))
		require.ErrorIs(t, s.Users().UnlinkRole(ctx, id, domain.AdminRoleID), store.ErrNotFound)
	})

	t.Run("update", func(t *testing.T) {
		u, err := s.Users().GetUserByID(ctx, id)
		require.NoError(t, err)
		u.Name = "Annie"
		require.NoError(t, s.Users().UpdateUser(ctx, u))
		require.NoError(t, s.Users().UpdatePasswordHash(ctx, id, "h2"))

		u, err = s.Users().GetUserByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "Annie", u.Name)
		require.Equal(t, "h2", u.PasswordHash)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Users().DeleteUser(ctx, id))
		require.ErrorIs(t, s.Users().DeleteUser(ctx, id), store.ErrNotFound)
	})
}

func TestRoles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Roles().CreateRole(ctx, "auditor")
	require.NoError(t, err)

	_, err = s.Roles().CreateRole(ctx, "auditor")
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	require.NoError(t, s.Roles().RenameRole(ctx, id, "reviewer"))
	ro, err := s.Roles().GetRoleByName(ctx, "reviewer")
	require.NoError(t, err)
	require.Equal(t, id, ro.ID)

	require.NoError(t, s.Roles().DeleteRole(ctx, id))
	_, err = s.Roles().GetRoleByID(ctx, id)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRiskProjections(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acme := seedProvider(t, s, "acme corp", "COL")
	globex := seedProvider(t, s, "globex", "AUS")

	flood := seedRisk(t, s, acme, "flood", domain.High, domain.Medium)
	outage := seedRisk(t, s, globex, "outage", domain.High, domain.VeryHigh)
	_ = seedRisk(t, s, globex, "breach", domain.Low, domain.High)

	userID, err := s.Users().CreateUser(ctx, domain.User{Email: "a@b.co", Name: "Ann", PasswordHash: "h"})
	require.NoError(t, err)
	require.NoError(t, s.Risks().LinkUser(ctx, outage, userID))

	t.Run("all risks carry provider id", func(t *testing.T) {
		all, err := s.Risks().ListRisks(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		for _, r := range all {
			require.NotNil(t, r.ProviderID)
			require.Nil(t, r.Country)
		}
	})

	t.Run("probability listing omits provider id", func(t *testing.T) {
		high, err := s.Risks().ListRisksByProbability(ctx, domain.High)
		require.NoError(t, err)
		require.Len(t, high, 2)
		require.Nil(t, high[0].ProviderID)
		require.Equal(t, flood, high[0].ID)
	})

	t.Run("country listing adds country", func(t *testing.T) {
		col, err := s.Risks().ListRisksByCountry(ctx, "col")
		require.NoError(t, err)
		require.Len(t, col, 1)
		require.NotNil(t, col[0].Country)
		require.Equal(t, "COL", *col[0].Country)
		require.Greater(t, col[0].PopulatedFields(), high(t, s).PopulatedFields())
	})

	t.Run("substring", func(t *testing.T) {
		res, err := s.Risks().ListRisksBySubstring(ctx, "outa")
		require.NoError(t, err)
		require.Len(t, res, 1)
		require.Equal(t, outage, res[0].ID)
	})

	t.Run("by user and provider", func(t *testing.T) {
		res, err := s.Risks().ListRisksByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, res, 1)
		require.Equal(t, outage, res[0].ID)
		require.NotNil(t, res[0].UserID, "user listing carries the related user")
		require.Equal(t, userID, *res[0].UserID)
		require.Nil(t, res[0].ProviderID)
		require.Equal(t, high(t, s).PopulatedFields()+1, res[0].PopulatedFields())

		res, err = s.Risks().ListRisksByProvider(ctx, globex)
		require.NoError(t, err)
		require.Len(t, res, 2)

		res, err = s.Risks().ListRisksByImpact(ctx, domain.VeryHigh)
		require.NoError(t, err)
		require.Len(t, res, 1)
	})

	t.Run("empty listings are not nil", func(t *testing.T) {
		res, err := s.Risks().ListRisksByCountry(ctx, "NZL")
		require.NoError(t, err)
		require.NotNil(t, res)
		require.Empty(t, res)
	})

	t.Run("provider delete cascades", func(t *testing.T) {
		require.NoError(t, s.Providers().DeleteProvider(ctx, acme))
		_, err := s.Risks().GetRiskByID(ctx, flood)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestRiskSubstringIsLiteral(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acme := seedProvider(t, s, "acme corp", "COL")
	sla := seedRisk(t, s, acme, "uptime_sla 50%", domain.Low, domain.Low)
	_ = seedRisk(t, s, acme, "outage", domain.High, domain.High)

	tests := []struct {
		text string
		want []int64
	}{
		{"_", []int64{sla}},
		{"%", []int64{sla}},
		{"o_t", nil},
		{"e_s", []int64{sla}},
		{"50%", []int64{sla}},
		{`\`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res, err := s.Risks().ListRisksBySubstring(ctx, tt.text)
			require.NoError(t, err)

			var ids []int64
			for _, r := range res {
				ids = append(ids, r.ID)
			}
			require.Equal(t, tt.want, ids)
		})
	}
}

func high(t *testing.T, s store.Store) domain.Risk {
	t.Helper()
	res, err := s.Risks().ListRisksByProbability(context.Background(), domain.High)
	require.NoError(t, err)
	require.NotEmpty(t, res)
	return res[0]
}

func TestWithTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Roles().CreateRole(ctx, "temp"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Roles().GetRoleByName(ctx, "temp")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Roles().CreateRole(ctx, "kept")
		return err
	})
	require.NoError(t, err)
	_, err = s.Roles().GetRoleByName(ctx, "kept")
	require.NoError(t, err)
}

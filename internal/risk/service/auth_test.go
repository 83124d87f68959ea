package service

import (
	"testing"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	first, err := env.auth.Register(bg, "ann@example.com", "correct horse", "Ann")
	require.NoError(t, err)
	require.True(t, first.HasRole(domain.DefaultRoleName))
	require.True(t, first.HasRole(domain.AdminRoleName), "first user is an admin")
	require.NotEqual(t, "correct horse", first.PasswordHash)

	second, err := env.auth.Register(bg, "bob@example.com", "battery staple", "Bob")
	require.NoError(t, err)
	require.True(t, second.HasRole(domain.DefaultRoleName))
	require.False(t, second.HasRole(domain.AdminRoleName))

	tests := []struct {
		name, email, password, userName, msg string
	}{
		{"bad email", "not-an-email", "longenough", "Carl", "Invalid email format"},
		{"no tld", "carl@example", "longenough", "Carl", "Invalid email format"},
		{"short password", "carl@example.com", "short", "Carl", "Password must have at least 8 characters"},
		{"short name", "carl@example.com", "longenough", "Ca", "Name must have at least 3 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(bg, tt.email, tt.password, tt.userName)
			requireValidation(t, err, tt.msg)
		})
	}

	t.Run("duplicate", func(t *testing.T) {
		_, err := env.auth.Register(bg, "ann@example.com", "another pass", "Ann Again")
		requireConflict(t, err, "User already registered")
	})
}

func TestLoginAndVerifyAccess(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.Register(bg, "ann@example.com", "correct horse", "Ann")
	require.NoError(t, err)

	pair, err := env.auth.Login(bg, "ann@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := env.auth.VerifyAccess(bg, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "ann@example.com", claims.Email)

	admin, err := env.users.HasRole(bg, claims.Email, domain.AdminRoleName)
	require.NoError(t, err)
	require.True(t, admin)

	user, err := env.users.GetWithRolesByEmail(bg, claims.Email)
	require.NoError(t, err)
	require.True(t, user.HasRole(domain.DefaultRoleName))

	t.Run("uniform failures", func(t *testing.T) {
		_, errUnknown := env.auth.Login(bg, "nobody@example.com", "correct horse")
		_, errWrong := env.auth.Login(bg, "ann@example.com", "wrong horse")
		require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		require.Equal(t, errUnknown, errWrong)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := env.auth.VerifyAccess(bg, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh", func(t *testing.T) {
		rotated, err := env.auth.Refresh(bg, pair.RefreshToken)
		require.NoError(t, err)
		_, err = env.auth.VerifyAccess(bg, rotated.AccessToken)
		require.NoError(t, err)
	})

	t.Run("deleted user", func(t *testing.T) {
		u, err := env.users.GetByEmail(bg, "ann@example.com")
		require.NoError(t, err)
		require.NoError(t, env.users.Delete(bg, u.ID))

		_, err = env.auth.VerifyAccess(bg, pair.AccessToken)
		require.ErrorIs(t, err, ErrInvalidToken)

		ok, err := env.users.HasRole(bg, "ann@example.com", domain.AdminRoleName)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

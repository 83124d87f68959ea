package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/aussiebroadwan/riskregister/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecrets = Secrets{
	Access:  []byte("access-secret-for-tests"),
	Refresh: []byte("refresh-secret-for-tests"),
}

// fixedClock returns a TokenService whose clock can be moved by the test.
func fixedClock(start time.Time) (*TokenService, *time.Time) {
	now := start
	return &TokenService{
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Leeway:     10 * time.Second,
		Now:        func() time.Time { return now },
	}, &now
}

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestIssuePairRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := fixedClock(epoch)

	for _, email := range []string{"a@b.co", "someone.else@example.com", "ünïcode@example.org"} {
		t.Run(email, func(t *testing.T) {
			claims := jwtx.Claims{Email: email}
			pair, err := svc.IssuePair(ctx, testSecrets, claims)
			require.NoError(t, err)
			require.Equal(t, 30*time.Minute, pair.ExpiresIn)

			got, err := svc.Verify(ctx, testSecrets.Access, pair.AccessToken)
			require.NoError(t, err)
			require.Equal(t, claims, got.Identity())
			require.NotNil(t, got.ExpiresAt)
			require.True(t, got.ExpiresAt.After(epoch))
			require.True(t, epoch.Add(30*time.Minute).Equal(got.ExpiresAt.Time))

			rc, err := svc.Verify(ctx, testSecrets.Refresh, pair.RefreshToken)
			require.NoError(t, err)
			require.True(t, epoch.Add(24*time.Hour).Equal(rc.ExpiresAt.Time))
		})
	}
}

func TestIssuePairRequiresBothSecrets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := fixedClock(epoch)

	tests := []struct {
		name    string
		secrets Secrets
	}{
		{"none", Secrets{}},
		{"access only", Secrets{Access: []byte("a")}},
		{"refresh only", Secrets{Refresh: []byte("r")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := svc.IssuePair(ctx, tt.secrets, jwtx.Claims{Email: "a@b.co"})
			require.ErrorIs(t, err, ErrConfiguration)
			require.Equal(t, domain.TokenPair{}, pair)

			pair, err = svc.Refresh(ctx, tt.secrets, "whatever")
			require.ErrorIs(t, err, ErrConfiguration)
			require.Equal(t, domain.TokenPair{}, pair)
		})
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := fixedClock(epoch)

	pair, err := svc.IssuePair(ctx, testSecrets, jwtx.Claims{Email: "a@b.co"})
	require.NoError(t, err)

	for _, secret := range [][]byte{[]byte("other"), testSecrets.Refresh} {
		_, err := svc.Verify(ctx, secret, pair.AccessToken)
		require.ErrorIs(t, err, ErrInvalidToken)
	}

	// The two kinds are not interchangeable.
	_, err = svc.Verify(ctx, testSecrets.Access, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()
	svc, _ := fixedClock(epoch)

	for _, tok := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9..sig"} {
		_, err := svc.Verify(context.Background(), testSecrets.Access, tok)
		require.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestVerifyExpiryLeeway(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, now := fixedClock(epoch)

	pair, err := svc.IssuePair(ctx, testSecrets, jwtx.Claims{Email: "a@b.co"})
	require.NoError(t, err)
	expiry := epoch.Add(30 * time.Minute)

	*now = expiry.Add(5 * time.Second)
	_, err = svc.Verify(ctx, testSecrets.Access, pair.AccessToken)
	require.NoError(t, err, "within the skew tolerance")

	*now = expiry.Add(11 * time.Second)
	_, err = svc.Verify(ctx, testSecrets.Access, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRotatesPair(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, now := fixedClock(epoch)

	claims := jwtx.Claims{Email: "a@b.co"}
	pair, err := svc.IssuePair(ctx, testSecrets, claims)
	require.NoError(t, err)

	*now = epoch.Add(2 * time.Hour)
	rotated, err := svc.Refresh(ctx, testSecrets, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, rotated.AccessToken)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	got, err := svc.Verify(ctx, testSecrets.Access, rotated.AccessToken)
	require.NoError(t, err)
	require.Equal(t, claims, got.Identity())
	require.True(t, now.Add(30*time.Minute).Equal(got.ExpiresAt.Time))

	// No revocation store: the old refresh token still works until it expires.
	_, err = svc.Refresh(ctx, testSecrets, pair.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("expired", func(t *testing.T) {
		svc, now := fixedClock(epoch)
		pair, err := svc.IssuePair(ctx, testSecrets, jwtx.Claims{Email: "a@b.co"})
		require.NoError(t, err)

		*now = epoch.Add(25 * time.Hour)
		got, err := svc.Refresh(ctx, testSecrets, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidToken)
		require.Equal(t, domain.TokenPair{}, got)
	})

	t.Run("tampered", func(t *testing.T) {
		svc, _ := fixedClock(epoch)
		pair, err := svc.IssuePair(ctx, testSecrets, jwtx.Claims{Email: "a@b.co"})
		require.NoError(t, err)
		other, err := svc.IssuePair(ctx, testSecrets, jwtx.Claims{Email: "mallory@b.co"})
		require.NoError(t, err)

		// Graft mallory's payload onto a's signature.
		a := strings.Split(pair.RefreshToken, ".")
		m := strings.Split(other.RefreshToken, ".")
		forged := a[0] + "." + m[1] + "." + a[2]

		got, err := svc.Refresh(ctx, testSecrets, forged)
		require.ErrorIs(t, err, ErrInvalidToken)
		require.Equal(t, domain.TokenPair{}, got)
	})

	t.Run("access token offered as refresh", func(t *testing.T) {
		svc, _ := fixedClock(epoch)
		pair, err := svc.IssuePair(ctx, testSecrets, jwtx.Claims{Email: "a@b.co"})
		require.NoError(t, err)

		_, err = svc.Refresh(ctx, testSecrets, pair.AccessToken)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("error is the verify error", func(t *testing.T) {
		svc, _ := fixedClock(epoch)
		_, verifyErr := svc.Verify(ctx, testSecrets.Refresh, "nope")
		_, refreshErr := svc.Refresh(ctx, testSecrets, "nope")
		require.Equal(t, verifyErr, refreshErr)
	})
}

func TestIssuePairNeverRepeats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := fixedClock(epoch)

	seen := map[string]bool{}
	for range 20 {
		pair, err := svc.IssuePair(ctx, testSecrets, jwtx.Claims{Email: "a@b.co"})
		require.NoError(t, err)
		require.False(t, seen[pair.AccessToken])
		require.False(t, seen[pair.RefreshToken])
		seen[pair.AccessToken] = true
		seen[pair.RefreshToken] = true
	}
}

func TestTokenServiceDefaults(t *testing.T) {
	t.Parallel()
	svc := &TokenService{}

	pair, err := svc.IssuePair(context.Background(), testSecrets, jwtx.Claims{Email: "a@b.co"})
	require.NoError(t, err)
	require.Equal(t, jwtx.DefaultAccessTokenTTL, pair.ExpiresIn)

	_, err = svc.Verify(context.Background(), nil, pair.AccessToken)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestIssuePairRejectsEmptyIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := fixedClock(epoch)

	for name, claims := range map[string]jwtx.Claims{
		"zero claims":     {},
		"registered only": jwtx.NewClaims("", time.Hour, epoch),
	} {
		t.Run(name, func(t *testing.T) {
			pair, err := svc.IssuePair(ctx, testSecrets, claims)
			require.ErrorIs(t, err, ErrEmptyIdentity)
			require.Equal(t, domain.TokenPair{}, pair)
		})
	}

	t.Run("every issued pair verifies and refreshes", func(t *testing.T) {
		pair, err := svc.IssuePair(ctx, testSecrets, jwtx.Claims{Email: "a@b.co"})
		require.NoError(t, err)

		_, err = svc.Verify(ctx, testSecrets.Access, pair.AccessToken)
		require.NoError(t, err)
		_, err = svc.Refresh(ctx, testSecrets, pair.RefreshToken)
		require.NoError(t, err)
	})
}

func TestVerifyLeewaySettings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	expiry := epoch.Add(30 * time.Minute)

	tests := []struct {
		name   string
		leeway time.Duration
		late   time.Duration
		ok     bool
	}{
		{"zero disables the tolerance", 0, time.Second, false},
		{"zero still accepts on time", 0, -time.Second, true},
		{"negative selects the default", -1, 5 * time.Second, true},
		{"negative default still expires", -1, 11 * time.Second, false},
		{"explicit value", time.Minute, 50 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, now := fixedClock(epoch)
			svc.Leeway = tt.leeway

			pair, err := svc.IssuePair(ctx, testSecrets, jwtx.Claims{Email: "a@b.co"})
			require.NoError(t, err)

			*now = expiry.Add(tt.late)
			_, err = svc.Verify(ctx, testSecrets.Access, pair.AccessToken)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidToken)
			}
		})
	}
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/aussiebroadwan/riskregister/pkg/jwtx"
	"github.com/aussiebroadwan/riskregister/pkg/slogx"
)

// Secrets holds the two independent HMAC keys. Access tokens are signed
// with Access and refresh tokens with Refresh.
type Secrets struct {
	Access  []byte
	Refresh []byte
}

func (s Secrets) check() error {
	if len(s.Access) == 0 || len(s.Refresh) == 0 {
		return fmt.Errorf("%w: access and refresh secrets are required", ErrConfiguration)
	}
	return nil
}

// TokenService issues, verifies and rotates stateless HS256 token pairs.
// It keeps no state between calls; secrets arrive with every call.
type TokenService struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Leeway is the clock skew tolerated on exp. Zero means none; a
	// negative value selects jwtx.DefaultLeeway.
	Leeway time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *TokenService) leeway() time.Duration {
	if s.Leeway < 0 {
		return jwtx.DefaultLeeway
	}
	return s.Leeway
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

// IssuePair signs a fresh access and refresh token carrying claims' identity.
func (s *TokenService) IssuePair(ctx context.Context, secrets Secrets, claims jwtx.Claims) (domain.TokenPair, error) {
	if err := secrets.check(); err != nil {
		return domain.TokenPair{}, err
	}

	identity := claims.Identity()
	if identity.Email == "" {
		return domain.TokenPair{}, ErrEmptyIdentity
	}

	l := slogx.FromContext(ctx)
	now := s.now()

	accessSigner, err := jwtx.NewSignerHS256(secrets.Access)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	refreshSigner, err := jwtx.NewSignerHS256(secrets.Refresh)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	access := jwtx.NewClaims(identity.Email, s.accessTTL(), now)
	accessToken, err := accessSigner.Sign(access)
	if err != nil {
		l.Error("failed to sign access token", "error", err)
		return domain.TokenPair{}, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	// Refresh expiry is whole seconds.
	refresh := jwtx.NewClaims(identity.Email, s.refreshTTL(), now.Truncate(time.Second))
	refreshToken, err := refreshSigner.Sign(refresh)
	if err != nil {
		l.Error("failed to sign refresh token", "error", err)
		return domain.TokenPair{}, fmt.Errorf("%w: %w", ErrSigning, err)
	}

	return domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.accessTTL(),
	}, nil
}

// Verify checks token against secret and returns its claims, exp included.
// Every failure is reported as ErrInvalidToken; the cause is only logged.
func (s *TokenService) Verify(ctx context.Context, secret []byte, token string) (jwtx.Claims, error) {
	if len(secret) == 0 {
		return jwtx.Claims{}, fmt.Errorf("%w: verification secret is required", ErrConfiguration)
	}

	claims, err := jwtx.NewVerifierHS256(secret, jwtx.VerifyOptions{
		Leeway: s.leeway(),
		Now:    s.now,
	}).Verify(token)
	if err != nil {
		slogx.FromContext(ctx).Warn("token verification failed", "error", err)
		return jwtx.Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// Refresh verifies refreshToken with the refresh secret and issues a new
// pair for the same identity. The old refresh token is not revoked.
func (s *TokenService) Refresh(ctx context.Context, secrets Secrets, refreshToken string) (domain.TokenPair, error) {
	if err := secrets.check(); err != nil {
		return domain.TokenPair{}, err
	}

	claims, err := s.Verify(ctx, secrets.Refresh, refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}

	return s.IssuePair(ctx, secrets, claims.Identity())
}

package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/aussiebroadwan/riskregister/internal/risk/store"
	"github.com/aussiebroadwan/riskregister/pkg/cryptox"
	"github.com/aussiebroadwan/riskregister/pkg/jwtx"
	"github.com/aussiebroadwan/riskregister/pkg/slogx"
)

type registration struct {
	Email    string `label:"Email" validate:"emailfmt"`
	Password string `label:"Password" validate:"min=8"`
	Name     string `label:"Name" validate:"min=3"`
}

// AuthService registers users and turns credentials into token pairs.
type AuthService struct {
	Store   store.Store
	Tokens  *TokenService
	Secrets Secrets
	Hasher  cryptox.Hasher
}

// Register creates a user holding the default role. The first user of an
// empty register is also made an admin.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if err := check(registration{Email: email, Password: password, Name: name}); err != nil {
		return domain.User{}, err
	}

	_, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.User{}, conflict("User already registered")
	case !errors.Is(err, store.ErrNotFound):
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	user := domain.User{Email: email, Name: name, PasswordHash: hash}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		first, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}

		user.ID, err = tx.Users().CreateUser(ctx, user)
		if err != nil {
			return err
		}
		if err := tx.Users().LinkRole(ctx, user.ID, domain.DefaultRoleID); err != nil {
			return err
		}
		if first {
			l.Info("first user registered, granting admin", slog.String("email", email))
			return tx.Users().LinkRole(ctx, user.ID, domain.AdminRoleID)
		}
		return nil
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.User{}, conflict("User already registered")
	}
	if err != nil {
		return domain.User{}, err
	}

	return s.Store.Users().GetUserWithRoles(ctx, user.ID)
}

// Login checks credentials and issues a token pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login for unknown user", slog.String("email", email))
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if err := s.Hasher.Verify(password, user.PasswordHash); err != nil {
		l.Info("login with wrong password", slog.Int64("user_id", user.ID))
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	return s.Tokens.IssuePair(ctx, s.Secrets, jwtx.Claims{Email: user.Email})
}

// Refresh rotates a refresh token into a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	return s.Tokens.Refresh(ctx, s.Secrets, refreshToken)
}

// VerifyAccess checks an access token and that its user still exists. A
// token for a deleted user is an invalid token.
func (s *AuthService) VerifyAccess(ctx context.Context, accessToken string) (jwtx.Claims, error) {
	claims, err := s.Tokens.Verify(ctx, s.Secrets.Access, accessToken)
	if err != nil {
		return jwtx.Claims{}, err
	}

	_, err = s.Store.Users().GetUserByEmail(ctx, claims.Email)
	if errors.Is(err, store.ErrNotFound) {
		return jwtx.Claims{}, ErrInvalidToken
	}
	if err != nil {
		return jwtx.Claims{}, err
	}
	return claims, nil
}

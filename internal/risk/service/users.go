package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/aussiebroadwan/riskregister/internal/risk/store"
	"github.com/aussiebroadwan/riskregister/pkg/cryptox"
)

// UserUpdate carries the fields an update may change. Nil means unchanged.
type UserUpdate struct {
	Email    *string `label:"Email" validate:"omitnil,emailfmt"`
	Name     *string `label:"Name" validate:"omitnil,min=3"`
	Password *string `label:"Password" validate:"omitnil,min=8"`
}

type UserService struct {
	Store  store.Store
	Hasher cryptox.Hasher
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if email == "" {
		return domain.User{}, invalid("Email must have at least 1 character")
	}
	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, unresolved("User not found", err)
	}
	return user, err
}

func (s *UserService) GetWithRoles(ctx context.Context, id int64) (domain.User, error) {
	if id < 1 {
		return domain.User{}, invalid("User id must be greater than 0")
	}
	user, err := s.Store.Users().GetUserWithRoles(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, unresolved("User not found", err)
	}
	return user, err
}

// GetWithRolesByEmail loads the user owning email along with their roles.
func (s *UserService) GetWithRolesByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	return s.Store.Users().GetUserWithRoles(ctx, user.ID)
}

// HasRole reports whether the user owning email holds the named role. An
// unknown user holds no roles.
func (s *UserService) HasRole(ctx context.Context, email, role string) (bool, error) {
	user, err := s.GetWithRolesByEmail(ctx, email)
	var re *ResolutionError
	if errors.As(err, &re) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.HasRole(role), nil
}

// Update applies the non-nil fields of upd to user id.
func (s *UserService) Update(ctx context.Context, id int64, upd UserUpdate) (domain.User, error) {
	if upd.Email == nil && upd.Name == nil && upd.Password == nil {
		return domain.User{}, errNoValidParameters
	}

	user, err := s.Store.Users().GetUserByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, unresolved("User not found", err)
	}
	if err != nil {
		return domain.User{}, err
	}

	if err := check(upd); err != nil {
		return domain.User{}, err
	}

	if upd.Email != nil && *upd.Email != user.Email {
		_, err := s.Store.Users().GetUserByEmail(ctx, *upd.Email)
		if err == nil {
			return domain.User{}, conflict("Email already registered")
		}
		if !errors.Is(err, store.ErrNotFound) {
			return domain.User{}, err
		}
		user.Email = *upd.Email
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}

	var hash string
	if upd.Password != nil {
		if hash, err = s.Hasher.Hash(*upd.Password); err != nil {
			return domain.User{}, err
		}
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdateUser(ctx, user); err != nil {
			return err
		}
		if hash != "" {
			return tx.Users().UpdatePasswordHash(ctx, user.ID, hash)
		}
		return nil
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.User{}, conflict("Email already registered")
	}
	if err != nil {
		return domain.User{}, err
	}
	return s.Store.Users().GetUserWithRoles(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return invalid("User id must be greater than 0")
	}
	err := s.Store.Users().DeleteUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return unresolved("User not found", err)
	}
	return err
}

func (s *UserService) AddRole(ctx context.Context, userID, roleID int64) error {
	if err := s.userAndRole(ctx, userID, roleID); err != nil {
		return err
	}
	err := s.Store.Users().LinkRole(ctx, userID, roleID)
	if errors.Is(err, store.ErrAlreadyExists) {
		return conflict("User already has this role")
	}
	return err
}

func (s *UserService) RemoveRole(ctx context.Context, userID, roleID int64) error {
	if err := s.userAndRole(ctx, userID, roleID); err != nil {
		return err
	}
	err := s.Store.Users().UnlinkRole(ctx, userID, roleID)
	if errors.Is(err, store.ErrNotFound) {
		return unresolved("User does not have this role", err)
	}
	return err
}

func (s *UserService) userAndRole(ctx context.Context, userID, roleID int64) error {
	if err := checkIDs(userID, roleID, "Role id"); err != nil {
		return err
	}
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return notFound(err, "User not found")
	}
	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		return notFound(err, "Role not found")
	}
	return nil
}

// AddRisk relates user to risk.
func (s *UserService) AddRisk(ctx context.Context, userID, riskID int64) error {
	if err := s.userAndRisk(ctx, userID, riskID); err != nil {
		return err
	}
	err := s.Store.Risks().LinkUser(ctx, riskID, userID)
	if errors.Is(err, store.ErrAlreadyExists) {
		return conflict("User already related to this risk")
	}
	return err
}

func (s *UserService) RemoveRisk(ctx context.Context, userID, riskID int64) error {
	if err := s.userAndRisk(ctx, userID, riskID); err != nil {
		return err
	}
	err := s.Store.Risks().UnlinkUser(ctx, riskID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return unresolved("User is not related to this risk", err)
	}
	return err
}

func (s *UserService) userAndRisk(ctx context.Context, userID, riskID int64) error {
	if err := checkIDs(userID, riskID, "Risk id"); err != nil {
		return err
	}
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		return notFound(err, "User not found")
	}
	if _, err := s.Store.Risks().GetRiskByID(ctx, riskID); err != nil {
		return notFound(err, "Risk not found")
	}
	return nil
}

func checkIDs(userID, other int64, otherLabel string) error {
	if userID < 1 {
		return invalid("User id must be greater than 0")
	}
	if other < 1 {
		return invalid(otherLabel + " must be greater than 0")
	}
	return nil
}

// notFound wraps store.ErrNotFound as a ResolutionError and passes anything
// else through.
func notFound(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return unresolved(msg, err)
	}
	return err
}

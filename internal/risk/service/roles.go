package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/riskregister/internal/risk/domain"
	"github.com/aussiebroadwan/riskregister/internal/risk/store"
)

type roleName struct {
	Name string `label:"Name" validate:"min=1"`
}

type RoleService struct {
	Store store.Store
}

func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.Store.Roles().ListAll(ctx)
}

func (s *RoleService) Get(ctx context.Context, id int64) (domain.Role, error) {
	if id < 1 {
		return domain.Role{}, invalid("Invalid id")
	}
	role, err := s.Store.Roles().GetRoleByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Role{}, unresolved("Role not found", err)
	}
	return role, err
}

// Members lists the users holding role id.
func (s *RoleService) Members(ctx context.Context, id int64) ([]domain.User, error) {
	role, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Store.Users().ListUsersByRole(ctx, role.Name)
}

func (s *RoleService) GetByName(ctx context.Context, name string) (domain.Role, error) {
	if err := check(roleName{Name: name}); err != nil {
		return domain.Role{}, err
	}
	role, err := s.Store.Roles().GetRoleByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Role{}, unresolved("Role not found", err)
	}
	return role, err
}

func (s *RoleService) Create(ctx context.Context, name string) (domain.Role, error) {
	if err := check(roleName{Name: name}); err != nil {
		return domain.Role{}, err
	}
	id, err := s.Store.Roles().CreateRole(ctx, name)
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.Role{}, conflict("Role already exists")
	}
	if err != nil {
		return domain.Role{}, err
	}
	return s.Store.Roles().GetRoleByID(ctx, id)
}

// Rename changes a role's name. A nil name means the request carried no
// field this operation understands.
func (s *RoleService) Rename(ctx context.Context, id int64, name *string) (domain.Role, error) {
	if id < 1 {
		return domain.Role{}, invalid("Invalid id")
	}
	if name == nil {
		return domain.Role{}, errNoValidParameters
	}
	if _, err := s.Get(ctx, id); err != nil {
		return domain.Role{}, err
	}
	if err := check(roleName{Name: *name}); err != nil {
		return domain.Role{}, err
	}

	err := s.Store.Roles().RenameRole(ctx, id, *name)
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.Role{}, conflict("Role already exists")
	}
	if err != nil {
		return domain.Role{}, err
	}
	return s.Store.Roles().GetRoleByID(ctx, id)
}

// Delete removes a role. The default role every user holds is permanent.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	if id == domain.DefaultRoleID {
		return invalid("You cannot delete the main role")
	}
	err := s.Store.Roles().DeleteRole(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return unresolved("Role id does not exists", err)
	}
	return err
}

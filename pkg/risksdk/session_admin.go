package risksdk

import (
	"context"
	"fmt"
	"net/http"
)

// The calls in this file require the admin role.

func (s *Session) ListRoles(ctx context.Context) ([]Role, error) {
	var out ListRolesResponse
	if err := s.getJSON(ctx, "/v1/roles", &out); err != nil {
		return nil, err
	}
	return out.Roles, nil
}

func (s *Session) GetRole(ctx context.Context, id int64) (*Role, error) {
	var r Role
	if err := s.getJSON(ctx, fmt.Sprintf("/v1/roles/%d", id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRoleMembers returns the users holding the role.
func (s *Session) ListRoleMembers(ctx context.Context, roleID int64) ([]User, error) {
	var out ListUsersResponse
	if err := s.getJSON(ctx, fmt.Sprintf("/v1/roles/%d/users", roleID), &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (s *Session) CreateRole(ctx context.Context, name string) (*Role, error) {
	var r Role
	if err := s.sendJSON(ctx, http.MethodPost, "/v1/roles", RoleRequest{Name: name}, &r, http.StatusCreated); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Session) RenameRole(ctx context.Context, id int64, name string) (*Role, error) {
	var r Role
	if err := s.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/v1/roles/%d", id), RoleRequest{Name: name}, &r, http.StatusOK); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Session) DeleteRole(ctx context.Context, id int64) error {
	return s.sendNoContent(ctx, http.MethodDelete, fmt.Sprintf("/v1/roles/%d", id))
}

func (s *Session) ListUsers(ctx context.Context) ([]User, error) {
	var out ListUsersResponse
	if err := s.getJSON(ctx, "/v1/users", &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (s *Session) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := s.getJSON(ctx, fmt.Sprintf("/v1/users/%d", id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Session) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	var u User
	if err := s.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/v1/users/%d", id), req, &u, http.StatusOK); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Session) DeleteUser(ctx context.Context, id int64) error {
	return s.sendNoContent(ctx, http.MethodDelete, fmt.Sprintf("/v1/users/%d", id))
}

func (s *Session) GrantRole(ctx context.Context, userID, roleID int64) error {
	return s.sendNoContent(ctx, http.MethodPost, fmt.Sprintf("/v1/users/%d/roles/%d", userID, roleID))
}

func (s *Session) RevokeRole(ctx context.Context, userID, roleID int64) error {
	return s.sendNoContent(ctx, http.MethodDelete, fmt.Sprintf("/v1/users/%d/roles/%d", userID, roleID))
}

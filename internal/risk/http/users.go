package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/riskregister/internal/risk/service"
	"github.com/aussiebroadwan/riskregister/pkg/httpx"
	"github.com/aussiebroadwan/riskregister/pkg/risksdk"
)

// relationFunc links or unlinks a user and another entity.
type relationFunc func(ctx context.Context, userID, otherID int64) error

// UsersHandler handles user administration. Every endpoint requires the
// admin role.
type UsersHandler struct {
	UserService *service.UserService
}

// HandleList handles GET /v1/users
//
//	@Summary	List users
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	risksdk.ListUsersResponse
//	@Failure	401	{object}	risksdk.APIError	"invalid_token"
//	@Failure	403	{object}	risksdk.APIError	"insufficient_scope"
//	@Router		/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, risksdk.ListUsersResponse{Users: mapSlice(users, toUser)})
}

// HandleGet handles GET /v1/users/{id}
//
//	@Summary	Get user with roles
//	@Tags		Users
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"user id"
//	@Success	200	{object}	risksdk.User
//	@Failure	404	{object}	risksdk.APIError	"not_found"
//	@Router		/v1/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.UserService.GetWithRoles(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}

// HandleUpdate handles PUT /v1/users/{id}
//
//	@Summary		Update user
//	@Description	Changes the email, name or password present in the body.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int							true	"user id"
//	@Param			request	body		risksdk.UpdateUserRequest	true	"fields to change"
//	@Success		200		{object}	risksdk.User
//	@Failure		400		{object}	risksdk.APIError	"invalid_request"
//	@Failure		404		{object}	risksdk.APIError	"not_found"
//	@Failure		409		{object}	risksdk.APIError	"conflict"
//	@Router			/v1/users/{id} [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req risksdk.UpdateUserRequest
	if err := decodeUpdate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.UserService.Update(r.Context(), id, service.UserUpdate{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}

// HandleDelete handles DELETE /v1/users/{id}
//
//	@Summary	Delete user
//	@Tags		Users
//	@Security	BearerAuth
//	@Param		id	path	int	true	"user id"
//	@Success	204
//	@Failure	404	{object}	risksdk.APIError	"not_found"
//	@Router		/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.UserService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGrantRole handles POST /v1/users/{id}/roles/{roleID}
//
//	@Summary	Grant a role
//	@Tags		Users
//	@Security	BearerAuth
//	@Param		id		path	int	true	"user id"
//	@Param		roleID	path	int	true	"role id"
//	@Success	204
//	@Failure	404	{object}	risksdk.APIError	"not_found"
//	@Failure	409	{object}	risksdk.APIError	"conflict"
//	@Router		/v1/users/{id}/roles/{roleID} [post].
func (h *UsersHandler) HandleGrantRole(w http.ResponseWriter, r *http.Request) {
	h.relation(w, r, h.UserService.AddRole)
}

// HandleRevokeRole handles DELETE /v1/users/{id}/roles/{roleID}
//
//	@Summary	Revoke a role
//	@Tags		Users
//	@Security	BearerAuth
//	@Param		id		path	int	true	"user id"
//	@Param		roleID	path	int	true	"role id"
//	@Success	204
//	@Failure	404	{object}	risksdk.APIError	"not_found"
//	@Router		/v1/users/{id}/roles/{roleID} [delete].
func (h *UsersHandler) HandleRevokeRole(w http.ResponseWriter, r *http.Request) {
	h.relation(w, r, h.UserService.RemoveRole)
}

func (h *UsersHandler) relation(w http.ResponseWriter, r *http.Request, apply relationFunc) {
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	roleID, err := pathID(r, "roleID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := apply(r.Context(), userID, roleID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package http

import (
	"net/http"

	"github.com/aussiebroadwan/riskregister/internal/risk/service"
	"github.com/aussiebroadwan/riskregister/pkg/httpx"
	"github.com/aussiebroadwan/riskregister/pkg/risksdk"
)

// RolesHandler handles role administration.
type RolesHandler struct {
	RoleService *service.RoleService
}

// HandleList handles GET /v1/roles
//
//	@Summary	List roles
//	@Tags		Roles
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	risksdk.ListRolesResponse
//	@Failure	401	{object}	risksdk.APIError	"invalid_token"
//	@Failure	403	{object}	risksdk.APIError	"insufficient_scope"
//	@Router		/v1/roles [get].
func (h *RolesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	roles, err := h.RoleService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, risksdk.ListRolesResponse{Roles: mapSlice(roles, toRole)})
}

// HandleGet handles GET /v1/roles/{id}
//
//	@Summary	Get role
//	@Tags		Roles
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"role id"
//	@Success	200	{object}	risksdk.Role
//	@Failure	404	{object}	risksdk.APIError	"not_found"
//	@Router		/v1/roles/{id} [get].
func (h *RolesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	role, err := h.RoleService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRole(role))
}

// HandleMembers handles GET /v1/roles/{id}/users
//
//	@Summary	List users holding a role
//	@Tags		Roles
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"role id"
//	@Success	200	{object}	risksdk.ListUsersResponse
//	@Failure	403	{object}	risksdk.APIError	"insufficient_scope"
//	@Failure	404	{object}	risksdk.APIError	"not_found"
//	@Router		/v1/roles/{id}/users [get].
func (h *RolesHandler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	users, err := h.RoleService.Members(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, risksdk.ListUsersResponse{Users: mapSlice(users, toUser)})
}

// HandleCreate handles POST /v1/roles
//
//	@Summary	Create role
//	@Tags		Roles
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		risksdk.RoleRequest	true	"name"
//	@Success	201		{object}	risksdk.Role
//	@Failure	400		{object}	risksdk.APIError	"invalid_request"
//	@Failure	409		{object}	risksdk.APIError	"conflict"
//	@Router		/v1/roles [post].
func (h *RolesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req risksdk.RoleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	role, err := h.RoleService.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toRole(role))
}

// HandleRename handles PUT /v1/roles/{id}
//
//	@Summary	Rename role
//	@Tags		Roles
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int					true	"role id"
//	@Param		request	body		risksdk.RoleRequest	true	"name"
//	@Success	200		{object}	risksdk.Role
//	@Failure	400		{object}	risksdk.APIError	"invalid_request"
//	@Failure	404		{object}	risksdk.APIError	"not_found"
//	@Failure	409		{object}	risksdk.APIError	"conflict"
//	@Router		/v1/roles/{id} [put].
func (h *RolesHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req struct {
		Name *string `json:"name"`
	}
	if err := decodeUpdate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	role, err := h.RoleService.Rename(r.Context(), id, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRole(role))
}

// HandleDelete handles DELETE /v1/roles/{id}
//
//	@Summary		Delete role
//	@Description	The default "user" role cannot be deleted.
//	@Tags			Roles
//	@Security		BearerAuth
//	@Param			id	path	int	true	"role id"
//	@Success		204
//	@Failure		400	{object}	risksdk.APIError	"invalid_request"
//	@Failure		404	{object}	risksdk.APIError	"not_found"
//	@Router			/v1/roles/{id} [delete].
func (h *RolesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.RoleService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

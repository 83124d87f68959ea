package http

import (
	"net/http"

	"github.com/aussiebroadwan/riskregister/internal/risk/service"
	"github.com/aussiebroadwan/riskregister/pkg/httpx"
	"github.com/aussiebroadwan/riskregister/pkg/risksdk"
	"github.com/aussiebroadwan/riskregister/pkg/slogx"
)

// AuthHandler serves registration and the token lifecycle.
type AuthHandler struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

// HandleRegister handles POST /v1/register
//
//	@Summary		Register
//	@Description	Creates an account holding the "user" role. The first account ever registered is also an admin.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		risksdk.RegisterRequest	true	"email, password, name"
//	@Success		201		{object}	risksdk.User
//	@Failure		400		{object}	risksdk.APIError	"invalid_request"
//	@Failure		409		{object}	risksdk.APIError	"conflict"
//	@Router			/v1/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req risksdk.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.AuthService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUser(user))
}

// HandleLogin handles POST /v1/login
//
//	@Summary		Login
//	@Description	Exchanges email and password for an access and refresh token pair.
//	@Description	Unknown users and wrong passwords get the same response.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		risksdk.LoginRequest	true	"email, password"
//	@Success		200		{object}	risksdk.TokenResponse
//	@Failure		400		{object}	risksdk.APIError	"invalid_request"
//	@Failure		401		{object}	risksdk.APIError	"invalid_grant"
//	@Router			/v1/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req risksdk.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeTokens(w, pair.AccessToken, pair.RefreshToken, int(pair.ExpiresIn.Seconds()))
}

// HandleRefresh handles POST /v1/refresh
//
//	@Summary		Refresh
//	@Description	Rotates a refresh token into a new token pair. The old refresh token is not revoked.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		risksdk.RefreshRequest	true	"refresh_token"
//	@Success		200		{object}	risksdk.TokenResponse
//	@Failure		400		{object}	risksdk.APIError	"invalid_request"
//	@Failure		401		{object}	risksdk.APIError	"invalid_token"
//	@Router			/v1/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req risksdk.RefreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	pair, err := h.AuthService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeTokens(w, pair.AccessToken, pair.RefreshToken, int(pair.ExpiresIn.Seconds()))
}

// HandleLogout handles POST /v1/logout
//
//	@Summary		Logout
//	@Description	Acknowledges a logout. Tokens are stateless, so the client discards them and they expire on their own.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	risksdk.APIError	"invalid_token"
//	@Router			/v1/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	slogx.FromContext(r.Context()).Info("user logged out", "email", httpx.EmailFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe handles GET /v1/me
//
//	@Summary		Current user
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	risksdk.User
//	@Failure		401	{object}	risksdk.APIError	"invalid_token"
//	@Router			/v1/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.GetWithRolesByEmail(r.Context(), httpx.EmailFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(user))
}

func writeTokens(w http.ResponseWriter, access, refresh string, expiresIn int) {
	httpx.WriteJSON(w, http.StatusOK, risksdk.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
	})
}

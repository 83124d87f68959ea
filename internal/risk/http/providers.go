package http

import (
	"net/http"

	"github.com/aussiebroadwan/riskregister/internal/risk/service"
	"github.com/aussiebroadwan/riskregister/pkg/httpx"
	"github.com/aussiebroadwan/riskregister/pkg/risksdk"
)

// ProvidersHandler handles provider endpoints. Reads need a valid token,
// writes need the admin role.
type ProvidersHandler struct {
	ProviderService *service.ProviderService
}

// HandleList handles GET /v1/providers
//
//	@Summary	List providers
//	@Tags		Providers
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	risksdk.ListProvidersResponse
//	@Failure	401	{object}	risksdk.APIError	"invalid_token"
//	@Router		/v1/providers [get].
func (h *ProvidersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	providers, err := h.ProviderService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, risksdk.ListProvidersResponse{Providers: mapSlice(providers, toProvider)})
}

// HandleGet handles GET /v1/providers/{id}
//
//	@Summary	Get provider
//	@Tags		Providers
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"provider id"
//	@Success	200	{object}	risksdk.Provider
//	@Failure	404	{object}	risksdk.APIError	"not_found"
//	@Router		/v1/providers/{id} [get].
func (h *ProvidersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.ProviderService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProvider(p))
}

// HandleCreate handles POST /v1/providers
//
//	@Summary		Create provider
//	@Description	The country must be a three letter code the country service knows.
//	@Tags			Providers
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		risksdk.CreateProviderRequest	true	"provider"
//	@Success		201		{object}	risksdk.Provider
//	@Failure		400		{object}	risksdk.APIError	"invalid_request"
//	@Failure		403		{object}	risksdk.APIError	"insufficient_scope"
//	@Failure		404		{object}	risksdk.APIError	"not_found"
//	@Failure		409		{object}	risksdk.APIError	"conflict"
//	@Router			/v1/providers [post].
func (h *ProvidersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req risksdk.CreateProviderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.ProviderService.Create(r.Context(), service.ProviderInput{
		Name:        req.Name,
		Description: req.Description,
		Country:     req.Country,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toProvider(p))
}

// HandleUpdate handles PUT /v1/providers/{id}
//
//	@Summary	Update provider
//	@Tags		Providers
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int								true	"provider id"
//	@Param		request	body		risksdk.UpdateProviderRequest	true	"fields to change"
//	@Success	200		{object}	risksdk.Provider
//	@Failure	400		{object}	risksdk.APIError	"invalid_request"
//	@Failure	404		{object}	risksdk.APIError	"not_found"
//	@Failure	409		{object}	risksdk.APIError	"conflict"
//	@Router		/v1/providers/{id} [put].
func (h *ProvidersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req risksdk.UpdateProviderRequest
	if err := decodeUpdate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.ProviderService.Update(r.Context(), id, service.ProviderUpdate{
		Name:        req.Name,
		Description: req.Description,
		Country:     req.Country,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProvider(p))
}

// HandleDelete handles DELETE /v1/providers/{id}
//
//	@Summary		Delete provider
//	@Description	Deletes the provider and every risk attached to it.
//	@Tags			Providers
//	@Security		BearerAuth
//	@Param			id	path	int	true	"provider id"
//	@Success		204
//	@Failure		404	{object}	risksdk.APIError	"not_found"
//	@Router			/v1/providers/{id} [delete].
func (h *ProvidersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.ProviderService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

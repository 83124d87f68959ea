package http

import (
	"net/http"

	"github.com/aussiebroadwan/riskregister/internal/risk/service"
	"github.com/aussiebroadwan/riskregister/pkg/httpx"
	"github.com/aussiebroadwan/riskregister/pkg/risksdk"
)

// RisksHandler handles the risk endpoints.
type RisksHandler struct {
	RiskService *service.RiskService
	UserService *service.UserService
}

// HandleList handles GET /v1/risks
//
//	@Summary		List risks
//	@Description	Lists risks narrowed by a comma separated filter expression. Tokens are
//	@Description	provider:<id|name>, user:<id|email>, probability:<level>, impact:<level>,
//	@Description	a three letter country code, or free text matched against name and description.
//	@Tags			Risks
//	@Produce		json
//	@Security		BearerAuth
//	@Param			filter	query		string	false	"filter expression"
//	@Success		200		{object}	risksdk.ListRisksResponse
//	@Failure		400		{object}	risksdk.APIError	"invalid_request"
//	@Failure		401		{object}	risksdk.APIError	"invalid_token"
//	@Failure		404		{object}	risksdk.APIError	"not_found"
//	@Router			/v1/risks [get].
func (h *RisksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	risks, err := h.RiskService.List(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, risksdk.ListRisksResponse{Risks: mapSlice(risks, toRisk)})
}

// HandleGet handles GET /v1/risks/{id}
//
//	@Summary	Get risk
//	@Tags		Risks
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		int	true	"risk id"
//	@Success	200	{object}	risksdk.Risk
//	@Failure	400	{object}	risksdk.APIError	"invalid_request"
//	@Failure	404	{object}	risksdk.APIError	"not_found"
//	@Router		/v1/risks/{id} [get].
func (h *RisksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	risk, err := h.RiskService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRisk(risk))
}

// HandleCreate handles POST /v1/risks
//
//	@Summary		Create risk
//	@Description	Records a risk and relates it to the caller.
//	@Tags			Risks
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		risksdk.CreateRiskRequest	true	"risk"
//	@Success		201		{object}	risksdk.Risk
//	@Failure		400		{object}	risksdk.APIError	"invalid_request"
//	@Failure		404		{object}	risksdk.APIError	"not_found"
//	@Router			/v1/risks [post].
func (h *RisksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req risksdk.CreateRiskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	creator, err := h.UserService.GetByEmail(ctx, httpx.EmailFromContext(ctx))
	if err != nil {
		writeError(w, r, err)
		return
	}

	risk, err := h.RiskService.Create(ctx, creator.ID, service.RiskInput{
		Name:        req.Name,
		Description: req.Description,
		Probability: req.Probability,
		Impact:      req.Impact,
		ProviderID:  req.ProviderID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toRisk(risk))
}

// HandleUpdate handles PUT /v1/risks/{id}
//
//	@Summary		Update risk
//	@Description	Changes only the fields present in the body.
//	@Tags			Risks
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int							true	"risk id"
//	@Param			request	body		risksdk.UpdateRiskRequest	true	"fields to change"
//	@Success		200		{object}	risksdk.Risk
//	@Failure		400		{object}	risksdk.APIError	"invalid_request"
//	@Failure		404		{object}	risksdk.APIError	"not_found"
//	@Router			/v1/risks/{id} [put].
func (h *RisksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req risksdk.UpdateRiskRequest
	if err := decodeUpdate(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	risk, err := h.RiskService.Update(r.Context(), id, service.RiskUpdate{
		Name:        req.Name,
		Description: req.Description,
		Probability: req.Probability,
		Impact:      req.Impact,
		ProviderID:  req.ProviderID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRisk(risk))
}

// HandleDelete handles DELETE /v1/risks/{id}
//
//	@Summary	Delete risk
//	@Tags		Risks
//	@Security	BearerAuth
//	@Param		id	path	int	true	"risk id"
//	@Success	204
//	@Failure	404	{object}	risksdk.APIError	"not_found"
//	@Router		/v1/risks/{id} [delete].
func (h *RisksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.RiskService.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRelateUser handles POST /v1/risks/{id}/users/{userID}
//
//	@Summary	Relate a user to a risk
//	@Tags		Risks
//	@Security	BearerAuth
//	@Param		id		path	int	true	"risk id"
//	@Param		userID	path	int	true	"user id"
//	@Success	204
//	@Failure	404	{object}	risksdk.APIError	"not_found"
//	@Failure	409	{object}	risksdk.APIError	"conflict"
//	@Router		/v1/risks/{id}/users/{userID} [post].
func (h *RisksHandler) HandleRelateUser(w http.ResponseWriter, r *http.Request) {
	h.relation(w, r, h.UserService.AddRisk)
}

// HandleUnrelateUser handles DELETE /v1/risks/{id}/users/{userID}
//
//	@Summary	Remove a user from a risk
//	@Tags		Risks
//	@Security	BearerAuth
//	@Param		id		path	int	true	"risk id"
//	@Param		userID	path	int	true	"user id"
//	@Success	204
//	@Failure	404	{object}	risksdk.APIError	"not_found"
//	@Router		/v1/risks/{id}/users/{userID} [delete].
func (h *RisksHandler) HandleUnrelateUser(w http.ResponseWriter, r *http.Request) {
	h.relation(w, r, h.UserService.RemoveRisk)
}

func (h *RisksHandler) relation(w http.ResponseWriter, r *http.Request, apply relationFunc) {
	riskID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := apply(r.Context(), userID, riskID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

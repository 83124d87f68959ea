package http

import (
	"net/http"

	"github.com/aussiebroadwan/riskregister/internal/risk/service"
	"github.com/aussiebroadwan/riskregister/pkg/httpx"
	"github.com/aussiebroadwan/riskregister/pkg/risksdk"
)

type CountriesHandler struct {
	CountryService *service.CountryService
}

// HandleList handles GET /v1/countries
//
//	@Summary	List countries
//	@Tags		Countries
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	risksdk.ListCountriesResponse
//	@Failure	401	{object}	risksdk.APIError	"invalid_token"
//	@Failure	500	{object}	risksdk.APIError	"server_error"
//	@Router		/v1/countries [get].
func (h *CountriesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	countries, err := h.CountryService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, risksdk.ListCountriesResponse{Countries: mapSlice(countries, toCountry)})
}

// HandleGet handles GET /v1/countries/{cca3}
//
//	@Summary	Get country
//	@Tags		Countries
//	@Produce	json
//	@Security	BearerAuth
//	@Param		cca3	path		string	true	"ISO 3166-1 alpha-3 code"
//	@Success	200		{object}	risksdk.Country
//	@Failure	400		{object}	risksdk.APIError	"invalid_request"
//	@Failure	404		{object}	risksdk.APIError	"not_found"
//	@Router		/v1/countries/{cca3} [get].
func (h *CountriesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := h.CountryService.Get(r.Context(), r.PathValue("cca3"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toCountry(c))
}

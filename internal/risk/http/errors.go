package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/riskregister/internal/risk/service"
	"github.com/aussiebroadwan/riskregister/pkg/httpx"
	"github.com/aussiebroadwan/riskregister/pkg/risksdk"
	"github.com/aussiebroadwan/riskregister/pkg/slogx"
)

var errMalformedBody = &service.ValidationError{Message: "Invalid JSON in request body"}

// writeError maps a service error onto the API error envelope. Anything
// unrecognised is logged and reported as a server error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve *service.ValidationError
		re *service.ResolutionError
		ce *service.ConflictError
	)

	switch {
	case errors.As(err, &ve):
		risksdk.NewAPIError(http.StatusBadRequest, risksdk.ErrorCodeInvalidRequest, ve.Message).WriteError(w)
	case errors.As(err, &re):
		risksdk.NewAPIError(http.StatusNotFound, risksdk.ErrorCodeNotFound, re.Message).WriteError(w)
	case errors.As(err, &ce):
		risksdk.NewAPIError(http.StatusConflict, risksdk.ErrorCodeConflict, ce.Message).WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		risksdk.ErrInvalidGrant.WriteError(w)
	case errors.Is(err, service.ErrInvalidToken):
		risksdk.ErrInvalidToken.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		serverError(r).WriteError(w)
	}
}

// serverError quotes the request id so a report can be matched to the logs.
func serverError(r *http.Request) *risksdk.APIError {
	id := slogx.RequestIDFromContext(r.Context())
	if id == "" {
		return risksdk.ErrServerError
	}
	return risksdk.NewAPIError(http.StatusInternalServerError, risksdk.ErrorCodeServerError,
		risksdk.ErrServerError.Description+" (request "+id+")")
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		return errMalformedBody
	}
	return nil
}

// decodeUpdate decodes a partial update into dst. An object without any
// members is rejected before dst is touched.
func decodeUpdate(r *http.Request, dst any) error {
	var raw map[string]json.RawMessage
	if err := httpx.DecodeJSON(r, &raw); err != nil {
		return errMalformedBody
	}
	if len(raw) == 0 {
		return service.ErrNoParameters
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return errMalformedBody
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return errMalformedBody
	}
	return nil
}

// pathID parses the named path value as a positive id.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, &service.ValidationError{Message: "Invalid id"}
	}
	return id, nil
}

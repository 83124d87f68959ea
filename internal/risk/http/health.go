package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/riskregister/internal/risk/service"
	"github.com/aussiebroadwan/riskregister/internal/risk/store"
	"github.com/aussiebroadwan/riskregister/pkg/httpx"
	"github.com/aussiebroadwan/riskregister/pkg/risksdk"
)

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe. Always 200 while the process is serving.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	risksdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, risksdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the database and that both signing secrets are configured.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	risksdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	risksdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, auth *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &risksdk.HealthChecks{Database: "ok", Secrets: "ok"}
		status, code := "ok", http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}
		if len(auth.Secrets.Access) == 0 || len(auth.Secrets.Refresh) == 0 {
			checks.Secrets = "error: signing secrets not configured"
			status, code = "degraded", http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, risksdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}

package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/riskregister/pkg/slogx"
)

// RoleChecker reports whether the user identified by email holds role.
type RoleChecker interface {
	HasRole(ctx context.Context, email, role string) (bool, error)
}

// RoleCheckerFunc adapts a function to RoleChecker.
type RoleCheckerFunc func(ctx context.Context, email, role string) (bool, error)

func (f RoleCheckerFunc) HasRole(ctx context.Context, email, role string) (bool, error) {
	return f(ctx, email, role)
}

// RequireRole lets the request through only if the authenticated caller
// holds role. It must run after AuthnMiddleware.
func RequireRole(checker RoleChecker, role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			email := EmailFromContext(ctx)
			if email == "" {
				WriteBearerError(w)
				return
			}

			ok, err := checker.HasRole(ctx, email, role)
			if err != nil {
				slogx.FromContext(ctx).Error("role lookup failed", "error", err)
				WriteJSON(w, http.StatusInternalServerError, map[string]string{
					"error":             "server_error",
					"error_description": "internal server error",
				})
				return
			}
			if !ok {
				writeRoleError(w, role)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750 insufficient_scope, with the role standing in for the scope.
func writeRoleError(w http.ResponseWriter, role string) {
	NoCache(w)
	w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+role+`"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             "insufficient_scope",
		"error_description": "the " + role + " role is required",
	})
}

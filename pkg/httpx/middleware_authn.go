package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/riskregister/pkg/jwtx"
	"github.com/aussiebroadwan/riskregister/pkg/slogx"
)

// bearerDescription is the same for every failure so responses never say
// whether a token was missing, forged or expired.
const bearerDescription = "the access token is missing, invalid or expired"

// TokenVerifier turns a bearer token into trusted claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (jwtx.Claims, error)
}

// TokenVerifierFunc adapts a function to TokenVerifier.
type TokenVerifierFunc func(ctx context.Context, token string) (jwtx.Claims, error)

func (f TokenVerifierFunc) Verify(ctx context.Context, token string) (jwtx.Claims, error) {
	return f(ctx, token)
}

// AuthnMiddleware rejects requests without a valid bearer access token and
// stores the verified claims in the request context.
func AuthnMiddleware(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				WriteBearerError(w)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(ctx, raw)
			if err != nil {
				WriteBearerError(w)
				log.Debug("bearer rejected", "err", err)
				return
			}

			ctx = contextWithAuth(ctx, claims)
			ctx = slogx.WithUser(ctx, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WriteBearerError writes the RFC 6750 invalid_token response.
func WriteBearerError(w http.ResponseWriter) {
	NoCache(w)
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+bearerDescription+`"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             "invalid_token",
		"error_description": bearerDescription,
	})
}

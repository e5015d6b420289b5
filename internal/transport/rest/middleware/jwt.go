package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"edumeet/internal/domain"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenVerifier decodes and validates a raw session token.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*domain.Claims, error)
}

// JWT authenticates the request from the access_token cookie. A missing
// cookie is reported as "not authenticated", an unverifiable token as
// "invalid or expired token".
func JWT(verifier TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("access_token")
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			claims, err := verifier.Verify(r.Context(), cookie.Value)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole permits the request only when the authenticated role is in the
// allowed set. Must run after JWT.
func RequireRole(roles ...domain.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeAuthError(w, http.StatusForbidden, "access denied")
		})
	}
}

func GetClaims(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*domain.Claims)
	return claims, ok
}

func writeAuthError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  false,
		"message": message,
	})
}

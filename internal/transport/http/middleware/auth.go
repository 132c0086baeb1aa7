package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/S-Stepanov-1/contacts-api/internal/infrastructure/token"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// TokenVerifier is the part of the token provider the middleware needs.
type TokenVerifier interface {
	Verify(tokenStr string, expected token.Purpose) (string, error)
}

// Auth returns middleware that validates the Bearer access token and injects
// the subject's user id into the request context.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			userID, err := verifier.Verify(tokenStr, token.PurposeAccess)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user id from the request context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok
}

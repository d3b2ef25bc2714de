package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// ContextKeyUserID is the context key for storing the authenticated user ID
const ContextKeyUserID contextKey = "user_id"

// RequireUser is a middleware that rejects requests without a valid session
// token and injects the user ID into the request context.
func RequireUser(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			userID, err := ParseToken(token, secret)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(ContextKeyUserID).(int)
	return id, ok
}

// unauthorized writes a 401 in the API error shape. Kept local so the auth
// package does not depend on the api package.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "UNAUTHORIZED",
		"message": message,
	})
}

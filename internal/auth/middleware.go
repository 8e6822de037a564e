package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

// userIDKey carries the authenticated user's id (a user_-prefixed typeid,
// the same identity the relay attaches to websocket sessions) through the
// request context.
const userIDKey contextKey = "auth.userID"

// RequireAuth guards document routes: requests without a valid Bearer
// token are rejected, everything else proceeds with the token's subject
// available via UserIDFromContext.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "bearer token required"})
			return
		}

		userID, err := s.ValidateToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserIDFromContext returns the authenticated user id, empty when the
// request did not pass through RequireAuth.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

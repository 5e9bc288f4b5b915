package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cardifyhq/cardify-backend/internal/pkg/auth"
	"github.com/cardifyhq/cardify-backend/internal/pkg/response"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserID extracts the authenticated user ID from the request context.
// It is empty when the request did not pass the Auth middleware.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// Auth validates the Bearer token and stores the authenticated user ID
// in the request context.
func Auth(tokens *auth.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.Error(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				response.Error(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			claims, err := tokens.ParseToken(tokenString)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

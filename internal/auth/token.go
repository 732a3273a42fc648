package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/kanmind/kanmind-be/internal/models"
)

// TokenResolver resolves an opaque token key to the user it belongs to.
type TokenResolver interface {
	ResolveToken(key string) (models.User, error)
}

// UserKey is the context key for the authenticated user.
type contextKey string

const UserKey = contextKey("currentUser")

// CurrentUser returns the authenticated user stored on the request context by
// TokenMiddleware.
func CurrentUser(r *http.Request) (models.User, bool) {
	user, ok := r.Context().Value(UserKey).(models.User)
	return user, ok
}

// TokenMiddleware creates a middleware for protecting routes. Requests must
// carry "Authorization: Token <key>" (the Bearer scheme is accepted too); the
// key is resolved against the token store on every request.
func TokenMiddleware(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := tokenFromHeader(r.Header.Get("Authorization"))
			if key == "" {
				unauthorized(w, "missing auth token")
				return
			}

			user, err := resolver.ResolveToken(key)
			if err != nil {
				unauthorized(w, "invalid auth token")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	switch parts[0] {
	case "Token", "Bearer":
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}

// Package middleware carries the authentication layer mounted in front
// of the protected routes.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/casita/internal/auth"
	"github.com/MrJamesThe3rd/casita/internal/http/api"
	"github.com/MrJamesThe3rd/casita/internal/user"
)

type contextKey struct{}

var userKey contextKey

// CurrentUser returns the authenticated user placed in the context by
// Authenticate.
func CurrentUser(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey).(*user.User)
	return u, ok
}

// Authenticate verifies the bearer token and loads the account behind
// it. Deactivated accounts are rejected even with a valid token.
func Authenticate(tokens *auth.Service, users *user.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				api.Fail(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				api.Error(w, err)
				return
			}

			u, err := users.Get(r.Context(), claims.UserID)
			if err != nil {
				api.Fail(w, http.StatusUnauthorized, "unknown account")
				return
			}

			if !u.IsActive {
				api.Error(w, user.ErrInactive)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated users whose role is not in the
// allowed set. Mount after Authenticate.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "authentication required")
				return
			}

			for _, role := range roles {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			api.Fail(w, http.StatusForbidden, "insufficient role")
		})
	}
}

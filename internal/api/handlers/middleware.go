package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/askora/askora-auth/internal/models"
	"github.com/askora/askora-auth/internal/services"
)

type contextKey string

const userContextKey = contextKey("currentUser")

// UserFromContext retrieves the authenticated user stored by SessionMiddleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// SessionMiddleware protects routes behind a valid Bearer token. Validity
// is decided by the stored session record (logout and expiry timestamps),
// not by re-parsing the token itself.
func SessionMiddleware(service *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, "ATH-001", "missing auth token")
				return
			}

			user, err := service.CurrentUser(token)
			if err != nil {
				if errors.Is(err, services.ErrSessionExpired) {
					writeError(w, http.StatusUnauthorized, "ATH-002", "session expired")
					return
				}
				writeError(w, http.StatusUnauthorized, "ATH-001", "invalid auth token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

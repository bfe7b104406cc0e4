package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rajangupta9/taskmanager/errors"
	"github.com/Rajangupta9/taskmanager/logging"
	"github.com/Rajangupta9/taskmanager/models"
	"github.com/Rajangupta9/taskmanager/utils"
)

type ContextKey string

const UserKey ContextKey = "user"

// Authenticator resolves a session credential into its user.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (*models.User, error)
}

// credential reads the session token from the cookie, falling back to a
// Bearer Authorization header.
func credential(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// AuthMiddleware rejects requests without a valid session and stores the
// resolved user in the request context.
func AuthMiddleware(auth Authenticator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := auth.Authenticate(r.Context(), credential(r, cookieName))
			if err != nil {
				log := logging.FromContext(r.Context(), logging.NopLogger())
				if errors.Is(err, errors.ErrUnauthorized) {
					log.Debug("session rejected", "error", err)
					utils.ResponseWithError(w, http.StatusUnauthorized, "Access denied", nil)
					return
				}
				log.Error("session lookup failed", "error", err)
				utils.ResponseWithError(w, http.StatusInternalServerError, "Server internal errors", nil)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			if log := logging.FromContext(ctx, nil); log != nil {
				ctx = logging.NewContext(ctx, log.WithUser(user.ID))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the user attached by AuthMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok && user != nil
}

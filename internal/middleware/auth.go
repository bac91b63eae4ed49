package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/waveshop/waves-backend/internal/config"
	"github.com/waveshop/waves-backend/internal/http/respond"
	"github.com/waveshop/waves-backend/internal/models"
)

type contextKey string

const userContextKey contextKey = "authenticatedUser"

// Authenticator resolves a presented session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

// Authenticate pulls the session token from the w_auth cookie or the
// Authorization header, resolves it, and stores the user on the request
// context. Every failure yields the same generic rejection; callers do not
// learn whether the token was malformed, unknown, or superseded.
func Authenticate(sessions Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				respond.JSON(w, http.StatusUnauthorized, map[string]any{"isAuth": false, "error": true})
				return
			}
			user, err := sessions.Authenticate(r.Context(), token)
			if err != nil {
				respond.JSON(w, http.StatusUnauthorized, map[string]any{"isAuth": false, "error": true})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin gates a route on a privileged role. It must run after
// Authenticate in the same chain; a missing identity on the context is a
// wiring bug, not a user error, and panics.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFrom(r.Context())
		if !ok {
			panic("middleware: RequireAdmin without a resolved user; Authenticate must run first")
		}
		if !user.Role.Privileged() {
			respond.JSON(w, http.StatusForbidden, map[string]any{
				"success": false,
				"message": "You are not authorized",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFrom extracts the authenticated user placed on the context by
// Authenticate.
func UserFrom(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(config.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

package httpapi

import (
	"errors"
	"net/http"

	"todoapi.org/internal/auth"
)

const sessionCookie = "access_token"

var publicPaths = []string{
	"/",
	"/health",
	"/ready",
	"/metrics",
	"/api/auth/login",
	"/api/auth/logout",
	"/api/chat",
}

// withAuth resolves the session cookie to a stored user and places the
// identity in the request context. Public paths pass through.
func (a *API) withAuth(next http.Handler) http.Handler {
	if a.auth == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		c, err := r.Cookie(sessionCookie)
		if err != nil || c.Value == "" {
			writeError(w, r, http.StatusUnauthorized, "Not authenticated")
			return
		}

		user, err := a.auth.Authenticate(r.Context(), c.Value)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				writeError(w, r, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			writeError(w, r, http.StatusInternalServerError, "authentication error")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), user)))
	})
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

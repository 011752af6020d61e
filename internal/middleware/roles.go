package middleware

import (
	"net/http"

	"github.com/baharkarakas/sweetshop/internal/api/httpx"
	"github.com/baharkarakas/sweetshop/internal/apperr"
	"github.com/baharkarakas/sweetshop/internal/auth"
	"github.com/baharkarakas/sweetshop/internal/models"
)

// RequireRole wraps a handler and allows only the given role.
func RequireRole(need models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := auth.FromContext(r.Context())
			if !p.Authenticated() {
				httpx.WriteErr(w, r, apperr.ErrUnauthenticated, false)
				return
			}
			if p.Role != need {
				httpx.WriteErr(w, r, apperr.ErrForbidden, false)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/baharkarakas/sweetshop/internal/api/httpx"
	"github.com/baharkarakas/sweetshop/internal/apperr"
	"github.com/baharkarakas/sweetshop/internal/auth"
)

// Authenticate resolves the session token into an auth.Principal on the
// request context. The cookie is tried first, then an Authorization: Bearer
// header. Missing or invalid tokens leave the request anonymous; RequireAuth
// and RequireRole decide what that means for a route.
func Authenticate(sessions *auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, tok := range sessionTokens(r) {
				if claims, ok := sessions.Validate(tok); ok {
					r = r.WithContext(auth.WithPrincipal(r.Context(), claims.Principal()))
					break
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionTokens lists the candidate tokens in precedence order.
func sessionTokens(r *http.Request) []string {
	var toks []string
	if c, err := r.Cookie(auth.CookieName); err == nil && c.Value != "" {
		toks = append(toks, c.Value)
	}
	ah := r.Header.Get("Authorization")
	if len(ah) > 7 && strings.EqualFold(ah[:7], "bearer ") {
		if tok := strings.TrimSpace(ah[7:]); tok != "" {
			toks = append(toks, tok)
		}
	}
	return toks
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.FromContext(r.Context()).Authenticated() {
			httpx.WriteErr(w, r, apperr.ErrUnauthenticated, false)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package gateway

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// BearerAuth returns middleware that, when token is non-empty, requires
// Authorization: Bearer <token> on every request. A missing or wrong token
// gets 401 with a WWW-Authenticate challenge. An empty token disables the check.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, prefix) {
				unauthorized(w)
				return
			}
			got := strings.TrimSpace(auth[len(prefix):])
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="zenhub-mcp"`)
	w.WriteHeader(http.StatusUnauthorized)
}

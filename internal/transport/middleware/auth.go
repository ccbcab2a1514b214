package middleware

import (
	"net/http"

	"github.com/JinxSeven/Risk-360/internal"
)

// Private guards routes mounted after the auth middleware. Responses carry
// per-user GRC data, so they are marked uncacheable. A request that arrives
// without a caller id is refused.
func Private(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if internal.UserIDFromContext(r.Context()) == "" {
			writeAppError(w, internal.ErrNotAuthenticated)
			return
		}
		h := w.Header()
		h.Set("Cache-Control", "no-store")
		h.Add("Vary", "Authorization")
		next.ServeHTTP(w, r)
	})
}

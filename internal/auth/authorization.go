package auth

import (
	"net/http"

	"github.com/JinxSeven/Risk-360/internal"
	"github.com/JinxSeven/Risk-360/internal/grc"
)

var errRoleRequired = internal.NewForbiddenError("You do not have access to this resource", internal.ErrCodeAdminRequired)

// RequireRole lets the request through when the caller's resolved role is one
// of roles. It must run after AuthMiddleware.
func (h *Handler) RequireRole(roles ...grc.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok, err := h.Service.UserRole(r.Context())
			if err != nil {
				h.HandleServiceError(w, err)
				return
			}
			if !ok {
				h.HandleServiceError(w, internal.ErrNotAuthenticated)
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			h.Logger.Warn("access denied",
				"user_id", internal.UserIDFromContext(r.Context()),
				"role", role,
				"required", roles)
			h.HandleServiceError(w, errRoleRequired)
		})
	}
}

func (h *Handler) RequireAdmin() func(http.Handler) http.Handler {
	return h.RequireRole(grc.RoleAdmin)
}

package auth

import (
	"log/slog"
	"net/http"

	"github.com/JinxSeven/Risk-360/internal"
	"github.com/JinxSeven/Risk-360/internal/transport"
	"github.com/JinxSeven/Risk-360/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	result, err := h.Service.SignIn(r.Context(), dto.Email, dto.Password)
	if err != nil {
		h.Logger.Warn("authentication failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.Logger.Warn("token refresh failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.SignOut(r.Context()); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session returns the caller plus the profile summary cached for the shell.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.Service.CurrentUser(ctx)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	profile, err := h.Service.InitUserSession(ctx)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"profile": profile,
	})
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var dto UpdatePasswordDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}
	if err := h.Service.UpdatePassword(r.Context(), dto.Password); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateUser is the administrator-only account creation endpoint.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	user, err := h.Service.AdminCreateUser(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("user account created", "user_id", user.ID, "role", user.Role)
	h.WriteJSON(w, http.StatusCreated, user)
}

// AuthMiddleware accepts a bearer access token and puts the caller id and the
// token itself into the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.Logger.Warn("auth middleware: missing authorization token", "path", r.URL.Path)
			h.HandleServiceError(w, internal.ErrNotAuthenticated)
			return
		}

		claims, err := h.Service.ValidateAccessToken(r.Context(), token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithUserID(r.Context(), claims.UserID)
		ctx = internal.ContextWithAccessToken(ctx, token)
		ctx = logger.With(ctx, "user_id", claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

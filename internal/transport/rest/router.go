package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/JinxSeven/Risk-360/internal/auth"
	"github.com/JinxSeven/Risk-360/internal/grc"
	"github.com/JinxSeven/Risk-360/internal/obs"
	"github.com/JinxSeven/Risk-360/internal/transport/middleware"
	"github.com/JinxSeven/Risk-360/internal/transport/swagger"
)

// RouterOptions carries the cross-cutting settings of RegisterAllRoutes.
// A nil Limiter disables rate limiting; an empty MetricsPath hides /metrics.
type RouterOptions struct {
	AllowedOrigins string
	MetricsPath    string
	Limiter        *middleware.RateLimiter
}

func RegisterAllRoutes(router *chi.Mux, healthHandler *HealthHandler, authHandler *auth.Handler, grcHandler *grc.Handler, opts RouterOptions, logger *slog.Logger) {
	// Apply global middleware
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	if opts.Limiter != nil {
		router.Use(opts.Limiter.Middleware)
	}
	router.Use(obs.Instrument)

	if opts.MetricsPath != "" {
		router.Method(http.MethodGet, opts.MetricsPath, obs.Handler())
	}

	// OpenAPI document and Swagger UI live outside the API prefix
	router.Get(swagger.DocPath, swagger.DocHandler)
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)

			sr.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)
				pr.Use(middleware.Private)
				pr.Post("/logout", authHandler.Logout)
				pr.Get("/session", authHandler.Session)
				pr.Put("/password", authHandler.UpdatePassword)
			})
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)
			pr.Use(middleware.Private)

			pr.Get("/dashboard", grcHandler.Dashboard)
			pr.Get("/company", grcHandler.GetCompany)

			pr.Get("/policies", grcHandler.ListPolicies)
			pr.Get("/policies/{id}", grcHandler.GetPolicy)

			pr.Get("/compliance", grcHandler.ListCompliance)
			pr.Get("/compliance/{id}", grcHandler.GetCompliance)

			// any signed-in user may report
			pr.Post("/whistleblowing", grcHandler.SubmitReport)

			pr.Route("/notifications", func(nr chi.Router) {
				nr.Get("/", grcHandler.ListNotifications)
				nr.Patch("/read-all", grcHandler.MarkAllNotificationsRead)
				nr.Patch("/{id}/read", grcHandler.MarkNotificationRead)
				nr.Delete("/{id}", grcHandler.DeleteNotification)
			})

			// Admin routes
			pr.Group(func(ar chi.Router) {
				ar.Use(authHandler.RequireAdmin())

				ar.Put("/company", grcHandler.UpdateCompany)

				ar.Post("/policies", grcHandler.CreatePolicy)
				ar.Patch("/policies/{id}", grcHandler.UpdatePolicy)
				ar.Delete("/policies/{id}", grcHandler.DeletePolicy)

				ar.Post("/compliance", grcHandler.CreateCompliance)
				ar.Patch("/compliance/{id}", grcHandler.UpdateCompliance)
				ar.Delete("/compliance/{id}", grcHandler.DeleteCompliance)

				ar.Get("/whistleblowing", grcHandler.ListReports)
				ar.Get("/whistleblowing/{id}", grcHandler.GetReport)
				ar.Patch("/whistleblowing/{id}", grcHandler.UpdateReport)
				ar.Delete("/whistleblowing/{id}", grcHandler.DeleteReport)

				ar.Get("/users", grcHandler.ListUsers)
				ar.Post("/users", authHandler.CreateUser)
				ar.Get("/users/{id}", grcHandler.GetUser)
				ar.Patch("/users/{id}", grcHandler.UpdateUser)
				ar.Delete("/users/{id}", grcHandler.DeleteUser)

				ar.Get("/audit", grcHandler.AuditTrail)
			})
		})
	})
}

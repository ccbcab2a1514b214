package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/JinxSeven/Risk-360/internal/auth"
	"github.com/JinxSeven/Risk-360/internal/connectivity"
	"github.com/JinxSeven/Risk-360/internal/grc"
	"github.com/JinxSeven/Risk-360/internal/grc/mock"
	"github.com/JinxSeven/Risk-360/internal/store"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

var _ = Describe("Router", func() {
	var (
		router  *chi.Mux
		service *mock.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = mock.NewService(store.NewMemory(), logger)
		probe := connectivity.Static(false)
		tokens := auth.NewJWTTokenGenerator(
			"access-secret-access-secret-0123456789",
			"refresh-secret-refresh-secret-0123456789",
			time.Minute, time.Hour)
		authService := auth.NewService(nil, service, probe, tokens, logger)

		router = chi.NewRouter()
		RegisterAllRoutes(router,
			NewHealthHandler(okPinger{}, probe),
			auth.NewHandler(authService),
			grc.NewHandler(service),
			RouterOptions{AllowedOrigins: "*", MetricsPath: "/metrics"},
			logger)

		for _, u := range []grc.NewUser{
			{Name: "Ada Admin", Email: "ada@risk360.test", Role: grc.RoleAdmin, Department: "IT"},
			{Name: "Eve Employee", Email: "eve@risk360.test", Role: grc.RoleEmployee, Department: "Sales"},
		} {
			_, err := service.CreateUser(ctx, u)
			Expect(err).NotTo(HaveOccurred())
		}
	})

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	login := func(email string) string {
		rec := do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"`+email+`","password":"whatever"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var result auth.SignInResult
		Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
		Expect(result.Demo).To(BeTrue())
		return result.AccessToken
	}

	It("serves health and ping without a token", func() {
		Expect(do(http.MethodGet, "/api/v1/ping", "", "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/api/v1/health", "", "").Code).To(Equal(http.StatusOK))
	})

	It("rejects protected routes without a token", func() {
		Expect(do(http.MethodGet, "/api/v1/policies", "", "").Code).To(Equal(http.StatusUnauthorized))
	})

	It("lets an employee read and report but not manage", func() {
		token := login("eve@risk360.test")

		list := do(http.MethodGet, "/api/v1/policies", token, "")
		Expect(list.Code).To(Equal(http.StatusOK))
		Expect(list.Header().Get("Cache-Control")).To(Equal("no-store"))
		Expect(do(http.MethodPost, "/api/v1/whistleblowing", token,
			`{"title":"Gift","description":"Vendor gift","priority":"Low"}`).Code).To(Equal(http.StatusCreated))

		rec := do(http.MethodPost, "/api/v1/policies", token, `{"title":"X","status":"Draft"}`)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(rec.Body.String()).To(ContainSubstring("ADMIN_REQUIRED"))
		Expect(do(http.MethodGet, "/api/v1/whistleblowing", token, "").Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/api/v1/audit", token, "").Code).To(Equal(http.StatusForbidden))
	})

	It("lets an admin manage policies", func() {
		token := login("ada@risk360.test")
		Expect(do(http.MethodPost, "/api/v1/policies", token, `{"title":"X","status":"Draft"}`).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodGet, "/api/v1/whistleblowing", token, "").Code).To(Equal(http.StatusOK))
	})

	It("answers CORS preflight before authentication", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/policies", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNoContent))
	})

	It("serves the OpenAPI document and metrics outside the API prefix", func() {
		Expect(do(http.MethodGet, "/openapi.yml", "", "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/metrics", "", "").Code).To(Equal(http.StatusOK))
	})
})

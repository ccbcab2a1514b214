package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/JinxSeven/Risk-360/internal/auth"
	authPostgres "github.com/JinxSeven/Risk-360/internal/auth/postgres"
	userDatamodel "github.com/JinxSeven/Risk-360/internal/core/datamodel/user"
	"github.com/JinxSeven/Risk-360/internal/grc"
	"github.com/JinxSeven/Risk-360/internal/grc/mock"
	"github.com/JinxSeven/Risk-360/internal/store"
)

// switchProbe answers whatever the test last set.
type switchProbe struct{ up atomic.Bool }

func (p *switchProbe) IsConnected(context.Context) bool { return p.up.Load() }

var _ = Describe("Router on the remote path", func() {
	var (
		router   *chi.Mux
		selected *mock.Service
		probe    *switchProbe
		db       *gorm.DB
		ctx      context.Context
		policyID string
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormLogger.Default.LogMode(gormLogger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&userDatamodel.AuthUser{}, &userDatamodel.AuthSession{}, &userDatamodel.Profile{})).To(Succeed())

		probe = &switchProbe{}
		probe.up.Store(true)

		// the remote data path is stood in for by a second store-backed service
		selected = mock.NewService(store.NewMemory(), logger)
		demo := mock.NewService(store.NewMemory(), logger)
		sel := grc.SelectPath(ctx, probe, selected, demo, logger)
		Expect(sel.Mode).To(Equal(grc.ModeRemote))

		tokens := auth.NewJWTTokenGenerator(
			"access-secret-access-secret-0123456789",
			"refresh-secret-refresh-secret-0123456789",
			time.Minute, time.Hour)
		authService := auth.NewService(authPostgres.NewRepository(db), demo, sel, tokens, logger,
			auth.WithBcryptCost(bcrypt.MinCost))

		_, err = authService.SignUp(ctx, auth.SignUpRequest{
			Email: "eve@risk360.test", Password: "correct-horse", Name: "Eve Employee",
			Role: grc.RoleEmployee, Department: "Sales",
		}, true)
		Expect(err).NotTo(HaveOccurred())
		// the demo directory knows the same address as an admin
		_, err = demo.CreateUser(ctx, grc.NewUser{Name: "Eve", Email: "eve@risk360.test", Role: grc.RoleAdmin})
		Expect(err).NotTo(HaveOccurred())

		p, err := selected.CreatePolicy(ctx, grc.NewPolicy{Title: "Access Control", Status: grc.PolicyActive})
		Expect(err).NotTo(HaveOccurred())
		policyID = p.ID

		router = chi.NewRouter()
		RegisterAllRoutes(router,
			NewHealthHandler(okPinger{}, probe),
			auth.NewHandler(authService),
			grc.NewHandler(sel.Service),
			RouterOptions{AllowedOrigins: "*"},
			logger)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
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

	signIn := func(password string) *httptest.ResponseRecorder {
		return do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"eve@risk360.test","password":"`+password+`"}`)
	}

	tokenFrom := func(rec *httptest.ResponseRecorder) string {
		Expect(rec.Code).To(Equal(http.StatusOK))
		var result auth.SignInResult
		Expect(json.Unmarshal(rec.Body.Bytes(), &result)).To(Succeed())
		Expect(result.Demo).To(BeFalse())
		return result.AccessToken
	}

	It("keeps an employee out of admin routes after the backend ping fails", func() {
		token := tokenFrom(signIn("correct-horse"))
		Expect(do(http.MethodDelete, "/api/v1/policies/"+policyID, token, "").Code).To(Equal(http.StatusForbidden))

		probe.up.Store(false)
		rec := do(http.MethodDelete, "/api/v1/policies/"+policyID, token, "")
		Expect(rec.Code).To(Equal(http.StatusForbidden))

		policies, err := selected.ListPolicies(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(policies).To(HaveLen(1))
	})

	It("still rejects a signed-out token after the backend ping fails", func() {
		token := tokenFrom(signIn("correct-horse"))
		Expect(do(http.MethodPost, "/api/v1/auth/logout", token, "").Code).To(BeNumerically("<", 300))

		probe.up.Store(false)
		Expect(do(http.MethodGet, "/api/v1/policies", token, "").Code).To(Equal(http.StatusUnauthorized))
	})

	It("still checks passwords after the backend ping fails", func() {
		probe.up.Store(false)
		Expect(signIn("wrong-password").Code).To(Equal(http.StatusUnauthorized))
		tokenFrom(signIn("correct-horse"))
	})
})

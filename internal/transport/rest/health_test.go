package rest

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/JinxSeven/Risk-360/internal/connectivity"
)

var _ = Describe("HealthHandler", func() {
	var (
		db   *sql.DB
		mock sqlmock.Sqlmock
	)

	BeforeEach(func() {
		var err error
		db, mock, err = sqlmock.New(sqlmock.MonitorPingsOption(true))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		db.Close()
	})

	check := func(h *HealthHandler) (int, HealthResponse) {
		rec := httptest.NewRecorder()
		h.healthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		var resp HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		return rec.Code, resp
	}

	It("is healthy when the local store answers and the backend is reachable", func() {
		mock.ExpectPing()
		code, resp := check(NewHealthHandler(db, connectivity.Static(true)))
		Expect(code).To(Equal(http.StatusOK))
		Expect(resp.Status).To(Equal(HealthHealthy))
		Expect(resp.Mode).To(Equal("remote"))
	})

	It("degrades to demo mode when the backend is unreachable", func() {
		mock.ExpectPing()
		code, resp := check(NewHealthHandler(db, connectivity.Static(false)))
		Expect(code).To(Equal(http.StatusOK))
		Expect(resp.Status).To(Equal(HealthDegraded))
		Expect(resp.Mode).To(Equal("demo"))
		Expect(resp.Components["backend"].Details["connected"]).To(BeFalse())
	})

	It("is unhealthy when the local store fails its ping", func() {
		mock.ExpectPing().WillReturnError(errors.New("disk I/O error"))
		code, resp := check(NewHealthHandler(db, connectivity.Static(true)))
		Expect(code).To(Equal(http.StatusServiceUnavailable))
		Expect(resp.Status).To(Equal(HealthUnhealthy))
		Expect(resp.Components["local_store"].Message).To(Equal("disk I/O error"))
	})

	It("answers ping without touching either dependency", func() {
		rec := httptest.NewRecorder()
		NewHealthHandler(db, connectivity.Static(false)).pingHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"OK"`))
	})
})

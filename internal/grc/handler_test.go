package grc_test

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

	"github.com/JinxSeven/Risk-360/internal"
	"github.com/JinxSeven/Risk-360/internal/grc"
	"github.com/JinxSeven/Risk-360/internal/grc/mock"
	"github.com/JinxSeven/Risk-360/internal/store"
)

var _ = Describe("Handler", func() {
	var (
		service *mock.Service
		router  *chi.Mux
		ctx     context.Context
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = mock.NewService(store.NewMemory(), logger)
		handler := grc.NewHandler(service)
		ctx = context.Background()

		router = chi.NewRouter()
		router.Get("/dashboard", handler.Dashboard)
		router.Get("/policies", handler.ListPolicies)
		router.Post("/policies", handler.CreatePolicy)
		router.Get("/policies/{id}", handler.GetPolicy)
		router.Patch("/policies/{id}", handler.UpdatePolicy)
		router.Delete("/policies/{id}", handler.DeletePolicy)
		router.Get("/compliance", handler.ListCompliance)
		router.Post("/compliance", handler.CreateCompliance)
		router.Patch("/compliance/{id}", handler.UpdateCompliance)
		router.Post("/whistleblowing", handler.SubmitReport)
		router.Get("/company", handler.GetCompany)
		router.Put("/company", handler.UpdateCompany)
		router.Patch("/notifications/{id}/read", handler.MarkNotificationRead)
	})

	do := func(method, path, body string, userID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if userID != "" {
			req = req.WithContext(internal.ContextWithUserID(req.Context(), userID))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	// errorCode returns the field-level code for validation failures and the
	// top-level code otherwise.
	errorCode := func(rec *httptest.ResponseRecorder) string {
		var body struct {
			Error struct {
				Code    string                   `json:"code"`
				Details internal.ValidationErrors `json:"details"`
			} `json:"error"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		if len(body.Error.Details.Errors) > 0 {
			return body.Error.Details.Errors[0].Code
		}
		return body.Error.Code
	}

	Describe("policies", func() {
		It("creates, reads, updates and deletes a policy", func() {
			rec := do(http.MethodPost, "/policies", `{"title":"Access Control","status":"Draft","assignedTo":["IT"," ","HR"]}`, "")
			Expect(rec.Code).To(Equal(http.StatusCreated))
			var created grc.Policy
			Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
			Expect(created.AssignedTo).To(Equal([]string{"IT", "HR"}))

			rec = do(http.MethodPatch, "/policies/"+created.ID, `{"status":"Active"}`, "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			var updated grc.Policy
			Expect(json.Unmarshal(rec.Body.Bytes(), &updated)).To(Succeed())
			Expect(updated.Status).To(Equal(grc.PolicyActive))
			Expect(updated.Title).To(Equal("Access Control"))

			Expect(do(http.MethodDelete, "/policies/"+created.ID, "", "").Code).To(Equal(http.StatusNoContent))
			Expect(do(http.MethodGet, "/policies/"+created.ID, "", "").Code).To(Equal(http.StatusNotFound))
		})

		It("rejects an unknown status with 400", func() {
			rec := do(http.MethodPost, "/policies", `{"title":"X","status":"Published"}`, "")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeInvalidStatus)))
		})

		It("rejects a malformed body", func() {
			Expect(do(http.MethodPost, "/policies", `{`, "").Code).To(Equal(http.StatusBadRequest))
		})

		It("reports a missing policy on delete", func() {
			rec := do(http.MethodDelete, "/policies/404", "", "")
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(errorCode(rec)).To(Equal(string(internal.ErrCodePolicyNotFound)))
		})
	})

	Describe("compliance", func() {
		It("accepts a date-only deadline", func() {
			rec := do(http.MethodPost, "/compliance", `{"title":"SOC 2","status":"Pending","priority":"High","deadline":"2030-06-30"}`, "")
			Expect(rec.Code).To(Equal(http.StatusCreated))
			var created grc.ComplianceRequirement
			Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
			Expect(created.Deadline.Equal(time.Date(2030, 6, 30, 0, 0, 0, 0, time.UTC))).To(BeTrue())
		})

		It("rejects an unreadable deadline", func() {
			rec := do(http.MethodPost, "/compliance", `{"title":"SOC 2","status":"Pending","priority":"High","deadline":"next week"}`, "")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(errorCode(rec)).To(Equal(string(internal.ErrCodeInvalidDate)))
		})

		It("lists a pending requirement past its deadline as overdue without storing it", func() {
			past := time.Now().Add(-48 * time.Hour)
			created, err := service.CreateComplianceRequirement(ctx, grc.NewComplianceRequirement{
				Title: "GDPR", Status: grc.CompliancePending, Priority: grc.PriorityLow, Deadline: past,
			})
			Expect(err).NotTo(HaveOccurred())

			rec := do(http.MethodGet, "/compliance", "", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			var listed []grc.ComplianceRequirement
			Expect(json.Unmarshal(rec.Body.Bytes(), &listed)).To(Succeed())
			Expect(listed).To(HaveLen(1))
			Expect(listed[0].Status).To(Equal(grc.ComplianceOverdue))

			stored, err := service.GetComplianceRequirement(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(grc.CompliancePending))
		})

		It("sorts by priority on request", func() {
			deadline := time.Now().Add(24 * time.Hour)
			for _, p := range []grc.Priority{grc.PriorityLow, grc.PriorityHigh} {
				_, err := service.CreateComplianceRequirement(ctx, grc.NewComplianceRequirement{
					Title: string(p), Status: grc.CompliancePending, Priority: p, Deadline: deadline,
				})
				Expect(err).NotTo(HaveOccurred())
			}

			rec := do(http.MethodGet, "/compliance?sort=priority", "", "")
			var listed []grc.ComplianceRequirement
			Expect(json.Unmarshal(rec.Body.Bytes(), &listed)).To(Succeed())
			Expect(listed[0].Priority).To(Equal(grc.PriorityHigh))
		})
	})

	Describe("whistleblowing", func() {
		It("records the signed-in submitter", func() {
			rec := do(http.MethodPost, "/whistleblowing", `{"title":"Fraud","description":"Details","priority":"High","submittedBy":"someone-else"}`, "u-7")
			Expect(rec.Code).To(Equal(http.StatusCreated))
			var rep grc.WhistleblowingReport
			Expect(json.Unmarshal(rec.Body.Bytes(), &rep)).To(Succeed())
			Expect(rep.SubmittedBy).NotTo(BeNil())
			Expect(*rep.SubmittedBy).To(Equal("u-7"))
			Expect(rep.Status).To(Equal(grc.ReportPending))
		})

		It("drops the submitter of an anonymous report", func() {
			rec := do(http.MethodPost, "/whistleblowing", `{"title":"Fraud","description":"Details","priority":"High","isAnonymous":true}`, "u-7")
			Expect(rec.Code).To(Equal(http.StatusCreated))
			var rep grc.WhistleblowingReport
			Expect(json.Unmarshal(rec.Body.Bytes(), &rep)).To(Succeed())
			Expect(rep.SubmittedBy).To(BeNil())
		})
	})

	Describe("company", func() {
		It("is not found before the first update", func() {
			Expect(do(http.MethodGet, "/company", "", "").Code).To(Equal(http.StatusNotFound))
			Expect(do(http.MethodPut, "/company", `{"name":"Acme"}`, "").Code).To(Equal(http.StatusOK))
			Expect(do(http.MethodGet, "/company", "", "").Code).To(Equal(http.StatusOK))
		})
	})

	Describe("dashboard", func() {
		It("summarises the collections", func() {
			_, err := service.CreatePolicy(ctx, grc.NewPolicy{Title: "A", Status: grc.PolicyActive})
			Expect(err).NotTo(HaveOccurred())

			rec := do(http.MethodGet, "/dashboard", "", "")
			Expect(rec.Code).To(Equal(http.StatusOK))
			var d grc.Dashboard
			Expect(json.Unmarshal(rec.Body.Bytes(), &d)).To(Succeed())
			Expect(d.Policies.Total).To(Equal(1))
			Expect(d.Policies.ByStatus[grc.PolicyActive]).To(Equal(1))
			Expect(d.UnreadNotifications).To(Equal(1))
		})
	})

	Describe("notifications", func() {
		It("returns 404 for an unknown id", func() {
			Expect(do(http.MethodPatch, "/notifications/nope/read", "", "").Code).To(Equal(http.StatusNotFound))
		})
	})
})

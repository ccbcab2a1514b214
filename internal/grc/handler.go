package grc

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/JinxSeven/Risk-360/internal"
	"github.com/JinxSeven/Risk-360/internal/transport"
	"github.com/JinxSeven/Risk-360/pkg/logger"
)

// Handler exposes a DataService over HTTP. Role checks happen in router
// middleware, not here.
type Handler struct {
	*transport.BaseHandler
	Service DataService
	now     func() time.Time
}

func NewHandler(service DataService) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		now:         time.Now,
	}
}

func (h *Handler) writeFound(w http.ResponseWriter, v interface{}, found bool, notFound *internal.AppError) {
	if !found {
		h.HandleServiceError(w, notFound)
		return
	}
	h.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) writeDone(w http.ResponseWriter, done bool, err error, notFound *internal.AppError) {
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if !done {
		h.HandleServiceError(w, notFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Dashboard returns the aggregated figures shown on the landing page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	policies, err := h.Service.ListPolicies(ctx)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	reqs, err := h.Service.ListComplianceRequirements(ctx)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	reports, err := h.Service.ListWhistleblowingReports(ctx)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	notes, err := h.Service.ListNotifications(ctx)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, Summarize(policies, reqs, reports, notes, h.now()))
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Company(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeFound(w, c, c != nil, internal.ErrCompanyNotFound)
}

func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var in CompanyUpdate
	if !h.DecodeJSON(w, r, &in) {
		return
	}
	c, err := h.Service.UpdateCompany(r.Context(), in)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeFound(w, c, c != nil, internal.ErrBackendUnavailable)
}

func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListPolicies(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetPolicy(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeFound(w, p, p != nil, internal.ErrPolicyNotFound)
}

func (h *Handler) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	var in NewPolicy
	if !h.DecodeJSON(w, r, &in) {
		return
	}
	p, err := h.Service.CreatePolicy(r.Context(), in)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if p == nil {
		h.HandleServiceError(w, internal.ErrBackendUnavailable)
		return
	}
	h.Logger.Info("policy created", "policy_id", p.ID, "status", p.Status)
	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var in PolicyUpdate
	if !h.DecodeJSON(w, r, &in) {
		return
	}
	p, err := h.Service.UpdatePolicy(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeFound(w, p, p != nil, internal.ErrPolicyNotFound)
}

func (h *Handler) DeletePolicy(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Service.DeletePolicy(r.Context(), chi.URLParam(r, "id"))
	h.writeDone(w, ok, err, internal.ErrPolicyNotFound)
}

// ListCompliance returns requirements with their derived status. The query
// parameter sort=priority orders them High first, then by deadline.
func (h *Handler) ListCompliance(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListComplianceRequirements(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if r.URL.Query().Get("sort") == "priority" {
		SortRequirements(items)
	}
	now := h.now()
	for i := range items {
		items[i].Status = DisplayStatus(items[i], now)
	}
	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetCompliance(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.GetComplianceRequirement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeFound(w, c, c != nil, internal.ErrRequirementNotFound)
}

func (h *Handler) CreateCompliance(w http.ResponseWriter, r *http.Request) {
	var req complianceRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	c, err := h.Service.CreateComplianceRequirement(r.Context(), in)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if c == nil {
		h.HandleServiceError(w, internal.ErrBackendUnavailable)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateCompliance(w http.ResponseWriter, r *http.Request) {
	var req complianceUpdateRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	c, err := h.Service.UpdateComplianceRequirement(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeFound(w, c, c != nil, internal.ErrRequirementNotFound)
}

func (h *Handler) DeleteCompliance(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Service.DeleteComplianceRequirement(r.Context(), chi.URLParam(r, "id"))
	h.writeDone(w, ok, err, internal.ErrRequirementNotFound)
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListWhistleblowingReports(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Service.GetWhistleblowingReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeFound(w, rep, rep != nil, internal.ErrReportNotFound)
}

// SubmitReport is open to every signed-in user. The submitter is taken from
// the session, never from the body.
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var in NewWhistleblowingReport
	if !h.DecodeJSON(w, r, &in) {
		return
	}
	in.SubmittedBy = nil
	if !in.IsAnonymous {
		if uid := internal.UserIDFromContext(r.Context()); uid != "" {
			in.SubmittedBy = &uid
		}
	}
	rep, err := h.Service.CreateWhistleblowingReport(r.Context(), in)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if rep == nil {
		h.HandleServiceError(w, internal.ErrBackendUnavailable)
		return
	}
	h.Logger.Info("whistleblowing report submitted", "report_id", rep.ID, "anonymous", rep.IsAnonymous)
	h.WriteJSON(w, http.StatusCreated, rep)
}

func (h *Handler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	var in ReportUpdate
	if !h.DecodeJSON(w, r, &in) {
		return
	}
	rep, err := h.Service.UpdateWhistleblowingReport(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeFound(w, rep, rep != nil, internal.ErrReportNotFound)
}

func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Service.DeleteWhistleblowingReport(r.Context(), chi.URLParam(r, "id"))
	h.writeDone(w, ok, err, internal.ErrReportNotFound)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListUsers(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeFound(w, u, u != nil, internal.ErrUserNotFound)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var in UserUpdate
	if !h.DecodeJSON(w, r, &in) {
		return
	}
	u, err := h.Service.UpdateUser(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.writeFound(w, u, u != nil, internal.ErrUserNotFound)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Service.DeleteUser(r.Context(), chi.URLParam(r, "id"))
	h.writeDone(w, ok, err, internal.ErrUserNotFound)
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListNotifications(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Service.MarkNotificationRead(r.Context(), chi.URLParam(r, "id"))
	h.writeDone(w, ok, err, internal.ErrNotificationNotFound)
}

func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.MarkAllNotificationsRead(r.Context()); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	ok, err := h.Service.DeleteNotification(r.Context(), chi.URLParam(r, "id"))
	h.writeDone(w, ok, err, internal.ErrNotificationNotFound)
}

func (h *Handler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.AuditTrail(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, items)
}

// Package remote implements grc.DataService against the hosted backend.
//
// Every operation is fail soft: a backend error is logged, counted and
// answered with an empty result. Whistleblowing report submission is the one
// exception and surfaces its error to the caller.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JinxSeven/Risk-360/internal"
	grcDatamodel "github.com/JinxSeven/Risk-360/internal/core/datamodel/grc"
	userDatamodel "github.com/JinxSeven/Risk-360/internal/core/datamodel/user"
	"github.com/JinxSeven/Risk-360/internal/grc"
	"github.com/JinxSeven/Risk-360/internal/obs"
)

// Backend is the row-level access the remote service needs. Get methods
// return nil without error when the row does not exist.
type Backend interface {
	GetCompany(ctx context.Context) (*grcDatamodel.Company, error)
	SaveCompany(ctx context.Context, c *grcDatamodel.Company) error

	ListPolicies(ctx context.Context) ([]grcDatamodel.Policy, error)
	GetPolicy(ctx context.Context, id int64) (*grcDatamodel.Policy, error)
	CreatePolicy(ctx context.Context, p *grcDatamodel.Policy) error
	UpdatePolicy(ctx context.Context, p *grcDatamodel.Policy) error
	DeletePolicy(ctx context.Context, id int64) (bool, error)

	ListRequirements(ctx context.Context) ([]grcDatamodel.ComplianceRequirement, error)
	GetRequirement(ctx context.Context, id int64) (*grcDatamodel.ComplianceRequirement, error)
	CreateRequirement(ctx context.Context, r *grcDatamodel.ComplianceRequirement) error
	UpdateRequirement(ctx context.Context, r *grcDatamodel.ComplianceRequirement) error
	DeleteRequirement(ctx context.Context, id int64) (bool, error)

	ListReports(ctx context.Context) ([]grcDatamodel.WhistleblowingReport, error)
	GetReport(ctx context.Context, id int64) (*grcDatamodel.WhistleblowingReport, error)
	CreateReport(ctx context.Context, r *grcDatamodel.WhistleblowingReport) error
	UpdateReport(ctx context.Context, r *grcDatamodel.WhistleblowingReport, newNotes []string) error
	DeleteReport(ctx context.Context, id int64) (bool, error)

	ListProfiles(ctx context.Context, excludeUserID string) ([]userDatamodel.Profile, error)
	GetProfile(ctx context.Context, userID string) (*userDatamodel.Profile, error)
	CreateProfile(ctx context.Context, account *userDatamodel.AuthUser, p *userDatamodel.Profile) error
	UpdateProfile(ctx context.Context, p *userDatamodel.Profile, email *string) error
	DeleteProfile(ctx context.Context, userID string) (bool, error)

	ListNotifications(ctx context.Context, userID string) ([]grcDatamodel.Notification, error)
	CreateNotification(ctx context.Context, n *grcDatamodel.Notification) error
	MarkNotificationRead(ctx context.Context, id int64) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	DeleteNotification(ctx context.Context, id int64) (bool, error)

	CreateAuditEntry(ctx context.Context, e *grcDatamodel.AuditEntry) error
	ListAuditEntries(ctx context.Context) ([]grcDatamodel.AuditEntry, error)
}

type Service struct {
	backend Backend
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

var _ grc.DataService = (*Service)(nil)

// NewService builds the remote path. timeout bounds every backend call;
// zero means the default from internal.WithTimeout.
func NewService(backend Backend, logger *slog.Logger, timeout time.Duration) *Service {
	return &Service{
		backend: backend,
		logger:  logger,
		timeout: timeout,
		now:     time.Now,
	}
}

func (s *Service) fail(op string, err error, args ...any) {
	obs.RemoteFailures.WithLabelValues(op).Inc()
	s.logger.Error("remote call failed", append([]any{"operation", op, "error", err}, args...)...)
}

func (s *Service) Company(ctx context.Context) (*grc.Company, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.backend.GetCompany(ctx)
	if err != nil {
		s.fail("company.get", err)
		return nil, nil
	}
	if row == nil {
		return nil, nil
	}
	return CompanyFromDataModel(row), nil
}

func (s *Service) UpdateCompany(ctx context.Context, in grc.CompanyUpdate) (*grc.Company, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.backend.GetCompany(ctx)
	if err != nil {
		s.fail("company.update", err)
		return nil, nil
	}
	var c grc.Company
	if row != nil {
		c = *CompanyFromDataModel(row)
	}
	in.Apply(&c)

	out := &grcDatamodel.Company{Name: c.Name, Industry: c.Industry, Location: c.Location, Size: c.Size}
	if row != nil {
		out.ID = row.ID
		out.CreatedAt = row.CreatedAt
	}
	if err := s.backend.SaveCompany(ctx, out); err != nil {
		s.fail("company.update", err)
		return nil, nil
	}
	return CompanyFromDataModel(out), nil
}

func (s *Service) ListPolicies(ctx context.Context) ([]grc.Policy, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.backend.ListPolicies(ctx)
	if err != nil {
		s.fail("policies.list", err)
		return []grc.Policy{}, nil
	}
	out := make([]grc.Policy, 0, len(rows))
	for i := range rows {
		out = append(out, PolicyFromDataModel(&rows[i]))
	}
	return out, nil
}

func (s *Service) GetPolicy(ctx context.Context, id string) (*grc.Policy, error) {
	pid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.backend.GetPolicy(ctx, pid)
	if err != nil {
		s.fail("policies.get", err, "id", id)
		return nil, nil
	}
	if row == nil {
		return nil, nil
	}
	p := PolicyFromDataModel(row)
	return &p, nil
}

func (s *Service) CreatePolicy(ctx context.Context, in grc.NewPolicy) (*grc.Policy, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	p := in.Build("", s.now())
	row := PolicyToDataModel(&p)
	row.CreatedBy = callerRef(ctx)
	if err := s.backend.CreatePolicy(ctx, row); err != nil {
		s.fail("policies.create", err)
		return nil, nil
	}
	out := PolicyFromDataModel(row)
	s.notify(ctx, grc.NewNotification{
		Title:   "New Policy",
		Message: fmt.Sprintf("%s has been created.", out.Title),
		Type:    grc.NotificationPolicy,
	})
	return &out, nil
}

func (s *Service) UpdatePolicy(ctx context.Context, id string, in grc.PolicyUpdate) (*grc.Policy, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	pid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.backend.GetPolicy(ctx, pid)
	if err != nil {
		s.fail("policies.update", err, "id", id)
		return nil, nil
	}
	if row == nil {
		return nil, nil
	}
	p := PolicyFromDataModel(row)
	in.Apply(&p, s.now())

	updated := PolicyToDataModel(&p)
	updated.CreatedBy = row.CreatedBy
	if err := s.backend.UpdatePolicy(ctx, updated); err != nil {
		s.fail("policies.update", err, "id", id)
		return nil, nil
	}
	s.notify(ctx, grc.NewNotification{
		Title:   "Policy Updated",
		Message: fmt.Sprintf("%s has been updated.", p.Title),
		Type:    grc.NotificationPolicy,
	})
	return &p, nil
}

func (s *Service) DeletePolicy(ctx context.Context, id string) (bool, error) {
	pid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.backend.DeletePolicy(ctx, pid)
	if err != nil {
		s.fail("policies.delete", err, "id", id)
		return false, nil
	}
	return deleted, nil
}

func (s *Service) ListComplianceRequirements(ctx context.Context) ([]grc.ComplianceRequirement, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.backend.ListRequirements(ctx)
	if err != nil {
		s.fail("compliance.list", err)
		return []grc.ComplianceRequirement{}, nil
	}
	out := make([]grc.ComplianceRequirement, 0, len(rows))
	for i := range rows {
		out = append(out, RequirementFromDataModel(&rows[i]))
	}
	return out, nil
}

func (s *Service) GetComplianceRequirement(ctx context.Context, id string) (*grc.ComplianceRequirement, error) {
	rid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.backend.GetRequirement(ctx, rid)
	if err != nil {
		s.fail("compliance.get", err, "id", id)
		return nil, nil
	}
	if row == nil {
		return nil, nil
	}
	r := RequirementFromDataModel(row)
	return &r, nil
}

func (s *Service) CreateComplianceRequirement(ctx context.Context, in grc.NewComplianceRequirement) (*grc.ComplianceRequirement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	r := in.Build("", s.now())
	row := RequirementToDataModel(&r)
	row.CreatedBy = callerRef(ctx)
	if err := s.backend.CreateRequirement(ctx, row); err != nil {
		s.fail("compliance.create", err)
		return nil, nil
	}
	out := RequirementFromDataModel(row)
	s.notify(ctx, grc.NewNotification{
		Title:   "New Compliance Requirement",
		Message: fmt.Sprintf("%s has been added.", out.Title),
		Type:    grc.NotificationCompliance,
	})
	return &out, nil
}

func (s *Service) UpdateComplianceRequirement(ctx context.Context, id string, in grc.ComplianceUpdate) (*grc.ComplianceRequirement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	rid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.backend.GetRequirement(ctx, rid)
	if err != nil {
		s.fail("compliance.update", err, "id", id)
		return nil, nil
	}
	if row == nil {
		return nil, nil
	}
	r := RequirementFromDataModel(row)
	statusSupplied := in.Apply(&r, s.now())

	updated := RequirementToDataModel(&r)
	updated.CreatedBy = row.CreatedBy
	if err := s.backend.UpdateRequirement(ctx, updated); err != nil {
		s.fail("compliance.update", err, "id", id)
		return nil, nil
	}
	if statusSupplied {
		s.notify(ctx, grc.NewNotification{
			Title:   "Compliance Status Updated",
			Message: fmt.Sprintf("%s is now %s.", r.Title, r.Status),
			Type:    grc.NotificationCompliance,
		})
	}
	return &r, nil
}

func (s *Service) DeleteComplianceRequirement(ctx context.Context, id string) (bool, error) {
	rid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.backend.DeleteRequirement(ctx, rid)
	if err != nil {
		s.fail("compliance.delete", err, "id", id)
		return false, nil
	}
	return deleted, nil
}

func (s *Service) ListWhistleblowingReports(ctx context.Context) ([]grc.WhistleblowingReport, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.backend.ListReports(ctx)
	if err != nil {
		s.fail("whistleblowing.list", err)
		return []grc.WhistleblowingReport{}, nil
	}
	out := make([]grc.WhistleblowingReport, 0, len(rows))
	for i := range rows {
		out = append(out, ReportFromDataModel(&rows[i]))
	}
	return out, nil
}

func (s *Service) GetWhistleblowingReport(ctx context.Context, id string) (*grc.WhistleblowingReport, error) {
	rid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.backend.GetReport(ctx, rid)
	if err != nil {
		s.fail("whistleblowing.get", err, "id", id)
		return nil, nil
	}
	if row == nil {
		return nil, nil
	}
	r := ReportFromDataModel(row)
	return &r, nil
}

// CreateWhistleblowingReport is fail loud. The submitter is always the
// caller, and is dropped entirely for anonymous reports.
func (s *Service) CreateWhistleblowingReport(ctx context.Context, in grc.NewWhistleblowingReport) (*grc.WhistleblowingReport, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	in.SubmittedBy = callerRef(ctx)
	r := in.Build("", s.now())
	row := ReportToDataModel(&r)
	if err := s.backend.CreateReport(ctx, row); err != nil {
		obs.RemoteFailures.WithLabelValues("whistleblowing.create").Inc()
		s.logger.Error("failed to submit whistleblowing report", "error", err)
		return nil, internal.NewExternalError("Failed to submit whistleblowing report", internal.ErrCodeReportSubmissionFailed, err)
	}
	out := ReportFromDataModel(row)
	s.notify(ctx, grc.NewNotification{
		Title:   "New Whistleblowing Report",
		Message: "A new whistleblowing report has been submitted.",
		Type:    grc.NotificationWhistleblowing,
	})
	return &out, nil
}

func (s *Service) UpdateWhistleblowingReport(ctx context.Context, id string, in grc.ReportUpdate) (*grc.WhistleblowingReport, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	rid, ok := parseID(id)
	if !ok {
		return nil, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.backend.GetReport(ctx, rid)
	if err != nil {
		s.fail("whistleblowing.update", err, "id", id)
		return nil, nil
	}
	if row == nil {
		return nil, nil
	}
	r := ReportFromDataModel(row)
	in.Apply(&r)

	updated := ReportToDataModel(&r)
	updated.CreatedAt = row.CreatedAt
	if err := s.backend.UpdateReport(ctx, updated, in.Notes); err != nil {
		s.fail("whistleblowing.update", err, "id", id)
		return nil, nil
	}
	return &r, nil
}

func (s *Service) DeleteWhistleblowingReport(ctx context.Context, id string) (bool, error) {
	rid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.backend.DeleteReport(ctx, rid)
	if err != nil {
		s.fail("whistleblowing.delete", err, "id", id)
		return false, nil
	}
	return deleted, nil
}

// ListUsers returns every profile except the caller's, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]grc.User, error) {
	caller := internal.UserIDFromContext(ctx)
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.backend.ListProfiles(ctx, caller)
	if err != nil {
		s.fail("users.list", err)
		return []grc.User{}, nil
	}
	out := make([]grc.User, 0, len(rows))
	for i := range rows {
		out = append(out, UserFromDataModel(&rows[i]))
	}
	return out, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*grc.User, error) {
	if id == "" {
		return nil, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.backend.GetProfile(ctx, id)
	if err != nil {
		s.fail("users.get", err, "id", id)
		return nil, nil
	}
	if row == nil {
		return nil, nil
	}
	u := UserFromDataModel(row)
	return &u, nil
}

// CreateUser registers a directory entry without credentials. Accounts that
// can sign in are created through the auth service.
func (s *Service) CreateUser(ctx context.Context, in grc.NewUser) (*grc.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := s.now()
	account := &userDatamodel.AuthUser{ID: uuid.NewString(), Email: in.Email}
	profile := &userDatamodel.Profile{
		UserID:     account.ID,
		Name:       in.Name,
		Role:       string(in.Role),
		Department: in.Department,
		LastLogin:  &now,
	}
	if err := s.backend.CreateProfile(ctx, account, profile); err != nil {
		s.fail("users.create", err)
		return nil, nil
	}
	profile.Account = account
	u := UserFromDataModel(profile)
	return &u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, in grc.UserUpdate) (*grc.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	row, err := s.backend.GetProfile(ctx, id)
	if err != nil {
		s.fail("users.update", err, "id", id)
		return nil, nil
	}
	if row == nil {
		return nil, nil
	}
	u := UserFromDataModel(row)
	in.Apply(&u)

	row.Name = u.Name
	row.Role = string(u.Role)
	row.Department = u.Department
	row.LastLogin = u.LastLogin
	if err := s.backend.UpdateProfile(ctx, row, in.Email); err != nil {
		s.fail("users.update", err, "id", id)
		return nil, nil
	}
	return &u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.backend.DeleteProfile(ctx, id)
	if err != nil {
		s.fail("users.delete", err, "id", id)
		return false, nil
	}
	return deleted, nil
}

// ListNotifications returns the caller's notifications plus broadcast ones, newest first.
func (s *Service) ListNotifications(ctx context.Context) ([]grc.Notification, error) {
	caller := internal.UserIDFromContext(ctx)
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.backend.ListNotifications(ctx, caller)
	if err != nil {
		s.fail("notifications.list", err)
		return []grc.Notification{}, nil
	}
	out := make([]grc.Notification, 0, len(rows))
	for i := range rows {
		out = append(out, NotificationFromDataModel(&rows[i]))
	}
	return out, nil
}

func (s *Service) AddNotification(ctx context.Context, in grc.NewNotification) (*grc.Notification, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := &grcDatamodel.Notification{Title: in.Title, Message: in.Message, Type: string(in.Type)}
	if err := s.backend.CreateNotification(ctx, row); err != nil {
		s.fail("notifications.create", err)
		return nil, nil
	}
	n := NotificationFromDataModel(row)
	return &n, nil
}

// notify is the mutation side effect. Its failure never fails the mutation.
func (s *Service) notify(ctx context.Context, in grc.NewNotification) {
	row := &grcDatamodel.Notification{Title: in.Title, Message: in.Message, Type: string(in.Type)}
	if err := s.backend.CreateNotification(ctx, row); err != nil {
		s.fail("notifications.create", err)
	}
}

func (s *Service) MarkNotificationRead(ctx context.Context, id string) (bool, error) {
	nid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	marked, err := s.backend.MarkNotificationRead(ctx, nid)
	if err != nil {
		s.fail("notifications.read", err, "id", id)
		return false, nil
	}
	return marked, nil
}

func (s *Service) MarkAllNotificationsRead(ctx context.Context) error {
	caller := internal.UserIDFromContext(ctx)
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.backend.MarkAllNotificationsRead(ctx, caller); err != nil {
		s.fail("notifications.read_all", err)
	}
	return nil
}

func (s *Service) DeleteNotification(ctx context.Context, id string) (bool, error) {
	nid, ok := parseID(id)
	if !ok {
		return false, nil
	}
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	deleted, err := s.backend.DeleteNotification(ctx, nid)
	if err != nil {
		s.fail("notifications.delete", err, "id", id)
		return false, nil
	}
	return deleted, nil
}

func (s *Service) AddAuditEntry(ctx context.Context, in grc.NewAuditEntry) (*grc.AuditEntry, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := &grcDatamodel.AuditEntry{
		Action:     in.Action,
		EntityType: string(in.EntityType),
		EntityID:   in.EntityID,
		Details:    in.Details,
	}
	if in.UserID != "" {
		uid := in.UserID
		row.UserID = &uid
	}
	if err := s.backend.CreateAuditEntry(ctx, row); err != nil {
		s.fail("audit.create", err)
		return nil, nil
	}
	e := AuditFromDataModel(row)
	return &e, nil
}

func (s *Service) AuditTrail(ctx context.Context) ([]grc.AuditEntry, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.backend.ListAuditEntries(ctx)
	if err != nil {
		s.fail("audit.list", err)
		return []grc.AuditEntry{}, nil
	}
	out := make([]grc.AuditEntry, 0, len(rows))
	for i := range rows {
		out = append(out, AuditFromDataModel(&rows[i]))
	}
	return out, nil
}

func callerRef(ctx context.Context) *string {
	if id := internal.UserIDFromContext(ctx); id != "" {
		return &id
	}
	return nil
}

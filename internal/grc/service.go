package grc

import (
	"context"
	"log/slog"
)

// DataService is the read/write surface consumed by handlers and jobs.
//
// Get and Update return a nil record when the id is absent; Delete returns
// false. List methods always return a non-nil slice.
type DataService interface {
	Company(ctx context.Context) (*Company, error)
	UpdateCompany(ctx context.Context, in CompanyUpdate) (*Company, error)

	ListPolicies(ctx context.Context) ([]Policy, error)
	GetPolicy(ctx context.Context, id string) (*Policy, error)
	CreatePolicy(ctx context.Context, in NewPolicy) (*Policy, error)
	UpdatePolicy(ctx context.Context, id string, in PolicyUpdate) (*Policy, error)
	DeletePolicy(ctx context.Context, id string) (bool, error)

	ListComplianceRequirements(ctx context.Context) ([]ComplianceRequirement, error)
	GetComplianceRequirement(ctx context.Context, id string) (*ComplianceRequirement, error)
	CreateComplianceRequirement(ctx context.Context, in NewComplianceRequirement) (*ComplianceRequirement, error)
	UpdateComplianceRequirement(ctx context.Context, id string, in ComplianceUpdate) (*ComplianceRequirement, error)
	DeleteComplianceRequirement(ctx context.Context, id string) (bool, error)

	ListWhistleblowingReports(ctx context.Context) ([]WhistleblowingReport, error)
	GetWhistleblowingReport(ctx context.Context, id string) (*WhistleblowingReport, error)
	CreateWhistleblowingReport(ctx context.Context, in NewWhistleblowingReport) (*WhistleblowingReport, error)
	UpdateWhistleblowingReport(ctx context.Context, id string, in ReportUpdate) (*WhistleblowingReport, error)
	DeleteWhistleblowingReport(ctx context.Context, id string) (bool, error)

	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	CreateUser(ctx context.Context, in NewUser) (*User, error)
	UpdateUser(ctx context.Context, id string, in UserUpdate) (*User, error)
	DeleteUser(ctx context.Context, id string) (bool, error)

	ListNotifications(ctx context.Context) ([]Notification, error)
	AddNotification(ctx context.Context, in NewNotification) (*Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (bool, error)
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) (bool, error)

	AddAuditEntry(ctx context.Context, in NewAuditEntry) (*AuditEntry, error)
	AuditTrail(ctx context.Context) ([]AuditEntry, error)
}

// Prober is the subset of the connectivity probe that path selection needs.
type Prober interface {
	IsConnected(ctx context.Context) bool
}

type Mode string

const (
	ModeRemote Mode = "remote"
	ModeDemo   Mode = "demo"
)

// Selection is the data path chosen at startup. It also satisfies Prober with
// a fixed answer, so components that gate access to the selected service,
// such as the auth helper, follow the same path instead of re-probing.
type Selection struct {
	Service DataService
	Mode    Mode
}

func (s Selection) IsConnected(context.Context) bool {
	return s.Mode == ModeRemote
}

// SelectPath picks the remote path when the backend is reachable and the
// local one otherwise. It is called once at startup; callers keep the result.
func SelectPath(ctx context.Context, probe Prober, remote, local DataService, logger *slog.Logger) Selection {
	sel := Selection{Service: local, Mode: ModeDemo}
	if remote != nil && probe != nil && probe.IsConnected(ctx) {
		sel = Selection{Service: remote, Mode: ModeRemote}
	}
	logger.Info("data service selected", "mode", sel.Mode)
	return sel
}

func Select(ctx context.Context, probe Prober, remote, local DataService, logger *slog.Logger) DataService {
	return SelectPath(ctx, probe, remote, local, logger).Service
}

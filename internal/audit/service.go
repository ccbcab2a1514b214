// Package audit records an append-only trail of entity mutations.
//
// Service decorates a grc.DataService and publishes an EntityChangedEvent
// after each successful mutation; Recorder subscribes to those events and
// writes the AuditEntry.
package audit

import (
	"context"
	"log/slog"

	"github.com/JinxSeven/Risk-360/internal"
	"github.com/JinxSeven/Risk-360/internal/core/events"
	"github.com/JinxSeven/Risk-360/internal/grc"
)

type Service struct {
	grc.DataService
	bus    *events.EventBus
	logger *slog.Logger
}

var _ grc.DataService = (*Service)(nil)

func NewService(inner grc.DataService, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{DataService: inner, bus: bus, logger: logger}
}

// publish runs the subscribers before the mutation returns. A failed audit
// write is logged; the mutation itself already happened.
func (s *Service) publish(ctx context.Context, action string, entityType grc.EntityType, id string, before, after interface{}) {
	ev := events.NewEntityChangedEvent(action, string(entityType), id, internal.UserIDFromContext(ctx), before, after)
	if err := s.bus.PublishSync(ctx, ev); err != nil {
		s.logger.Error("failed to record audit entry",
			"entity_type", entityType,
			"entity_id", id,
			"action", action,
			"error", err)
	}
}

func (s *Service) UpdateCompany(ctx context.Context, in grc.CompanyUpdate) (*grc.Company, error) {
	before, err := s.DataService.Company(ctx)
	if err != nil {
		return nil, err
	}
	after, err := s.DataService.UpdateCompany(ctx, in)
	if err != nil || after == nil {
		return after, err
	}
	action := events.ActionUpdated
	if before == nil {
		action = events.ActionCreated
	}
	s.publish(ctx, action, grc.EntityCompany, after.ID, before, after)
	return after, nil
}

func (s *Service) CreatePolicy(ctx context.Context, in grc.NewPolicy) (*grc.Policy, error) {
	p, err := s.DataService.CreatePolicy(ctx, in)
	if err != nil || p == nil {
		return p, err
	}
	s.publish(ctx, events.ActionCreated, grc.EntityPolicy, p.ID, nil, p)
	return p, nil
}

func (s *Service) UpdatePolicy(ctx context.Context, id string, in grc.PolicyUpdate) (*grc.Policy, error) {
	before, err := s.DataService.GetPolicy(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.DataService.UpdatePolicy(ctx, id, in)
	if err != nil || p == nil {
		return p, err
	}
	s.publish(ctx, events.ActionUpdated, grc.EntityPolicy, id, before, p)
	return p, nil
}

func (s *Service) DeletePolicy(ctx context.Context, id string) (bool, error) {
	before, err := s.DataService.GetPolicy(ctx, id)
	if err != nil {
		return false, err
	}
	deleted, err := s.DataService.DeletePolicy(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	s.publish(ctx, events.ActionDeleted, grc.EntityPolicy, id, before, nil)
	return true, nil
}

func (s *Service) CreateComplianceRequirement(ctx context.Context, in grc.NewComplianceRequirement) (*grc.ComplianceRequirement, error) {
	r, err := s.DataService.CreateComplianceRequirement(ctx, in)
	if err != nil || r == nil {
		return r, err
	}
	s.publish(ctx, events.ActionCreated, grc.EntityCompliance, r.ID, nil, r)
	return r, nil
}

func (s *Service) UpdateComplianceRequirement(ctx context.Context, id string, in grc.ComplianceUpdate) (*grc.ComplianceRequirement, error) {
	before, err := s.DataService.GetComplianceRequirement(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := s.DataService.UpdateComplianceRequirement(ctx, id, in)
	if err != nil || r == nil {
		return r, err
	}
	s.publish(ctx, events.ActionUpdated, grc.EntityCompliance, id, before, r)
	return r, nil
}

func (s *Service) DeleteComplianceRequirement(ctx context.Context, id string) (bool, error) {
	before, err := s.DataService.GetComplianceRequirement(ctx, id)
	if err != nil {
		return false, err
	}
	deleted, err := s.DataService.DeleteComplianceRequirement(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	s.publish(ctx, events.ActionDeleted, grc.EntityCompliance, id, before, nil)
	return true, nil
}

// CreateWhistleblowingReport audits without a user id when the report is anonymous.
func (s *Service) CreateWhistleblowingReport(ctx context.Context, in grc.NewWhistleblowingReport) (*grc.WhistleblowingReport, error) {
	r, err := s.DataService.CreateWhistleblowingReport(ctx, in)
	if err != nil || r == nil {
		return r, err
	}
	pubCtx := ctx
	if r.IsAnonymous {
		pubCtx = internal.ContextWithUserID(ctx, "")
	}
	s.publish(pubCtx, events.ActionCreated, grc.EntityWhistleblowing, r.ID, nil, r)
	return r, nil
}

func (s *Service) UpdateWhistleblowingReport(ctx context.Context, id string, in grc.ReportUpdate) (*grc.WhistleblowingReport, error) {
	before, err := s.DataService.GetWhistleblowingReport(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := s.DataService.UpdateWhistleblowingReport(ctx, id, in)
	if err != nil || r == nil {
		return r, err
	}
	s.publish(ctx, events.ActionUpdated, grc.EntityWhistleblowing, id, before, r)
	return r, nil
}

func (s *Service) DeleteWhistleblowingReport(ctx context.Context, id string) (bool, error) {
	before, err := s.DataService.GetWhistleblowingReport(ctx, id)
	if err != nil {
		return false, err
	}
	deleted, err := s.DataService.DeleteWhistleblowingReport(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	s.publish(ctx, events.ActionDeleted, grc.EntityWhistleblowing, id, before, nil)
	return true, nil
}

func (s *Service) CreateUser(ctx context.Context, in grc.NewUser) (*grc.User, error) {
	u, err := s.DataService.CreateUser(ctx, in)
	if err != nil || u == nil {
		return u, err
	}
	s.publish(ctx, events.ActionCreated, grc.EntityUser, u.ID, nil, u)
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, in grc.UserUpdate) (*grc.User, error) {
	before, err := s.DataService.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u, err := s.DataService.UpdateUser(ctx, id, in)
	if err != nil || u == nil {
		return u, err
	}
	s.publish(ctx, events.ActionUpdated, grc.EntityUser, id, before, u)
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) (bool, error) {
	before, err := s.DataService.GetUser(ctx, id)
	if err != nil {
		return false, err
	}
	deleted, err := s.DataService.DeleteUser(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	s.publish(ctx, events.ActionDeleted, grc.EntityUser, id, before, nil)
	return true, nil
}

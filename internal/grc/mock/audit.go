package mock

import (
	"context"

	"github.com/JinxSeven/Risk-360/internal/grc"
)

func (s *Service) AddAuditEntry(ctx context.Context, in grc.NewAuditEntry) (*grc.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := auditTrail.list(ctx, s.store)
	if err != nil {
		return nil, err
	}
	e := in.Build(s.nextID(auditTrail.taken(items)), s.now())
	if err := auditTrail.save(ctx, s.store, append(items, e)); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Service) AuditTrail(ctx context.Context) ([]grc.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return auditTrail.list(ctx, s.store)
}

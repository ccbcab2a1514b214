package mock

import (
	"context"
	"fmt"

	"github.com/JinxSeven/Risk-360/internal/grc"
)

func (s *Service) ListComplianceRequirements(ctx context.Context) ([]grc.ComplianceRequirement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return requirements.list(ctx, s.store)
}

func (s *Service) GetComplianceRequirement(ctx context.Context, id string) (*grc.ComplianceRequirement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return requirements.get(ctx, s.store, id)
}

func (s *Service) CreateComplianceRequirement(ctx context.Context, in grc.NewComplianceRequirement) (*grc.ComplianceRequirement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := requirements.list(ctx, s.store)
	if err != nil {
		return nil, err
	}
	r := in.Build(s.nextID(requirements.taken(items)), s.now())
	if err := requirements.save(ctx, s.store, append(items, r)); err != nil {
		s.logger.Error("failed to save compliance requirement", "error", err)
		return nil, err
	}

	s.announceLocked(ctx, grc.NewNotification{
		Title:   "New Compliance Requirement",
		Message: fmt.Sprintf("%s has been added.", r.Title),
		Type:    grc.NotificationCompliance,
	})
	return &r, nil
}

// UpdateComplianceRequirement emits a notification whenever the update
// carries a status, changed or not.
func (s *Service) UpdateComplianceRequirement(ctx context.Context, id string, in grc.ComplianceUpdate) (*grc.ComplianceRequirement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := requirements.list(ctx, s.store)
	if err != nil {
		return nil, err
	}
	i := requirements.indexOf(items, id)
	if i < 0 {
		return nil, nil
	}
	statusSupplied := in.Apply(&items[i], s.now())
	if err := requirements.save(ctx, s.store, items); err != nil {
		s.logger.Error("failed to save compliance requirement", "error", err, "id", id)
		return nil, err
	}
	r := items[i]

	if statusSupplied {
		s.announceLocked(ctx, grc.NewNotification{
			Title:   "Compliance Status Updated",
			Message: fmt.Sprintf("%s is now %s.", r.Title, r.Status),
			Type:    grc.NotificationCompliance,
		})
	}
	return &r, nil
}

func (s *Service) DeleteComplianceRequirement(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return requirements.remove(ctx, s.store, id)
}

package mock

import (
	"context"
	"fmt"

	"github.com/JinxSeven/Risk-360/internal/grc"
)

func (s *Service) ListPolicies(ctx context.Context) ([]grc.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return policies.list(ctx, s.store)
}

func (s *Service) GetPolicy(ctx context.Context, id string) (*grc.Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return policies.get(ctx, s.store, id)
}

func (s *Service) CreatePolicy(ctx context.Context, in grc.NewPolicy) (*grc.Policy, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := policies.list(ctx, s.store)
	if err != nil {
		return nil, err
	}
	p := in.Build(s.nextID(policies.taken(items)), s.now())
	if err := policies.save(ctx, s.store, append(items, p)); err != nil {
		s.logger.Error("failed to save policy", "error", err)
		return nil, err
	}

	s.announceLocked(ctx, grc.NewNotification{
		Title:   "New Policy",
		Message: fmt.Sprintf("%s has been created.", p.Title),
		Type:    grc.NotificationPolicy,
	})

	s.logger.Info("policy created", "id", p.ID)
	return &p, nil
}

// UpdatePolicy notifies on every successful update, not only status changes.
func (s *Service) UpdatePolicy(ctx context.Context, id string, in grc.PolicyUpdate) (*grc.Policy, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := policies.list(ctx, s.store)
	if err != nil {
		return nil, err
	}
	i := policies.indexOf(items, id)
	if i < 0 {
		return nil, nil
	}
	in.Apply(&items[i], s.now())
	if err := policies.save(ctx, s.store, items); err != nil {
		s.logger.Error("failed to save policy", "error", err, "id", id)
		return nil, err
	}
	p := items[i]

	s.announceLocked(ctx, grc.NewNotification{
		Title:   "Policy Updated",
		Message: fmt.Sprintf("%s has been updated.", p.Title),
		Type:    grc.NotificationPolicy,
	})
	return &p, nil
}

func (s *Service) DeletePolicy(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return policies.remove(ctx, s.store, id)
}

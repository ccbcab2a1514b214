package mock

import (
	"context"

	"github.com/JinxSeven/Risk-360/internal/grc"
)

// ListNotifications returns newest first; creation prepends.
func (s *Service) ListNotifications(ctx context.Context) ([]grc.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return notifications.list(ctx, s.store)
}

func (s *Service) AddNotification(ctx context.Context, in grc.NewNotification) (*grc.Notification, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifyLocked(ctx, in)
}

func (s *Service) MarkNotificationRead(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := notifications.list(ctx, s.store)
	if err != nil {
		return false, err
	}
	i := notifications.indexOf(items, id)
	if i < 0 {
		return false, nil
	}
	items[i].Read = true
	if err := notifications.save(ctx, s.store, items); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) MarkAllNotificationsRead(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := notifications.list(ctx, s.store)
	if err != nil {
		return err
	}
	for i := range items {
		items[i].Read = true
	}
	return notifications.save(ctx, s.store, items)
}

func (s *Service) DeleteNotification(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return notifications.remove(ctx, s.store, id)
}

package mock

import (
	"context"

	"github.com/JinxSeven/Risk-360/internal/grc"
	"github.com/JinxSeven/Risk-360/internal/store"
)

// Login is the demo sign-in: the e-mail is matched case-insensitively
// against the stored users, lastLogin is refreshed and the role is cached
// under the userRole key. It returns nil when no user matches.
func (s *Service) Login(ctx context.Context, email string) (*grc.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := users.list(ctx, s.store)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if !sameEmail(items[i].Email, email) {
			continue
		}
		now := s.now()
		items[i].LastLogin = &now
		if err := users.save(ctx, s.store, items); err != nil {
			return nil, err
		}
		if err := store.WriteString(ctx, s.store, store.KeyUserRole, string(items[i].Role)); err != nil {
			return nil, err
		}
		u := items[i]
		s.logger.Info("demo login", "user_id", u.ID, "role", u.Role)
		return &u, nil
	}
	return nil, nil
}

// Logout forgets the cached role.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.Delete(ctx, store.KeyUserRole)
}

// CurrentRole returns the cached role, if any.
func (s *Service) CurrentRole(ctx context.Context) (grc.Role, bool, error) {
	raw, ok, err := store.ReadString(ctx, s.store, store.KeyUserRole)
	if err != nil || !ok {
		return "", false, err
	}
	role, err := grc.ParseRole(raw)
	if err != nil {
		return "", false, nil
	}
	return role, true, nil
}

// RememberRole overwrites the cached role.
func (s *Service) RememberRole(ctx context.Context, role grc.Role) error {
	return store.WriteString(ctx, s.store, store.KeyUserRole, string(role))
}

package mock

import (
	"context"

	"github.com/JinxSeven/Risk-360/internal/grc"
	"golang.org/x/text/cases"
)

func (s *Service) ListUsers(ctx context.Context) ([]grc.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return users.list(ctx, s.store)
}

func (s *Service) GetUser(ctx context.Context, id string) (*grc.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return users.get(ctx, s.store, id)
}

// CreateUser stamps lastLogin with the creation time.
func (s *Service) CreateUser(ctx context.Context, in grc.NewUser) (*grc.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := users.list(ctx, s.store)
	if err != nil {
		return nil, err
	}
	u := in.Build(s.nextID(users.taken(items)), s.now())
	if err := users.save(ctx, s.store, append(items, u)); err != nil {
		s.logger.Error("failed to save user", "error", err)
		return nil, err
	}
	return &u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, in grc.UserUpdate) (*grc.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := users.list(ctx, s.store)
	if err != nil {
		return nil, err
	}
	i := users.indexOf(items, id)
	if i < 0 {
		return nil, nil
	}
	in.Apply(&items[i])
	if err := users.save(ctx, s.store, items); err != nil {
		s.logger.Error("failed to save user", "error", err, "id", id)
		return nil, err
	}
	u := items[i]
	return &u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return users.remove(ctx, s.store, id)
}

var emailFolder = cases.Fold()

func sameEmail(a, b string) bool {
	return emailFolder.String(a) == emailFolder.String(b)
}

// Package mock implements grc.DataService over the local key-value store.
// It is the demo path used whenever the hosted backend is unreachable.
package mock

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/JinxSeven/Risk-360/internal/grc"
	"github.com/JinxSeven/Risk-360/internal/store"
)

type Option func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMaxNotifications keeps only the newest n notifications. Zero disables the cap.
func WithMaxNotifications(n int) Option {
	return func(s *Service) { s.maxNotifications = n }
}

// Service is the local DataService. A single mutex serialises every
// read-modify-write cycle in this process; other processes sharing the same
// store still race at key granularity.
type Service struct {
	store            store.Store
	logger           *slog.Logger
	now              func() time.Time
	maxNotifications int

	mu     sync.Mutex
	lastID int64
}

var _ grc.DataService = (*Service)(nil)

func NewService(s store.Store, logger *slog.Logger, opts ...Option) *Service {
	svc := &Service{
		store:  s,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// nextID hands out decimal millisecond stamps, strictly increasing within
// this process and skipping any id the collection already holds.
func (s *Service) nextID(taken func(string) bool) string {
	n := s.now().UnixMilli()
	if n <= s.lastID {
		n = s.lastID + 1
	}
	for taken(strconv.FormatInt(n, 10)) {
		n++
	}
	s.lastID = n
	return strconv.FormatInt(n, 10)
}

// collection bundles the store key and id accessor for one entity type.
type collection[T any] struct {
	key string
	id  func(*T) string
}

var (
	policies      = collection[grc.Policy]{key: store.KeyPolicies, id: func(p *grc.Policy) string { return p.ID }}
	requirements  = collection[grc.ComplianceRequirement]{key: store.KeyComplianceRequirements, id: func(r *grc.ComplianceRequirement) string { return r.ID }}
	reports       = collection[grc.WhistleblowingReport]{key: store.KeyWhistleblowingReports, id: func(r *grc.WhistleblowingReport) string { return r.ID }}
	users         = collection[grc.User]{key: store.KeyUsers, id: func(u *grc.User) string { return u.ID }}
	notifications = collection[grc.Notification]{key: store.KeyNotifications, id: func(n *grc.Notification) string { return n.ID }}
	auditTrail    = collection[grc.AuditEntry]{key: store.KeyAuditTrail, id: func(a *grc.AuditEntry) string { return a.ID }}
)

func (c collection[T]) list(ctx context.Context, s store.Store) ([]T, error) {
	return store.Read[T](ctx, s, c.key)
}

func (c collection[T]) save(ctx context.Context, s store.Store, items []T) error {
	return store.Write(ctx, s, c.key, items)
}

func (c collection[T]) indexOf(items []T, id string) int {
	for i := range items {
		if c.id(&items[i]) == id {
			return i
		}
	}
	return -1
}

func (c collection[T]) taken(items []T) func(string) bool {
	return func(id string) bool { return c.indexOf(items, id) >= 0 }
}

func (c collection[T]) get(ctx context.Context, s store.Store, id string) (*T, error) {
	items, err := c.list(ctx, s)
	if err != nil {
		return nil, err
	}
	if i := c.indexOf(items, id); i >= 0 {
		item := items[i]
		return &item, nil
	}
	return nil, nil
}

// remove writes only when the id was present.
func (c collection[T]) remove(ctx context.Context, s store.Store, id string) (bool, error) {
	items, err := c.list(ctx, s)
	if err != nil {
		return false, err
	}
	kept := make([]T, 0, len(items))
	for i := range items {
		if c.id(&items[i]) != id {
			kept = append(kept, items[i])
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	if err := c.save(ctx, s, kept); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Company(ctx context.Context) (*grc.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.ReadObject[grc.Company](ctx, s.store, store.KeyCompany)
}

// UpdateCompany merges onto the stored profile, creating it on first use.
func (s *Service) UpdateCompany(ctx context.Context, in grc.CompanyUpdate) (*grc.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := store.ReadObject[grc.Company](ctx, s.store, store.KeyCompany)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &grc.Company{ID: s.nextID(func(string) bool { return false }), CreatedAt: s.now()}
	}
	in.Apply(c)
	if err := store.WriteObject(ctx, s.store, store.KeyCompany, *c); err != nil {
		s.logger.Error("failed to save company", "error", err)
		return nil, err
	}
	return c, nil
}

// announceLocked records the notification that follows a committed entity
// write. A failure is logged and swallowed so the caller still gets the saved
// record and a retry cannot duplicate it. Callers hold s.mu.
func (s *Service) announceLocked(ctx context.Context, in grc.NewNotification) {
	if _, err := s.notifyLocked(ctx, in); err != nil {
		s.logger.Error("failed to add notification", "error", err, "title", in.Title)
	}
}

// notifyLocked prepends a notification; callers hold s.mu.
func (s *Service) notifyLocked(ctx context.Context, in grc.NewNotification) (*grc.Notification, error) {
	items, err := notifications.list(ctx, s.store)
	if err != nil {
		return nil, err
	}
	n := in.Build(s.nextID(notifications.taken(items)), s.now())
	items = append([]grc.Notification{n}, items...)
	if s.maxNotifications > 0 && len(items) > s.maxNotifications {
		items = items[:s.maxNotifications]
	}
	if err := notifications.save(ctx, s.store, items); err != nil {
		return nil, fmt.Errorf("save notification: %w", err)
	}
	return &n, nil
}

// Package store is the local key-value persistence used in demo mode. Each
// key holds one JSON document: an array for collections, an object for the
// company singleton, a bare string for the cached role.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

const (
	KeyCompany                = "company"
	KeyPolicies               = "policies"
	KeyComplianceRequirements = "complianceRequirements"
	KeyWhistleblowingReports  = "whistleblowingReports"
	KeyUsers                  = "users"
	KeyNotifications          = "notifications"
	KeyAuditTrail             = "auditTrail"
	KeyUserRole               = "userRole"
)

// Store is a flat string slot per key. Writers are not coordinated: the last
// Set on a key wins.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Read decodes the collection under key. A missing key is an empty slice.
func Read[T any](ctx context.Context, s Store, key string) ([]T, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	out := []T{}
	if !ok || raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Write replaces the whole collection under key.
func Write[T any](ctx context.Context, s Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// ReadObject decodes a single document. It returns nil when the key is missing.
func ReadObject[T any](ctx context.Context, s Store, key string) (*T, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", key, err)
	}
	return &out, nil
}

func WriteObject[T any](ctx context.Context, s Store, key string, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// ReadString returns a raw slot such as userRole. A missing or empty slot
// reports false.
func ReadString(ctx context.Context, s Store, key string) (string, bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("store: read %s: %w", key, err)
	}
	return raw, ok && raw != "", nil
}

func WriteString(ctx context.Context, s Store, key, value string) error {
	if err := s.Set(ctx, key, value); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// Memory is an in-process Store. It also counts writes, which tests use to
// check that no-op mutations do not touch the store.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	writes int
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.writes++
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.writes++
	return nil
}

// Writes returns the number of Set and Delete calls so far.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

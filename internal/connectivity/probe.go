// Package connectivity decides whether the hosted backend can be used.
package connectivity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/JinxSeven/Risk-360/internal/obs"
)

const DefaultTimeout = 2 * time.Second

type Probe interface {
	IsConnected(ctx context.Context) bool
}

// Pinger is satisfied by *sql.DB and *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// DBProbe pings the backend database on every call.
type DBProbe struct {
	db         Pinger
	configured bool
	timeout    time.Duration
	logger     *slog.Logger
}

// NewDBProbe builds a probe. configured is false when no DSN was supplied, in
// which case the probe never touches db.
func NewDBProbe(db Pinger, configured bool, timeout time.Duration, logger *slog.Logger) *DBProbe {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &DBProbe{db: db, configured: configured, timeout: timeout, logger: logger}
}

func (p *DBProbe) IsConnected(ctx context.Context) bool {
	ok := p.check(ctx)
	obs.SetConnected(ok)
	return ok
}

func (p *DBProbe) check(ctx context.Context) bool {
	if !p.configured || p.db == nil {
		p.logger.Debug("backend not configured, using demo mode")
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.db.PingContext(ctx); err != nil {
		p.logger.Warn("backend unreachable, using demo mode", "error", err)
		return false
	}
	return true
}

// Cached holds a probe result for ttl. It trades freshness for fewer pings
// on hot paths such as role resolution.
type Cached struct {
	probe Probe
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	checked time.Time
	result  bool
}

func NewCached(probe Probe, ttl time.Duration) *Cached {
	return &Cached{probe: probe, ttl: ttl, now: time.Now}
}

func (c *Cached) IsConnected(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.checked.IsZero() && c.now().Sub(c.checked) < c.ttl {
		return c.result
	}
	c.result = c.probe.IsConnected(ctx)
	c.checked = c.now()
	return c.result
}

// Static always reports the same answer.
type Static bool

func (s Static) IsConnected(context.Context) bool { return bool(s) }

// Wrap applies the cache when ttl is positive.
func Wrap(probe Probe, ttl time.Duration) Probe {
	if ttl <= 0 {
		return probe
	}
	return NewCached(probe, ttl)
}

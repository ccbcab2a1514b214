package grc

import (
	"context"
	"log/slog"
	"time"
)

// EscalateOverdue stores Overdue on every Pending requirement whose deadline
// is before now. Each change goes through UpdateComplianceRequirement so the
// usual notification is emitted. It returns how many requirements moved.
func EscalateOverdue(ctx context.Context, svc DataService, now time.Time, logger *slog.Logger) (int, error) {
	reqs, err := svc.ListComplianceRequirements(ctx)
	if err != nil {
		return 0, err
	}

	overdue := ComplianceOverdue
	moved := 0
	for _, r := range reqs {
		if r.Status != CompliancePending || !r.Deadline.Before(now) {
			continue
		}
		updated, err := svc.UpdateComplianceRequirement(ctx, r.ID, ComplianceUpdate{Status: &overdue})
		if err != nil {
			return moved, err
		}
		if updated == nil {
			logger.Warn("overdue requirement vanished before update", "requirement_id", r.ID)
			continue
		}
		logger.Info("requirement marked overdue", "requirement_id", r.ID, "deadline", r.Deadline)
		moved++
	}
	return moved, nil
}

// OverdueWorker runs EscalateOverdue on a fixed interval.
type OverdueWorker struct {
	svc      DataService
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewOverdueWorker(svc DataService, interval time.Duration, logger *slog.Logger) *OverdueWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &OverdueWorker{svc: svc, interval: interval, logger: logger, now: time.Now}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (w *OverdueWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.sweep(ctx)
		select {
		case <-ctx.Done():
			w.logger.Info("overdue worker stopped")
			return
		case <-ticker.C:
		}
	}
}

func (w *OverdueWorker) sweep(ctx context.Context) {
	moved, err := EscalateOverdue(ctx, w.svc, w.now(), w.logger)
	if err != nil {
		w.logger.Error("overdue sweep failed", "error", err, "moved", moved)
		return
	}
	w.logger.Debug("overdue sweep finished", "moved", moved)
}

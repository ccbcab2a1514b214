package mock

import (
	"context"

	"github.com/JinxSeven/Risk-360/internal/grc"
)

func (s *Service) ListWhistleblowingReports(ctx context.Context) ([]grc.WhistleblowingReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reports.list(ctx, s.store)
}

func (s *Service) GetWhistleblowingReport(ctx context.Context, id string) (*grc.WhistleblowingReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reports.get(ctx, s.store, id)
}

func (s *Service) CreateWhistleblowingReport(ctx context.Context, in grc.NewWhistleblowingReport) (*grc.WhistleblowingReport, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := reports.list(ctx, s.store)
	if err != nil {
		return nil, err
	}
	r := in.Build(s.nextID(reports.taken(items)), s.now())
	if err := reports.save(ctx, s.store, append(items, r)); err != nil {
		s.logger.Error("failed to save whistleblowing report", "error", err)
		return nil, err
	}

	s.announceLocked(ctx, grc.NewNotification{
		Title:   "New Whistleblowing Report",
		Message: "A new whistleblowing report has been submitted.",
		Type:    grc.NotificationWhistleblowing,
	})
	return &r, nil
}

func (s *Service) UpdateWhistleblowingReport(ctx context.Context, id string, in grc.ReportUpdate) (*grc.WhistleblowingReport, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := reports.list(ctx, s.store)
	if err != nil {
		return nil, err
	}
	i := reports.indexOf(items, id)
	if i < 0 {
		return nil, nil
	}
	in.Apply(&items[i])
	if err := reports.save(ctx, s.store, items); err != nil {
		s.logger.Error("failed to save whistleblowing report", "error", err, "id", id)
		return nil, err
	}
	r := items[i]
	return &r, nil
}

func (s *Service) DeleteWhistleblowingReport(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reports.remove(ctx, s.store, id)
}

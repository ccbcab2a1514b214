package grc_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/JinxSeven/Risk-360/internal/grc"
	"github.com/JinxSeven/Risk-360/internal/grc/mock"
	"github.com/JinxSeven/Risk-360/internal/store"
)

var _ = Describe("EscalateOverdue", func() {
	var (
		ctx     context.Context
		service *mock.Service
		logger  *slog.Logger
		now     time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = mock.NewService(store.NewMemory(), logger)
		now = day(2025, time.March, 1)
	})

	create := func(title string, status grc.ComplianceStatus, deadline time.Time) string {
		r, err := service.CreateComplianceRequirement(ctx, grc.NewComplianceRequirement{
			Title: title, Status: status, Priority: grc.PriorityMedium, Deadline: deadline,
		})
		Expect(err).NotTo(HaveOccurred())
		return r.ID
	}

	It("stores Overdue only on pending requirements past their deadline", func() {
		late := create("late", grc.CompliancePending, day(2025, time.February, 1))
		future := create("future", grc.CompliancePending, day(2025, time.April, 1))
		done := create("done", grc.ComplianceCompleted, day(2025, time.January, 1))

		moved, err := grc.EscalateOverdue(ctx, service, now, logger)
		Expect(err).NotTo(HaveOccurred())
		Expect(moved).To(Equal(1))

		for id, want := range map[string]grc.ComplianceStatus{
			late:   grc.ComplianceOverdue,
			future: grc.CompliancePending,
			done:   grc.ComplianceCompleted,
		} {
			r, err := service.GetComplianceRequirement(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Status).To(Equal(want))
		}
	})

	It("is a no-op on the second sweep", func() {
		create("late", grc.CompliancePending, day(2025, time.February, 1))
		_, err := grc.EscalateOverdue(ctx, service, now, logger)
		Expect(err).NotTo(HaveOccurred())

		moved, err := grc.EscalateOverdue(ctx, service, now, logger)
		Expect(err).NotTo(HaveOccurred())
		Expect(moved).To(BeZero())
	})

	It("notifies about the status change", func() {
		create("late", grc.CompliancePending, day(2025, time.February, 1))
		before, err := service.ListNotifications(ctx)
		Expect(err).NotTo(HaveOccurred())

		_, err = grc.EscalateOverdue(ctx, service, now, logger)
		Expect(err).NotTo(HaveOccurred())

		after, err := service.ListNotifications(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(after).To(HaveLen(len(before) + 1))
	})
})

var _ = Describe("OverdueWorker", func() {
	It("sweeps once at start and stops with its context", func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := mock.NewService(store.NewMemory(), logger)
		_, err := service.CreateComplianceRequirement(context.Background(), grc.NewComplianceRequirement{
			Title: "late", Status: grc.CompliancePending, Priority: grc.PriorityHigh,
			Deadline: time.Now().Add(-time.Hour),
		})
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			grc.NewOverdueWorker(service, time.Hour, logger).Run(ctx)
			close(done)
		}()

		Eventually(func() grc.ComplianceStatus {
			reqs, _ := service.ListComplianceRequirements(context.Background())
			return reqs[0].Status
		}).Should(Equal(grc.ComplianceOverdue))

		cancel()
		Eventually(done).Should(BeClosed())
	})
})

package grc_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/JinxSeven/Risk-360/internal/grc"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestGRC(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "GRC Model Suite")
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("Entity model", func() {
	Describe("SplitAssignees", func() {
		It("trims and drops empty entries while keeping order", func() {
			Expect(grc.SplitAssignees(" Ana, ,Bo,, Cy ")).To(Equal([]string{"Ana", "Bo", "Cy"}))
		})

		It("returns an empty, non-nil list for blank input", func() {
			out := grc.SplitAssignees("  ")
			Expect(out).NotTo(BeNil())
			Expect(out).To(BeEmpty())
		})
	})

	Describe("enumerations", func() {
		It("parses the literal values", func() {
			s, err := grc.ParseComplianceStatus("Overdue")
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal(grc.ComplianceOverdue))

			r, err := grc.ParseRole("employee")
			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(Equal(grc.RoleEmployee))
		})

		It("rejects unknown and differently cased values", func() {
			_, err := grc.ParsePolicyStatus("draft")
			Expect(err).To(HaveOccurred())
			_, err = grc.ParsePriority("Critical")
			Expect(err).To(HaveOccurred())
		})

		It("fails JSON decoding of an unknown literal", func() {
			var p grc.Policy
			err := json.Unmarshal([]byte(`{"title":"x","status":"Published"}`), &p)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("updates", func() {
		It("leaves unspecified fields untouched", func() {
			now := day(2024, 5, 1)
			p := grc.Policy{ID: "1", Title: "t", Description: "d", Category: "c", Content: "x", Status: grc.PolicyDraft, AssignedTo: []string{"a"}, CreatedAt: now, LastUpdated: now}
			title := "new"
			later := now.Add(time.Hour)
			grc.PolicyUpdate{Title: &title}.Apply(&p, later)

			Expect(p).To(Equal(grc.Policy{ID: "1", Title: "new", Description: "d", Category: "c", Content: "x", Status: grc.PolicyDraft, AssignedTo: []string{"a"}, CreatedAt: now, LastUpdated: later}))
		})

		It("reports whether a compliance status was supplied", func() {
			r := grc.ComplianceRequirement{Status: grc.CompliancePending}
			same := grc.CompliancePending
			title := "renamed"
			Expect(grc.ComplianceUpdate{Title: &title}.Apply(&r, time.Now())).To(BeFalse())
			Expect(grc.ComplianceUpdate{Status: &same}.Apply(&r, time.Now())).To(BeTrue())
			Expect(r.Status).To(Equal(grc.CompliancePending))
		})

		It("redacts the submitter when building an anonymous report", func() {
			who := "u1"
			r := grc.NewWhistleblowingReport{Title: "t", Description: "d", Priority: grc.PriorityLow, IsAnonymous: true, SubmittedBy: &who}.Build("1", time.Now())
			Expect(r.SubmittedBy).To(BeNil())
			Expect(r.Notes).To(BeEmpty())
		})
	})

	Describe("derived compliance view", func() {
		var (
			now  time.Time
			reqs []grc.ComplianceRequirement
		)

		BeforeEach(func() {
			now = day(2024, 6, 1)
			reqs = []grc.ComplianceRequirement{
				{ID: "1", Status: grc.CompliancePending, Deadline: day(2020, 1, 1)},
				{ID: "2", Status: grc.ComplianceCompleted, Deadline: day(2099, 1, 1)},
			}
		})

		It("classifies past-due Pending as overdue without changing the stored status", func() {
			Expect(grc.IsOverdue(reqs[0], now)).To(BeTrue())
			Expect(grc.DisplayStatus(reqs[0], now)).To(Equal(grc.ComplianceOverdue))
			Expect(reqs[0].Status).To(Equal(grc.CompliancePending))

			Expect(grc.IsOverdue(reqs[1], now)).To(BeFalse())
			Expect(grc.DisplayStatus(reqs[1], now)).To(Equal(grc.ComplianceCompleted))
		})

		It("sorts by priority then deadline", func() {
			list := []grc.ComplianceRequirement{
				{ID: "low", Priority: grc.PriorityLow, Deadline: day(2024, 1, 1)},
				{ID: "high-late", Priority: grc.PriorityHigh, Deadline: day(2024, 9, 1)},
				{ID: "med", Priority: grc.PriorityMedium, Deadline: day(2024, 1, 1)},
				{ID: "high-early", Priority: grc.PriorityHigh, Deadline: day(2024, 2, 1)},
			}
			grc.SortRequirements(list)
			ids := []string{}
			for _, r := range list {
				ids = append(ids, r.ID)
			}
			Expect(ids).To(Equal([]string{"high-early", "high-late", "med", "low"}))
		})
	})

	Describe("Summarize", func() {
		It("computes counts, progress and upcoming deadlines", func() {
			now := day(2024, 6, 1)
			reqs := []grc.ComplianceRequirement{
				{ID: "1", Status: grc.ComplianceCompleted, Category: "Audit", Deadline: day(2024, 5, 1)},
				{ID: "2", Status: grc.CompliancePending, Category: "Audit", Deadline: day(2024, 6, 20)},
				{ID: "3", Status: grc.CompliancePending, Category: "Privacy", Deadline: day(2024, 6, 5)},
				{ID: "4", Status: grc.CompliancePending, Category: "Privacy", Deadline: day(2024, 5, 1)},
				{ID: "5", Status: grc.CompliancePending, Category: "Privacy", Deadline: day(2024, 12, 1)},
			}
			policies := []grc.Policy{{Status: grc.PolicyActive}, {Status: grc.PolicyActive}, {Status: grc.PolicyDraft}}
			reports := []grc.WhistleblowingReport{{Status: grc.ReportPending}}
			notes := []grc.Notification{{Read: true}, {Read: false}}

			d := grc.Summarize(policies, reqs, reports, notes, now)

			Expect(d.Policies.Total).To(Equal(3))
			Expect(d.Policies.ByStatus[grc.PolicyActive]).To(Equal(2))
			Expect(d.Policies.ByStatus[grc.PolicyArchived]).To(Equal(0))
			Expect(d.Compliance.Progress).To(Equal(20))
			Expect(d.Compliance.DerivedOverdue).To(Equal(1))
			Expect(d.Compliance.Upcoming).To(HaveLen(2))
			Expect(d.Compliance.Upcoming[0].ID).To(Equal("3"))
			Expect(d.Compliance.Upcoming[1].ID).To(Equal("2"))
			Expect(d.Compliance.CategoryBreakdown).To(Equal([]grc.CategoryProgress{
				{Category: "Audit", Total: 2, Completed: 1, Percent: 50},
				{Category: "Privacy", Total: 3, Completed: 0, Percent: 0},
			}))
			Expect(d.Reports.ByStatus[grc.ReportPending]).To(Equal(1))
			Expect(d.UnreadNotifications).To(Equal(1))
		})

		It("reports zero progress with no requirements", func() {
			d := grc.Summarize(nil, nil, nil, nil, time.Now())
			Expect(d.Compliance.Progress).To(Equal(0))
			Expect(d.Compliance.Upcoming).NotTo(BeNil())
		})
	})

	Describe("Select", func() {
		var logger *slog.Logger

		BeforeEach(func() {
			logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		})

		It("uses the remote path when connected", func() {
			remote, local := &namedService{name: "remote"}, &namedService{name: "local"}
			got := grc.Select(context.Background(), staticProbe(true), remote, local, logger)
			Expect(got).To(BeIdenticalTo(remote))
		})

		It("falls back to the local path when not connected", func() {
			remote, local := &namedService{name: "remote"}, &namedService{name: "local"}
			got := grc.Select(context.Background(), staticProbe(false), remote, local, logger)
			Expect(got).To(BeIdenticalTo(local))
		})

		It("keeps answering with the chosen path after the probe changes", func() {
			remote, local := &namedService{name: "remote"}, &namedService{name: "local"}
			probe := &flipProbe{up: true}
			sel := grc.SelectPath(context.Background(), probe, remote, local, logger)
			Expect(sel.Mode).To(Equal(grc.ModeRemote))

			probe.up = false
			Expect(sel.IsConnected(context.Background())).To(BeTrue())
			Expect(sel.Service).To(BeIdenticalTo(remote))
		})
	})
})

type staticProbe bool

type flipProbe struct{ up bool }

func (p *flipProbe) IsConnected(context.Context) bool { return p.up }

func (p staticProbe) IsConnected(context.Context) bool { return bool(p) }

// namedService only needs identity; embedding the interface satisfies the method set.
type namedService struct {
	grc.DataService
	name string
}

package grc

import (
	"math"
	"sort"
	"time"
)

// UpcomingWindow is how far ahead the dashboard looks for deadlines.
const UpcomingWindow = 30 * 24 * time.Hour

// IsOverdue is the derived view: stored Overdue, or Pending past its deadline.
// It never changes the stored status.
func IsOverdue(r ComplianceRequirement, now time.Time) bool {
	if r.Status == ComplianceOverdue {
		return true
	}
	return r.Status == CompliancePending && r.Deadline.Before(now)
}

// DisplayStatus is the status a reader should see at now.
func DisplayStatus(r ComplianceRequirement, now time.Time) ComplianceStatus {
	if IsOverdue(r, now) {
		return ComplianceOverdue
	}
	return r.Status
}

// SortRequirements orders by priority (High first) then by nearest deadline.
func SortRequirements(reqs []ComplianceRequirement) {
	sort.SliceStable(reqs, func(i, j int) bool {
		pi, pj := reqs[i].Priority.Rank(), reqs[j].Priority.Rank()
		if pi != pj {
			return pi < pj
		}
		return reqs[i].Deadline.Before(reqs[j].Deadline)
	})
}

type CategoryProgress struct {
	Category  string `json:"category"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Percent   int    `json:"percent"`
}

type Dashboard struct {
	Policies struct {
		Total    int                  `json:"total"`
		ByStatus map[PolicyStatus]int `json:"byStatus"`
	} `json:"policies"`
	Compliance struct {
		Total             int                      `json:"total"`
		ByStatus          map[ComplianceStatus]int `json:"byStatus"`
		DerivedOverdue    int                      `json:"derivedOverdue"`
		Progress          int                      `json:"progress"`
		Upcoming          []ComplianceRequirement  `json:"upcoming"`
		CategoryBreakdown []CategoryProgress       `json:"categories"`
	} `json:"compliance"`
	Reports struct {
		Total    int                  `json:"total"`
		ByStatus map[ReportStatus]int `json:"byStatus"`
	} `json:"reports"`
	UnreadNotifications int       `json:"unreadNotifications"`
	GeneratedAt         time.Time `json:"generatedAt"`
}

// Percent is round(part/total*100), zero when total is zero.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Summarize computes the dashboard figures from already loaded collections.
func Summarize(policies []Policy, reqs []ComplianceRequirement, reports []WhistleblowingReport, notes []Notification, now time.Time) Dashboard {
	var d Dashboard
	d.GeneratedAt = now

	d.Policies.Total = len(policies)
	d.Policies.ByStatus = map[PolicyStatus]int{}
	for _, s := range PolicyStatuses {
		d.Policies.ByStatus[s] = 0
	}
	for _, p := range policies {
		d.Policies.ByStatus[p.Status]++
	}

	d.Compliance.Total = len(reqs)
	d.Compliance.ByStatus = map[ComplianceStatus]int{}
	for _, s := range ComplianceStatuses {
		d.Compliance.ByStatus[s] = 0
	}
	d.Compliance.Upcoming = []ComplianceRequirement{}
	byCategory := map[string]*CategoryProgress{}
	var categories []string
	for _, r := range reqs {
		d.Compliance.ByStatus[r.Status]++
		if IsOverdue(r, now) {
			d.Compliance.DerivedOverdue++
		}
		if r.Status != ComplianceCompleted && !r.Deadline.Before(now) && r.Deadline.Sub(now) <= UpcomingWindow {
			d.Compliance.Upcoming = append(d.Compliance.Upcoming, r)
		}
		cp, ok := byCategory[r.Category]
		if !ok {
			cp = &CategoryProgress{Category: r.Category}
			byCategory[r.Category] = cp
			categories = append(categories, r.Category)
		}
		cp.Total++
		if r.Status == ComplianceCompleted {
			cp.Completed++
		}
	}
	d.Compliance.Progress = Percent(d.Compliance.ByStatus[ComplianceCompleted], len(reqs))
	sort.SliceStable(d.Compliance.Upcoming, func(i, j int) bool {
		return d.Compliance.Upcoming[i].Deadline.Before(d.Compliance.Upcoming[j].Deadline)
	})
	sort.Strings(categories)
	d.Compliance.CategoryBreakdown = make([]CategoryProgress, 0, len(categories))
	for _, c := range categories {
		cp := byCategory[c]
		cp.Percent = Percent(cp.Completed, cp.Total)
		d.Compliance.CategoryBreakdown = append(d.Compliance.CategoryBreakdown, *cp)
	}

	d.Reports.Total = len(reports)
	d.Reports.ByStatus = map[ReportStatus]int{}
	for _, s := range ReportStatuses {
		d.Reports.ByStatus[s] = 0
	}
	for _, r := range reports {
		d.Reports.ByStatus[r.Status]++
	}

	for _, n := range notes {
		if !n.Read {
			d.UnreadNotifications++
		}
	}
	return d
}

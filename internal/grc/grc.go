// Package grc holds the governance, risk and compliance entity model and the
// DataService contract shared by the demo (mock) and hosted (remote) paths.
//
// Identifiers are opaque strings. Mock ids are decimal millisecond stamps and
// remote ids are backend serials; the two families are never comparable.
package grc

import (
	"strings"
	"time"
)

type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry"`
	Location  string    `json:"location"`
	Size      string    `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

type Policy struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Content     string       `json:"content"`
	Status      PolicyStatus `json:"status"`
	AssignedTo  []string     `json:"assignedTo"`
	CreatedAt   time.Time    `json:"createdAt"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

// ComplianceRequirement keeps the stored status authoritative. A Pending
// requirement past its deadline is only overdue in the derived view until a
// user or the overdue job updates it.
type ComplianceRequirement struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Deadline    time.Time        `json:"deadline"`
	Status      ComplianceStatus `json:"status"`
	Priority    Priority         `json:"priority"`
	Category    string           `json:"category"`
	AssignedTo  []string         `json:"assignedTo"`
	CreatedAt   time.Time        `json:"createdAt"`
	LastUpdated time.Time        `json:"lastUpdated"`
}

type WhistleblowingReport struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Date        time.Time    `json:"date"`
	Category    string       `json:"category"`
	Status      ReportStatus `json:"status"`
	Priority    Priority     `json:"priority"`
	IsAnonymous bool         `json:"isAnonymous"`
	SubmittedBy *string      `json:"submittedBy,omitempty"`
	Notes       []string     `json:"notes"`
}

type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       Role       `json:"role"`
	Department string     `json:"department"`
	LastLogin  *time.Time `json:"lastLogin"`
}

type Notification struct {
	ID      string           `json:"id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Date    time.Time        `json:"date"`
	Read    bool             `json:"read"`
	Type    NotificationType `json:"type"`
}

type AuditEntry struct {
	ID         string     `json:"id"`
	Action     string     `json:"action"`
	EntityType EntityType `json:"entityType"`
	EntityID   string     `json:"entityId"`
	Timestamp  time.Time  `json:"timestamp"`
	UserID     string     `json:"userId"`
	Details    string     `json:"details"`
}

// SplitAssignees turns the comma separated free text used by forms into an
// ordered assignee list. Blank entries are dropped.
func SplitAssignees(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanAssignees trims names and drops blanks from an already split list.
func CleanAssignees(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// RedactSubmitter enforces report anonymity before anything is persisted.
func (r *WhistleblowingReport) RedactSubmitter() {
	if r.IsAnonymous {
		r.SubmittedBy = nil
	}
}

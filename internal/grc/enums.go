package grc

import (
	"encoding/json"
	"fmt"

	"github.com/JinxSeven/Risk-360/internal"
)

// The literal values below are matched verbatim by clients for filtering and
// colour coding. Do not rename them.

type PolicyStatus string

const (
	PolicyActive   PolicyStatus = "Active"
	PolicyDraft    PolicyStatus = "Draft"
	PolicyArchived PolicyStatus = "Archived"
)

var PolicyStatuses = []PolicyStatus{PolicyActive, PolicyDraft, PolicyArchived}

type ComplianceStatus string

const (
	ComplianceCompleted ComplianceStatus = "Completed"
	CompliancePending   ComplianceStatus = "Pending"
	ComplianceOverdue   ComplianceStatus = "Overdue"
)

var ComplianceStatuses = []ComplianceStatus{ComplianceCompleted, CompliancePending, ComplianceOverdue}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

type ReportStatus string

const (
	ReportPending       ReportStatus = "Pending"
	ReportInvestigating ReportStatus = "Investigating"
	ReportResolved      ReportStatus = "Resolved"
)

var ReportStatuses = []ReportStatus{ReportPending, ReportInvestigating, ReportResolved}

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

var Roles = []Role{RoleAdmin, RoleEmployee}

type NotificationType string

const (
	NotificationPolicy         NotificationType = "policy"
	NotificationCompliance     NotificationType = "compliance"
	NotificationWhistleblowing NotificationType = "whistleblowing"
	NotificationSystem         NotificationType = "system"
)

var NotificationTypes = []NotificationType{NotificationPolicy, NotificationCompliance, NotificationWhistleblowing, NotificationSystem}

type EntityType string

const (
	EntityPolicy         EntityType = "policy"
	EntityCompliance     EntityType = "compliance"
	EntityUser           EntityType = "user"
	EntityWhistleblowing EntityType = "whistleblowing"
	EntityCompany        EntityType = "company"
)

var EntityTypes = []EntityType{EntityPolicy, EntityCompliance, EntityUser, EntityWhistleblowing, EntityCompany}

func ParsePolicyStatus(s string) (PolicyStatus, error) {
	return parseEnum(s, PolicyStatuses, "status", internal.ErrCodeInvalidStatus)
}

func ParseComplianceStatus(s string) (ComplianceStatus, error) {
	return parseEnum(s, ComplianceStatuses, "status", internal.ErrCodeInvalidStatus)
}

func ParsePriority(s string) (Priority, error) {
	return parseEnum(s, Priorities, "priority", internal.ErrCodeInvalidPriority)
}

func ParseReportStatus(s string) (ReportStatus, error) {
	return parseEnum(s, ReportStatuses, "status", internal.ErrCodeInvalidStatus)
}

func ParseRole(s string) (Role, error) {
	return parseEnum(s, Roles, "role", internal.ErrCodeInvalidRole)
}

func ParseNotificationType(s string) (NotificationType, error) {
	return parseEnum(s, NotificationTypes, "type", internal.ErrCodeInvalidType)
}

func ParseEntityType(s string) (EntityType, error) {
	return parseEnum(s, EntityTypes, "entityType", internal.ErrCodeInvalidType)
}

func (s PolicyStatus) Valid() bool     { return contains(PolicyStatuses, s) }
func (s ComplianceStatus) Valid() bool { return contains(ComplianceStatuses, s) }
func (p Priority) Valid() bool         { return contains(Priorities, p) }
func (s ReportStatus) Valid() bool     { return contains(ReportStatuses, s) }
func (r Role) Valid() bool             { return contains(Roles, r) }
func (t NotificationType) Valid() bool { return contains(NotificationTypes, t) }
func (t EntityType) Valid() bool       { return contains(EntityTypes, t) }

// Rank orders priorities High first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

func (s *PolicyStatus) UnmarshalJSON(b []byte) error     { return unmarshalEnum(b, s, ParsePolicyStatus) }
func (s *ComplianceStatus) UnmarshalJSON(b []byte) error { return unmarshalEnum(b, s, ParseComplianceStatus) }
func (p *Priority) UnmarshalJSON(b []byte) error         { return unmarshalEnum(b, p, ParsePriority) }
func (s *ReportStatus) UnmarshalJSON(b []byte) error     { return unmarshalEnum(b, s, ParseReportStatus) }
func (r *Role) UnmarshalJSON(b []byte) error             { return unmarshalEnum(b, r, ParseRole) }
func (t *NotificationType) UnmarshalJSON(b []byte) error { return unmarshalEnum(b, t, ParseNotificationType) }
func (t *EntityType) UnmarshalJSON(b []byte) error       { return unmarshalEnum(b, t, ParseEntityType) }

func parseEnum[T ~string](s string, allowed []T, field string, code internal.ErrorCode) (T, error) {
	for _, a := range allowed {
		if string(a) == s {
			return a, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", internal.NewValidationFieldError(field, fmt.Sprintf("unknown %s %q, expected one of %v", field, s, names), code)
}

func unmarshalEnum[T ~string](b []byte, dst *T, parse func(string) (T, error)) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v, err := parse(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Names renders an enum set as plain strings, for validators and docs.
func Names[T ~string](set []T) []string {
	out := make([]string, len(set))
	for i, v := range set {
		out[i] = string(v)
	}
	return out
}

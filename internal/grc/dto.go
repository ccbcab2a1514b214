package grc

import (
	"strings"
	"time"

	"github.com/JinxSeven/Risk-360/internal"
)

// deadlineLayouts are tried in order; date-only values are taken as UTC midnight.
var deadlineLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func ParseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, internal.NewValidationFieldError("deadline", "deadline must be a date (YYYY-MM-DD) or an RFC 3339 timestamp", internal.ErrCodeInvalidDate)
}

// complianceRequest accepts the deadline as text; the outer field shadows the
// embedded one when decoding.
type complianceRequest struct {
	NewComplianceRequirement
	Deadline string `json:"deadline"`
}

func (r complianceRequest) toInput() (NewComplianceRequirement, error) {
	in := r.NewComplianceRequirement
	if r.Deadline != "" {
		t, err := ParseDeadline(r.Deadline)
		if err != nil {
			return in, err
		}
		in.Deadline = t
	}
	return in, nil
}

type complianceUpdateRequest struct {
	ComplianceUpdate
	Deadline *string `json:"deadline,omitempty"`
}

func (r complianceUpdateRequest) toInput() (ComplianceUpdate, error) {
	in := r.ComplianceUpdate
	if r.Deadline != nil {
		t, err := ParseDeadline(*r.Deadline)
		if err != nil {
			return in, err
		}
		in.Deadline = &t
	}
	return in, nil
}

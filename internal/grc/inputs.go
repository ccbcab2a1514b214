package grc

import (
	"time"

	"github.com/JinxSeven/Risk-360/internal"
	"github.com/JinxSeven/Risk-360/internal/core/common/validation"
)

// Create inputs omit id and timestamps, which the DataService assigns.
// Update inputs use nil to mean "keep the current value".

type NewPolicy struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Content     string       `json:"content"`
	Status      PolicyStatus `json:"status"`
	AssignedTo  []string     `json:"assignedTo"`
}

func (in NewPolicy) Validate() error {
	v := validation.NewValidator()
	v.Field("title", in.Title).Required().MaxLength(200)
	v.Field("status", string(in.Status)).Required().OneOf(Names(PolicyStatuses), internal.ErrCodeInvalidStatus)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (in NewPolicy) Build(id string, now time.Time) Policy {
	return Policy{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Content:     in.Content,
		Status:      in.Status,
		AssignedTo:  CleanAssignees(in.AssignedTo),
		CreatedAt:   now,
		LastUpdated: now,
	}
}

type PolicyUpdate struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Category    *string       `json:"category,omitempty"`
	Content     *string       `json:"content,omitempty"`
	Status      *PolicyStatus `json:"status,omitempty"`
	AssignedTo  *[]string     `json:"assignedTo,omitempty"`
}

func (u PolicyUpdate) Validate() error {
	if u.Status != nil && !u.Status.Valid() {
		_, err := ParsePolicyStatus(string(*u.Status))
		return err
	}
	if u.Title != nil {
		v := validation.NewValidator()
		v.Field("title", *u.Title).Required().MaxLength(200)
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges u onto p and refreshes LastUpdated.
func (u PolicyUpdate) Apply(p *Policy, now time.Time) {
	setIf(&p.Title, u.Title)
	setIf(&p.Description, u.Description)
	setIf(&p.Category, u.Category)
	setIf(&p.Content, u.Content)
	setIf(&p.Status, u.Status)
	if u.AssignedTo != nil {
		p.AssignedTo = CleanAssignees(*u.AssignedTo)
	}
	p.LastUpdated = now
}

type NewComplianceRequirement struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Deadline    time.Time        `json:"deadline"`
	Status      ComplianceStatus `json:"status"`
	Priority    Priority         `json:"priority"`
	Category    string           `json:"category"`
	AssignedTo  []string         `json:"assignedTo"`
}

func (in NewComplianceRequirement) Validate() error {
	v := validation.NewValidator()
	v.Field("title", in.Title).Required().MaxLength(200)
	v.Field("status", string(in.Status)).Required().OneOf(Names(ComplianceStatuses), internal.ErrCodeInvalidStatus)
	v.Field("priority", string(in.Priority)).Required().OneOf(Names(Priorities), internal.ErrCodeInvalidPriority)
	v.Field("deadline", in.Deadline).Custom(func(value interface{}) *internal.AppError {
		if t, _ := value.(time.Time); t.IsZero() {
			return internal.NewValidationFieldError("deadline", "deadline is required", internal.ErrCodeInvalidDate)
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (in NewComplianceRequirement) Build(id string, now time.Time) ComplianceRequirement {
	return ComplianceRequirement{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Deadline:    in.Deadline,
		Status:      in.Status,
		Priority:    in.Priority,
		Category:    in.Category,
		AssignedTo:  CleanAssignees(in.AssignedTo),
		CreatedAt:   now,
		LastUpdated: now,
	}
}

type ComplianceUpdate struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Deadline    *time.Time        `json:"deadline,omitempty"`
	Status      *ComplianceStatus `json:"status,omitempty"`
	Priority    *Priority         `json:"priority,omitempty"`
	Category    *string           `json:"category,omitempty"`
	AssignedTo  *[]string         `json:"assignedTo,omitempty"`
}

func (u ComplianceUpdate) Validate() error {
	if u.Status != nil && !u.Status.Valid() {
		_, err := ParseComplianceStatus(string(*u.Status))
		return err
	}
	if u.Priority != nil && !u.Priority.Valid() {
		_, err := ParsePriority(string(*u.Priority))
		return err
	}
	return nil
}

// Apply merges u onto r and reports whether a status was supplied. A
// supplied status announces itself even when it equals the stored one.
func (u ComplianceUpdate) Apply(r *ComplianceRequirement, now time.Time) (statusSupplied bool) {
	setIf(&r.Title, u.Title)
	setIf(&r.Description, u.Description)
	setIf(&r.Deadline, u.Deadline)
	setIf(&r.Status, u.Status)
	setIf(&r.Priority, u.Priority)
	setIf(&r.Category, u.Category)
	if u.AssignedTo != nil {
		r.AssignedTo = CleanAssignees(*u.AssignedTo)
	}
	r.LastUpdated = now
	return u.Status != nil
}

type NewWhistleblowingReport struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Priority    Priority `json:"priority"`
	IsAnonymous bool     `json:"isAnonymous"`
	SubmittedBy *string  `json:"submittedBy,omitempty"`
}

func (in NewWhistleblowingReport) Validate() error {
	v := validation.NewValidator()
	v.Field("title", in.Title).Required().MaxLength(200)
	v.Field("description", in.Description).Required()
	v.Field("priority", string(in.Priority)).Required().OneOf(Names(Priorities), internal.ErrCodeInvalidPriority)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Build creates a Pending report with no notes. The submitter is dropped
// when anonymity was requested.
func (in NewWhistleblowingReport) Build(id string, now time.Time) WhistleblowingReport {
	r := WhistleblowingReport{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Date:        now,
		Category:    in.Category,
		Status:      ReportPending,
		Priority:    in.Priority,
		IsAnonymous: in.IsAnonymous,
		SubmittedBy: in.SubmittedBy,
		Notes:       []string{},
	}
	r.RedactSubmitter()
	return r
}

// ReportUpdate appends Notes rather than replacing them.
type ReportUpdate struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Category    *string       `json:"category,omitempty"`
	Status      *ReportStatus `json:"status,omitempty"`
	Priority    *Priority     `json:"priority,omitempty"`
	Notes       []string      `json:"notes,omitempty"`
}

func (u ReportUpdate) Validate() error {
	if u.Status != nil && !u.Status.Valid() {
		_, err := ParseReportStatus(string(*u.Status))
		return err
	}
	if u.Priority != nil && !u.Priority.Valid() {
		_, err := ParsePriority(string(*u.Priority))
		return err
	}
	return nil
}

func (u ReportUpdate) Apply(r *WhistleblowingReport) {
	setIf(&r.Title, u.Title)
	setIf(&r.Description, u.Description)
	setIf(&r.Category, u.Category)
	setIf(&r.Status, u.Status)
	setIf(&r.Priority, u.Priority)
	if len(u.Notes) > 0 {
		notes := make([]string, 0, len(r.Notes)+len(u.Notes))
		notes = append(notes, r.Notes...)
		r.Notes = append(notes, u.Notes...)
	}
}

type NewUser struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
}

func (in NewUser) Validate() error {
	v := validation.NewValidator()
	v.Field("name", in.Name).Required().MaxLength(200)
	v.Field("email", in.Email).Required().Email()
	v.Field("role", string(in.Role)).Required().OneOf(Names(Roles), internal.ErrCodeInvalidRole)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (in NewUser) Build(id string, now time.Time) User {
	return User{
		ID:         id,
		Name:       in.Name,
		Email:      in.Email,
		Role:       in.Role,
		Department: in.Department,
		LastLogin:  &now,
	}
}

type UserUpdate struct {
	Name       *string    `json:"name,omitempty"`
	Email      *string    `json:"email,omitempty"`
	Role       *Role      `json:"role,omitempty"`
	Department *string    `json:"department,omitempty"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
}

func (u UserUpdate) Validate() error {
	if u.Role != nil && !u.Role.Valid() {
		_, err := ParseRole(string(*u.Role))
		return err
	}
	if u.Email != nil {
		v := validation.NewValidator()
		v.Field("email", *u.Email).Required().Email()
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (u UserUpdate) Apply(usr *User) {
	setIf(&usr.Name, u.Name)
	setIf(&usr.Email, u.Email)
	setIf(&usr.Role, u.Role)
	setIf(&usr.Department, u.Department)
	if u.LastLogin != nil {
		t := *u.LastLogin
		usr.LastLogin = &t
	}
}

type CompanyUpdate struct {
	Name     *string `json:"name,omitempty"`
	Industry *string `json:"industry,omitempty"`
	Location *string `json:"location,omitempty"`
	Size     *string `json:"size,omitempty"`
}

func (u CompanyUpdate) Apply(c *Company) {
	setIf(&c.Name, u.Name)
	setIf(&c.Industry, u.Industry)
	setIf(&c.Location, u.Location)
	setIf(&c.Size, u.Size)
}

type NewNotification struct {
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Type    NotificationType `json:"type"`
}

func (in NewNotification) Validate() error {
	v := validation.NewValidator()
	v.Field("title", in.Title).Required()
	v.Field("type", string(in.Type)).Required().OneOf(Names(NotificationTypes), internal.ErrCodeInvalidType)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (in NewNotification) Build(id string, now time.Time) Notification {
	return Notification{
		ID:      id,
		Title:   in.Title,
		Message: in.Message,
		Date:    now,
		Type:    in.Type,
	}
}

type NewAuditEntry struct {
	Action     string     `json:"action"`
	EntityType EntityType `json:"entityType"`
	EntityID   string     `json:"entityId"`
	UserID     string     `json:"userId"`
	Details    string     `json:"details"`
}

func (in NewAuditEntry) Build(id string, now time.Time) AuditEntry {
	return AuditEntry{
		ID:         id,
		Action:     in.Action,
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		Timestamp:  now,
		UserID:     in.UserID,
		Details:    in.Details,
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

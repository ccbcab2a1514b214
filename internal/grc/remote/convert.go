package remote

import (
	"strconv"

	"github.com/JinxSeven/Risk-360/internal/grc"
	grcDatamodel "github.com/JinxSeven/Risk-360/internal/core/datamodel/grc"
	userDatamodel "github.com/JinxSeven/Risk-360/internal/core/datamodel/user"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// parseID maps an id from the opaque string space onto a table serial.
// Anything that is not a positive integer cannot exist remotely.
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func CompanyFromDataModel(c *grcDatamodel.Company) *grc.Company {
	return &grc.Company{
		ID:        formatID(c.ID),
		Name:      c.Name,
		Industry:  c.Industry,
		Location:  c.Location,
		Size:      c.Size,
		CreatedAt: c.CreatedAt,
	}
}

func PolicyFromDataModel(p *grcDatamodel.Policy) grc.Policy {
	assigned := make([]string, 0, len(p.Assignments))
	for _, a := range p.Assignments {
		assigned = append(assigned, a.AssignedTo)
	}
	return grc.Policy{
		ID:          formatID(p.ID),
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Content:     p.Content,
		Status:      grc.PolicyStatus(p.Status),
		AssignedTo:  assigned,
		CreatedAt:   p.CreatedAt,
		LastUpdated: p.UpdatedAt,
	}
}

func PolicyToDataModel(p *grc.Policy) *grcDatamodel.Policy {
	row := &grcDatamodel.Policy{
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Content:     p.Content,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.LastUpdated,
	}
	row.ID, _ = parseID(p.ID)
	for _, name := range p.AssignedTo {
		row.Assignments = append(row.Assignments, grcDatamodel.PolicyAssignment{PolicyID: row.ID, AssignedTo: name})
	}
	return row
}

func RequirementFromDataModel(r *grcDatamodel.ComplianceRequirement) grc.ComplianceRequirement {
	assigned := make([]string, 0, len(r.Assignments))
	for _, a := range r.Assignments {
		assigned = append(assigned, a.AssignedTo)
	}
	return grc.ComplianceRequirement{
		ID:          formatID(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Deadline:    r.Deadline,
		Status:      grc.ComplianceStatus(r.Status),
		Priority:    grc.Priority(r.Priority),
		Category:    r.Category,
		AssignedTo:  assigned,
		CreatedAt:   r.CreatedAt,
		LastUpdated: r.UpdatedAt,
	}
}

func RequirementToDataModel(r *grc.ComplianceRequirement) *grcDatamodel.ComplianceRequirement {
	row := &grcDatamodel.ComplianceRequirement{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Deadline:    r.Deadline,
		Status:      string(r.Status),
		Priority:    string(r.Priority),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.LastUpdated,
	}
	row.ID, _ = parseID(r.ID)
	for _, name := range r.AssignedTo {
		row.Assignments = append(row.Assignments, grcDatamodel.ComplianceAssignment{RequirementID: row.ID, AssignedTo: name})
	}
	return row
}

func ReportFromDataModel(r *grcDatamodel.WhistleblowingReport) grc.WhistleblowingReport {
	notes := make([]string, 0, len(r.Notes))
	for _, n := range r.Notes {
		notes = append(notes, n.Note)
	}
	out := grc.WhistleblowingReport{
		ID:          formatID(r.ID),
		Title:       r.Title,
		Description: r.Description,
		Date:        r.CreatedAt,
		Category:    r.Category,
		Status:      grc.ReportStatus(r.Status),
		Priority:    grc.Priority(r.Priority),
		IsAnonymous: r.IsAnonymous,
		SubmittedBy: r.SubmittedBy,
		Notes:       notes,
	}
	out.RedactSubmitter()
	return out
}

// ReportToDataModel never carries a submitter for anonymous reports.
func ReportToDataModel(r *grc.WhistleblowingReport) *grcDatamodel.WhistleblowingReport {
	row := &grcDatamodel.WhistleblowingReport{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Status:      string(r.Status),
		Priority:    string(r.Priority),
		IsAnonymous: r.IsAnonymous,
		SubmittedBy: r.SubmittedBy,
		CreatedAt:   r.Date,
	}
	if row.IsAnonymous {
		row.SubmittedBy = nil
	}
	row.ID, _ = parseID(r.ID)
	return row
}

// UserFromDataModel exposes the auth user id as the User id. lastLogin
// falls back to the profile creation time.
func UserFromDataModel(p *userDatamodel.Profile) grc.User {
	lastLogin := p.CreatedAt
	if p.LastLogin != nil {
		lastLogin = *p.LastLogin
	}
	role := grc.Role(p.Role)
	if !role.Valid() {
		role = grc.RoleEmployee
	}
	u := grc.User{
		ID:         p.UserID,
		Name:       p.Name,
		Role:       role,
		Department: p.Department,
		LastLogin:  &lastLogin,
	}
	if p.Account != nil {
		u.Email = p.Account.Email
	}
	return u
}

func NotificationFromDataModel(n *grcDatamodel.Notification) grc.Notification {
	return grc.Notification{
		ID:      formatID(n.ID),
		Title:   n.Title,
		Message: n.Message,
		Date:    n.CreatedAt,
		Read:    n.Read,
		Type:    grc.NotificationType(n.Type),
	}
}

func AuditFromDataModel(a *grcDatamodel.AuditEntry) grc.AuditEntry {
	e := grc.AuditEntry{
		ID:         formatID(a.ID),
		Action:     a.Action,
		EntityType: grc.EntityType(a.EntityType),
		EntityID:   a.EntityID,
		Timestamp:  a.CreatedAt,
		Details:    a.Details,
	}
	if a.UserID != nil {
		e.UserID = *a.UserID
	}
	return e
}

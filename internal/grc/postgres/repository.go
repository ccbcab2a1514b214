package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	grcDatamodel "github.com/JinxSeven/Risk-360/internal/core/datamodel/grc"
	userDatamodel "github.com/JinxSeven/Risk-360/internal/core/datamodel/user"
	"github.com/JinxSeven/Risk-360/internal/grc/remote"
)

// Repository implements remote.Backend using GORM
type Repository struct {
	db *gorm.DB
}

var _ remote.Backend = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// first loads one row into dest, mapping a missing row to found=false.
func first(db *gorm.DB, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := db.Where(query, args...).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func (r *Repository) GetCompany(ctx context.Context) (*grcDatamodel.Company, error) {
	var c grcDatamodel.Company
	err := r.db.WithContext(ctx).Order("id ASC").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCompany inserts the singleton when c has no id yet.
func (r *Repository) SaveCompany(ctx context.Context, c *grcDatamodel.Company) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *Repository) ListPolicies(ctx context.Context) ([]grcDatamodel.Policy, error) {
	var rows []grcDatamodel.Policy
	err := r.db.WithContext(ctx).
		Preload("Assignments", orderByID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) GetPolicy(ctx context.Context, id int64) (*grcDatamodel.Policy, error) {
	var p grcDatamodel.Policy
	found, err := first(r.db.WithContext(ctx).Preload("Assignments", orderByID), &p, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// CreatePolicy inserts the policy and its assignments; p.ID is set on return.
func (r *Repository) CreatePolicy(ctx context.Context, p *grcDatamodel.Policy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// UpdatePolicy rewrites the policy columns and replaces its assignments.
func (r *Repository) UpdatePolicy(ctx context.Context, p *grcDatamodel.Policy) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&grcDatamodel.Policy{ID: p.ID}).Updates(map[string]interface{}{
			"title":       p.Title,
			"description": p.Description,
			"category":    p.Category,
			"content":     p.Content,
			"status":      p.Status,
		}).Error; err != nil {
			return err
		}
		if err := tx.Where("policy_id = ?", p.ID).Delete(&grcDatamodel.PolicyAssignment{}).Error; err != nil {
			return err
		}
		for i := range p.Assignments {
			p.Assignments[i].ID = 0
			p.Assignments[i].PolicyID = p.ID
		}
		if len(p.Assignments) == 0 {
			return nil
		}
		return tx.Create(&p.Assignments).Error
	})
}

func (r *Repository) DeletePolicy(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("policy_id = ?", id).Delete(&grcDatamodel.PolicyAssignment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&grcDatamodel.Policy{}, id)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

func (r *Repository) ListRequirements(ctx context.Context) ([]grcDatamodel.ComplianceRequirement, error) {
	var rows []grcDatamodel.ComplianceRequirement
	err := r.db.WithContext(ctx).
		Preload("Assignments", orderByID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) GetRequirement(ctx context.Context, id int64) (*grcDatamodel.ComplianceRequirement, error) {
	var req grcDatamodel.ComplianceRequirement
	found, err := first(r.db.WithContext(ctx).Preload("Assignments", orderByID), &req, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &req, nil
}

func (r *Repository) CreateRequirement(ctx context.Context, req *grcDatamodel.ComplianceRequirement) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *Repository) UpdateRequirement(ctx context.Context, req *grcDatamodel.ComplianceRequirement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&grcDatamodel.ComplianceRequirement{ID: req.ID}).Updates(map[string]interface{}{
			"title":       req.Title,
			"description": req.Description,
			"category":    req.Category,
			"deadline":    req.Deadline,
			"status":      req.Status,
			"priority":    req.Priority,
		}).Error; err != nil {
			return err
		}
		if err := tx.Where("requirement_id = ?", req.ID).Delete(&grcDatamodel.ComplianceAssignment{}).Error; err != nil {
			return err
		}
		for i := range req.Assignments {
			req.Assignments[i].ID = 0
			req.Assignments[i].RequirementID = req.ID
		}
		if len(req.Assignments) == 0 {
			return nil
		}
		return tx.Create(&req.Assignments).Error
	})
}

func (r *Repository) DeleteRequirement(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("requirement_id = ?", id).Delete(&grcDatamodel.ComplianceAssignment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&grcDatamodel.ComplianceRequirement{}, id)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

// ListReports returns the newest reports first.
func (r *Repository) ListReports(ctx context.Context) ([]grcDatamodel.WhistleblowingReport, error) {
	var rows []grcDatamodel.WhistleblowingReport
	err := r.db.WithContext(ctx).
		Preload("Notes", orderByID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) GetReport(ctx context.Context, id int64) (*grcDatamodel.WhistleblowingReport, error) {
	var rep grcDatamodel.WhistleblowingReport
	found, err := first(r.db.WithContext(ctx).Preload("Notes", orderByID), &rep, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &rep, nil
}

func (r *Repository) CreateReport(ctx context.Context, rep *grcDatamodel.WhistleblowingReport) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rep).Error
}

// UpdateReport rewrites the report columns and appends newNotes in order.
// The submitter column is never rewritten.
func (r *Repository) UpdateReport(ctx context.Context, rep *grcDatamodel.WhistleblowingReport, newNotes []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&grcDatamodel.WhistleblowingReport{ID: rep.ID}).Updates(map[string]interface{}{
			"title":       rep.Title,
			"description": rep.Description,
			"category":    rep.Category,
			"status":      rep.Status,
			"priority":    rep.Priority,
		}).Error; err != nil {
			return err
		}
		if len(newNotes) == 0 {
			return nil
		}
		notes := make([]grcDatamodel.WhistleblowingNote, 0, len(newNotes))
		for _, n := range newNotes {
			notes = append(notes, grcDatamodel.WhistleblowingNote{ReportID: rep.ID, Note: n})
		}
		return tx.Create(&notes).Error
	})
}

func (r *Repository) DeleteReport(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", id).Delete(&grcDatamodel.WhistleblowingNote{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&grcDatamodel.WhistleblowingReport{}, id)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

// ListProfiles returns profiles newest first, leaving out excludeUserID.
func (r *Repository) ListProfiles(ctx context.Context, excludeUserID string) ([]userDatamodel.Profile, error) {
	var rows []userDatamodel.Profile
	q := r.db.WithContext(ctx).Preload("Account")
	if excludeUserID != "" {
		q = q.Where("user_id <> ?", excludeUserID)
	}
	err := q.Order("created_at DESC, id DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) GetProfile(ctx context.Context, userID string) (*userDatamodel.Profile, error) {
	var p userDatamodel.Profile
	found, err := first(r.db.WithContext(ctx).Preload("Account"), &p, "user_id = ?", userID)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// CreateProfile writes the account (when given) and the profile together.
func (r *Repository) CreateProfile(ctx context.Context, account *userDatamodel.AuthUser, p *userDatamodel.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if account != nil {
			if err := tx.Create(account).Error; err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Create(p).Error
	})
}

func (r *Repository) UpdateProfile(ctx context.Context, p *userDatamodel.Profile, email *string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&userDatamodel.Profile{}).Where("user_id = ?", p.UserID).Updates(map[string]interface{}{
			"name":       p.Name,
			"role":       p.Role,
			"department": p.Department,
			"last_login": p.LastLogin,
		}).Error; err != nil {
			return err
		}
		if email == nil {
			return nil
		}
		return tx.Model(&userDatamodel.AuthUser{}).Where("id = ?", p.UserID).Update("email", *email).Error
	})
}

// DeleteProfile removes the profile together with its account and sessions.
func (r *Repository) DeleteProfile(ctx context.Context, userID string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&userDatamodel.Profile{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		if err := tx.Where("user_id = ?", userID).Delete(&userDatamodel.AuthSession{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", userID).Delete(&userDatamodel.AuthUser{}).Error
	})
	return deleted, err
}

// ListNotifications returns broadcast rows plus those addressed to userID, newest first.
func (r *Repository) ListNotifications(ctx context.Context, userID string) ([]grcDatamodel.Notification, error) {
	var rows []grcDatamodel.Notification
	err := r.db.WithContext(ctx).
		Where("user_id IS NULL OR user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) CreateNotification(ctx context.Context, n *grcDatamodel.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *Repository) MarkNotificationRead(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&grcDatamodel.Notification{}).Where("id = ?", id).Update("read", true)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&grcDatamodel.Notification{}).
		Where("read = ?", false).
		Where("user_id IS NULL OR user_id = ?", userID).
		Update("read", true).Error
}

func (r *Repository) DeleteNotification(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&grcDatamodel.Notification{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *Repository) CreateAuditEntry(ctx context.Context, e *grcDatamodel.AuditEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// ListAuditEntries returns the trail newest first.
func (r *Repository) ListAuditEntries(ctx context.Context) ([]grcDatamodel.AuditEntry, error) {
	var rows []grcDatamodel.AuditEntry
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error
	return rows, err
}

// Models lists every row type the repository touches, for AutoMigrate.
func Models() []interface{} {
	return []interface{}{
		&grcDatamodel.Company{},
		&grcDatamodel.Policy{},
		&grcDatamodel.PolicyAssignment{},
		&grcDatamodel.ComplianceRequirement{},
		&grcDatamodel.ComplianceAssignment{},
		&grcDatamodel.WhistleblowingReport{},
		&grcDatamodel.WhistleblowingNote{},
		&grcDatamodel.Notification{},
		&grcDatamodel.AuditEntry{},
		&userDatamodel.AuthUser{},
		&userDatamodel.AuthSession{},
		&userDatamodel.Profile{},
	}
}

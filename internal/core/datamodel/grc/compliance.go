package grc

import "time"

type ComplianceRequirement struct {
	ID          int64                  `gorm:"primaryKey"`
	Title       string                 `gorm:"column:title;not null"`
	Description string                 `gorm:"column:description"`
	Category    string                 `gorm:"column:category"`
	Deadline    time.Time              `gorm:"column:deadline;not null"`
	Status      string                 `gorm:"column:status;not null"`
	Priority    string                 `gorm:"column:priority;not null"`
	CreatedBy   *string                `gorm:"column:created_by"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
	Assignments []ComplianceAssignment `gorm:"foreignKey:RequirementID"`
}

func (ComplianceRequirement) TableName() string {
	return "compliance_requirements"
}

type ComplianceAssignment struct {
	ID            int64     `gorm:"primaryKey"`
	RequirementID int64     `gorm:"column:requirement_id;index;not null"`
	AssignedTo    string    `gorm:"column:assigned_to;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ComplianceAssignment) TableName() string {
	return "compliance_assignments"
}

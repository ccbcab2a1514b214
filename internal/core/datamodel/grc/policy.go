package grc

import "time"

type Policy struct {
	ID          int64              `gorm:"primaryKey"`
	Title       string             `gorm:"column:title;not null"`
	Description string             `gorm:"column:description"`
	Category    string             `gorm:"column:category"`
	Content     string             `gorm:"column:content;type:text"`
	Status      string             `gorm:"column:status;not null"`
	CreatedBy   *string            `gorm:"column:created_by"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
	Assignments []PolicyAssignment `gorm:"foreignKey:PolicyID"`
}

func (Policy) TableName() string {
	return "policies"
}

type PolicyAssignment struct {
	ID         int64     `gorm:"primaryKey"`
	PolicyID   int64     `gorm:"column:policy_id;index;not null"`
	AssignedTo string    `gorm:"column:assigned_to;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PolicyAssignment) TableName() string {
	return "policy_assignments"
}

package grc

import "time"

type Company struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Industry  string    `gorm:"column:industry"`
	Location  string    `gorm:"column:location"`
	Size      string    `gorm:"column:size"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Company) TableName() string {
	return "company"
}

// Notification rows with a nil UserID are visible to everyone.
type Notification struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    *string   `gorm:"column:user_id;index"`
	Title     string    `gorm:"column:title;not null"`
	Message   string    `gorm:"column:message"`
	Type      string    `gorm:"column:type;not null"`
	Read      bool      `gorm:"column:read;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

type AuditEntry struct {
	ID         int64     `gorm:"primaryKey"`
	Action     string    `gorm:"column:action;not null"`
	EntityType string    `gorm:"column:entity_type;not null"`
	EntityID   string    `gorm:"column:entity_id;not null"`
	UserID     *string   `gorm:"column:user_id"`
	Details    string    `gorm:"column:details;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AuditEntry) TableName() string {
	return "audit_trail"
}

package grc

import "time"

type WhistleblowingReport struct {
	ID          int64                `gorm:"primaryKey"`
	Title       string               `gorm:"column:title;not null"`
	Description string               `gorm:"column:description;type:text"`
	Category    string               `gorm:"column:category"`
	Status      string               `gorm:"column:status;not null"`
	Priority    string               `gorm:"column:priority;not null"`
	IsAnonymous bool                 `gorm:"column:is_anonymous;not null"`
	SubmittedBy *string              `gorm:"column:submitted_by"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
	Notes       []WhistleblowingNote `gorm:"foreignKey:ReportID"`
}

func (WhistleblowingReport) TableName() string {
	return "whistleblowing_reports"
}

type WhistleblowingNote struct {
	ID        int64     `gorm:"primaryKey"`
	ReportID  int64     `gorm:"column:report_id;index;not null"`
	Note      string    `gorm:"column:note;type:text;not null"`
	CreatedBy *string   `gorm:"column:created_by"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (WhistleblowingNote) TableName() string {
	return "whistleblowing_notes"
}

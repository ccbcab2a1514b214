package kv

import "time"

// Entry is one slot of the local demo store.
type Entry struct {
	Key       string    `gorm:"column:slot_key;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Entry) TableName() string {
	return "kv_entries"
}

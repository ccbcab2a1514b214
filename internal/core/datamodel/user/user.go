package user

import "time"

// AuthUser is an account of the hosted auth subsystem.
type AuthUser struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (AuthUser) TableName() string {
	return "auth_users"
}

// AuthSession backs one issued token pair; sign-out sets RevokedAt.
type AuthSession struct {
	ID        string     `gorm:"column:id;primaryKey"`
	UserID    string     `gorm:"column:user_id;index;not null"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null"`
	RevokedAt *time.Time `gorm:"column:revoked_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (AuthSession) TableName() string {
	return "auth_sessions"
}

// Profile is the per-account GRC profile; UserID references auth_users.id.
type Profile struct {
	ID         int64      `gorm:"primaryKey"`
	UserID     string     `gorm:"column:user_id;uniqueIndex;not null"`
	Name       string     `gorm:"column:name;not null"`
	Role       string     `gorm:"column:role"`
	Department string     `gorm:"column:department"`
	LastLogin  *time.Time `gorm:"column:last_login"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	Account    *AuthUser  `gorm:"foreignKey:UserID;references:ID"`
}

func (Profile) TableName() string {
	return "user_profiles"
}

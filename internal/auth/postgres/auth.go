package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/JinxSeven/Risk-360/internal/auth"
	userDatamodel "github.com/JinxSeven/Risk-360/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

var _ auth.RepositoryAPI = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func firstOrNil[T any](tx *gorm.DB) (*T, error) {
	var row T
	err := tx.First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetAccountByEmail matches the address case-insensitively.
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*userDatamodel.AuthUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return firstOrNil[userDatamodel.AuthUser](r.db.WithContext(ctx).Where("LOWER(email) = ?", email))
}

func (r *Repository) GetAccount(ctx context.Context, id string) (*userDatamodel.AuthUser, error) {
	return firstOrNil[userDatamodel.AuthUser](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *Repository) CreateAccount(ctx context.Context, account *userDatamodel.AuthUser) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	result := r.db.WithContext(ctx).
		Model(&userDatamodel.AuthUser{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) GetProfile(ctx context.Context, userID string) (*userDatamodel.Profile, error) {
	return firstOrNil[userDatamodel.Profile](r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *Repository) CreateProfile(ctx context.Context, profile *userDatamodel.Profile) error {
	return r.db.WithContext(ctx).Omit("Account").Create(profile).Error
}

func (r *Repository) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.Profile{}).
		Where("user_id = ?", userID).
		Update("last_login", at).Error
}

func (r *Repository) CreateSession(ctx context.Context, session *userDatamodel.AuthSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *Repository) GetSession(ctx context.Context, id string) (*userDatamodel.AuthSession, error) {
	return firstOrNil[userDatamodel.AuthSession](r.db.WithContext(ctx).Where("id = ?", id))
}

// RevokeSession keeps the first revocation time.
func (r *Repository) RevokeSession(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.AuthSession{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at).Error
}

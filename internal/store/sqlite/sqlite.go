package sqlite

import (
	"context"
	"errors"
	"fmt"

	kvDatamodel "github.com/JinxSeven/Risk-360/internal/core/datamodel/kv"
	"github.com/JinxSeven/Risk-360/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Store keeps the demo key-value slots in a SQLite file through gorm.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the SQLite file at path and migrates the table.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open local store %s: %w", path, err)
	}
	return New(db)
}

// New wraps an existing gorm handle, which tests point at ":memory:".
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&kvDatamodel.Entry{}); err != nil {
		return nil, fmt.Errorf("migrate local store: %w", err)
	}
	return &Store{db: db}, nil
}

var _ store.Store = (*Store)(nil)

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var e kvDatamodel.Entry
	err := s.db.WithContext(ctx).Where("slot_key = ?", key).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return e.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	e := kvDatamodel.Entry{Key: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("slot_key = ?", key).Delete(&kvDatamodel.Entry{}).Error
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// PingContext checks the SQLite handle for the health endpoint.
func (s *Store) PingContext(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

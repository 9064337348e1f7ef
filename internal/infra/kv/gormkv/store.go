// Package gormkv stores key-value payloads as rows of a gorm model. It runs
// on Postgres through the pgx-backed gorm dialector.
package gormkv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"warburtonsos/internal/kv/core"
)

var _ core.Store = (*Store)(nil)

const defaultDSN = "postgres://localhost/warburtons?sslmode=disable"

// Entry is the persisted row. Value holds the raw JSON list of one app.
type Entry struct {
	Key   string `gorm:"primaryKey;uniqueIndex"`
	Value []byte `gorm:"not null"`
}

// TableName pins the table name independent of gorm's pluralisation rules.
func (Entry) TableName() string { return "kv_entries" }

// Store persists payloads through gorm.
type Store struct {
	db *gorm.DB
}

// New connects to dsn (defaultDSN when empty) and migrates the entry table.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return Wrap(ctx, db)
}

// Wrap adopts an existing gorm handle and migrates the entry table.
func Wrap(ctx context.Context, db *gorm.DB) (*Store, error) {
	if err := db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &Store{db: db}, nil
}

// Driver returns the key-value driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverGorm }

// Get reads the payload stored at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if strings.TrimSpace(key) == "" {
		return nil, false, core.ErrEmptyKey
	}
	var entry Entry
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// Put upserts the payload stored at key.
func (s *Store) Put(ctx context.Context, key string, payload []byte) error {
	if strings.TrimSpace(key) == "" {
		return core.ErrEmptyKey
	}
	if payload == nil {
		payload = []byte{}
	}
	entry := Entry{Key: key, Value: payload}
	if err := s.db.WithContext(ctx).Clauses(upsert()).Create(&entry).Error; err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func upsert() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}
}

// Delete removes the row for key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys in ascending order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.WithContext(ctx).Model(&Entry{}).Order("key").Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	return keys, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the gorm handle for integration hooks.
func (s *Store) DB() *gorm.DB { return s.db }

package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is a row of the kv_entries table
type Entry struct {
	Key       string     `gorm:"primaryKey;size:255" json:"key"`
	Value     string     `gorm:"type:text;not null" json:"value"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName overrides the table name
func (Entry) TableName() string {
	return "kv_entries"
}

// PostgresStore keeps keys in a Postgres table through GORM. Expired rows
// read as absent and are removed by PurgeExpired.
type PostgresStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewPostgresStore creates a PostgresStore; ttl <= 0 means rows never expire.
func NewPostgresStore(db *gorm.DB, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl, now: time.Now}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	if entry.ExpiresAt != nil && !entry.ExpiresAt.After(s.now()) {
		return "", false, nil
	}
	return entry.Value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	now := s.now().UTC()
	entry := Entry{Key: key, Value: value, UpdatedAt: now}
	if s.ttl > 0 {
		expires := now.Add(s.ttl)
		entry.ExpiresAt = &expires
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Del removes all keys with a single DELETE statement.
func (s *PostgresStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("key IN ?", keys).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// PurgeExpired deletes rows whose TTL has passed and reports how many.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", s.now().UTC()).Delete(&Entry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge expired keys: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// WithLock holds a session advisory lock on hashtext(key) for the duration
// of fn. The lock lives on one pooled connection; fn may use any other.
func (s *PostgresStore) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	return s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := conn.Exec("SELECT pg_advisory_lock(hashtext(?))", key).Error; err != nil {
			return fmt.Errorf("failed to lock key %s: %w", key, err)
		}
		defer conn.WithContext(context.WithoutCancel(ctx)).Exec("SELECT pg_advisory_unlock(hashtext(?))", key)

		return fn(ctx)
	})
}

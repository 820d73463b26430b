package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one row of the session_entries table.
type Entry struct {
	SessionID string     `gorm:"column:session_id;primaryKey"`
	Key       string     `gorm:"column:entry_key;primaryKey"`
	Value     string     `gorm:"column:value;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null"`
}

func (Entry) TableName() string { return "session_entries" }

// SQLBackend persists session entries through gorm (sqlite or postgres).
type SQLBackend struct {
	db    *gorm.DB
	clock func() time.Time
}

func NewSQLBackend(db *gorm.DB) (*SQLBackend, error) {
	if db == nil {
		return nil, errors.New("gorm db is required")
	}
	return &SQLBackend{db: db, clock: time.Now}, nil
}

func (s *SQLBackend) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var entry Entry
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND entry_key = ?", sessionID, key).
		Where("expires_at IS NULL OR expires_at > ?", s.clock().UTC()).
		Take(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(entry.Value), nil
}

func (s *SQLBackend) Set(ctx context.Context, sessionID, key string, value []byte, ttl time.Duration) error {
	now := s.clock().UTC()
	entry := Entry{
		SessionID: sessionID,
		Key:       key,
		Value:     string(value),
		UpdatedAt: now,
	}
	if ttl > 0 {
		expires := now.Add(ttl)
		entry.ExpiresAt = &expires
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
}

func (s *SQLBackend) Del(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("session_id = ? AND entry_key IN ?", sessionID, keys).
		Delete(&Entry{}).Error
}

// PurgeExpired deletes rows whose expiry is at or before now.
func (s *SQLBackend) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now.UTC()).
		Delete(&Entry{})
	return res.RowsAffected, res.Error
}

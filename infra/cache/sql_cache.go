package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/amirasaad/quickcurrency/pkg/cache"
	"github.com/amirasaad/quickcurrency/pkg/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateCacheEntry is the table row behind SQLStorage.
type RateCacheEntry struct {
	PairKey  string    `gorm:"primaryKey;size:16"`
	Rate     float64   `gorm:"not null"`
	StoredAt time.Time `gorm:"not null"`
}

// TableName overrides the gorm default.
func (RateCacheEntry) TableName() string { return "rate_cache_entries" }

// SQLStorage implements cache.Storage on any gorm dialect (sqlite for a local
// file, postgres when shared).
type SQLStorage struct {
	db *gorm.DB
}

var _ cache.Storage = (*SQLStorage)(nil)

// NewSQLStorage migrates the cache table and returns the storage.
func NewSQLStorage(db *gorm.DB) (*SQLStorage, error) {
	if err := db.AutoMigrate(&RateCacheEntry{}); err != nil {
		return nil, fmt.Errorf("migrate rate cache table: %w", err)
	}
	return &SQLStorage{db: db}, nil
}

func (s *SQLStorage) Load(ctx context.Context, key string) (domain.CacheEntry, bool, error) {
	var rows []RateCacheEntry
	if err := s.db.WithContext(ctx).Where("pair_key = ?", key).Limit(1).Find(&rows).Error; err != nil {
		return domain.CacheEntry{}, false, err
	}
	if len(rows) == 0 {
		return domain.CacheEntry{}, false, nil
	}
	return domain.CacheEntry{Key: rows[0].PairKey, Rate: rows[0].Rate, Timestamp: rows[0].StoredAt}, true, nil
}

func (s *SQLStorage) Save(ctx context.Context, entry domain.CacheEntry) error {
	row := RateCacheEntry{PairKey: entry.Key, Rate: entry.Rate, StoredAt: entry.Timestamp}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pair_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate", "stored_at"}),
	}).Create(&row).Error
}

func (s *SQLStorage) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&RateCacheEntry{}).Error
}

func (s *SQLStorage) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.WithContext(ctx).Model(&RateCacheEntry{}).Pluck("pair_key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

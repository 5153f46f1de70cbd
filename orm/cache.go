package orm

import (
	"time"

	"gorm.io/gorm"
)

// ResponseCache stores raw upstream API responses keyed by namespace and
// request key.
type ResponseCache struct {
	CacheKey  string `gorm:"primaryKey"`
	Namespace string `gorm:"index"`
	Value     []byte
	CreatedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
}

func cacheKey(namespace, key string) string {
	return namespace + ":" + key
}

// GetCacheEntry returns an unexpired entry or gorm.ErrRecordNotFound.
func GetCacheEntry(db *gorm.DB, namespace, key string) (*ResponseCache, error) {
	var entry ResponseCache
	err := db.Where("cache_key = ? AND expires_at > ?", cacheKey(namespace, key), time.Now()).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SetCacheEntry upserts an entry that expires after ttl.
func SetCacheEntry(db *gorm.DB, namespace, key string, value []byte, ttl time.Duration) error {
	now := time.Now()
	entry := ResponseCache{
		CacheKey:  cacheKey(namespace, key),
		Namespace: namespace,
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return db.Save(&entry).Error
}

// CleanupCache removes expired entries and returns how many were deleted.
func CleanupCache(db *gorm.DB) (int64, error) {
	res := db.Where("expires_at < ?", time.Now()).Delete(&ResponseCache{})
	return res.RowsAffected, res.Error
}

package services

import (
	"context"
	"time"
)

// Cache stores JSON-encodable values by key. Implemented by the redis client.
type Cache interface {
	GetCache(ctx context.Context, key string, dest interface{}) error
	SetCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteCache(ctx context.Context, key string) error
}

const publicMenuCacheKey = "public_menu"

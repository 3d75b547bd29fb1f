package cache

import (
	"context"
	"fmt"

	"smartpantry/internal/infrastructure/config"
	"smartpantry/internal/pkg/common"
)

// ErrNotFound 鍵不存在
var ErrNotFound = common.ErrCacheMiss

// Backend 原始字串 key/value 儲存
type Backend interface {
	// Get 讀取值，不存在時回傳 ErrNotFound
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NewBackend 依設定建立儲存後端
func NewBackend(cfg *config.CacheConfig) (Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewManager(cfg.MaxEntries), nil
	case config.BackendRedis:
		return NewRedisService(&cfg.Redis)
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

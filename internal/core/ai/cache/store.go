package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"smartpantry/internal/infrastructure/metrics"
	"smartpantry/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultPrefix AI 回應快取的命名空間
const DefaultPrefix = "smartpantry_v1_"

// Store 以 JSON 序列化、加上命名空間前綴的 AI 回應快取。
// 所有失敗都只記錄日誌：讀取失敗視為未命中，寫入失敗視為未快取。
type Store struct {
	backend Backend
	prefix  string
}

// NewStore 創建快取；prefix 為空時使用 DefaultPrefix
func NewStore(backend Backend, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{
		backend: backend,
		prefix:  prefix,
	}
}

// Get 讀取並解析快取值到 v，未命中、後端錯誤、JSON 無效或為 null 時回傳 false
func (s *Store) Get(ctx context.Context, key string, v any) bool {
	operation := metrics.OperationOf(key)

	raw, err := s.backend.Get(ctx, s.prefix+key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			common.LogWarn("Cache read error", zap.String("鍵", key), zap.Error(err))
		}
		metrics.CacheLookups.WithLabelValues(operation, "miss").Inc()
		common.LogCacheMiss(operation, key)
		return false
	}

	// JSON null 不算命中
	if strings.TrimSpace(raw) == "null" {
		metrics.CacheLookups.WithLabelValues(operation, "miss").Inc()
		common.LogCacheMiss(operation, key)
		return false
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		common.LogWarn("Cache read error", zap.String("鍵", key), zap.Error(err))
		metrics.CacheLookups.WithLabelValues(operation, "miss").Inc()
		return false
	}

	metrics.CacheLookups.WithLabelValues(operation, "hit").Inc()
	common.LogCacheHit(operation, key)
	return true
}

// Set 序列化 v 並寫入後端；失敗（例如容量已滿）只記錄警告
func (s *Store) Set(ctx context.Context, key string, v any) {
	operation := metrics.OperationOf(key)

	data, err := common.ToJSON(v)
	if err != nil {
		metrics.CacheWriteFailures.WithLabelValues(operation).Inc()
		common.LogWarn("Cache write error - value not serializable", zap.String("鍵", key), zap.Error(err))
		return
	}

	if err := s.backend.Set(ctx, s.prefix+key, data); err != nil {
		metrics.CacheWriteFailures.WithLabelValues(operation).Inc()
		common.LogWarn("Cache write error - likely quota exceeded", zap.String("鍵", key), zap.Error(err))
		return
	}

	common.LogDebug("快取已儲存", zap.String("鍵", key))
}

// Delete 刪除快取值
func (s *Store) Delete(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, s.prefix+key); err != nil {
		common.LogWarn("Cache delete error", zap.String("鍵", key), zap.Error(err))
	}
}

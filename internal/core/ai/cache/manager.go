package cache

import (
	"context"
	"sync"
	"time"

	"smartpantry/internal/pkg/common"

	"go.uber.org/zap"
)

// CacheManager 記憶體儲存後端，沒有過期與淘汰機制
type CacheManager struct {
	mu         sync.RWMutex
	store      map[string]cacheEntry
	maxEntries int
	stats      cacheStats
}

// cacheEntry 緩存條目
type cacheEntry struct {
	value       string
	createdAt   time.Time
	updatedAt   time.Time
	accessCount int
}

// cacheStats 緩存統計
type cacheStats struct {
	hits   int64
	misses int64
	writes int64
	errors int64
}

// Stats 快取統計快照
type Stats struct {
	Size       int   `json:"size"`
	MaxEntries int   `json:"max_entries"`
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Writes     int64 `json:"writes"`
	Errors     int64 `json:"errors"`
}

// NewManager 創建記憶體儲存；maxEntries 為 0 表示不限容量
func NewManager(maxEntries int) *CacheManager {
	m := &CacheManager{
		store:      make(map[string]cacheEntry),
		maxEntries: maxEntries,
	}

	common.LogInfo("快取管理員已初始化",
		zap.String("backend", "memory"),
		zap.Int("最大容量", maxEntries),
	)

	return m
}

// Get 獲取緩存值
func (m *CacheManager) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[key]
	if !exists {
		m.stats.misses++
		return "", ErrNotFound
	}

	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++
	return entry.value, nil
}

// Set 設置緩存值；容量已滿時新鍵寫入失敗，既有鍵仍可覆寫
func (m *CacheManager) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	entry, exists := m.store[key]
	if !exists {
		if m.maxEntries > 0 && len(m.store) >= m.maxEntries {
			m.stats.errors++
			return common.ErrCacheFull
		}
		entry.createdAt = now
	}

	entry.value = value
	entry.updatedAt = now
	m.store[key] = entry
	m.stats.writes++
	return nil
}

// Delete 刪除緩存值
func (m *CacheManager) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.store, key)
	return nil
}

// Stats 獲取緩存統計信息
func (m *CacheManager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Stats{
		Size:       len(m.store),
		MaxEntries: m.maxEntries,
		Hits:       m.stats.hits,
		Misses:     m.stats.misses,
		Writes:     m.stats.writes,
		Errors:     m.stats.errors,
	}
}

// Close 關閉緩存管理器
func (m *CacheManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store = make(map[string]cacheEntry)
	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("寫入次數", m.stats.writes),
	)
	return nil
}

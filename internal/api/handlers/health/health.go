package health

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"smartpantry/internal/core/ai/cache"
	"smartpantry/internal/infrastructure/config"
	"smartpantry/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// probeKey 就緒檢查讀取的鍵，不需要存在
const probeKey = "smartpantry_readiness_probe"

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Provider  string                 `json:"provider"`
	Cache     string                 `json:"cache"`
	Runtime   map[string]interface{} `json:"runtime"`
	Stats     *cache.Stats           `json:"cache_stats,omitempty"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, ok := configFrom(c)
	if !ok {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}

	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Provider:  cfg.AI.Provider,
		Cache:     cfg.Cache.Backend,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	// 記憶體後端提供命中統計
	if backend, ok := backendFrom(c); ok {
		if manager, ok := backend.(*cache.CacheManager); ok {
			stats := manager.Stats()
			response.Stats = &stats
		}
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器，確認儲存後端可讀取
func ReadinessCheck(c *gin.Context) {
	backend, ok := backendFrom(c)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"error":  "cache backend not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if _, err := backend.Get(ctx, probeKey); err != nil && !errors.Is(err, cache.ErrNotFound) {
		common.LogWarn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func configFrom(c *gin.Context) (*config.Config, bool) {
	v, exists := c.Get("config")
	if !exists {
		return nil, false
	}
	cfg, ok := v.(*config.Config)
	return cfg, ok
}

func backendFrom(c *gin.Context) (cache.Backend, bool) {
	v, exists := c.Get("cache_backend")
	if !exists {
		return nil, false
	}
	backend, ok := v.(cache.Backend)
	return backend, ok
}

// Package metrics 定義快取與 AI 呼叫的 prometheus 指標
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheLookups 快取查詢次數
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartpantry",
			Name:      "cache_lookups_total",
			Help:      "Number of AI response cache lookups by result.",
		},
		[]string{"operation", "result"},
	)

	// CacheWriteFailures 快取寫入失敗次數
	CacheWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartpantry",
			Name:      "cache_write_failures_total",
			Help:      "Number of cache writes that were dropped.",
		},
		[]string{"operation"},
	)

	// AIRequests AI 呼叫次數
	AIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smartpantry",
			Name:      "ai_requests_total",
			Help:      "Number of generative model calls by operation and status.",
		},
		[]string{"provider", "operation", "status"},
	)

	// AIRequestDuration AI 呼叫耗時
	AIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smartpantry",
			Name:      "ai_request_duration_seconds",
			Help:      "Latency of generative model calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"provider", "operation"},
	)
)

// ObserveAI 記錄一次 AI 呼叫
func ObserveAI(provider, operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	AIRequests.WithLabelValues(provider, operation, status).Inc()
	AIRequestDuration.WithLabelValues(provider, operation).Observe(time.Since(start).Seconds())
}

// OperationOf 由快取鍵取出操作標籤（第一個底線之前）
func OperationOf(key string) string {
	if tag, _, ok := strings.Cut(key, "_"); ok {
		return tag
	}
	return "other"
}

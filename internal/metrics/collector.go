// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 指标收集器。
// 同时实现 handlers.OutcomeRecorder 与 gemini.Observer。
type Collector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRequestSize     *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 解题指标
	solveRequestsTotal   *prometheus.CounterVec
	solveRequestDuration *prometheus.HistogramVec

	// 后端指标
	backendRequestsTotal   *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec
	backendTokensUsed      *prometheus.CounterVec
	streamFramesTotal      *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector 创建指标收集器
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	// HTTP 指标
	c.httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.httpRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_size_bytes",
			Help:      "HTTP request size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	c.httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// 解题指标
	c.solveRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solve_requests_total",
			Help:      "Total number of solve requests by outcome",
		},
		[]string{"profile", "outcome"},
	)

	c.solveRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_request_duration_seconds",
			Help:      "Solve request duration in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"profile", "outcome"},
	)

	// 后端指标
	c.backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Total number of backend requests",
		},
		[]string{"model", "mode", "outcome"},
	)

	c.backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Backend request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"model", "mode"},
	)

	c.backendTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_tokens_used_total",
			Help:      "Total number of tokens reported by the backend",
		},
		[]string{"model", "type"}, // type: prompt, candidates
	)

	c.streamFramesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_frames_total",
			Help:      "Total number of backend stream frames",
		},
		[]string{"kind"}, // kind: valid, malformed
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// =============================================================================
// 🎯 HTTP 指标记录
// =============================================================================

// RecordHTTPRequest 记录 HTTP 请求
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration, requestSize, responseSize int64) {
	c.httpRequestsTotal.WithLabelValues(method, path, statusCode(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	c.httpRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	c.httpResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// =============================================================================
// 🧮 解题指标记录
// =============================================================================

// RecordSolve 记录一次解题请求的结果
func (c *Collector) RecordSolve(profile, outcome string, duration time.Duration) {
	c.solveRequestsTotal.WithLabelValues(profile, outcome).Inc()
	c.solveRequestDuration.WithLabelValues(profile, outcome).Observe(duration.Seconds())
}

// =============================================================================
// 🤖 后端指标记录
// =============================================================================

// ObserveBackendCall 记录后端调用
func (c *Collector) ObserveBackendCall(model, mode, outcome string, duration time.Duration) {
	c.backendRequestsTotal.WithLabelValues(model, mode, outcome).Inc()
	c.backendRequestDuration.WithLabelValues(model, mode).Observe(duration.Seconds())
}

// ObserveFrames 记录流式帧数
func (c *Collector) ObserveFrames(valid, malformed int) {
	if valid > 0 {
		c.streamFramesTotal.WithLabelValues("valid").Add(float64(valid))
	}
	if malformed > 0 {
		c.streamFramesTotal.WithLabelValues("malformed").Add(float64(malformed))
		c.logger.Debug("malformed stream frames skipped", zap.Int("count", malformed))
	}
}

// ObserveTokens 记录后端上报的 Token 用量
func (c *Collector) ObserveTokens(model string, prompt, candidates int64) {
	if prompt > 0 {
		c.backendTokensUsed.WithLabelValues(model, "prompt").Add(float64(prompt))
	}
	if candidates > 0 {
		c.backendTokensUsed.WithLabelValues(model, "candidates").Add(float64(candidates))
	}
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

// statusCode 将 HTTP 状态码转换为字符串
func statusCode(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

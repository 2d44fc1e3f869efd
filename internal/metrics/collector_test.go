package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var collectorNamespaceSeq uint64

func nextTestNamespace() string {
	seq := atomic.AddUint64(&collectorNamespaceSeq, 1)
	return fmt.Sprintf("test_%d", seq)
}

// =============================================================================
// 🧪 Collector 测试
// =============================================================================

func TestNewCollector(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	assert.NotNil(t, collector)
	assert.NotNil(t, collector.httpRequestsTotal)
	assert.NotNil(t, collector.httpRequestDuration)
	assert.NotNil(t, collector.solveRequestsTotal)
	assert.NotNil(t, collector.backendRequestsTotal)
	assert.NotNil(t, collector.backendTokensUsed)
	assert.NotNil(t, collector.streamFramesTotal)
}

func TestNewCollector_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() { NewCollector(nextTestNamespace(), nil) })
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	collector.RecordHTTPRequest("POST", "/", 200, 100*time.Millisecond, 1024, 2048)
	collector.RecordHTTPRequest("POST", "/", 201, 50*time.Millisecond, 512, 1024)
	collector.RecordHTTPRequest("GET", "/", 405, time.Millisecond, 0, 32)

	assert.Equal(t, 2, testutil.CollectAndCount(collector.httpRequestsTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(collector.httpRequestsTotal.WithLabelValues("POST", "/", "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.httpRequestsTotal.WithLabelValues("GET", "/", "4xx")))
}

func TestCollector_RecordSolve(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	collector.RecordSolve("flash-2.0-exp-stream", "success", 2*time.Second)
	collector.RecordSolve("flash-2.0-exp-stream", "success", time.Second)
	collector.RecordSolve("flash-2.0-exp-stream", "upstream_error", 300*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(collector.solveRequestsTotal.WithLabelValues("flash-2.0-exp-stream", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.solveRequestsTotal.WithLabelValues("flash-2.0-exp-stream", "upstream_error")))
	assert.Equal(t, 2, testutil.CollectAndCount(collector.solveRequestDuration))
}

func TestCollector_ObserveBackendCall(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	collector.ObserveBackendCall("gemini-2.0-flash-exp", "stream", "success", 500*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(collector.backendRequestsTotal.WithLabelValues("gemini-2.0-flash-exp", "stream", "success")))
	assert.Equal(t, 1, testutil.CollectAndCount(collector.backendRequestDuration))
}

func TestCollector_ObserveFrames(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	collector.ObserveFrames(3, 0)
	collector.ObserveFrames(2, 1)

	assert.Equal(t, float64(5), testutil.ToFloat64(collector.streamFramesTotal.WithLabelValues("valid")))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.streamFramesTotal.WithLabelValues("malformed")))
}

func TestCollector_ObserveTokens(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	// 零值不创建序列
	collector.ObserveTokens("gemini-2.0-flash", 0, 0)
	assert.Equal(t, 0, testutil.CollectAndCount(collector.backendTokensUsed))

	collector.ObserveTokens("gemini-2.0-flash", 120, 80)

	assert.Equal(t, float64(120), testutil.ToFloat64(collector.backendTokensUsed.WithLabelValues("gemini-2.0-flash", "prompt")))
	assert.Equal(t, float64(80), testutil.ToFloat64(collector.backendTokensUsed.WithLabelValues("gemini-2.0-flash", "candidates")))
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{200, "2xx"},
		{301, "3xx"},
		{429, "4xx"},
		{503, "5xx"},
		{100, "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusCode(tt.code), "code %d", tt.code)
	}
}

func TestCollector_ConcurrentRecording(t *testing.T) {
	collector := NewCollector(nextTestNamespace(), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.RecordHTTPRequest("POST", "/", 200, 100*time.Millisecond, 1024, 2048)
			collector.RecordSolve("flash-2.0", "success", time.Second)
			collector.ObserveBackendCall("gemini-2.0-flash", "unary", "success", time.Second)
			collector.ObserveFrames(1, 0)
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(10), testutil.ToFloat64(collector.httpRequestsTotal.WithLabelValues("POST", "/", "2xx")))
	assert.Equal(t, float64(10), testutil.ToFloat64(collector.solveRequestsTotal.WithLabelValues("flash-2.0", "success")))
	assert.Equal(t, float64(10), testutil.ToFloat64(collector.streamFramesTotal.WithLabelValues("valid")))
}

func TestCollector_MetricsRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()

	// 同时注册到默认 registry（promauto）与自定义 registry
	collector := NewCollector(nextTestNamespace(), zap.NewNop())
	registry.MustRegister(collector.solveRequestsTotal)

	collector.RecordSolve("flash-2.0", "empty_result", 0)

	count, err := testutil.GatherAndCount(registry)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

// FakeGemini 是 Gemini REST 后端的测试模拟实现。
//
// 支持状态码注入、按分块输出 SSE 流与请求记录。
package mocks

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// --- FakeGemini 结构 ---

// RecordedRequest 记录一次后端调用
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// FakeGemini 基于 httptest.Server 模拟 generateContent / streamGenerateContent
type FakeGemini struct {
	mu sync.Mutex

	status      int
	contentType string
	chunks      [][]byte

	requests []RecordedRequest
	server   *httptest.Server
}

// --- 构造函数和 Builder 方法 ---

// NewFakeGemini 启动模拟后端，测试结束时自动关闭
func NewFakeGemini(t testing.TB) *FakeGemini {
	t.Helper()
	f := &FakeGemini{
		status:      http.StatusOK,
		contentType: "application/json",
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// WithStatus 设置响应状态码与响应体
func (f *FakeGemini) WithStatus(status int, body string) *FakeGemini {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.contentType = "application/json"
	f.chunks = [][]byte{[]byte(body)}
	return f
}

// WithBody 设置 200 响应体（非流式）
func (f *FakeGemini) WithBody(body string) *FakeGemini {
	return f.WithStatus(http.StatusOK, body)
}

// WithChunks 设置 200 事件流，每个分块单独写出并 Flush
func (f *FakeGemini) WithChunks(chunks ...[]byte) *FakeGemini {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = http.StatusOK
	f.contentType = "text/event-stream"
	f.chunks = chunks
	return f
}

// WithSSE 设置 200 事件流，整体作为单个分块
func (f *FakeGemini) WithSSE(stream string) *FakeGemini {
	return f.WithChunks([]byte(stream))
}

// --- 访问方法 ---

// URL 返回模拟后端的基础地址
func (f *FakeGemini) URL() string {
	return f.server.URL
}

// Calls 返回调用次数
func (f *FakeGemini) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// LastRequest 返回最近一次调用
func (f *FakeGemini) LastRequest() (RecordedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return RecordedRequest{}, false
	}
	return f.requests[len(f.requests)-1], true
}

func (f *FakeGemini) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	status, contentType, chunks := f.status, f.contentType, f.chunks
	f.mu.Unlock()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	flusher, _ := w.(http.Flusher)
	for _, c := range chunks {
		if _, err := w.Write(c); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/BaSui01/solvegate/api"
)

// =============================================================================
// 📦 JSON 编码
// =============================================================================

// encodeJSON 编码为紧凑 JSON，不转义 <、>、&（Markdown 与 LaTeX 原样保留）
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})), nil
}

// WriteJSON 写入 JSON 响应
func WriteJSON(w http.ResponseWriter, status int, data any) {
	body, err := encodeJSON(data)
	if err != nil {
		http.Error(w, `{"error":"encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// =============================================================================
// 🌐 CORS 响应头
// =============================================================================

// jsonHeaders 返回每个非预检响应必带的响应头
func jsonHeaders() map[string]string {
	return map[string]string{
		api.HeaderContentType:  api.ContentTypeJSON,
		api.HeaderAllowOrigin:  api.AllowedOrigin,
		api.HeaderAllowHeaders: api.AllowedHeaders,
	}
}

// preflightHeaders 返回 OPTIONS 预检响应头
func preflightHeaders() map[string]string {
	return map[string]string{
		api.HeaderAllowOrigin:  api.AllowedOrigin,
		api.HeaderAllowHeaders: api.AllowedHeaders,
		api.HeaderAllowMethods: api.AllowedMethods,
	}
}

// ApplyErrorHeaders 为中间件直接写出的错误响应补齐 CORS 响应头
func ApplyErrorHeaders(w http.ResponseWriter) {
	for k, v := range jsonHeaders() {
		w.Header().Set(k, v)
	}
}

// WriteError 写出 {"error": message} 信封，供 Handle 之外的中间件使用
func WriteError(w http.ResponseWriter, status int, message string) {
	body, err := encodeJSON(api.ErrorBody{Error: message})
	if err != nil {
		body = `{"error":"internal server error"}`
	}
	ApplyErrorHeaders(w)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// =============================================================================
// 📊 响应包装器（用于捕获状态码）
// =============================================================================

// ResponseWriter 包装 http.ResponseWriter 以捕获状态码
type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
	Written    bool
}

// NewResponseWriter 创建新的 ResponseWriter
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{
		ResponseWriter: w,
		StatusCode:     http.StatusOK,
	}
}

// WriteHeader 重写 WriteHeader 以捕获状态码
func (rw *ResponseWriter) WriteHeader(code int) {
	if !rw.Written {
		rw.StatusCode = code
		rw.Written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

// Write 重写 Write 以标记已写入
func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if !rw.Written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

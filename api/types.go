package api

import (
	"net/http"
	"strings"
)

// =============================================================================
// 入站 / 出站信封
// =============================================================================

// CORS 与内容类型响应头
const (
	HeaderContentType  = "Content-Type"
	HeaderAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAllowHeaders = "Access-Control-Allow-Headers"
	HeaderAllowMethods = "Access-Control-Allow-Methods"

	ContentTypeJSON = "application/json"
	AllowedOrigin   = "*"
	AllowedHeaders  = "Content-Type"
	AllowedMethods  = "GET, POST, OPTIONS"
)

// InboundRequest 是与托管平台无关的入站请求
type InboundRequest struct {
	Method  string
	Headers map[string]string
	Body    string
}

// Header 按名称查找请求头（大小写不敏感）
func (r InboundRequest) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// NewInboundRequest 由 *http.Request 与已读取的请求体构造入站请求，
// 多值请求头只保留第一个值
func NewInboundRequest(r *http.Request, body []byte) InboundRequest {
	headers := make(map[string]string, len(r.Header))
	for k, v := range r.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return InboundRequest{
		Method:  r.Method,
		Headers: headers,
		Body:    string(body),
	}
}

// OutboundResponse 每次调用恰好产生一个，构造后不再修改
type OutboundResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// WriteTo 将响应写入 http.ResponseWriter
func (o OutboundResponse) WriteTo(w http.ResponseWriter) error {
	for k, v := range o.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(o.StatusCode)
	if o.Body == "" {
		return nil
	}
	_, err := w.Write([]byte(o.Body))
	return err
}

// =============================================================================
// 响应体
// =============================================================================

// SolveRequest 解题请求体
// @Description base64 编码的题目图片
type SolveRequest struct {
	// base64 图片数据（不含 data: 前缀）
	Base64ImageData string `json:"base64ImageData" example:"/9j/4AAQSkZJRg..."`
}

// SuccessBody 成功响应体
// @Description 解题成功
type SuccessBody struct {
	Success bool   `json:"success" example:"true"`
	Content string `json:"content" example:"**문제 번호:** 1"`
}

// ErrorBody 错误响应体，status 仅在透传后端错误时出现
// @Description 错误响应
type ErrorBody struct {
	Error   string `json:"error"`
	Status  int    `json:"status,omitempty"`
	Details string `json:"details,omitempty"`
}

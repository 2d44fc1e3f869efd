package gemini

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL 为 Gemini 公共端点
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// ImageMimeType 是转发图片时声明的 MIME 类型
const ImageMimeType = "image/jpeg"

// BuildPayload 构造后端请求体：先提示词，再内联图片。
// 图片数据原样透传，生成参数完全来自档案。
func BuildPayload(p Profile, base64Image string) GenerateContentRequest {
	return GenerateContentRequest{
		Contents: []Content{{
			Parts: []Part{
				{Text: p.Prompt},
				{InlineData: &InlineData{MimeType: ImageMimeType, Data: base64Image}},
			},
		}},
		GenerationConfig: p.Generation,
	}
}

// Endpoint 构造后端 URL，API Key 以 query 参数传递。
// 流式模式附加 alt=sse，使后端按 "data: " 行输出事件。
func Endpoint(baseURL string, p Profile, apiKey string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	method := "generateContent"
	q := url.Values{}
	if p.Streaming {
		method = "streamGenerateContent"
		q.Set("alt", "sse")
	}
	q.Set("key", apiKey)
	return fmt.Sprintf("%s/v1beta/models/%s:%s?%s",
		strings.TrimRight(baseURL, "/"), url.PathEscape(p.Model), method, q.Encode())
}

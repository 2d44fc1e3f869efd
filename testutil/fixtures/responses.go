// =============================================================================
// 📦 测试数据工厂 - Gemini 响应测试数据
// =============================================================================
// 提供 generateContent 响应体与 SSE 帧的构造函数
// =============================================================================
package fixtures

import (
	"encoding/json"
	"strings"
)

// SampleImage 是一段合法的 base64 数据（1x1 JPEG 头部片段）
const SampleImage = "/9j/4AAQSkZJRgABAQAAAQABAAD/2wBDAAgGBgcGBQgHBwcJCQgKDBQNDAsLDBkSEw8UHR"

// SampleAnswer 是一段符合五段结构的 Markdown 答案
const SampleAnswer = "**문제 번호:** 1\n\n**문제 분석:** 일차방정식\n\n**풀이 과정:** $2x+1=5$ 에서 $x=2$\n\n**정답:** 2\n\n**추가 코멘트:** 이항할 때 부호에 주의"

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type usage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type response struct {
	Candidates    []candidate `json:"candidates"`
	UsageMetadata *usage      `json:"usageMetadata,omitempty"`
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// =============================================================================
// 🎯 响应体工厂
// =============================================================================

// TextFrame 返回只含一段文本的响应 JSON
func TextFrame(text string) string {
	return mustJSON(response{
		Candidates: []candidate{{Content: content{Parts: []part{{Text: text}}, Role: "model"}}},
	})
}

// FinalFrame 返回带 finishReason 与 usageMetadata 的最后一帧
func FinalFrame(text, finishReason string, promptTokens, candidateTokens int) string {
	return mustJSON(response{
		Candidates: []candidate{{
			Content:      content{Parts: []part{{Text: text}}, Role: "model"},
			FinishReason: finishReason,
		}},
		UsageMetadata: &usage{
			PromptTokenCount:     promptTokens,
			CandidatesTokenCount: candidateTokens,
			TotalTokenCount:      promptTokens + candidateTokens,
		},
	})
}

// UnaryResponse 返回非流式 generateContent 响应体
func UnaryResponse(text string) string {
	return TextFrame(text)
}

// =============================================================================
// 🌊 SSE 工厂
// =============================================================================

// SSE 将帧拼接为 "data: ...\n\n" 格式的事件流
func SSE(frames ...string) string {
	var b strings.Builder
	for _, f := range frames {
		b.WriteString("data: ")
		b.WriteString(f)
		b.WriteString("\n\n")
	}
	return b.String()
}

// SSECRLF 与 SSE 相同，但使用 CRLF 行尾
func SSECRLF(frames ...string) string {
	var b strings.Builder
	for _, f := range frames {
		b.WriteString("data: ")
		b.WriteString(f)
		b.WriteString("\r\n\r\n")
	}
	return b.String()
}

// Done 是流终止帧内容
const Done = "[DONE]"

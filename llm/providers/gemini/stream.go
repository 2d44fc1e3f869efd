package gemini

import (
	"bytes"
	"errors"
	"io"

	"github.com/tidwall/gjson"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	framePrefix   = "data: "
	frameDone     = "[DONE]"
	textPath      = "candidates.0.content.parts.0.text"
	finishPath    = "candidates.0.finishReason"
	usagePath     = "usageMetadata"
	readChunkSize = 4096
)

// StreamAggregator 将 SSE 风格的响应体重组为单一文本。
//
// 未以换行结束的尾部片段会保留到下一批数据到达，流结束时作为最后一行处理。
// 每批数据中遇到 [DONE] 只跳过该批剩余的行。
type StreamAggregator struct {
	pending []byte
	text    bytes.Buffer
	result  Result
}

// NewStreamAggregator 创建聚合器
func NewStreamAggregator() *StreamAggregator {
	return &StreamAggregator{}
}

// Feed 处理一批已解码的 UTF-8 数据
func (a *StreamAggregator) Feed(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	a.pending = append(a.pending, chunk...)

	idx := bytes.LastIndexByte(a.pending, '\n')
	if idx < 0 {
		return
	}
	complete := a.pending[:idx]
	rest := a.pending[idx+1:]

	for _, line := range bytes.Split(complete, []byte{'\n'}) {
		if !a.handleLine(line) {
			break
		}
	}

	// 新切片，避免 pending 无限增长
	a.pending = append([]byte(nil), rest...)
}

// Finish 处理尾部片段并返回聚合结果，文本为空时返回 EmptyResult 错误
func (a *StreamAggregator) Finish() (*Result, error) {
	if len(a.pending) > 0 {
		a.handleLine(a.pending)
		a.pending = nil
	}
	res := a.result
	res.Text = a.text.String()
	res.Complete = true
	if res.Text == "" {
		return &res, ErrEmptyResult
	}
	return &res, nil
}

// handleLine 返回 false 表示当前批次应停止
func (a *StreamAggregator) handleLine(line []byte) bool {
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if !bytes.HasPrefix(line, []byte(framePrefix)) {
		return true
	}
	payload := line[len(framePrefix):]
	if string(payload) == frameDone {
		return false
	}

	a.result.Frames++
	if !gjson.ValidBytes(payload) {
		a.result.MalformedFrames++
		return true
	}
	a.absorb(payload)
	return true
}

func (a *StreamAggregator) absorb(doc []byte) {
	if t := gjson.GetBytes(doc, textPath); t.Type == gjson.String && t.Str != "" {
		a.text.WriteString(t.Str)
	}
	if fr := gjson.GetBytes(doc, finishPath); fr.Type == gjson.String {
		a.result.FinishReason = fr.Str
	}
	if u := gjson.GetBytes(doc, usagePath); u.IsObject() {
		a.result.Usage = Usage{
			PromptTokens:     u.Get("promptTokenCount").Int(),
			CandidatesTokens: u.Get("candidatesTokenCount").Int(),
			TotalTokens:      u.Get("totalTokenCount").Int(),
		}
	}
}

// AggregateStream 读取完整响应体并聚合。
// 多字节 UTF-8 序列跨读取边界时由解码器暂存，非法字节替换为 U+FFFD。
func AggregateStream(body io.Reader) (*Result, error) {
	decoded := transform.NewReader(body, unicode.UTF8.NewDecoder())
	agg := NewStreamAggregator()
	buf := make([]byte, readChunkSize)
	for {
		n, err := decoded.Read(buf)
		if n > 0 {
			agg.Feed(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return agg.Finish()
}

// ParseUnary 解析非流式响应体
func ParseUnary(body []byte) (*Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}
	agg := NewStreamAggregator()
	agg.absorb(body)
	agg.result.Frames = 1
	return agg.Finish()
}

package gemini

// GenerateContentRequest 是 generateContent / streamGenerateContent 的请求体
type GenerateContentRequest struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationParams `json:"generationConfig"`
}

// Content 是一组有序的消息片段
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part 为文本或内联图片之一
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData 携带 base64 编码的二进制数据
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Usage 记录后端返回的 usageMetadata
type Usage struct {
	PromptTokens     int64
	CandidatesTokens int64
	TotalTokens      int64
}

// Result 是流式与非流式两种模式共同的聚合结果
type Result struct {
	Text     string
	Complete bool

	// 以下字段仅用于日志与指标
	Model           string
	Frames          int
	MalformedFrames int
	FinishReason    string
	Usage           Usage
}

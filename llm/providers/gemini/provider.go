package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BaSui01/solvegate/internal/tlsutil"
	"github.com/BaSui01/solvegate/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var (
	// ErrEmptyResult 表示后端响应中没有可提取的文本
	ErrEmptyResult = errors.New("gemini: backend returned no text")
	// ErrMalformedResponse 表示非流式响应体不是合法 JSON
	ErrMalformedResponse = errors.New("gemini: malformed backend response")
)

// 后端调用结果标签
const (
	outcomeSuccess   = "success"
	outcomeUpstream  = "upstream_error"
	outcomeEmpty     = "empty_result"
	outcomeTransport = "transport_error"
	outcomeMalformed = "malformed"
)

// Config 后端连接配置，凭据在构造时注入
type Config struct {
	APIKey  string
	BaseURL string
	// Timeout 为 0 表示不设置客户端超时
	Timeout time.Duration
}

// Option 配置 Provider 的可选依赖
type Option func(*Provider)

// WithHTTPClient 替换默认的 HTTP 客户端
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

// WithObserver 注入统计观察者
func WithObserver(o Observer) Option {
	return func(p *Provider) {
		if o != nil {
			p.observer = o
		}
	}
}

// Provider 调用 Gemini generateContent / streamGenerateContent 并聚合文本。
// Provider 无请求间可变状态，可被并发使用。
type Provider struct {
	cfg      Config
	profile  Profile
	client   *http.Client
	logger   *zap.Logger
	observer Observer
	inst     *instrumentation
}

// NewProvider 创建 Provider，profile 应已通过 Validate
func NewProvider(cfg Config, profile Profile, logger *zap.Logger, opts ...Option) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Provider{
		cfg:      cfg,
		profile:  profile,
		client:   tlsutil.NewBackendClient(cfg.Timeout),
		logger:   logger.With(zap.String("component", "gemini"), zap.String("profile", profile.Name)),
		observer: nopObserver{},
		inst:     newInstrumentation(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name 返回 Provider 名称
func (p *Provider) Name() string { return "gemini" }

// Profile 返回当前部署档案
func (p *Provider) Profile() Profile { return p.profile }

// Configured 报告是否已配置后端凭据
func (p *Provider) Configured() bool { return p.cfg.APIKey != "" }

// Solve 将图片与提示词发送给后端，返回聚合后的完整文本。
// 错误均为 *types.Error：UPSTREAM_ERROR 透传后端状态码与原始响应体，
// EMPTY_RESULT 表示无文本，其余为 INTERNAL_ERROR。
func (p *Provider) Solve(ctx context.Context, base64Image string) (*Result, error) {
	if !p.Configured() {
		return nil, types.NewError(types.ErrConfiguration, "backend credential is not configured").
			WithProvider(p.Name())
	}

	ctx, span := p.inst.start(ctx, p.profile)
	defer span.End()

	start := time.Now()
	res, n, outcome, err := p.do(ctx, base64Image)
	elapsed := time.Since(start)

	p.observer.ObserveBackendCall(p.profile.Model, p.profile.Mode(), outcome, elapsed)
	p.inst.record(ctx, p.profile, outcome, elapsed, n)
	span.SetAttributes(attribute.String("gemini.outcome", outcome))

	if res != nil {
		p.observer.ObserveFrames(res.Frames-res.MalformedFrames, res.MalformedFrames)
		p.observer.ObserveTokens(p.profile.Model, res.Usage.PromptTokens, res.Usage.CandidatesTokens)
		span.SetAttributes(
			attribute.Int("gemini.frames", res.Frames),
			attribute.Int("gemini.malformed_frames", res.MalformedFrames),
			attribute.Int64("gemini.tokens.total", res.Usage.TotalTokens),
		)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}

	p.logger.Debug("backend call completed",
		zap.Duration("duration", elapsed),
		zap.Int("frames", res.Frames),
		zap.Int("malformed_frames", res.MalformedFrames),
		zap.Int("text_length", len(res.Text)),
		zap.String("finish_reason", res.FinishReason),
		zap.Int64("total_tokens", res.Usage.TotalTokens),
	)
	return res, nil
}

// do 执行一次后端调用，返回结果、读取的响应字节数与结果标签
func (p *Provider) do(ctx context.Context, base64Image string) (*Result, int, string, error) {
	payload, err := json.Marshal(BuildPayload(p.profile, base64Image))
	if err != nil {
		return nil, 0, outcomeTransport, p.internalError("encode backend request", err)
	}

	endpoint := Endpoint(p.cfg.BaseURL, p.profile, p.cfg.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, outcomeTransport, p.internalError("create backend request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		// *url.Error 会带上含 key 的 URL
		return nil, 0, outcomeTransport, p.internalError("backend request failed", redactURLError(err))
	}
	defer resp.Body.Close()

	body := &countingReader{r: resp.Body}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, readErr := io.ReadAll(body)
		if readErr != nil {
			p.logger.Warn("failed to read backend error body", zap.Error(readErr))
		}
		p.logger.Warn("backend returned error status",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_length", len(raw)),
		)
		return nil, body.n, outcomeUpstream, types.NewUpstreamError(resp.StatusCode, string(raw), p.Name())
	}

	var res *Result
	if p.profile.Streaming {
		res, err = AggregateStream(body)
	} else {
		var raw []byte
		raw, err = io.ReadAll(body)
		if err == nil {
			res, err = ParseUnary(raw)
		}
	}
	if res != nil {
		res.Model = p.profile.Model
	}

	switch {
	case err == nil:
		return res, body.n, outcomeSuccess, nil
	case errors.Is(err, ErrEmptyResult):
		p.logger.Warn("backend returned no text",
			zap.Int("frames", res.Frames),
			zap.Int("malformed_frames", res.MalformedFrames),
			zap.String("finish_reason", res.FinishReason),
		)
		return res, body.n, outcomeEmpty, types.NewEmptyResultError(p.Name()).WithCause(err)
	case errors.Is(err, ErrMalformedResponse):
		return nil, body.n, outcomeMalformed, p.internalError("invalid JSON in backend response", err)
	default:
		return nil, body.n, outcomeTransport, p.internalError("read backend response", err)
	}
}

func (p *Provider) internalError(msg string, err error) *types.Error {
	return types.NewError(types.ErrInternalError, fmt.Sprintf("%s: %v", msg, err)).
		WithCause(err).
		WithProvider(p.Name())
}

// redactURLError 去掉 *url.Error 中的 URL，只保留底层错误
func redactURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return fmt.Errorf("%s: %w", ue.Op, ue.Err)
	}
	return err
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n += n
	return n, err
}

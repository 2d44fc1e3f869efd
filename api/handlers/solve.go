package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BaSui01/solvegate/api"
	"github.com/BaSui01/solvegate/internal/ctxkeys"
	"github.com/BaSui01/solvegate/internal/i18n"
	"github.com/BaSui01/solvegate/llm/providers/gemini"
	"github.com/BaSui01/solvegate/types"
	"go.uber.org/zap"
)

// =============================================================================
// 🧮 解题 Handler
// =============================================================================

// DefaultMaxBodyBytes 请求体上限（base64 图片）
const DefaultMaxBodyBytes int64 = 20 << 20

// Solver 执行一次后端解题调用
type Solver interface {
	Configured() bool
	Profile() gemini.Profile
	Solve(ctx context.Context, base64Image string) (*gemini.Result, error)
}

// OutcomeRecorder 记录每次请求的处理结果
type OutcomeRecorder interface {
	RecordSolve(profile, outcome string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordSolve(string, string, time.Duration) {}

// SolveOption 配置 SolveHandler
type SolveOption func(*SolveHandler)

// WithErrorDetails 在未分类错误的响应中附带 details 字段
func WithErrorDetails(enabled bool) SolveOption {
	return func(h *SolveHandler) { h.exposeDetails = enabled }
}

// WithMaxBodyBytes 设置 HTTP 适配层的请求体上限
func WithMaxBodyBytes(n int64) SolveOption {
	return func(h *SolveHandler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// WithOutcomeRecorder 注入结果记录器
func WithOutcomeRecorder(r OutcomeRecorder) SolveOption {
	return func(h *SolveHandler) {
		if r != nil {
			h.recorder = r
		}
	}
}

// SolveHandler 校验请求、调用后端并归一化结果。
// 不持有请求间可变状态，可被并发调用。
type SolveHandler struct {
	solver        Solver
	catalog       *i18n.Catalog
	logger        *zap.Logger
	recorder      OutcomeRecorder
	exposeDetails bool
	maxBodyBytes  int64
}

// NewSolveHandler 创建解题处理器
func NewSolveHandler(solver Solver, catalog *i18n.Catalog, logger *zap.Logger, opts ...SolveOption) *SolveHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &SolveHandler{
		solver:       solver,
		catalog:      catalog,
		logger:       logger.With(zap.String("component", "solve_handler")),
		recorder:     nopRecorder{},
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle 处理一次调用，所有错误（含 panic）都在此转换为响应
func (h *SolveHandler) Handle(ctx context.Context, req api.InboundRequest) (resp api.OutboundResponse) {
	start := time.Now()
	lang := req.Header("Accept-Language")
	outcome := "success"

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic while solving",
				zap.Any("panic", r),
				zap.String("request_id", requestID(ctx)),
				zap.Stack("stack"),
			)
			err := types.NewError(types.ErrInternalError, fmt.Sprint(r))
			resp, outcome = h.fromError(lang, err)
		}
		h.recorder.RecordSolve(h.solver.Profile().Name, outcome, time.Since(start))
	}()

	switch {
	case req.Method == http.MethodOptions:
		outcome = "preflight"
		return preflight()
	case req.Method != http.MethodPost:
		outcome = "method_not_allowed"
		return methodNotAllowed()
	}

	image, err := h.validate(req, lang)
	if err != nil {
		resp, outcome = h.fromError(lang, err)
		return resp
	}

	res, err := h.solver.Solve(ctx, image)
	if err != nil {
		resp, outcome = h.fromError(lang, err)
		h.logger.Warn("solve failed",
			zap.String("request_id", requestID(ctx)),
			zap.String("outcome", outcome),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return resp
	}

	h.logger.Info("solve completed",
		zap.String("request_id", requestID(ctx)),
		zap.String("model", res.Model),
		zap.Int("text_length", len(res.Text)),
		zap.Duration("duration", time.Since(start)),
	)
	return h.success(res.Text)
}

// ServeHTTP 是 Handle 的 net/http 适配
// @Summary 解题
// @Description 上传 base64 图片，返回 Markdown 解题文本
// @Tags 解题
// @Accept json
// @Produce json
// @Param request body api.SolveRequest true "题目图片"
// @Success 200 {object} api.SuccessBody "解题成功"
// @Failure 400 {object} api.ErrorBody "缺少图片"
// @Failure 405 {object} api.ErrorBody "方法不允许"
// @Failure 500 {object} api.ErrorBody "服务端错误"
// @Router / [post]
func (h *SolveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		lang := r.Header.Get("Accept-Language")
		var tooLarge *http.MaxBytesError
		var resp api.OutboundResponse
		if errors.As(err, &tooLarge) {
			resp, _ = h.fromError(lang, types.NewError(types.ErrInvalidRequest,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)).
				WithHTTPStatus(http.StatusRequestEntityTooLarge))
		} else {
			resp, _ = h.fromError(lang, types.NewError(types.ErrInternalError, "read request body: "+err.Error()).WithCause(err))
		}
		h.write(w, resp)
		return
	}

	h.write(w, h.Handle(r.Context(), api.NewInboundRequest(r, body)))
}

func (h *SolveHandler) write(w http.ResponseWriter, resp api.OutboundResponse) {
	if err := resp.WriteTo(w); err != nil {
		h.logger.Debug("write response failed", zap.Error(err))
	}
}

func requestID(ctx context.Context) string {
	id, _ := ctxkeys.RequestID(ctx)
	return id
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/BaSui01/solvegate/api"
	"github.com/BaSui01/solvegate/internal/i18n"
	"github.com/BaSui01/solvegate/types"
)

// =============================================================================
// 🔄 结果归一化
// =============================================================================

func preflight() api.OutboundResponse {
	return api.OutboundResponse{
		StatusCode: http.StatusOK,
		Headers:    preflightHeaders(),
	}
}

func methodNotAllowed() api.OutboundResponse {
	return envelope(http.StatusMethodNotAllowed, api.ErrorBody{Error: "Method Not Allowed"})
}

func (h *SolveHandler) success(text string) api.OutboundResponse {
	return envelope(http.StatusOK, api.SuccessBody{Success: true, Content: text})
}

// fromError 将错误映射为响应，并返回用于日志与指标的结果标签
func (h *SolveHandler) fromError(lang string, err error) (api.OutboundResponse, string) {
	e, ok := types.AsError(err)
	if !ok {
		e = types.NewError(types.ErrInternalError, err.Error()).WithCause(err)
	}
	outcome := strings.ToLower(string(e.Code))

	switch e.Code {
	case types.ErrUpstreamError:
		status := e.Status()
		prefix := h.catalog.Message(lang, i18n.BackendErrorPrefix)
		return envelope(status, api.ErrorBody{Error: prefix + ": " + e.Message, Status: status}), outcome
	case types.ErrEmptyResult:
		return envelope(http.StatusInternalServerError, api.ErrorBody{Error: h.catalog.Message(lang, i18n.EmptyResult)}), outcome
	case types.ErrConfiguration:
		return envelope(http.StatusInternalServerError, api.ErrorBody{Error: h.catalog.Message(lang, i18n.ConfigMissing)}), outcome
	case types.ErrInvalidRequest, types.ErrMethodNotAllowed:
		return envelope(e.Status(), api.ErrorBody{Error: e.Message}), outcome
	}

	body := api.ErrorBody{Error: e.Message}
	if body.Error == "" {
		body.Error = h.catalog.Message(lang, i18n.InternalDefault)
	}
	if h.exposeDetails {
		body.Details = err.Error()
	}
	return envelope(http.StatusInternalServerError, body), "internal_error"
}

// envelope 构造带 JSON 与 CORS 响应头的响应
func envelope(status int, body any) api.OutboundResponse {
	encoded, err := encodeJSON(body)
	if err != nil {
		status = http.StatusInternalServerError
		encoded = `{"error":"failed to encode response"}`
	}
	return api.OutboundResponse{
		StatusCode: status,
		Headers:    jsonHeaders(),
		Body:       encoded,
	}
}

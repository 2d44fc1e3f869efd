package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/BaSui01/solvegate/api"
	"github.com/BaSui01/solvegate/internal/i18n"
	"github.com/BaSui01/solvegate/types"
)

const imageField = "base64ImageData"

// validate 依次检查请求体 JSON、后端凭据与图片字段，返回图片数据。
// 请求体解析失败为未分类错误（500），先于凭据检查。
func (h *SolveHandler) validate(req api.InboundRequest, lang string) (string, error) {
	var body any
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		return "", types.NewError(types.ErrInternalError, fmt.Sprintf("invalid JSON body: %v", err)).WithCause(err)
	}
	if body == nil {
		return "", types.NewError(types.ErrInternalError, "invalid JSON body: null")
	}

	if !h.solver.Configured() {
		return "", types.NewError(types.ErrConfiguration, h.catalog.Message(lang, i18n.ConfigMissing))
	}

	obj, _ := body.(map[string]any)
	image, _ := obj[imageField].(string)
	if image == "" {
		return "", types.NewError(types.ErrInvalidRequest, h.catalog.Message(lang, i18n.ImageMissing))
	}
	return image, nil
}

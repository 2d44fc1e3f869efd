// Copyright 2026 AgentFlow Authors. All rights reserved.
// Use of this source code is governed by the project license.

/*
# 概述

包 gemini 对接 Gemini REST API（generativelanguage.googleapis.com），
负责构建解题请求、选择流式或非流式传输，并把响应聚合为单一文本。

# 核心结构体

  - Profile：部署档案（模型、流式开关、提示词、生成参数），封闭集合
  - Provider：持有注入的 API Key 与 http.Client，Solve 执行一次调用
  - StreamAggregator：SSE 行缓冲与帧解析，跨读取保留未完成的行
  - Result：两种模式共同的聚合结果，附带帧计数与 usageMetadata

# 端点

  - 非流式：/v1beta/models/{model}:generateContent?key=...
  - 流式：/v1beta/models/{model}:streamGenerateContent?alt=sse&key=...

# 错误

Solve 返回的错误均为 *types.Error：后端非 2xx 为 UPSTREAM_ERROR（原样携带
状态码与响应体，不重试），无文本为 EMPTY_RESULT，其余为 INTERNAL_ERROR。
*/
package gemini

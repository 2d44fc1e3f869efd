// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package types 提供 SolveGate 网关的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 api、llm/providers/gemini
等上层模块提供统一的错误契约。

# 核心类型

  - Error / ErrorCode：结构化错误体系，含 HTTP 状态码、Retryable、Provider 标记

# 错误分类

  - INVALID_REQUEST：调用方输入错误（400）
  - METHOD_NOT_ALLOWED：非 POST 请求（405）
  - CONFIGURATION：服务端缺少凭据等配置错误（500）
  - UPSTREAM_ERROR：后端非 2xx 响应，透传状态码与原始响应体
  - EMPTY_RESULT：后端响应中没有可提取的文本（500）
  - INTERNAL_ERROR：其他未分类错误（500）

# 错误工具链

AsError / IsErrorCode / IsRetryable / GetErrorCode 均支持 errors.As 链式解包。
*/
package types

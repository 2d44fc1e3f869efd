// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package api 定义 SolveGate 对外的请求/响应契约。

# 概述

InboundRequest / OutboundResponse 是与托管平台无关的函数签名：
方法、请求头与原始请求体进入，状态码、响应头映射与 JSON 字符串输出。
net/http 适配见 api/handlers。

# 响应体

  - SuccessBody：{"success":true,"content":"..."}
  - ErrorBody：{"error":"...","status":429}（status 仅后端错误时出现）
*/
package api

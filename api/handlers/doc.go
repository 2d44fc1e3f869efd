// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package handlers 提供 solvegate HTTP API 的请求处理器实现。

# 概述

handlers 包实现解题端点与运维端点的请求处理逻辑。解题端点先得到
传输无关的 api.OutboundResponse，再写回 net/http，因此同一套逻辑
可以挂在任意 HTTP 框架或无服务器运行时之后。

# 核心类型

  - SolveHandler：解题端点：预检、方法检查、校验、调用后端、归一化
  - Solver：后端抽象，由 gemini.Provider 实现
  - OutcomeRecorder：按结果标签记录请求耗时，由 metrics.Collector 实现
  - HealthHandler：服务健康检查（/health, /healthz, /ready, /version）
  - ResponseWriter：包装 http.ResponseWriter 以捕获状态码

# 处理顺序

  1. OPTIONS 预检直接返回 200 与 CORS 头
  2. 非 POST 返回 405
  3. 请求体解析失败返回 500，后端凭据缺失返回 500
  4. 缺少 base64ImageData 返回 400
  5. 调用后端，成功返回 {"success":true,"content":...}
  6. 后端非 2xx 时透传状态码，错误消息带后端原始响应体

所有非预检响应都带 Content-Type 与 CORS 响应头；处理过程中的 panic
被恢复为 500 内部错误。错误消息按 Accept-Language 本地化，默认韩语。
*/
package handlers

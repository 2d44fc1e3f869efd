// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的指标采集能力，覆盖
HTTP、解题请求与 Gemini 后端三个维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
自动注册机制，避免手动管理 Registry。所有指标按 namespace 隔离。

# 核心类型

  - Collector：指标收集器，同时实现 handlers.OutcomeRecorder 与
    gemini.Observer，由 cmd/solvegate 注入两侧。

# 主要能力

  - HTTP 指标：请求总数、请求耗时、请求/响应体大小，
    按 method/path/status 分组，状态码归类为 2xx/3xx/4xx/5xx。
  - 解题指标：按 profile/outcome 统计请求数与耗时。
  - 后端指标：调用次数与耗时（model/mode/outcome）、
    usageMetadata 上报的 Token 用量、流式帧数（valid/malformed）。
*/
package metrics

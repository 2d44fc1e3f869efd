// Copyright 2026 AgentFlow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
Package testutil 提供 SolveGate 测试的共享工具和辅助函数。

# 概述

testutil 包为各包单元测试提供统一的辅助能力，
避免重复实现相似的测试基础设施。

# 核心能力

  - 上下文辅助: TestContext / TestContextWithTimeout / CancelledContext，
    自动注册 Cleanup 防止泄漏
  - 分块读取: SplitAt / ChunkReader，模拟任意字节边界的网络分包
  - 资源跟踪: CloseTracker 记录响应体是否被关闭

# 子包

  - testutil/mocks: FakeGemini，基于 httptest 的 Gemini 后端模拟，
    支持状态码注入、分块 SSE 输出与请求记录
  - testutil/fixtures: Gemini 响应帧与 SSE 流构造工具

# 使用示例

	backend := mocks.NewFakeGemini(t).WithSSE(fixtures.TextFrame("hello"))
	cfg := gemini.Config{APIKey: "k", BaseURL: backend.URL()}
*/
package testutil

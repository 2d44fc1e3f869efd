// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
SolveGate 服务入口，负责装配配置、日志、遥测与 HTTP 服务器。

# 命令

  - serve：加载 .env、YAML 与环境变量配置后启动解题端口和指标端口
  - profiles：列出可选的后端部署档案
  - version：输出构建时注入的版本信息
  - health：探测运行中实例的 /health 或 /ready

# 中间件

请求依次经过 Recovery、RequestID、OTelTracing、SecurityHeaders、
RequestLogger 与 MetricsMiddleware。运维端点仅匹配 GET，
其余任意路径与方法均交给解题处理器。

# 关闭

Server.Run 在收到 SIGINT/SIGTERM 或任一端口异常退出时并发关闭所有端口，
排空进行中的请求后刷新遥测数据。
*/
package main

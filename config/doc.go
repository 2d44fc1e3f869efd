// Package config 提供 SolveGate 的配置管理功能。
//
// 配置按 默认值 → YAML 文件 → SOLVEGATE_* 环境变量 的顺序叠加，
// 旧版 GEMINI_API_KEY 在 backend.api_key 为空时补位。
// 配置在启动时加载一次，运行期间不可变。
package config

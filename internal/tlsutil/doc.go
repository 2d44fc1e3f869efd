// Package tlsutil 提供后端调用使用的出站 HTTP 传输，
// 统一 TLS 加固设置（TLS 1.2+，仅 AEAD 密码套件）并支持环境变量代理。
package tlsutil

// Package i18n 提供面向调用方的本地化错误消息。
//
// 语言包以 JSON 形式内嵌（locales/active.{lang}.json），默认韩语，
// 按请求的 Accept-Language 协商，未命中时回退到默认语言。
package i18n

package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// MessageID 标识一条面向调用方的消息
type MessageID string

const (
	ConfigMissing      MessageID = "ConfigMissing"
	ImageMissing       MessageID = "ImageMissing"
	EmptyResult        MessageID = "EmptyResult"
	InternalDefault    MessageID = "InternalDefault"
	BackendErrorPrefix MessageID = "BackendErrorPrefix"
)

// 语言包缺失时的兜底文本
var fallback = map[MessageID]string{
	ConfigMissing:      "서버 설정에 오류가 있습니다. 관리자에게 문의하세요.",
	ImageMissing:       "이미지 데이터가 전송되지 않았습니다.",
	EmptyResult:        "AI 응답을 처리할 수 없습니다.",
	InternalDefault:    "서버에서 처리 중 오류가 발생했습니다.",
	BackendErrorPrefix: "Gemini API 오류",
}

// Catalog 持有已加载的语言包，并发安全
type Catalog struct {
	bundle   *goi18n.Bundle
	defaults string
	loaded   []language.Tag
}

// New 加载内嵌语言包，defaultLocale 为未协商成功时使用的语言
func New(defaultLocale string) (*Catalog, error) {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	bundle := goi18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	loaded := make([]language.Tag, 0, len(entries))
	for _, e := range entries {
		mf, err := bundle.LoadMessageFileFS(localeFS, path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Name(), err)
		}
		loaded = append(loaded, mf.Tag)
	}

	if !contains(loaded, tag) {
		return nil, fmt.Errorf("default locale %q has no message file", defaultLocale)
	}
	return &Catalog{bundle: bundle, defaults: tag.String(), loaded: loaded}, nil
}

// MustNew 同 New，失败时 panic
func MustNew(defaultLocale string) *Catalog {
	c, err := New(defaultLocale)
	if err != nil {
		panic(err)
	}
	return c
}

// Message 按 Accept-Language 协商语言并返回消息文本
func (c *Catalog) Message(acceptLanguage string, id MessageID) string {
	loc := goi18n.NewLocalizer(c.bundle, acceptLanguage, c.defaults)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: string(id)})
	if err != nil || msg == "" {
		return fallback[id]
	}
	return msg
}

// Languages 返回已加载的语言
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.loaded))
	for _, t := range c.loaded {
		out = append(out, t.String())
	}
	return out
}

func contains(tags []language.Tag, tag language.Tag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

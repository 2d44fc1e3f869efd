package gemini

import (
	"errors"
	"fmt"
	"sort"
)

// 部署级配置档案名称
const (
	ProfileFlash20ExpStream = "flash-2.0-exp-stream"
	ProfileFlash20          = "flash-2.0"
	ProfileFlash15          = "flash-1.5"
	ProfilePro15            = "pro-1.5"

	DefaultProfile = ProfileFlash20ExpStream
)

// SolverPrompt 指示后端按固定的五段 Markdown 结构作答：
// 문제 번호、문제 분석、풀이 과정、정답、추가 코멘트。
const SolverPrompt = "너는 수학 문제 풀이 전문가야. 이미지 속 문제를 읽고, 다음 마크다운 형식에 맞춰서 답변해 줘. 수학 수식은 LaTeX 형식으로 작성해 줘:\n\n" +
	"**문제 번호:** (문제 번호)\n\n" +
	"**문제 분석:** (어떤 단원의 어떤 개념을 사용하는지, 핵심 조건은 무엇인지 요약)\n\n" +
	"**풀이 과정:** (단계별로 상세하고 논리적인 풀이 과정을 서술, 수식은 $수식$ 형태로 작성)\n\n" +
	"**정답:** (최종 정답)\n\n" +
	"**추가 코멘트:** (유사 문제 유형, 학생들이 자주 하는 실수, 추가적으로 학습하면 좋은 개념 등을 제안)"

// GenerationParams 是发送给后端的 generationConfig
type GenerationParams struct {
	Temperature     float64 `json:"temperature" yaml:"temperature"`
	TopK            int     `json:"topK" yaml:"top_k"`
	TopP            float64 `json:"topP" yaml:"top_p"`
	MaxOutputTokens int     `json:"maxOutputTokens" yaml:"max_output_tokens"`
}

// Validate 校验生成参数范围
func (g GenerationParams) Validate() error {
	var errs []error
	if g.Temperature < 0 || g.Temperature > 1 {
		errs = append(errs, fmt.Errorf("temperature must be within [0,1], got %v", g.Temperature))
	}
	if g.TopK <= 0 {
		errs = append(errs, fmt.Errorf("topK must be positive, got %d", g.TopK))
	}
	if g.TopP < 0 || g.TopP > 1 {
		errs = append(errs, fmt.Errorf("topP must be within [0,1], got %v", g.TopP))
	}
	if g.MaxOutputTokens <= 0 {
		errs = append(errs, fmt.Errorf("maxOutputTokens must be positive, got %d", g.MaxOutputTokens))
	}
	return errors.Join(errs...)
}

// Profile 描述一次部署使用的后端模型、传输模式、提示词与生成参数。
// 档案在启动时选定，请求处理期间不可变。
type Profile struct {
	Name       string
	Model      string
	Streaming  bool
	Prompt     string
	Generation GenerationParams
}

// Mode 返回用于日志和指标的传输模式标签
func (p Profile) Mode() string {
	if p.Streaming {
		return "stream"
	}
	return "unary"
}

// Validate 校验档案完整性
func (p Profile) Validate() error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, errors.New("profile name is required"))
	}
	if p.Model == "" {
		errs = append(errs, fmt.Errorf("profile %q: model is required", p.Name))
	}
	if p.Prompt == "" {
		errs = append(errs, fmt.Errorf("profile %q: prompt is required", p.Name))
	}
	if err := p.Generation.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("profile %q: %w", p.Name, err))
	}
	return errors.Join(errs...)
}

var solverGeneration = GenerationParams{
	Temperature:     0.1,
	TopK:            32,
	TopP:            1,
	MaxOutputTokens: 2048,
}

var profiles = map[string]Profile{
	ProfileFlash20ExpStream: {
		Name:       ProfileFlash20ExpStream,
		Model:      "gemini-2.0-flash-exp",
		Streaming:  true,
		Prompt:     SolverPrompt,
		Generation: solverGeneration,
	},
	ProfileFlash20: {
		Name:       ProfileFlash20,
		Model:      "gemini-2.0-flash",
		Prompt:     SolverPrompt,
		Generation: solverGeneration,
	},
	ProfileFlash15: {
		Name:       ProfileFlash15,
		Model:      "gemini-1.5-flash",
		Prompt:     SolverPrompt,
		Generation: solverGeneration,
	},
	ProfilePro15: {
		Name:       ProfilePro15,
		Model:      "gemini-1.5-pro",
		Prompt:     SolverPrompt,
		Generation: solverGeneration,
	},
}

// LookupProfile 按名称查找档案，空名称返回默认档案
func LookupProfile(name string) (Profile, error) {
	if name == "" {
		name = DefaultProfile
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown backend profile %q (available: %v)", name, ProfileNames())
	}
	return p, nil
}

// ProfileNames 返回全部档案名称（已排序）
func ProfileNames() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Profiles 返回全部档案（按名称排序）
func Profiles() []Profile {
	names := ProfileNames()
	out := make([]Profile, 0, len(names))
	for _, name := range names {
		out = append(out, profiles[name])
	}
	return out
}

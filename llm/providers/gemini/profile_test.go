package gemini

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupProfile(t *testing.T) {
	t.Run("empty name returns default", func(t *testing.T) {
		p, err := LookupProfile("")
		require.NoError(t, err)
		assert.Equal(t, DefaultProfile, p.Name)
		assert.True(t, p.Streaming)
		assert.Equal(t, "gemini-2.0-flash-exp", p.Model)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := LookupProfile("gpt-4")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown backend profile")
	})

	t.Run("non-streaming profile", func(t *testing.T) {
		p, err := LookupProfile(ProfileFlash15)
		require.NoError(t, err)
		assert.False(t, p.Streaming)
		assert.Equal(t, "unary", p.Mode())
	})
}

func TestProfiles_AllValid(t *testing.T) {
	all := Profiles()
	require.Len(t, all, 4)
	for _, p := range all {
		t.Run(p.Name, func(t *testing.T) {
			assert.NoError(t, p.Validate())
			assert.Equal(t, SolverPrompt, p.Prompt)
			assert.Equal(t, 0.1, p.Generation.Temperature)
			assert.Equal(t, 32, p.Generation.TopK)
			assert.Equal(t, 1.0, p.Generation.TopP)
			assert.Equal(t, 2048, p.Generation.MaxOutputTokens)
		})
	}
	assert.Equal(t, []string{ProfileFlash15, ProfileFlash20, ProfileFlash20ExpStream, ProfilePro15}, ProfileNames())
}

func TestSolverPrompt_SectionOrder(t *testing.T) {
	sections := []string{"**문제 번호:**", "**문제 분석:**", "**풀이 과정:**", "**정답:**", "**추가 코멘트:**"}
	last := -1
	for _, s := range sections {
		idx := strings.Index(SolverPrompt, s)
		require.Greater(t, idx, last, "section %q out of order", s)
		last = idx
	}
	assert.Contains(t, SolverPrompt, "LaTeX")
}

func TestGenerationParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  GenerationParams
		wantErr string
	}{
		{"valid", GenerationParams{Temperature: 0.1, TopK: 32, TopP: 1, MaxOutputTokens: 2048}, ""},
		{"temperature too high", GenerationParams{Temperature: 1.5, TopK: 32, TopP: 1, MaxOutputTokens: 1}, "temperature"},
		{"zero topK", GenerationParams{Temperature: 0.1, TopK: 0, TopP: 1, MaxOutputTokens: 1}, "topK"},
		{"negative topP", GenerationParams{Temperature: 0.1, TopK: 1, TopP: -0.1, MaxOutputTokens: 1}, "topP"},
		{"zero max tokens", GenerationParams{Temperature: 0.1, TopK: 1, TopP: 1}, "maxOutputTokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProfile_Validate_MissingFields(t *testing.T) {
	err := Profile{Generation: solverGeneration}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "model is required")
	assert.Contains(t, err.Error(), "prompt is required")
}

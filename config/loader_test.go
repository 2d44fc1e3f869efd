// 配置加载器与默认配置测试。
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BaSui01/solvegate/llm/providers/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapEnv 以 map 代替进程环境，避免宿主机上的 GEMINI_API_KEY 干扰断言
func mapEnv(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

// --- Loader 测试 ---

func TestLoader_LoadDefaults(t *testing.T) {
	cfg, err := NewLoader().WithEnvLookup(mapEnv(nil)).Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, gemini.DefaultProfile, cfg.Backend.Profile)
	assert.Empty(t, cfg.Backend.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoader_LoadFromYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
server:
  http_port: 8888
  read_timeout: 60s
  expose_error_details: true
  default_locale: en

backend:
  profile: flash-1.5
  api_key: yaml-key
  base_url: http://localhost:9000
  timeout: 45s

log:
  level: "debug"
  format: "console"
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg, err := NewLoader().
		WithConfigPath(configPath).
		WithEnvLookup(mapEnv(nil)).
		Load()
	require.NoError(t, err)

	assert.Equal(t, 8888, cfg.Server.HTTPPort)
	assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Server.ExposeErrorDetails)
	assert.Equal(t, "en", cfg.Server.DefaultLocale)

	assert.Equal(t, gemini.ProfileFlash15, cfg.Backend.Profile)
	assert.Equal(t, "yaml-key", cfg.Backend.APIKey)
	assert.Equal(t, "http://localhost:9000", cfg.Backend.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Backend.Timeout)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)

	// 未出现在 YAML 中的字段保留默认值
	assert.Equal(t, 9091, cfg.Server.MetricsPort)
}

func TestLoader_LoadFromEnv(t *testing.T) {
	env := map[string]string{
		"SOLVEGATE_SERVER_HTTP_PORT":            "7777",
		"SOLVEGATE_SERVER_EXPOSE_ERROR_DETAILS": "true",
		"SOLVEGATE_BACKEND_PROFILE":             "pro-1.5",
		"SOLVEGATE_BACKEND_API_KEY":             "env-key",
		"SOLVEGATE_BACKEND_TIMEOUT":             "2m",
		"SOLVEGATE_LOG_LEVEL":                   "warn",
		"SOLVEGATE_LOG_OUTPUT_PATHS":            "stdout, /tmp/solvegate.log",
		"SOLVEGATE_TELEMETRY_SAMPLE_RATE":       "0.5",
	}

	cfg, err := NewLoader().WithEnvLookup(mapEnv(env)).Load()
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.HTTPPort)
	assert.True(t, cfg.Server.ExposeErrorDetails)
	assert.Equal(t, gemini.ProfilePro15, cfg.Backend.Profile)
	assert.Equal(t, "env-key", cfg.Backend.APIKey)
	assert.Equal(t, 2*time.Minute, cfg.Backend.Timeout)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"stdout", "/tmp/solvegate.log"}, cfg.Log.OutputPaths)
	assert.Equal(t, 0.5, cfg.Telemetry.SampleRate)
}

func TestLoader_ProcessEnvironment(t *testing.T) {
	t.Setenv("SOLVEGATE_SERVER_HTTP_PORT", "6060")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 6060, cfg.Server.HTTPPort)
}

func TestLoader_LegacyAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantKey string
	}{
		{
			name:    "legacy only",
			env:     map[string]string{LegacyAPIKeyEnv: " legacy-key \n"},
			wantKey: "legacy-key",
		},
		{
			name: "prefixed wins",
			env: map[string]string{
				LegacyAPIKeyEnv:             "legacy-key",
				"SOLVEGATE_BACKEND_API_KEY": "new-key",
			},
			wantKey: "new-key",
		},
		{
			name:    "neither",
			env:     map[string]string{},
			wantKey: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewLoader().WithEnvLookup(mapEnv(tt.env)).Load()
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, cfg.Backend.APIKey)
		})
	}
}

func TestLoader_EnvOverridesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
server:
  http_port: 8888
backend:
  profile: flash-2.0
  api_key: yaml-key
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	env := map[string]string{
		"SOLVEGATE_SERVER_HTTP_PORT": "9999",
		"SOLVEGATE_BACKEND_API_KEY":  "env-key",
		LegacyAPIKeyEnv:              "legacy-key",
	}

	cfg, err := NewLoader().
		WithConfigPath(configPath).
		WithEnvLookup(mapEnv(env)).
		Load()
	require.NoError(t, err)

	// 环境变量覆盖 YAML
	assert.Equal(t, 9999, cfg.Server.HTTPPort)
	assert.Equal(t, "env-key", cfg.Backend.APIKey)
	// YAML 值保留
	assert.Equal(t, gemini.ProfileFlash20, cfg.Backend.Profile)
}

func TestLoader_CustomEnvPrefix(t *testing.T) {
	env := map[string]string{
		"MYAPP_SERVER_HTTP_PORT":     "6666",
		"SOLVEGATE_SERVER_HTTP_PORT": "7777",
	}

	cfg, err := NewLoader().
		WithEnvPrefix("MYAPP").
		WithEnvLookup(mapEnv(env)).
		Load()
	require.NoError(t, err)

	assert.Equal(t, 6666, cfg.Server.HTTPPort)
}

func TestLoader_InvalidEnvValue(t *testing.T) {
	env := map[string]string{"SOLVEGATE_SERVER_HTTP_PORT": "eighty"}

	_, err := NewLoader().WithEnvLookup(mapEnv(env)).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOLVEGATE_SERVER_HTTP_PORT")
}

func TestLoader_WithValidator(t *testing.T) {
	validator := func(cfg *Config) error {
		if cfg.Server.HTTPPort < 1024 {
			return assert.AnError
		}
		return nil
	}

	env := map[string]string{"SOLVEGATE_SERVER_HTTP_PORT": "80"}

	_, err := NewLoader().
		WithEnvLookup(mapEnv(env)).
		WithValidator(validator).
		Load()
	assert.ErrorIs(t, err, assert.AnError)
}

func TestLoader_NonExistentFile(t *testing.T) {
	// 配置文件不存在时使用默认值
	cfg, err := NewLoader().
		WithConfigPath("/non/existent/path/config.yaml").
		WithEnvLookup(mapEnv(nil)).
		Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
}

func TestLoader_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
server:
  http_port: [invalid
  this is not valid yaml
`
	require.NoError(t, os.WriteFile(configPath, []byte(invalidYAML), 0644))

	_, err := NewLoader().
		WithConfigPath(configPath).
		Load()
	assert.Error(t, err)
}

// --- Config 方法测试 ---

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid default config",
			modify: func(c *Config) {},
		},
		{
			name:   "missing credential is not a config error",
			modify: func(c *Config) { c.Backend.APIKey = "" },
		},
		{
			name:    "invalid HTTP port (negative)",
			modify:  func(c *Config) { c.Server.HTTPPort = -1 },
			wantErr: "invalid HTTP port",
		},
		{
			name:    "invalid HTTP port (too large)",
			modify:  func(c *Config) { c.Server.HTTPPort = 70000 },
			wantErr: "invalid HTTP port",
		},
		{
			name:   "metrics disabled",
			modify: func(c *Config) { c.Server.MetricsPort = 0 },
		},
		{
			name:    "metrics port collides",
			modify:  func(c *Config) { c.Server.MetricsPort = c.Server.HTTPPort },
			wantErr: "must differ",
		},
		{
			name:    "non-positive body limit",
			modify:  func(c *Config) { c.Server.MaxBodyBytes = 0 },
			wantErr: "max_body_bytes",
		},
		{
			name:    "unknown profile",
			modify:  func(c *Config) { c.Backend.Profile = "gpt-4" },
			wantErr: "unknown backend profile",
		},
		{
			name:    "negative backend timeout",
			modify:  func(c *Config) { c.Backend.Timeout = -time.Second },
			wantErr: "backend timeout",
		},
		{
			name:    "unsupported locale",
			modify:  func(c *Config) { c.Server.DefaultLocale = "fr" },
			wantErr: "no message file",
		},
		{
			name:    "sample rate out of range",
			modify:  func(c *Config) { c.Telemetry.SampleRate = 1.5 },
			wantErr: "sample_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.HTTPPort = 0
	cfg.Backend.Profile = "nope"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
	assert.Contains(t, err.Error(), "unknown backend profile")
}

func TestConfig_BackendProfile(t *testing.T) {
	cfg := DefaultConfig()
	p, err := cfg.BackendProfile()
	require.NoError(t, err)
	assert.True(t, p.Streaming)
	assert.Equal(t, "gemini-2.0-flash-exp", p.Model)

	cfg.Backend.Profile = gemini.ProfileFlash20
	p, err = cfg.BackendProfile()
	require.NoError(t, err)
	assert.False(t, p.Streaming)
}

// --- 辅助函数测试 ---

func TestMustLoad_Success(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  http_port: 5555\n"), 0644))

	cfg := MustLoad(configPath)
	assert.Equal(t, 5555, cfg.Server.HTTPPort)
}

func TestMustLoad_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server: [bad"), 0644))

	assert.Panics(t, func() { MustLoad(configPath) })
}

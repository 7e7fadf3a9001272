package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, 3, cfg.LLM.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout())
	assert.Equal(t, time.Second, cfg.LLM.BaseDelay())
	assert.Equal(t, "huggingface", cfg.LLM.DefaultVendor)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.OpenRouter.BaseURL)
	assert.True(t, cfg.Events.Enabled)
	assert.True(t, cfg.Seed.Providers)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))

	content := `
server:
  port: 9999
  environment: "test"
database:
  host: "test-db"
  dbname: "todoai_test"
llm:
  max_attempts: 5
  base_delay_ms: 250
  gemini:
    default_model: "gemini-1.5-pro"
events:
  enabled: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "config.yaml"), []byte(content), 0o644))
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "test-db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 5, cfg.LLM.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.LLM.BaseDelay())
	assert.Equal(t, "gemini-1.5-pro", cfg.LLM.Gemini.DefaultModel)
	assert.False(t, cfg.Events.Enabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "8088")
	t.Setenv("LLM_DEFAULT_VENDOR", "openrouter")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "openrouter", cfg.LLM.DefaultVendor)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero attempts", "LLM_MAX_ATTEMPTS", "0"},
		{"zero timeout", "LLM_REQUEST_TIMEOUT", "0"},
		{"negative delay", "LLM_BASE_DELAY_MS", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o644))
	t.Chdir(dir)

	_, err := Load()
	assert.ErrorContains(t, err, "failed to read config file")
}

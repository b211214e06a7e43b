package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	App      App      `mapstructure:"app"`
	Logger   Logger   `mapstructure:"logger"`
	Upstream Upstream `mapstructure:"chart"`
}

func TestLoadReadsYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
app:
  name: chart-insight
logger:
  level: debug
  encoding: console
chart:
  base_url: https://api.chartimage.com
  timeout: 15s
  max_request_per_minute: 30
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	var cfg testConfig
	require.NoError(t, Load(path, &cfg))

	assert.Equal(t, "chart-insight", cfg.App.Name)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "https://api.chartimage.com", cfg.Upstream.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 30, cfg.Upstream.MaxRequestPerMinute)
}

func TestLoadEnvironmentOverridesMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: chart-insight\n"), 0o600))

	t.Setenv("CHART_API_KEY", "secret-from-env")

	var cfg testConfig
	require.NoError(t, Load(path, &cfg))

	assert.Equal(t, "secret-from-env", cfg.Upstream.APIKey)
}

func TestLoadWithoutFileUsesEnvironment(t *testing.T) {
	t.Setenv("APP_NAME", "from-env")

	var cfg testConfig
	require.NoError(t, Load(filepath.Join(t.TempDir(), "missing.yaml"), &cfg))

	assert.Equal(t, "from-env", cfg.App.Name)
}

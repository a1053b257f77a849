package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempDirs points every config path at a fresh temp directory.
func useTempDirs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	prevDir, prevYAML := configDir, gooseYAMLPath
	setConfigDir(filepath.Join(dir, "goosectl"))
	gooseYAMLPath = filepath.Join(dir, "goose", "config.yaml")
	t.Cleanup(func() {
		setConfigDir(prevDir)
		gooseYAMLPath = prevYAML
	})

	for _, key := range []string{"GOOSE_API_HOST", "GOOSE_PORT", "GOOSE_SECRET_KEY", "GOOSE_PROVIDER", "GOOSE_MODEL", "GOOSE_DEEP_LINK"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return dir
}

func writeGooseYAML(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(gooseYAMLPath), 0755))
	require.NoError(t, os.WriteFile(gooseYAMLPath, []byte(content), 0644))
}

func TestLoadConfig_Empty(t *testing.T) {
	useTempDirs(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:3000", cfg.GetBaseURL())
	assert.Equal(t, "info", cfg.GetLogLevel())
	assert.Equal(t, "console", cfg.GetLogFormat())
	assert.Equal(t, 30*time.Second, cfg.GetHTTPTimeout())
	assert.Empty(t, cfg.Provider)
}

func TestLoadConfig_Priority(t *testing.T) {
	useTempDirs(t)

	writeGooseYAML(t, "GOOSE_PROVIDER: anthropic\nGOOSE_MODEL: claude-3-5-sonnet\nextensions: {}\n")

	t.Run("goose yaml only", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "anthropic", cfg.Provider)
		assert.Equal(t, "claude-3-5-sonnet", cfg.Model)
	})

	t.Run("config file overrides yaml", func(t *testing.T) {
		require.NoError(t, SaveConfig(&Config{Provider: "openai", Port: 4000}))

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "claude-3-5-sonnet", cfg.Model)
		assert.Equal(t, "http://127.0.0.1:4000", cfg.GetBaseURL())
	})

	t.Run("environment overrides everything", func(t *testing.T) {
		t.Setenv("GOOSE_PROVIDER", "ollama")
		t.Setenv("GOOSE_DEEP_LINK", "goose://extension?cmd=npx")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "ollama", cfg.Provider)
		assert.Equal(t, "goose://extension?cmd=npx", cfg.DeepLink)
	})

	t.Run("bad port in environment", func(t *testing.T) {
		t.Setenv("GOOSE_PORT", "not-a-number")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestSaveConfig_DoesNotPersistDeepLink(t *testing.T) {
	useTempDirs(t)

	require.NoError(t, SaveConfig(&Config{SecretKey: "s3cret", DeepLink: "goose://extension?cmd=npx"}))

	data, err := os.ReadFile(GetConfigPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "s3cret")
	assert.NotContains(t, string(data), "goose://")
}

func TestLoadFileConfig_Invalid(t *testing.T) {
	useTempDirs(t)

	require.NoError(t, ensureConfigDir())
	require.NoError(t, os.WriteFile(GetConfigPath(), []byte("{not json"), 0600))

	_, err := LoadFileConfig()
	assert.Error(t, err)
}

func TestConfig_GetBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"defaults", Config{}, "http://127.0.0.1:3000"},
		{"custom port", Config{Port: 7878}, "http://127.0.0.1:7878"},
		{"host with port", Config{APIHost: "http://localhost:9000/"}, "http://localhost:9000"},
		{"host and port", Config{APIHost: "http://10.0.0.2", Port: 3001}, "http://10.0.0.2:3001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.GetBaseURL())
		})
	}
}

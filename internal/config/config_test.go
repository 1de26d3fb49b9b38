package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.AI.Model)
	assert.False(t, cfg.AI.Configured())
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	for _, content := range []string{"", "\n", "# comments only\n"} {
		cfg, err := Load(writeConfig(t, content))
		require.NoError(t, err, "content %q", content)
		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, "development", cfg.Env)
		assert.False(t, cfg.AI.Configured())
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	path := writeConfig(t, `
port: 8080
env: " Production "
allowed_origins:
  - " https://app.example.com "
  - ""
database:
  name: notes_test
ai:
  provider: ANTHROPIC
  api_key: sk-real
  timeout_seconds: -1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, []string{"https://app.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "notes_test", cfg.Database.Name)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, 15, cfg.AI.TimeoutSeconds)
	assert.True(t, cfg.AI.Configured())
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "prot: 8080\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	path := writeConfig(t, "port: 70000\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesSelectProviderCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("ANTHROPIC_API_KEY", "ak-env")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.AI.APIKey)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)

	path := writeConfig(t, "ai:\n  provider: anthropic\n")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ak-env", cfg.AI.APIKey)
}

func TestConfiguredTreatsPlaceholderAsUnset(t *testing.T) {
	assert.False(t, AIConfig{APIKey: ""}.Configured())
	assert.False(t, AIConfig{APIKey: "   "}.Configured())
	assert.False(t, AIConfig{APIKey: PlaceholderAPIKey}.Configured())
	assert.True(t, AIConfig{APIKey: "sk-real"}.Configured())
}

func TestDSNValue(t *testing.T) {
	explicit := DatabaseConfig{DSN: "user:pw@tcp(db:3306)/x"}
	assert.Equal(t, "user:pw@tcp(db:3306)/x", explicit.DSNValue())

	built := DatabaseConfig{
		Host: "127.0.0.1", Port: 3306,
		User: "root", Password: "secret",
		Name: "notewise", Charset: "utf8mb4", Loc: "Local",
	}
	dsn := built.DSNValue()
	assert.Contains(t, dsn, "root:secret@tcp(127.0.0.1:3306)/notewise?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

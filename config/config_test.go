package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the loader at an empty secrets dir and a working directory
// without a .env file.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfig(t *testing.T) {
	isolate(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "catalog")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "catalog")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("LLM_PROVIDER", "Claude")
	t.Setenv("LLM_TIMEOUT", "45s")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "catalog", cfg.DBUser)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, "claude", cfg.LLMProvider)
	assert.Equal(t, 45*time.Second, cfg.LLMTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "groq", cfg.LLMProvider)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 6, cfg.LLMMaxToolRounds)
	assert.Equal(t, 10, cfg.AIRateLimit)
	assert.Equal(t, time.Minute, cfg.AIRateWindow)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestSecretsOverrideEnvironment(t *testing.T) {
	dir := isolate(t)
	t.Setenv("LLM_API_KEY", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "llm_api_key"), []byte("from-secret\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.LLMAPIKey)
}

func TestDotEnvFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PEXELS_API_KEY=px-123\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("PEXELS_API_KEY") })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "px-123", cfg.PexelsAPIKey)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment:      Development,
			ServerPort:       "8080",
			DBDriver:         "sqlite",
			SQLitePath:       "test.db",
			LLMProvider:      "groq",
			LLMTimeout:       time.Second,
			LLMMaxToolRounds: 1,
			LLMMaxTokens:     100,
			ImageSearchRPS:   1,
			LogFormat:        "console",
		}
	}

	require.NoError(t, ValidateConfig(valid()))

	t.Run("collects every problem", func(t *testing.T) {
		cfg := valid()
		cfg.ServerPort = "http"
		cfg.DBDriver = "mysql"
		cfg.LLMProvider = "openai"
		cfg.LLMMaxToolRounds = 0

		err := ValidateConfig(cfg)
		require.Error(t, err)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		fields := make([]string, len(verrs))
		for i, e := range verrs {
			fields[i] = e.Field
		}
		assert.ElementsMatch(t, []string{"SERVER_PORT", "DB_DRIVER", "LLM_PROVIDER", "LLM_MAX_TOOL_ROUNDS"}, fields)
	})

	t.Run("production requires secrets", func(t *testing.T) {
		cfg := valid()
		cfg.Environment = Production
		cfg.DBDriver = "postgres"
		cfg.DBHost, cfg.DBName, cfg.DBUser = "db", "recipes", "postgres"

		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_password")
		assert.Contains(t, err.Error(), "llm_api_key")
	})
}

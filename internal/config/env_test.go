package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "pretty", cfg.LogFormat)
	assert.Equal(t, "", cfg.APIKeys)
	assert.Equal(t, "*", cfg.CORSAllowedOrigins)
	assert.Equal(t, 120.0, cfg.RequestTimeout)
	assert.Equal(t, 100000, cfg.MaxDiffLength)
	assert.Equal(t, 3000, cfg.ChunkMaxTokens)
	assert.Equal(t, "cl100k_base", cfg.TokenizerEncoding)
	assert.Equal(t, "openai", cfg.CompletionEndpoint.Provider)
	assert.Equal(t, 60.0, cfg.CompletionEndpoint.Timeout)
}

func TestEnvDefaults_MatchConfigDefaults(t *testing.T) {
	clearEnvVars(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Host, "Host struct tag default should match DefaultHost")
	assert.Equal(t, DefaultPort, cfg.Port, "Port struct tag default should match DefaultPort")
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultMaxDiffLength, cfg.MaxDiffLength)
	assert.Equal(t, DefaultChunkMaxTokens, cfg.ChunkMaxTokens)
	assert.Equal(t, DefaultTokenizerEncoding, cfg.TokenizerEncoding)
	assert.Equal(t, DefaultCORSAllowedOrigins, cfg.CORSAllowedOrigins)
	assert.Equal(t, DefaultRequestTimeout, seconds(cfg.RequestTimeout))
	assert.Equal(t, DefaultCompletionTimeout, seconds(cfg.CompletionEndpoint.Timeout))
}

func TestToAppConfig_Defaults(t *testing.T) {
	clearEnvVars(t)

	env, err := LoadFromEnv()
	require.NoError(t, err)
	cfg := env.ToAppConfig()

	assert.Equal(t, DefaultCompletionBaseURL, cfg.Completion().BaseURL())
	assert.Equal(t, ProviderOpenAI, cfg.Completion().Provider())
	assert.False(t, cfg.Completion().IsConfigured())
	assert.Equal(t, DefaultChunkStage(), cfg.ChunkStage())
	assert.Equal(t, DefaultFusionStage(), cfg.FusionStage())
}

func TestToAppConfig_Overrides(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("PORT", "9090")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("API_KEYS", "key1, key2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://kommit.dev,https://app.kommit.dev")
	t.Setenv("REQUEST_TIMEOUT", "30")
	t.Setenv("COMPLETION_ENDPOINT_PROVIDER", "anthropic")
	t.Setenv("COMPLETION_ENDPOINT_BASE_URL", "https://api.anthropic.com")
	t.Setenv("COMPLETION_ENDPOINT_API_KEY", "sk-ant")
	t.Setenv("COMPLETION_ENDPOINT_TIMEOUT", "2.5")
	t.Setenv("CHUNK_STAGE_MODEL", "claude-haiku")
	t.Setenv("CHUNK_STAGE_MAX_TOKENS", "48")
	t.Setenv("FUSION_STAGE_MODEL", "claude-sonnet")
	t.Setenv("FUSION_STAGE_TEMPERATURE", "0.2")

	env, err := LoadFromEnv()
	require.NoError(t, err)
	cfg := env.ToAppConfig()

	assert.Equal(t, 9090, cfg.Port())
	assert.Equal(t, LogFormatJSON, cfg.LogFormat())
	assert.Equal(t, []string{"key1", "key2"}, cfg.APIKeys())
	assert.Equal(t, []string{"https://kommit.dev", "https://app.kommit.dev"}, cfg.CORSAllowedOrigins())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())

	assert.Equal(t, ProviderAnthropic, cfg.Completion().Provider())
	assert.Equal(t, "https://api.anthropic.com", cfg.Completion().BaseURL())
	assert.Equal(t, "sk-ant", cfg.Completion().APIKey())
	assert.Equal(t, 2500*time.Millisecond, cfg.Completion().Timeout())

	assert.Equal(t, "claude-haiku", cfg.ChunkStage().Model())
	assert.Equal(t, 48, cfg.ChunkStage().MaxTokens())
	assert.Equal(t, 0.3, cfg.ChunkStage().Temperature())
	assert.Equal(t, "claude-sonnet", cfg.FusionStage().Model())
	assert.Equal(t, 0.2, cfg.FusionStage().Temperature())
}

func TestToAppConfig_GroqKeyFallback(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("GROQ_API_KEY", "gsk-test")

	env, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "gsk-test", env.ToAppConfig().Completion().APIKey())
}

func TestToAppConfig_ExplicitKeyWins(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("COMPLETION_ENDPOINT_API_KEY", "sk-explicit")

	env, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "sk-explicit", env.ToAppConfig().Completion().APIKey())
}

func TestLoadFromEnv_InvalidPort(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("PORT", "not-a-number")

	_, err := LoadFromEnv()
	assert.Error(t, err)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	clearEnvVars(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "PORT=7070\nGROQ_API_KEY=gsk-dotenv\nFUSION_STAGE_MODEL=qwen/other\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port())
	assert.Equal(t, "gsk-dotenv", cfg.Completion().APIKey())
	assert.Equal(t, "qwen/other", cfg.FusionStage().Model())
}

func TestLoadConfig_EnvironmentWinsOverDotEnv(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("PORT", "6060")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7070\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 6060, cfg.Port())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearEnvVars(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port())
}

// clearEnvVars unsets every variable the config reads and restores the
// original values when the test ends.
func clearEnvVars(t *testing.T) {
	t.Helper()

	vars := []string{
		"HOST",
		"PORT",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"API_KEYS",
		"CORS_ALLOWED_ORIGINS",
		"REQUEST_TIMEOUT",
		"MAX_DIFF_LENGTH",
		"CHUNK_MAX_TOKENS",
		"TOKENIZER_ENCODING",
		"GROQ_API_KEY",
		"COMPLETION_ENDPOINT_PROVIDER",
		"COMPLETION_ENDPOINT_BASE_URL",
		"COMPLETION_ENDPOINT_API_KEY",
		"COMPLETION_ENDPOINT_TIMEOUT",
		"CHUNK_STAGE_MODEL",
		"CHUNK_STAGE_TEMPERATURE",
		"CHUNK_STAGE_MAX_TOKENS",
		"CHUNK_STAGE_TOP_P",
		"FUSION_STAGE_MODEL",
		"FUSION_STAGE_TEMPERATURE",
		"FUSION_STAGE_MAX_TOKENS",
		"FUSION_STAGE_TOP_P",
	}

	for _, v := range vars {
		t.Setenv(v, "")
		_ = os.Unsetenv(v)
	}
}

func TestToAppConfig_AnthropicWithoutBaseURL(t *testing.T) {
	clearEnvVars(t)

	t.Setenv("COMPLETION_ENDPOINT_PROVIDER", "anthropic")
	t.Setenv("COMPLETION_ENDPOINT_API_KEY", "sk-ant")

	env, err := LoadFromEnv()
	require.NoError(t, err)
	cfg := env.ToAppConfig()

	assert.Equal(t, ProviderAnthropic, cfg.Completion().Provider())
	assert.Empty(t, cfg.Completion().BaseURL())
}

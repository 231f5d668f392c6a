package config

import (
	"testing"
	"time"
)

func TestDefaultConstants(t *testing.T) {
	if DefaultHost != "0.0.0.0" {
		t.Errorf("DefaultHost = %v, want '0.0.0.0'", DefaultHost)
	}
	if DefaultPort != 8080 {
		t.Errorf("DefaultPort = %v, want 8080", DefaultPort)
	}
	if DefaultMaxDiffLength != 100000 {
		t.Errorf("DefaultMaxDiffLength = %v, want 100000", DefaultMaxDiffLength)
	}
	if DefaultChunkMaxTokens != 3000 {
		t.Errorf("DefaultChunkMaxTokens = %v, want 3000", DefaultChunkMaxTokens)
	}
	if DefaultCompletionTimeout != 60*time.Second {
		t.Errorf("DefaultCompletionTimeout = %v, want 60s", DefaultCompletionTimeout)
	}
	if DefaultRequestTimeout != 120*time.Second {
		t.Errorf("DefaultRequestTimeout = %v, want 120s", DefaultRequestTimeout)
	}
}

func TestEndpoint_Defaults(t *testing.T) {
	e := NewEndpoint()

	if e.Provider() != ProviderOpenAI {
		t.Errorf("Provider() = %v, want openai", e.Provider())
	}
	if e.BaseURL() != DefaultCompletionBaseURL {
		t.Errorf("BaseURL() = %v", e.BaseURL())
	}
	if e.Timeout() != DefaultCompletionTimeout {
		t.Errorf("Timeout() = %v", e.Timeout())
	}
	if e.IsConfigured() {
		t.Error("endpoint without API key should not be configured")
	}
}

func TestEndpoint_WithOptions(t *testing.T) {
	e := NewEndpointWithOptions(
		WithProvider(ProviderAnthropic),
		WithBaseURL("https://proxy.example.com"),
		WithAPIKey("sk-test"),
		WithTimeout(5*time.Second),
	)

	if e.Provider() != ProviderAnthropic {
		t.Errorf("Provider() = %v", e.Provider())
	}
	if e.BaseURL() != "https://proxy.example.com" {
		t.Errorf("BaseURL() = %v", e.BaseURL())
	}
	if e.APIKey() != "sk-test" {
		t.Errorf("APIKey() = %v", e.APIKey())
	}
	if e.Timeout() != 5*time.Second {
		t.Errorf("Timeout() = %v", e.Timeout())
	}
	if !e.IsConfigured() {
		t.Error("endpoint with API key should be configured")
	}
}

func TestStage_Defaults(t *testing.T) {
	chunk := DefaultChunkStage()
	if chunk.Model() != DefaultChunkStageModel {
		t.Errorf("chunk Model() = %v", chunk.Model())
	}
	if chunk.Temperature() != 0.3 || chunk.MaxTokens() != 32 || chunk.TopP() != 1 {
		t.Errorf("chunk sampling = %v/%v/%v, want 0.3/32/1", chunk.Temperature(), chunk.MaxTokens(), chunk.TopP())
	}

	fusion := DefaultFusionStage()
	if fusion.Model() != DefaultFusionStageModel {
		t.Errorf("fusion Model() = %v", fusion.Model())
	}
	if fusion.Temperature() != 0 || fusion.MaxTokens() != 0 || fusion.TopP() != 0 {
		t.Error("fusion stage should leave sampling to the provider")
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg := NewAppConfig()

	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %v", cfg.Addr())
	}
	if cfg.LogFormat() != LogFormatPretty {
		t.Errorf("LogFormat() = %v", cfg.LogFormat())
	}
	if len(cfg.APIKeys()) != 0 {
		t.Errorf("APIKeys() = %v, want empty", cfg.APIKeys())
	}
	origins := cfg.CORSAllowedOrigins()
	if len(origins) != 1 || origins[0] != "*" {
		t.Errorf("CORSAllowedOrigins() = %v", origins)
	}
	if cfg.TokenizerEncoding() != "cl100k_base" {
		t.Errorf("TokenizerEncoding() = %v", cfg.TokenizerEncoding())
	}
}

func TestAppConfig_WithOptions(t *testing.T) {
	cfg := NewAppConfigWithOptions(
		WithHost("127.0.0.1"),
		WithPort(9000),
		WithLogLevel("DEBUG"),
		WithLogFormat(LogFormatJSON),
		WithRequestTimeout(10*time.Second),
		WithMaxDiffLength(500),
		WithChunkMaxTokens(100),
		WithFusionStage(NewStage("other", 0.1, 20, 0.9)),
	)

	if cfg.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr() = %v", cfg.Addr())
	}
	if cfg.LogLevel() != "DEBUG" {
		t.Errorf("LogLevel() = %v", cfg.LogLevel())
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Errorf("RequestTimeout() = %v", cfg.RequestTimeout())
	}
	if cfg.MaxDiffLength() != 500 || cfg.ChunkMaxTokens() != 100 {
		t.Errorf("limits = %v/%v", cfg.MaxDiffLength(), cfg.ChunkMaxTokens())
	}
	if cfg.FusionStage().Model() != "other" {
		t.Errorf("FusionStage().Model() = %v", cfg.FusionStage().Model())
	}
}

func TestAppConfig_IgnoresNonPositiveLimits(t *testing.T) {
	cfg := NewAppConfigWithOptions(WithMaxDiffLength(0), WithChunkMaxTokens(-1))

	if cfg.MaxDiffLength() != DefaultMaxDiffLength {
		t.Errorf("MaxDiffLength() = %v", cfg.MaxDiffLength())
	}
	if cfg.ChunkMaxTokens() != DefaultChunkMaxTokens {
		t.Errorf("ChunkMaxTokens() = %v", cfg.ChunkMaxTokens())
	}
}

func TestAppConfig_APIKeys_Copy(t *testing.T) {
	keys := []string{"a", "b"}
	cfg := NewAppConfigWithOptions(WithAPIKeys(keys))

	keys[0] = "changed"
	got := cfg.APIKeys()
	got[1] = "changed"

	if cfg.APIKeys()[0] != "a" || cfg.APIKeys()[1] != "b" {
		t.Errorf("APIKeys() = %v, should be isolated from callers", cfg.APIKeys())
	}
}

func TestAppConfig_LogAttrsMasksSecrets(t *testing.T) {
	cfg := NewAppConfigWithOptions(
		WithCompletion(NewEndpointWithOptions(WithAPIKey("sk-secret"))),
		WithAPIKeys([]string{"key-secret"}),
	)

	for _, attr := range cfg.LogAttrs() {
		if v := attr.Value.String(); v == "sk-secret" || v == "key-secret" {
			t.Errorf("attribute %s leaks a secret", attr.Key)
		}
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{}},
		{"a", []string{"a"}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{"a,,b, ", []string{"a", "b"}},
	}

	for _, tt := range tests {
		got := ParseList(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseList(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseList(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

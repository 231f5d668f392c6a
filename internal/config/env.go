package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., COMPLETION_ENDPOINT_BASE_URL).
type EnvConfig struct {
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is pretty or json.
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// APIKeys is a comma-separated list of keys accepted on X-API-KEY.
	// Env: API_KEYS
	APIKeys string `envconfig:"API_KEYS"`

	// Env: CORS_ALLOWED_ORIGINS (default: *)
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// RequestTimeout is in seconds.
	// Env: REQUEST_TIMEOUT (default: 120)
	RequestTimeout float64 `envconfig:"REQUEST_TIMEOUT" default:"120"`

	// Env: MAX_DIFF_LENGTH (default: 100000)
	MaxDiffLength int `envconfig:"MAX_DIFF_LENGTH" default:"100000"`

	// Env: CHUNK_MAX_TOKENS (default: 3000)
	ChunkMaxTokens int `envconfig:"CHUNK_MAX_TOKENS" default:"3000"`

	// Env: TOKENIZER_ENCODING (default: cl100k_base)
	TokenizerEncoding string `envconfig:"TOKENIZER_ENCODING" default:"cl100k_base"`

	// GroqAPIKey is used when COMPLETION_ENDPOINT_API_KEY is unset.
	// Env: GROQ_API_KEY
	GroqAPIKey string `envconfig:"GROQ_API_KEY"`

	CompletionEndpoint EndpointEnv `envconfig:"COMPLETION_ENDPOINT"`
	ChunkStage         StageEnv    `envconfig:"CHUNK_STAGE"`
	FusionStage        StageEnv    `envconfig:"FUSION_STAGE"`
}

// EndpointEnv holds environment configuration for the completion endpoint.
type EndpointEnv struct {
	// Provider is openai (any OpenAI-compatible API) or anthropic.
	// Env: *_PROVIDER (default: openai)
	Provider string `envconfig:"PROVIDER" default:"openai"`

	// Env: *_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Env: *_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is in seconds.
	// Env: *_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`
}

// StageEnv holds environment configuration for one completion stage.
// Unset values take the stage's defaults.
type StageEnv struct {
	Model       string  `envconfig:"MODEL"`
	Temperature float64 `envconfig:"TEMPERATURE"`
	MaxTokens   int     `envconfig:"MAX_TOKENS"`
	TopP        float64 `envconfig:"TOP_P"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.APIKeys != "" {
		cfg = applyOption(cfg, WithAPIKeys(ParseList(e.APIKeys)))
	}
	if e.CORSAllowedOrigins != "" {
		cfg = applyOption(cfg, WithCORSAllowedOrigins(ParseList(e.CORSAllowedOrigins)))
	}

	cfg = applyOption(cfg, WithRequestTimeout(seconds(e.RequestTimeout)))
	cfg = applyOption(cfg, WithMaxDiffLength(e.MaxDiffLength))
	cfg = applyOption(cfg, WithChunkMaxTokens(e.ChunkMaxTokens))
	cfg = applyOption(cfg, WithTokenizerEncoding(e.TokenizerEncoding))

	endpoint := e.CompletionEndpoint
	if endpoint.APIKey == "" {
		endpoint.APIKey = e.GroqAPIKey
	}
	cfg = applyOption(cfg, WithCompletion(endpoint.ToEndpoint()))

	cfg = applyOption(cfg, WithChunkStage(e.ChunkStage.ToStage(DefaultChunkStage())))
	cfg = applyOption(cfg, WithFusionStage(e.FusionStage.ToStage(DefaultFusionStage())))

	return cfg
}

// applyOption applies an option to the config.
func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// ToEndpoint converts EndpointEnv to Endpoint.
func (e EndpointEnv) ToEndpoint() Endpoint {
	opts := []EndpointOption{
		WithProvider(parseProvider(e.Provider)),
		WithTimeout(seconds(e.Timeout)),
	}

	switch {
	case e.BaseURL != "":
		opts = append(opts, WithBaseURL(e.BaseURL))
	case parseProvider(e.Provider) == ProviderAnthropic:
		// The Groq default does not apply; the provider picks its own.
		opts = append(opts, WithBaseURL(""))
	}
	if e.APIKey != "" {
		opts = append(opts, WithAPIKey(e.APIKey))
	}

	return NewEndpointWithOptions(opts...)
}

// ToStage converts StageEnv to Stage, taking unset values from defaults.
func (s StageEnv) ToStage(defaults Stage) Stage {
	stage := defaults
	if s.Model != "" {
		stage.model = s.Model
	}
	if s.Temperature > 0 {
		stage.temperature = s.Temperature
	}
	if s.MaxTokens > 0 {
		stage.maxTokens = s.MaxTokens
	}
	if s.TopP > 0 {
		stage.topP = s.TopP
	}
	return stage
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}

// parseProvider parses a provider string. Unknown values select the
// OpenAI-compatible dialect.
func parseProvider(s string) ProviderKind {
	switch strings.ToLower(s) {
	case "anthropic":
		return ProviderAnthropic
	default:
		return ProviderOpenAI
	}
}

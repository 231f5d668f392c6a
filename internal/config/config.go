// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost               = "0.0.0.0"
	DefaultPort               = 8080
	DefaultLogLevel           = "INFO"
	DefaultRequestTimeout     = 120 * time.Second
	DefaultMaxDiffLength      = 100_000
	DefaultChunkMaxTokens     = 3000
	DefaultTokenizerEncoding  = "cl100k_base"
	DefaultCompletionBaseURL  = "https://api.groq.com/openai/v1"
	DefaultCompletionTimeout  = 60 * time.Second
	DefaultChunkStageModel    = "meta-llama/llama-4-scout-17b-16e-instruct"
	DefaultChunkTemperature   = 0.3
	DefaultChunkMaxOutput     = 32
	DefaultChunkTopP          = 1.0
	DefaultFusionStageModel   = "qwen/qwen3-32b"
	DefaultCORSAllowedOrigins = "*"
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// ProviderKind selects the completion API dialect.
type ProviderKind string

// ProviderKind values.
const (
	ProviderOpenAI    ProviderKind = "openai"
	ProviderAnthropic ProviderKind = "anthropic"
)

// Endpoint configures the completion provider.
type Endpoint struct {
	provider ProviderKind
	baseURL  string
	apiKey   string
	timeout  time.Duration
}

// NewEndpoint creates an Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		provider: ProviderOpenAI,
		baseURL:  DefaultCompletionBaseURL,
		timeout:  DefaultCompletionTimeout,
	}
}

// Provider returns the API dialect.
func (e Endpoint) Provider() ProviderKind { return e.provider }

// BaseURL returns the API base URL.
func (e Endpoint) BaseURL() string { return e.baseURL }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Timeout returns the per-call HTTP timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// IsConfigured returns true if an API key is set.
func (e Endpoint) IsConfigured() bool {
	return e.apiKey != ""
}

// EndpointOption is a functional option for Endpoint.
type EndpointOption func(*Endpoint)

// WithProvider sets the API dialect.
func WithProvider(p ProviderKind) EndpointOption {
	return func(e *Endpoint) { e.provider = p }
}

// WithBaseURL sets the base URL.
func WithBaseURL(url string) EndpointOption {
	return func(e *Endpoint) { e.baseURL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) EndpointOption {
	return func(e *Endpoint) { e.apiKey = key }
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) EndpointOption {
	return func(e *Endpoint) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEndpointWithOptions creates an Endpoint with functional options.
func NewEndpointWithOptions(opts ...EndpointOption) Endpoint {
	e := NewEndpoint()
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Stage configures the model and sampling of one completion stage. Zero
// numeric values leave the provider default in place.
type Stage struct {
	model       string
	temperature float64
	maxTokens   int
	topP        float64
}

// NewStage creates a Stage.
func NewStage(model string, temperature float64, maxTokens int, topP float64) Stage {
	return Stage{model: model, temperature: temperature, maxTokens: maxTokens, topP: topP}
}

// DefaultChunkStage returns the per-chunk summary defaults.
func DefaultChunkStage() Stage {
	return NewStage(DefaultChunkStageModel, DefaultChunkTemperature, DefaultChunkMaxOutput, DefaultChunkTopP)
}

// DefaultFusionStage returns the fusion defaults.
func DefaultFusionStage() Stage {
	return NewStage(DefaultFusionStageModel, 0, 0, 0)
}

// Model returns the model identifier.
func (s Stage) Model() string { return s.model }

// Temperature returns the sampling temperature.
func (s Stage) Temperature() float64 { return s.temperature }

// MaxTokens returns the output token limit.
func (s Stage) MaxTokens() int { return s.maxTokens }

// TopP returns the nucleus sampling value.
func (s Stage) TopP() float64 { return s.topP }

// AppConfig holds the application configuration.
type AppConfig struct {
	host               string
	port               int
	logLevel           string
	logFormat          LogFormat
	apiKeys            []string
	corsAllowedOrigins []string
	requestTimeout     time.Duration
	maxDiffLength      int
	chunkMaxTokens     int
	tokenizerEncoding  string
	completion         Endpoint
	chunkStage         Stage
	fusionStage        Stage
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:               DefaultHost,
		port:               DefaultPort,
		logLevel:           DefaultLogLevel,
		logFormat:          LogFormatPretty,
		apiKeys:            []string{},
		corsAllowedOrigins: []string{DefaultCORSAllowedOrigins},
		requestTimeout:     DefaultRequestTimeout,
		maxDiffLength:      DefaultMaxDiffLength,
		chunkMaxTokens:     DefaultChunkMaxTokens,
		tokenizerEncoding:  DefaultTokenizerEncoding,
		completion:         NewEndpoint(),
		chunkStage:         DefaultChunkStage(),
		fusionStage:        DefaultFusionStage(),
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// APIKeys returns a copy of the accepted API keys. Empty disables auth.
func (c AppConfig) APIKeys() []string {
	keys := make([]string, len(c.apiKeys))
	copy(keys, c.apiKeys)
	return keys
}

// CORSAllowedOrigins returns a copy of the allowed CORS origins.
func (c AppConfig) CORSAllowedOrigins() []string {
	origins := make([]string, len(c.corsAllowedOrigins))
	copy(origins, c.corsAllowedOrigins)
	return origins
}

// RequestTimeout returns the HTTP request timeout.
func (c AppConfig) RequestTimeout() time.Duration { return c.requestTimeout }

// MaxDiffLength returns the number of trailing diff characters kept.
func (c AppConfig) MaxDiffLength() int { return c.maxDiffLength }

// ChunkMaxTokens returns the token bound of every chunk.
func (c AppConfig) ChunkMaxTokens() int { return c.chunkMaxTokens }

// TokenizerEncoding returns the tiktoken encoding name.
func (c AppConfig) TokenizerEncoding() string { return c.tokenizerEncoding }

// Completion returns the completion endpoint configuration.
func (c AppConfig) Completion() Endpoint { return c.completion }

// ChunkStage returns the per-chunk summary stage.
func (c AppConfig) ChunkStage() Stage { return c.chunkStage }

// FusionStage returns the fusion stage.
func (c AppConfig) FusionStage() Stage { return c.fusionStage }

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithAPIKeys sets the accepted API keys.
func WithAPIKeys(keys []string) AppConfigOption {
	return func(c *AppConfig) {
		c.apiKeys = make([]string, len(keys))
		copy(c.apiKeys, keys)
	}
}

// WithCORSAllowedOrigins sets the allowed CORS origins.
func WithCORSAllowedOrigins(origins []string) AppConfigOption {
	return func(c *AppConfig) {
		c.corsAllowedOrigins = make([]string, len(origins))
		copy(c.corsAllowedOrigins, origins)
	}
}

// WithRequestTimeout sets the HTTP request timeout.
func WithRequestTimeout(d time.Duration) AppConfigOption {
	return func(c *AppConfig) {
		if d > 0 {
			c.requestTimeout = d
		}
	}
}

// WithMaxDiffLength sets the number of trailing diff characters kept.
func WithMaxDiffLength(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.maxDiffLength = n
		}
	}
}

// WithChunkMaxTokens sets the token bound of every chunk.
func WithChunkMaxTokens(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.chunkMaxTokens = n
		}
	}
}

// WithTokenizerEncoding sets the tiktoken encoding name.
func WithTokenizerEncoding(encoding string) AppConfigOption {
	return func(c *AppConfig) {
		if encoding != "" {
			c.tokenizerEncoding = encoding
		}
	}
}

// WithCompletion sets the completion endpoint.
func WithCompletion(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.completion = e }
}

// WithChunkStage sets the per-chunk summary stage.
func WithChunkStage(s Stage) AppConfigOption {
	return func(c *AppConfig) { c.chunkStage = s }
}

// WithFusionStage sets the fusion stage.
func WithFusionStage(s Stage) AppConfigOption {
	return func(c *AppConfig) { c.fusionStage = s }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Secrets are reported as presence or counts only.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("addr", c.Addr()),
		slog.String("log_level", c.logLevel),
		slog.String("provider", string(c.completion.Provider())),
		slog.String("base_url", c.completion.BaseURL()),
		slog.Bool("api_key_set", c.completion.IsConfigured()),
		slog.String("chunk_model", c.chunkStage.Model()),
		slog.String("fusion_model", c.fusionStage.Model()),
		slog.Int("chunk_max_tokens", c.chunkMaxTokens),
		slog.Int("max_diff_length", c.maxDiffLength),
		slog.String("tokenizer_encoding", c.tokenizerEncoding),
		slog.Int("api_keys_count", len(c.apiKeys)),
		slog.Duration("request_timeout", c.requestTimeout),
	}
}

// ParseList parses a comma-separated string, dropping blank entries.
func ParseList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

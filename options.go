package kommit

import (
	"io"
	"log/slog"

	"github.com/helixml/kommit/domain/commit"
	domainservice "github.com/helixml/kommit/domain/service"
	"github.com/helixml/kommit/infrastructure/enricher"
	"github.com/helixml/kommit/infrastructure/provider"
	"github.com/helixml/kommit/infrastructure/tokenizer"
)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	textProvider      provider.TextGenerator
	tokenizer         domainservice.Tokenizer
	tokenizerEncoding string
	logger            *slog.Logger
	chunkStage        enricher.Stage
	fusionStage       enricher.Stage
	maxDiffLength     int
	maxChunkTokens    int
	closers           []io.Closer
}

func newClientConfig() *clientConfig {
	return &clientConfig{
		tokenizerEncoding: tokenizer.DefaultEncoding,
		chunkStage:        enricher.DefaultChunkStage(),
		fusionStage:       enricher.DefaultFusionStage(),
		maxDiffLength:     commit.MaxDiffLength,
		maxChunkTokens:    commit.DefaultMaxChunkTokens,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithOpenAIConfig uses an OpenAI-compatible chat completions API (OpenAI,
// Groq, OpenRouter, Ollama...) as the text provider.
func WithOpenAIConfig(cfg provider.OpenAIConfig) Option {
	return func(c *clientConfig) {
		c.textProvider = provider.NewOpenAIProviderFromConfig(cfg)
	}
}

// WithAnthropicConfig uses the Anthropic Messages API as the text provider.
func WithAnthropicConfig(cfg provider.AnthropicConfig) Option {
	return func(c *clientConfig) {
		c.textProvider = provider.NewAnthropicProviderFromConfig(cfg)
	}
}

// WithTextProvider sets a custom text generation provider.
func WithTextProvider(p provider.TextGenerator) Option {
	return func(c *clientConfig) {
		c.textProvider = p
	}
}

// WithTokenizer sets a custom tokenizer used to size chunks.
func WithTokenizer(t domainservice.Tokenizer) Option {
	return func(c *clientConfig) {
		c.tokenizer = t
	}
}

// WithTokenizerEncoding selects the tiktoken encoding used when no custom
// tokenizer is set.
func WithTokenizerEncoding(encoding string) Option {
	return func(c *clientConfig) {
		if encoding != "" {
			c.tokenizerEncoding = encoding
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithChunkStage sets the model and sampling parameters of the per-chunk
// summary call. Zero fields keep their defaults.
func WithChunkStage(s enricher.Stage) Option {
	return func(c *clientConfig) {
		c.chunkStage = s.Merge(enricher.DefaultChunkStage())
	}
}

// WithFusionStage sets the model and sampling parameters of the fusion call.
// Zero fields keep their defaults.
func WithFusionStage(s enricher.Stage) Option {
	return func(c *clientConfig) {
		c.fusionStage = s.Merge(enricher.DefaultFusionStage())
	}
}

// WithMaxDiffLength sets how many trailing characters of a diff are kept.
func WithMaxDiffLength(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.maxDiffLength = n
		}
	}
}

// WithMaxChunkTokens sets the token bound of every chunk.
func WithMaxChunkTokens(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.maxChunkTokens = n
		}
	}
}

// WithCloser registers a resource to be closed when the client is closed.
func WithCloser(closer io.Closer) Option {
	return func(c *clientConfig) {
		c.closers = append(c.closers, closer)
	}
}

// Package kommit generates concise git commit messages from diffs.
//
// A diff is trimmed to its trailing characters, split into token-bounded
// chunks, summarized chunk by chunk, and the phrases are fused into one
// imperative commit message.
//
// Basic usage:
//
//	client, err := kommit.New(
//	    kommit.WithOpenAIConfig(provider.OpenAIConfig{
//	        APIKey: os.Getenv("GROQ_API_KEY"),
//	    }),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	result, err := client.Generate(ctx, diff)
//	if err != nil {
//	    var genErr *service.GenerateError
//	    if errors.As(err, &genErr) {
//	        fmt.Println(genErr.Message())
//	    }
//	    return
//	}
//	fmt.Println(result.Message())
package kommit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/helixml/kommit/application/service"
	"github.com/helixml/kommit/infrastructure/enricher"
	"github.com/helixml/kommit/infrastructure/provider"
	"github.com/helixml/kommit/infrastructure/tokenizer"
)

// Client is the main entry point for the kommit library. The provider
// handle is built once and shared by every Generate call.
type Client struct {
	// Messages is the commit message generation service.
	Messages *service.CommitMessage

	textProvider provider.TextGenerator
	closers      []io.Closer
	logger       *slog.Logger
	closed       atomic.Bool
	mu           sync.Mutex
}

// New creates a new Client with the given options.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.textProvider == nil {
		return nil, ErrNoTextProvider
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	tok := cfg.tokenizer
	if tok == nil {
		tiktoken, err := tokenizer.NewTiktoken(cfg.tokenizerEncoding)
		if err != nil {
			return nil, fmt.Errorf("create tokenizer: %w", err)
		}
		tok = tiktoken
	}

	summarizer := enricher.NewChunkSummarizer(cfg.textProvider, cfg.chunkStage, logger)
	fuser := enricher.NewFuser(cfg.textProvider, cfg.fusionStage, logger)

	messages := service.NewCommitMessage(tok, summarizer, fuser, logger,
		service.WithMaxDiffLength(cfg.maxDiffLength),
		service.WithMaxChunkTokens(cfg.maxChunkTokens),
	)

	logger.Debug("kommit client created",
		slog.String("chunk_model", summarizer.Stage().Model),
		slog.String("fusion_model", fuser.Stage().Model),
		slog.Int("max_chunk_tokens", cfg.maxChunkTokens),
		slog.Int("max_diff_length", cfg.maxDiffLength),
	)

	return &Client{
		Messages:     messages,
		textProvider: cfg.textProvider,
		closers:      cfg.closers,
		logger:       logger,
	}, nil
}

// Generate produces a commit message for diff. Failures are returned as
// *service.GenerateError.
func (c *Client) Generate(ctx context.Context, diff string) (service.Result, error) {
	if c.closed.Load() {
		return service.Result{}, ErrClientClosed
	}
	return c.Messages.Generate(ctx, diff)
}

// Close releases the provider and any registered resources.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if closer, ok := c.textProvider.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			c.logger.Error("failed to close text provider", slog.Any("error", err))
		}
	}

	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			c.logger.Error("failed to close resource", slog.Any("error", err))
		}
	}

	c.logger.Debug("kommit client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

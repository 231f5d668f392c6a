package main

import (
	"fmt"
	"log/slog"

	"github.com/helixml/kommit"
	"github.com/helixml/kommit/infrastructure/enricher"
	"github.com/helixml/kommit/infrastructure/provider"
	"github.com/helixml/kommit/internal/config"
)

// clientOptions returns the kommit.Option slice derived from AppConfig:
// completion provider, stage parameters, limits and tokenizer.
func clientOptions(cfg config.AppConfig, logger *slog.Logger) ([]kommit.Option, error) {
	providerOpt, err := providerOption(cfg.Completion())
	if err != nil {
		return nil, err
	}

	return []kommit.Option{
		providerOpt,
		kommit.WithLogger(logger),
		kommit.WithChunkStage(stage(cfg.ChunkStage())),
		kommit.WithFusionStage(stage(cfg.FusionStage())),
		kommit.WithMaxDiffLength(cfg.MaxDiffLength()),
		kommit.WithMaxChunkTokens(cfg.ChunkMaxTokens()),
		kommit.WithTokenizerEncoding(cfg.TokenizerEncoding()),
	}, nil
}

// providerOption builds the completion provider for the endpoint.
func providerOption(endpoint config.Endpoint) (kommit.Option, error) {
	if !endpoint.IsConfigured() {
		return nil, fmt.Errorf("%w: set COMPLETION_ENDPOINT_API_KEY or GROQ_API_KEY", kommit.ErrNoTextProvider)
	}

	switch endpoint.Provider() {
	case config.ProviderAnthropic:
		return kommit.WithAnthropicConfig(provider.AnthropicConfig{
			APIKey:  endpoint.APIKey(),
			BaseURL: endpoint.BaseURL(),
			Timeout: endpoint.Timeout(),
		}), nil
	case config.ProviderOpenAI, "":
		return kommit.WithOpenAIConfig(provider.OpenAIConfig{
			APIKey:  endpoint.APIKey(),
			BaseURL: endpoint.BaseURL(),
			Timeout: endpoint.Timeout(),
		}), nil
	default:
		return nil, fmt.Errorf("unsupported completion provider %q", endpoint.Provider())
	}
}

func stage(s config.Stage) enricher.Stage {
	return enricher.Stage{
		Model:       s.Model(),
		Temperature: s.Temperature(),
		MaxTokens:   s.MaxTokens(),
		TopP:        s.TopP(),
	}
}

// newClient creates a kommit client from configuration.
func newClient(cfg config.AppConfig, logger *slog.Logger) (*kommit.Client, error) {
	opts, err := clientOptions(cfg, logger)
	if err != nil {
		return nil, err
	}

	client, err := kommit.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kommit client: %w", err)
	}
	return client, nil
}

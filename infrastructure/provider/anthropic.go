package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Defaults for the Anthropic Messages API.
const (
	DefaultAnthropicBaseURL   = "https://api.anthropic.com"
	DefaultAnthropicModel     = "claude-sonnet-4-20250514"
	DefaultAnthropicMaxTokens = 4096
)

// AnthropicProvider implements text generation using the Anthropic Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

// AnthropicConfig holds configuration for an Anthropic provider.
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewAnthropicProviderFromConfig creates a provider from configuration.
// The SDK's built-in retries are disabled; a failed call is reported once.
func NewAnthropicProviderFromConfig(cfg AnthropicConfig) *AnthropicProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultAnthropicBaseURL
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

// Close is a no-op for the Anthropic provider.
func (p *AnthropicProvider) Close() error {
	return nil
}

// ChatCompletion generates a chat completion. System messages are lifted
// into the request's system prompt.
func (p *AnthropicProvider) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	var system []anthropic.TextBlockParam
	var messages []anthropic.MessageParam

	for _, m := range req.Messages() {
		switch m.Role() {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content()})
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content())))
		default:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content())))
		}
	}

	model := p.model
	if req.Model() != "" {
		model = req.Model()
	}

	maxTokens := int64(DefaultAnthropicMaxTokens)
	if req.MaxTokens() > 0 {
		maxTokens = int64(req.MaxTokens())
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  messages,
		System:    system,
	}
	if req.Temperature() > 0 {
		params.Temperature = anthropic.Float(req.Temperature())
	}
	if req.TopP() > 0 {
		params.TopP = anthropic.Float(req.TopP())
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return ChatCompletionResponse{}, p.wrapError("chat_completion", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}

	input := int(msg.Usage.InputTokens)
	output := int(msg.Usage.OutputTokens)

	return NewChatCompletionResponse(
		b.String(),
		string(msg.StopReason),
		NewUsage(input, output, input+output),
	), nil
}

func (p *AnthropicProvider) wrapError(operation string, err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return NewProviderError(operation, apiErr.StatusCode, http.StatusText(apiErr.StatusCode), err)
	}
	return NewProviderError(operation, 0, "request failed", err)
}

var (
	_ TextProvider  = (*AnthropicProvider)(nil)
	_ TextGenerator = (*AnthropicProvider)(nil)
)

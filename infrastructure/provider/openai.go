package provider

import (
	"context"
	"errors"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Defaults for OpenAI-compatible endpoints.
const (
	DefaultOpenAIBaseURL = "https://api.groq.com/openai/v1"
	DefaultOpenAIModel   = "meta-llama/llama-4-scout-17b-16e-instruct"
)

// OpenAIProvider implements text generation against any OpenAI-compatible
// chat completions API (OpenAI, Groq, OpenRouter, Ollama, vLLM...).
type OpenAIProvider struct {
	client    *openai.Client
	chatModel string
}

// OpenAIOption is a functional option for OpenAIProvider.
type OpenAIOption func(*OpenAIProvider)

// WithChatModel sets the default chat completion model.
func WithChatModel(model string) OpenAIOption {
	return func(p *OpenAIProvider) {
		if model != "" {
			p.chatModel = model
		}
	}
}

// NewOpenAIProvider creates a new provider for the public OpenAI API.
func NewOpenAIProvider(apiKey string, opts ...OpenAIOption) *OpenAIProvider {
	p := &OpenAIProvider{
		client:    openai.NewClient(apiKey),
		chatModel: DefaultOpenAIModel,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// OpenAIConfig holds configuration for an OpenAI-compatible provider.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	ChatModel string
	Timeout   time.Duration
}

// NewOpenAIProviderFromConfig creates a provider from configuration.
func NewOpenAIProviderFromConfig(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)

	config.BaseURL = DefaultOpenAIBaseURL
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	if cfg.Timeout > 0 {
		config.HTTPClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = DefaultOpenAIModel
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(config),
		chatModel: chatModel,
	}
}

// Close is a no-op for the OpenAI provider.
func (p *OpenAIProvider) Close() error {
	return nil
}

// ChatCompletion generates a chat completion. A response without choices is
// not an error; it yields empty content.
func (p *OpenAIProvider) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages()))
	for i, m := range req.Messages() {
		messages[i] = openai.ChatCompletionMessage{
			Role:    m.Role(),
			Content: m.Content(),
		}
	}

	model := p.chatModel
	if req.Model() != "" {
		model = req.Model()
	}

	openaiReq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}

	if req.MaxTokens() > 0 {
		openaiReq.MaxTokens = req.MaxTokens()
	}
	if req.Temperature() > 0 {
		openaiReq.Temperature = float32(req.Temperature())
	}
	if req.TopP() > 0 {
		openaiReq.TopP = float32(req.TopP())
	}

	resp, err := p.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		return ChatCompletionResponse{}, p.wrapError("chat_completion", err)
	}

	usage := NewUsage(
		resp.Usage.PromptTokens,
		resp.Usage.CompletionTokens,
		resp.Usage.TotalTokens,
	)

	if len(resp.Choices) == 0 {
		return NewChatCompletionResponse("", "", usage), nil
	}

	return NewChatCompletionResponse(
		resp.Choices[0].Message.Content,
		string(resp.Choices[0].FinishReason),
		usage,
	), nil
}

// wrapError wraps an OpenAI error into a ProviderError carrying the HTTP
// status, so callers can tell an oversized payload from other failures.
func (p *OpenAIProvider) wrapError(operation string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewProviderError(operation, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewProviderError(operation, reqErr.HTTPStatusCode, "request failed", err)
	}

	return NewProviderError(operation, 0, "request failed", err)
}

// Ensure OpenAIProvider implements the interfaces.
var (
	_ TextProvider  = (*OpenAIProvider)(nil)
	_ TextGenerator = (*OpenAIProvider)(nil)
)

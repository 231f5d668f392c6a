// Package enricher turns diff chunks into phrases and phrases into a commit
// message using a completion provider.
package enricher

import "github.com/helixml/kommit/infrastructure/provider"

// Default models for the two completion stages.
const (
	DefaultChunkModel  = "meta-llama/llama-4-scout-17b-16e-instruct"
	DefaultFusionModel = "qwen/qwen3-32b"
)

// Stage holds the model and sampling parameters of one completion stage.
// Zero numeric values leave the provider default in place.
type Stage struct {
	Model       string
	Temperature float64
	MaxTokens   int
	TopP        float64
}

// DefaultChunkStage returns the parameters of the per-chunk summary call.
func DefaultChunkStage() Stage {
	return Stage{
		Model:       DefaultChunkModel,
		Temperature: 0.3,
		MaxTokens:   32,
		TopP:        1,
	}
}

// DefaultFusionStage returns the parameters of the fusion call. Sampling is
// left to the provider.
func DefaultFusionStage() Stage {
	return Stage{Model: DefaultFusionModel}
}

// Merge returns s with every zero field taken from fallback.
func (s Stage) Merge(fallback Stage) Stage {
	if s.Model == "" {
		s.Model = fallback.Model
	}
	if s.Temperature == 0 {
		s.Temperature = fallback.Temperature
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = fallback.MaxTokens
	}
	if s.TopP == 0 {
		s.TopP = fallback.TopP
	}
	return s
}

func (s Stage) request(prompt string) provider.ChatCompletionRequest {
	return provider.NewChatCompletionRequest([]provider.Message{provider.UserMessage(prompt)}).
		WithModel(s.Model).
		WithMaxTokens(s.MaxTokens).
		WithTemperature(s.Temperature).
		WithTopP(s.TopP)
}

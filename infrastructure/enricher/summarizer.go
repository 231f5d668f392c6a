package enricher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/helixml/kommit/domain/commit"
	domainservice "github.com/helixml/kommit/domain/service"
	"github.com/helixml/kommit/infrastructure/provider"
)

// ChunkSummarizer asks a TextGenerator for a short phrase per diff chunk.
type ChunkSummarizer struct {
	generator provider.TextGenerator
	stage     Stage
	log       *slog.Logger
}

// NewChunkSummarizer creates a new ChunkSummarizer. Zero fields of stage
// take their value from DefaultChunkStage.
func NewChunkSummarizer(generator provider.TextGenerator, stage Stage, log *slog.Logger) *ChunkSummarizer {
	if log == nil {
		log = slog.Default()
	}
	return &ChunkSummarizer{
		generator: generator,
		stage:     stage.Merge(DefaultChunkStage()),
		log:       log,
	}
}

// Stage returns the completion parameters in use.
func (s *ChunkSummarizer) Stage() Stage { return s.stage }

// SummarizeChunk implements domainservice.ChunkSummarizer.
func (s *ChunkSummarizer) SummarizeChunk(ctx context.Context, chunk string) (string, error) {
	req := s.stage.request(fmt.Sprintf(chunkSummaryPrompt, chunk))

	resp, err := s.generator.ChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("summarize chunk: %w", err)
	}

	phrase := strings.TrimSpace(resp.Content())
	if phrase == "" {
		phrase = commit.FallbackMessage
	}

	s.log.DebugContext(ctx, "chunk summary", slog.String("summary", phrase))

	return phrase, nil
}

var _ domainservice.ChunkSummarizer = (*ChunkSummarizer)(nil)

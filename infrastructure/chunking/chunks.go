// Package chunking splits text into token-bounded windows.
package chunking

import (
	"fmt"

	"github.com/helixml/kommit/domain/commit"
	domainservice "github.com/helixml/kommit/domain/service"
)

// ChunkParams configures the chunking algorithm.
type ChunkParams struct {
	MaxTokens int
}

// DefaultChunkParams returns the default window size.
func DefaultChunkParams() ChunkParams {
	return ChunkParams{
		MaxTokens: commit.DefaultMaxChunkTokens,
	}
}

// TokenChunks holds the result of splitting text into token windows.
type TokenChunks struct {
	chunks []commit.Chunk
	tokens int
}

// NewTokenChunks encodes text and slices the token sequence into
// consecutive, non-overlapping windows of at most params.MaxTokens tokens.
// Every window is decoded back to text. Only the last window may be shorter
// than the maximum. Empty text yields no chunks.
func NewTokenChunks(tokenizer domainservice.Tokenizer, text string, params ChunkParams) (TokenChunks, error) {
	if params.MaxTokens <= 0 {
		return TokenChunks{}, fmt.Errorf("max tokens must be positive, got %d", params.MaxTokens)
	}

	if text == "" {
		return TokenChunks{}, nil
	}

	ids, err := tokenizer.Encode(text)
	if err != nil {
		return TokenChunks{}, fmt.Errorf("encode: %w", err)
	}

	chunks := make([]commit.Chunk, 0, (len(ids)+params.MaxTokens-1)/params.MaxTokens)
	for start := 0; start < len(ids); start += params.MaxTokens {
		end := min(start+params.MaxTokens, len(ids))

		decoded, err := tokenizer.Decode(ids[start:end])
		if err != nil {
			return TokenChunks{}, fmt.Errorf("decode chunk %d: %w", len(chunks), err)
		}

		chunks = append(chunks, commit.NewChunk(len(chunks), decoded, end-start))
	}

	return TokenChunks{chunks: chunks, tokens: len(ids)}, nil
}

// All returns all chunks in diff order.
func (tc TokenChunks) All() []commit.Chunk {
	result := make([]commit.Chunk, len(tc.chunks))
	copy(result, tc.chunks)
	return result
}

// Texts returns the decoded text of every chunk in diff order.
func (tc TokenChunks) Texts() []string {
	texts := make([]string, len(tc.chunks))
	for i, c := range tc.chunks {
		texts[i] = c.Text()
	}
	return texts
}

// Len returns the number of chunks.
func (tc TokenChunks) Len() int { return len(tc.chunks) }

// TotalTokens returns the token count of the encoded text.
func (tc TokenChunks) TotalTokens() int { return tc.tokens }

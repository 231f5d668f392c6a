package service

import (
	"context"
	"errors"
)

// ErrPayloadTooLarge indicates a completion provider rejected a request
// because its content exceeded the provider's size limit.
var ErrPayloadTooLarge = errors.New("payload too large")

// ChunkSummarizer describes one chunk of a diff in a short phrase.
type ChunkSummarizer interface {
	// SummarizeChunk returns a phrase for the chunk. It never returns an
	// empty phrase without an error.
	SummarizeChunk(ctx context.Context, chunk string) (string, error)
}

// Fuser combines ordered chunk phrases into one commit message.
type Fuser interface {
	// Fuse returns a sanitized, non-empty commit message.
	Fuse(ctx context.Context, summaries []string) (string, error)
}

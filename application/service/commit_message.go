// Package service provides application layer services that orchestrate domain operations.
package service

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/helixml/kommit/domain/commit"
	domainservice "github.com/helixml/kommit/domain/service"
	"github.com/helixml/kommit/infrastructure/chunking"
)

// Result is the outcome of a successful generation.
type Result struct {
	message   string
	summaries []commit.Summary
	chunks    int
}

// NewResult creates a Result.
func NewResult(message string, summaries []commit.Summary, chunks int) Result {
	return Result{message: message, summaries: summaries, chunks: chunks}
}

// Message returns the commit message.
func (r Result) Message() string { return r.message }

// Summaries returns the per-chunk phrases in diff order.
func (r Result) Summaries() []commit.Summary {
	result := make([]commit.Summary, len(r.summaries))
	copy(result, r.summaries)
	return result
}

// Chunks returns the number of chunks the diff was split into.
func (r Result) Chunks() int { return r.chunks }

// CommitMessageOption configures a CommitMessage service.
type CommitMessageOption func(*CommitMessage)

// WithMaxDiffLength sets how many trailing characters of a diff are kept.
func WithMaxDiffLength(n int) CommitMessageOption {
	return func(s *CommitMessage) {
		if n > 0 {
			s.maxDiffLength = n
		}
	}
}

// WithMaxChunkTokens sets the token bound of every chunk.
func WithMaxChunkTokens(n int) CommitMessageOption {
	return func(s *CommitMessage) {
		if n > 0 {
			s.chunkParams.MaxTokens = n
		}
	}
}

// CommitMessage generates commit messages from diffs. It holds no
// per-request state and is safe for concurrent use when its collaborators
// are.
type CommitMessage struct {
	tokenizer     domainservice.Tokenizer
	summarizer    domainservice.ChunkSummarizer
	fuser         domainservice.Fuser
	maxDiffLength int
	chunkParams   chunking.ChunkParams
	logger        *slog.Logger
}

// NewCommitMessage creates a new CommitMessage service.
func NewCommitMessage(
	tokenizer domainservice.Tokenizer,
	summarizer domainservice.ChunkSummarizer,
	fuser domainservice.Fuser,
	logger *slog.Logger,
	opts ...CommitMessageOption,
) *CommitMessage {
	if logger == nil {
		logger = slog.Default()
	}
	s := &CommitMessage{
		tokenizer:     tokenizer,
		summarizer:    summarizer,
		fuser:         fuser,
		maxDiffLength: commit.MaxDiffLength,
		chunkParams:   chunking.DefaultChunkParams(),
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces a commit message for diff. Chunks are summarized one at
// a time in diff order and the first failure aborts the request. Every
// returned error is a *GenerateError.
func (s *CommitMessage) Generate(ctx context.Context, diff string) (Result, error) {
	trimmed := commit.TrimDiff(diff, s.maxDiffLength)
	if len(trimmed) != len(diff) {
		s.logger.DebugContext(ctx, "trimmed diff",
			slog.Int("original_chars", utf8.RuneCountInString(diff)),
			slog.Int("kept_chars", s.maxDiffLength),
		)
	}

	chunks, err := chunking.NewTokenChunks(s.tokenizer, trimmed, s.chunkParams)
	if err != nil {
		return Result{}, s.fail(ctx, "chunk diff", err)
	}

	s.logger.InfoContext(ctx, "split diff into chunks",
		slog.Int("chunks", chunks.Len()),
		slog.Int("tokens", chunks.TotalTokens()),
	)

	summaries := make([]commit.Summary, 0, chunks.Len())
	for _, chunk := range chunks.All() {
		if err := ctx.Err(); err != nil {
			return Result{}, s.fail(ctx, "summarize chunk", err)
		}

		phrase, err := s.summarizer.SummarizeChunk(ctx, chunk.Text())
		if err != nil {
			return Result{}, s.fail(ctx, "summarize chunk", err, slog.Int("chunk", chunk.Index()))
		}

		summaries = append(summaries, commit.NewSummary(chunk.Index(), phrase))
	}

	message, err := s.fuser.Fuse(ctx, commit.SummaryTexts(summaries))
	if err != nil {
		return Result{}, s.fail(ctx, "fuse summaries", err)
	}

	s.logger.InfoContext(ctx, "generated commit message", slog.String("message", message))

	return NewResult(message, summaries, chunks.Len()), nil
}

func (s *CommitMessage) fail(ctx context.Context, step string, err error, attrs ...any) *GenerateError {
	genErr := Classify(err)
	args := append([]any{
		slog.String("step", step),
		slog.String("class", string(genErr.Class())),
		slog.String("error", err.Error()),
	}, attrs...)
	s.logger.ErrorContext(ctx, "commit message generation failed", args...)
	return genErr
}

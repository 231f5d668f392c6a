// Package commit holds the request-scoped values of commit message generation:
// diffs, the token-bounded chunks they are split into, and the phrase
// summaries produced for each chunk.
package commit

import "unicode/utf8"

// Pipeline defaults.
const (
	// MaxDiffLength is the number of trailing characters of a diff that are
	// kept for processing.
	MaxDiffLength = 100_000

	// DefaultMaxChunkTokens bounds the token count of every chunk.
	DefaultMaxChunkTokens = 3000

	// FallbackMessage replaces empty model output at both stages.
	FallbackMessage = "Fix bug"
)

// TrimDiff keeps the last limit characters (runes) of diff. Diffs at or
// under the limit are returned unchanged. A non-positive limit disables
// trimming.
func TrimDiff(diff string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(diff) <= limit {
		return diff
	}
	runes := []rune(diff)
	return string(runes[len(runes)-limit:])
}

// Chunk is a contiguous window of a diff's token sequence, decoded to text.
type Chunk struct {
	index  int
	text   string
	tokens int
}

// NewChunk creates a Chunk.
func NewChunk(index int, text string, tokens int) Chunk {
	return Chunk{index: index, text: text, tokens: tokens}
}

// Index returns the 0-based position of the chunk within the diff.
func (c Chunk) Index() int { return c.index }

// Text returns the decoded chunk text.
func (c Chunk) Text() string { return c.text }

// Tokens returns the number of token ids the chunk was decoded from.
func (c Chunk) Tokens() int { return c.tokens }

// Summary is the short phrase describing one chunk.
type Summary struct {
	chunkIndex int
	text       string
}

// NewSummary creates a Summary for the chunk at chunkIndex.
func NewSummary(chunkIndex int, text string) Summary {
	return Summary{chunkIndex: chunkIndex, text: text}
}

// ChunkIndex returns the index of the summarized chunk.
func (s Summary) ChunkIndex() int { return s.chunkIndex }

// Text returns the summary phrase.
func (s Summary) Text() string { return s.text }

// SummaryTexts returns the phrases of summaries in order.
func SummaryTexts(summaries []Summary) []string {
	texts := make([]string, len(summaries))
	for i, s := range summaries {
		texts[i] = s.text
	}
	return texts
}

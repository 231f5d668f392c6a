package chunking

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeTokenizer maps every rune to one token.
type runeTokenizer struct {
	encodeErr error
	decodeErr error
	decodes   int
}

func (r *runeTokenizer) Encode(text string) ([]int, error) {
	if r.encodeErr != nil {
		return nil, r.encodeErr
	}
	runes := []rune(text)
	ids := make([]int, len(runes))
	for i, c := range runes {
		ids[i] = int(c)
	}
	return ids, nil
}

func (r *runeTokenizer) Decode(tokens []int) (string, error) {
	r.decodes++
	if r.decodeErr != nil {
		return "", r.decodeErr
	}
	runes := make([]rune, len(tokens))
	for i, id := range tokens {
		runes[i] = rune(id)
	}
	return string(runes), nil
}

func TestTokenChunks_ExactMultiple(t *testing.T) {
	text := strings.Repeat("A", 3000) + strings.Repeat("B", 3000) + strings.Repeat("C", 3000)

	chunks, err := NewTokenChunks(&runeTokenizer{}, text, DefaultChunkParams())
	require.NoError(t, err)

	result := chunks.All()
	require.Len(t, result, 3)
	assert.Equal(t, 9000, chunks.TotalTokens())

	for i, c := range result {
		assert.Equal(t, i, c.Index())
		assert.Equal(t, 3000, c.Tokens())
	}
	assert.Equal(t, strings.Repeat("A", 3000), result[0].Text())
	assert.Equal(t, strings.Repeat("B", 3000), result[1].Text())
	assert.Equal(t, strings.Repeat("C", 3000), result[2].Text())
}

func TestTokenChunks_ShortLastChunk(t *testing.T) {
	chunks, err := NewTokenChunks(&runeTokenizer{}, "abcdefghij", ChunkParams{MaxTokens: 4})
	require.NoError(t, err)

	assert.Equal(t, []string{"abcd", "efgh", "ij"}, chunks.Texts())
	assert.Equal(t, 3, chunks.Len())
}

func TestTokenChunks_ConcatenationReproducesText(t *testing.T) {
	text := "diff --git a/x b/x\n+héllo wörld\n-goodbye\n"

	chunks, err := NewTokenChunks(&runeTokenizer{}, text, ChunkParams{MaxTokens: 5})
	require.NoError(t, err)

	for _, c := range chunks.All() {
		assert.LessOrEqual(t, c.Tokens(), 5)
	}
	assert.Equal(t, text, strings.Join(chunks.Texts(), ""))
}

func TestTokenChunks_SingleChunkUnderLimit(t *testing.T) {
	chunks, err := NewTokenChunks(&runeTokenizer{}, "small change", DefaultChunkParams())
	require.NoError(t, err)

	require.Equal(t, 1, chunks.Len())
	assert.Equal(t, "small change", chunks.All()[0].Text())
}

func TestTokenChunks_EmptyText(t *testing.T) {
	tok := &runeTokenizer{}

	chunks, err := NewTokenChunks(tok, "", DefaultChunkParams())
	require.NoError(t, err)

	assert.Empty(t, chunks.All())
	assert.Zero(t, tok.decodes)
}

func TestTokenChunks_InvalidParams(t *testing.T) {
	_, err := NewTokenChunks(&runeTokenizer{}, "text", ChunkParams{MaxTokens: 0})
	assert.Error(t, err)
}

func TestTokenChunks_EncodeError(t *testing.T) {
	boom := errors.New("boom")

	_, err := NewTokenChunks(&runeTokenizer{encodeErr: boom}, "text", DefaultChunkParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestTokenChunks_DecodeError(t *testing.T) {
	boom := errors.New("boom")

	_, err := NewTokenChunks(&runeTokenizer{decodeErr: boom}, "text", DefaultChunkParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

// Package tokenizer provides BPE tokenizers used to size diff chunks.
package tokenizer

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"

	domainservice "github.com/helixml/kommit/domain/service"
)

// DefaultEncoding is the BPE encoding used when none is configured.
const DefaultEncoding = "cl100k_base"

var loaderOnce sync.Once

// useOfflineLoader makes tiktoken read its BPE ranks from the embedded
// loader instead of downloading them on first use.
func useOfflineLoader() {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
}

// Tiktoken implements domainservice.Tokenizer with a tiktoken encoding.
type Tiktoken struct {
	encoding string
	tke      *tiktoken.Tiktoken
}

// NewTiktoken creates a tokenizer for the named encoding. An empty name
// selects DefaultEncoding.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}

	useOfflineLoader()

	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", encoding, err)
	}

	return &Tiktoken{encoding: encoding, tke: tke}, nil
}

// Encoding returns the encoding name.
func (t *Tiktoken) Encoding() string { return t.encoding }

// Encode converts text into token identifiers. Special-token markers in the
// text are encoded as ordinary text.
func (t *Tiktoken) Encode(text string) ([]int, error) {
	return t.tke.Encode(text, nil, nil), nil
}

// Decode converts token identifiers back into text.
func (t *Tiktoken) Decode(tokens []int) (string, error) {
	return t.tke.Decode(tokens), nil
}

var _ domainservice.Tokenizer = (*Tiktoken)(nil)

package service

// Tokenizer converts text to and from integer token ids. It is only used to
// bound the length of text sent to a completion provider.
type Tokenizer interface {
	// Encode returns the token ids for text.
	Encode(text string) ([]int, error)

	// Decode returns the text for a sequence of token ids.
	Decode(tokens []int) (string, error)
}

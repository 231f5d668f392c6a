package enricher

import (
	"regexp"
	"strings"

	"github.com/helixml/kommit/domain/commit"
)

// Pass is one step of output sanitization.
type Pass func(string) string

// StripTagBlock returns a pass that removes every <tag>...</tag> block.
// Matching is case-sensitive, non-greedy, and spans newlines.
func StripTagBlock(tag string) Pass {
	quoted := regexp.QuoteMeta(tag)
	re := regexp.MustCompile(`(?s)<` + quoted + `>.*?</` + quoted + `>`)
	return func(text string) string {
		return re.ReplaceAllString(text, "")
	}
}

// DropLinesContaining returns a pass that removes every line whose lowercase
// form contains one of markers. Markers are compared in lowercase.
func DropLinesContaining(markers ...string) Pass {
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}

	return func(text string) string {
		lines := strings.Split(text, "\n")
		kept := lines[:0]
		for _, line := range lines {
			lower := strings.ToLower(line)
			drop := false
			for _, m := range lowered {
				if strings.Contains(lower, m) {
					drop = true
					break
				}
			}
			if !drop {
				kept = append(kept, line)
			}
		}
		return strings.Join(kept, "\n")
	}
}

// Sanitizer cleans model output with an ordered list of passes. Whitespace
// is trimmed after every pass and an empty result becomes the fallback.
type Sanitizer struct {
	passes   []Pass
	fallback string
}

// NewSanitizer creates a Sanitizer.
func NewSanitizer(fallback string, passes ...Pass) Sanitizer {
	return Sanitizer{passes: passes, fallback: fallback}
}

// DefaultSanitizer strips reasoning blocks and reasoning lines left by
// chain-of-thought models.
func DefaultSanitizer() Sanitizer {
	return NewSanitizer(commit.FallbackMessage,
		StripTagBlock("thinking"),
		StripTagBlock("think"),
		DropLinesContaining("thought:", "reasoning:"),
	)
}

// Clean runs the passes in order. The sequence is repeated until the text
// stops changing so that Clean(Clean(x)) == Clean(x) even when removing one
// block joins the halves of another.
func (s Sanitizer) Clean(text string) string {
	current := strings.TrimSpace(text)
	for {
		next := s.apply(current)
		if next == current {
			break
		}
		current = next
	}

	if current == "" {
		return s.fallback
	}
	return current
}

func (s Sanitizer) apply(text string) string {
	for _, pass := range s.passes {
		text = strings.TrimSpace(pass(text))
	}
	return text
}

package enricher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainservice "github.com/helixml/kommit/domain/service"
	"github.com/helixml/kommit/infrastructure/provider"
)

// Fuser combines chunk phrases into a single commit message.
type Fuser struct {
	generator provider.TextGenerator
	stage     Stage
	sanitizer Sanitizer
	log       *slog.Logger
}

// FuserOption is a functional option for Fuser.
type FuserOption func(*Fuser)

// WithSanitizer replaces the default output sanitizer.
func WithSanitizer(s Sanitizer) FuserOption {
	return func(f *Fuser) { f.sanitizer = s }
}

// NewFuser creates a new Fuser. Zero fields of stage take their value from
// DefaultFusionStage.
func NewFuser(generator provider.TextGenerator, stage Stage, log *slog.Logger, opts ...FuserOption) *Fuser {
	if log == nil {
		log = slog.Default()
	}
	f := &Fuser{
		generator: generator,
		stage:     stage.Merge(DefaultFusionStage()),
		sanitizer: DefaultSanitizer(),
		log:       log,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Stage returns the completion parameters in use.
func (f *Fuser) Stage() Stage { return f.stage }

// Fuse implements domainservice.Fuser. The phrases are embedded one per line
// in their given order.
func (f *Fuser) Fuse(ctx context.Context, summaries []string) (string, error) {
	req := f.stage.request(fmt.Sprintf(fusionPrompt, strings.Join(summaries, "\n")))

	resp, err := f.generator.ChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("fuse summaries: %w", err)
	}

	message := f.sanitizer.Clean(resp.Content())

	f.log.DebugContext(ctx, "fused commit message",
		slog.Int("summaries", len(summaries)),
		slog.String("raw", resp.Content()),
	)

	return message, nil
}

var _ domainservice.Fuser = (*Fuser)(nil)

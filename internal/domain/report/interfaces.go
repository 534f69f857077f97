package report

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifelink/report-analyzer/pkg/metrics"
)

// Extractor turns the uploaded binary into a plain-text stream.
type Extractor interface {
	Extract(ctx context.Context, doc SourceDocument) (string, error)
}

// GeneratedText is the response of one generative-model call.
type GeneratedText struct {
	Text  string
	Usage metrics.TokenUsage
}

// TextGenerator sends a prompt to the external generative service.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (GeneratedText, error)
}

// DocumentRenderer produces the paginated document artifact. It is a
// pure function of its arguments, so repeated renders are byte
// identical. sourceName is the uploaded filename shown in the
// document's metadata block; it may be empty.
type DocumentRenderer interface {
	Render(summary Summary, sourceName string) ([]byte, error)
}

// SpeechSynthesizer converts narration text into audio bytes.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, locale string) ([]byte, error)
}

// SessionStore persists one PipelineState per session.
type SessionStore interface {
	Load(ctx context.Context, id uuid.UUID) (PipelineState, bool, error)
	Save(ctx context.Context, id uuid.UUID, state PipelineState) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SummaryHistory records completed summarizations. Append is best
// effort; the pipeline never fails because of it.
type SummaryHistory interface {
	Append(ctx context.Context, rec HistoryRecord) error
}

// ArtifactArchive keeps generated artifacts beyond the session lifetime.
type ArtifactArchive interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) error
}

// TokenBudget clamps text to a model token limit before prompting.
type TokenBudget interface {
	Clamp(text string, maxTokens int) string
}

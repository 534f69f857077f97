package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/lifelink/report-analyzer/pkg/metrics"
)

// Language is one of the fixed output languages the service supports.
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageHindi   Language = "Hindi"
	LanguageMarathi Language = "Marathi"
	LanguageKannada Language = "Kannada"
)

// DefaultLanguage is used when the caller does not pick one.
const DefaultLanguage = LanguageEnglish

// speechLocales maps a supported language to its synthesis locale code.
// The default locale also covers languages missing from the map, so
// narration degrades to English instead of failing on an unknown value.
var speechLocales = map[Language]string{
	LanguageEnglish: "en",
	LanguageHindi:   "hi",
	LanguageMarathi: "mr",
	LanguageKannada: "kn",
}

const defaultSpeechLocale = "en"

// ParseLanguage resolves a user supplied language name. Empty input
// resolves to the default; anything outside the fixed set is rejected.
func ParseLanguage(raw string) (Language, bool) {
	if raw == "" {
		return DefaultLanguage, true
	}
	for _, lang := range []Language{LanguageEnglish, LanguageHindi, LanguageMarathi, LanguageKannada} {
		if string(lang) == raw {
			return lang, true
		}
	}
	return "", false
}

// SpeechLocale resolves the synthesis locale for the language.
func (l Language) SpeechLocale() string {
	if locale, ok := speechLocales[l]; ok {
		return locale
	}
	return defaultSpeechLocale
}

// SourceDocument is the uploaded report payload. It is consumed once by
// the extractor and not retained afterwards.
type SourceDocument struct {
	Filename string
	MimeType string
	Content  []byte
}

// Summary is the generated explanation for one document and language.
// Usage is nil when the generative service reported no token counts.
type Summary struct {
	Text        string              `json:"text"`
	Language    Language            `json:"language"`
	GeneratedAt time.Time           `json:"generatedAt"`
	Usage       *metrics.TokenUsage `json:"usage,omitempty"`
}

// RenderedArtifact is the paginated document derived from a Summary.
type RenderedArtifact struct {
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mimeType"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
}

// AudioArtifact is the synthesized narration derived from a Summary.
type AudioArtifact struct {
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mimeType"`
	Locale    string    `json:"locale"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryRecord captures one completed summarization for the audit log.
type HistoryRecord struct {
	ID           uuid.UUID          `json:"id"`
	SessionID    uuid.UUID          `json:"sessionId"`
	Language     Language           `json:"language"`
	SourceName   string             `json:"sourceName"`
	ReportChars  int                `json:"reportChars"`
	SummaryChars int                `json:"summaryChars"`
	Usage        metrics.TokenUsage `json:"usage"`
	CreatedAt    time.Time          `json:"createdAt"`
}

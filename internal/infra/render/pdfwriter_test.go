package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lifelink/report-analyzer/internal/domain/report"
)

func fixtureSummary(text string, lang report.Language) report.Summary {
	return report.Summary{
		Text:        text,
		Language:    lang,
		GeneratedAt: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestRenderProducesPDF(t *testing.T) {
	w := NewPDFWriter(Config{Title: "LifeLink AI - Health Report Summary", SourceLabel: "Uploaded health report (PDF)"})
	data, err := w.Render(fixtureSummary("## Key Findings\n* Hemoglobin 13.5 g/dL\n\nAll values normal.", report.LanguageEnglish), "report.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderIdempotent(t *testing.T) {
	// Re-rendering the same cached summary must be byte identical; the
	// creation date is fixed at cache time, not render time.
	w := NewPDFWriter(Config{Title: "LifeLink AI - Health Report Summary"})
	summary := fixtureSummary("**Recommendations**: drink water.\n\nSleep well.", report.LanguageHindi)

	first, err := w.Render(summary, "blood_panel.pdf")
	require.NoError(t, err)
	second, err := w.Render(summary, "blood_panel.pdf")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRenderShowsUploadedFilename(t *testing.T) {
	w := NewPDFWriter(Config{Title: "T", SourceLabel: "Uploaded health report (PDF)"})
	summary := fixtureSummary("All values normal.", report.LanguageEnglish)

	first, err := w.Render(summary, "first.pdf")
	require.NoError(t, err)
	second, err := w.Render(summary, "second.pdf")
	require.NoError(t, err)
	require.NotEqual(t, first, second, "the metadata block must carry the uploaded filename")

	// No filename falls back to the static label.
	labeled, err := w.Render(summary, "")
	require.NoError(t, err)
	require.NotEqual(t, first, labeled)
}

func TestRenderNonASCIIDoesNotFail(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		source string
	}{
		{name: "devanagari summary", text: "रक्त में हीमोग्लोबिन सामान्य है", source: "रिपोर्ट.pdf"},
		{name: "warning glyph", text: report.WarningGlyph + " LDL is high", source: "report.pdf"},
		{name: "mixed scripts", text: "Result: ಸಾಮಾನ್ಯ (normal)", source: "ವರದಿ.pdf"},
		{name: "malformed utf8", text: "broken\xffbyte", source: "bad\xffname.pdf"},
		{name: "blank lines preserved as spacing", text: "para one\n\n\npara two", source: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := NewPDFWriter(Config{Title: "T"})
			data, err := w.Render(fixtureSummary(tt.text, report.LanguageKannada), tt.source)
			require.NoError(t, err)
			require.NotEmpty(t, data)
		})
	}
}

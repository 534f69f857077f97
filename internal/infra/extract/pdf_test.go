package extract

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lifelink/report-analyzer/internal/domain/report"
)

func TestPDFExtractor_RejectsNonPDFBytes(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"empty", nil},
		{"plain text", []byte("just some text, not a document")},
		{"truncated header", []byte("%PDF-1.4")},
		{"binary garbage", []byte{0x00, 0x01, 0xFF, 0xFE, 0x42}},
	}

	extractor := NewPDFExtractor(newTestLogger())
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			doc := report.SourceDocument{Filename: "report.pdf", Content: tt.content}
			_, err := extractor.Extract(context.Background(), doc)
			require.Error(t, err)
		})
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

package extract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/lifelink/report-analyzer/internal/domain/report"
)

// PDFExtractor pulls the plain-text stream out of a PDF payload. Pages
// are visited in order and joined with newlines; pages without text are
// skipped silently, only the caller judges the aggregate length.
type PDFExtractor struct {
	logger *slog.Logger
}

// NewPDFExtractor constructs the extractor.
func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger.With("component", "extract.pdf")}
}

// Extract implements report.Extractor.
func (e *PDFExtractor) Extract(_ context.Context, doc report.SourceDocument) (text string, err error) {
	// The parser panics on some malformed cross-reference tables;
	// surface those as parse errors instead of crashing the request.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var pages []string
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			e.logger.Debug("page yielded no text", "page", i, "error", pageErr)
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		pages = append(pages, content)
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}

var _ report.Extractor = (*PDFExtractor)(nil)

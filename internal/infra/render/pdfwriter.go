package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/lifelink/report-analyzer/internal/domain/report"
)

const disclaimer = "This is an AI-generated summary and should not replace professional medical advice. " +
	"Always consult with your healthcare provider for medical decisions."

// Config controls the static parts of the document layout.
type Config struct {
	Title       string
	SourceLabel string
}

// PDFWriter renders a cached summary into a paginated document. Output
// is a pure function of the summary: the PDF creation date is pinned to
// the summary's generation timestamp, so re-rendering is byte stable.
type PDFWriter struct {
	cfg Config
}

// NewPDFWriter constructs the writer.
func NewPDFWriter(cfg Config) *PDFWriter {
	if cfg.Title == "" {
		cfg.Title = "Health Report Summary"
	}
	return &PDFWriter{cfg: cfg}
}

// Render implements report.DocumentRenderer. Per-paragraph sanitization
// never fails; only document finalization surfaces an error.
func (w *PDFWriter) Render(summary report.Summary, sourceName string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCreationDate(summary.GeneratedAt.UTC())
	doc.SetModificationDate(summary.GeneratedAt.UTC())
	doc.SetTitle(w.cfg.Title, true)
	doc.SetMargins(15, 20, 15)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	w.writeTitle(doc)
	w.writeMetadata(doc, summary, sourceName)
	w.writeBody(doc, summary.Text)
	w.writeDisclaimer(doc)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("finalize document: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *PDFWriter) writeTitle(doc *fpdf.Fpdf) {
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, w.cfg.Title, "", 1, "C", false, 0, "")
	doc.Ln(2)
}

func (w *PDFWriter) writeMetadata(doc *fpdf.Fpdf, summary report.Summary, sourceName string) {
	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(96, 96, 96)
	doc.CellFormat(0, 5, "Language: "+string(summary.Language), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 5, "Generated: "+summary.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"), "", 1, "L", false, 0, "")
	// The uploaded filename wins over the static label; filenames are
	// user supplied, so they go through the same sanitizer as the body.
	source := strings.TrimSpace(report.SanitizeParagraph(sourceName))
	if source == "" {
		source = w.cfg.SourceLabel
	}
	if source != "" {
		doc.CellFormat(0, 5, "Source: "+source, "", 1, "L", false, 0, "")
	}
	doc.SetTextColor(0, 0, 0)
	doc.Ln(4)
}

func (w *PDFWriter) writeBody(doc *fpdf.Fpdf, text string) {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			// Blank input lines become vertical spacing, not omissions.
			doc.Ln(3)
			continue
		}
		heading := report.IsHeading(line)
		para := report.SanitizeParagraph(line)
		if strings.TrimSpace(para) == "" {
			doc.Ln(3)
			continue
		}
		if heading {
			doc.SetFont("Helvetica", "B", 12)
		} else {
			doc.SetFont("Helvetica", "", 11)
		}
		doc.MultiCell(0, 5.5, para, "", "L", false)
		if heading {
			doc.Ln(1)
		}
	}
}

func (w *PDFWriter) writeDisclaimer(doc *fpdf.Fpdf) {
	doc.Ln(6)
	doc.SetFont("Helvetica", "I", 8)
	doc.SetTextColor(120, 120, 120)
	doc.MultiCell(0, 4, disclaimer, "T", "L", false)
	doc.SetTextColor(0, 0, 0)
}

var _ report.DocumentRenderer = (*PDFWriter)(nil)

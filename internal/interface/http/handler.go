package http

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lifelink/report-analyzer/internal/domain/report"
)

// ReportService is the slice of the report domain the transport needs.
type ReportService interface {
	Analyze(ctx context.Context, req report.AnalyzeRequest) (report.AnalyzeResponse, error)
	GetSummary(ctx context.Context, sessionID uuid.UUID) (report.Summary, error)
	ExportDocument(ctx context.Context, sessionID uuid.UUID) (report.RenderedArtifact, error)
	Narrate(ctx context.Context, sessionID uuid.UUID) (report.AudioArtifact, error)
}

// Handler wires the HTTP transport to the report domain.
type Handler struct {
	reports ReportService
	logger  *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(reports ReportService, logger *slog.Logger) *Handler {
	return &Handler{
		reports: reports,
		logger:  logger.With("component", "http.handler"),
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

package http

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lifelink/report-analyzer/internal/domain/report"
	apperrors "github.com/lifelink/report-analyzer/pkg/errors"
)

// AnalyzeReport accepts the multipart upload, runs the pipeline through
// summarization, and returns the session handle plus the summary.
func (h *Handler) AnalyzeReport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "file is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "upload_failed", "failed to read file", err))
		return
	}

	req := report.AnalyzeRequest{
		Document: report.SourceDocument{
			Filename: fileHeader.Filename,
			MimeType: fileHeader.Header.Get("Content-Type"),
			Content:  data,
		},
		Language: c.PostForm("language"),
	}
	resp, err := h.reports.Analyze(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, NewHTTPError(analyzeStatus(err), analyzeCode(err), errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSummary returns the cached summary; `?format=text` serves it as a
// plain-text download instead.
func (h *Handler) GetSummary(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	summary, err := h.reports.GetSummary(c.Request.Context(), sessionID)
	if err != nil {
		abortWithError(c, NewHTTPError(artifactStatus(err), artifactCode(err), errMessage(err), err))
		return
	}
	if c.Query("format") == "text" {
		filename := "health_summary_" + strings.ToLower(string(summary.Language)) + ".txt"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(summary.Text))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportDocument serves the rendered PDF artifact.
func (h *Handler) ExportDocument(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	artifact, err := h.reports.ExportDocument(c.Request.Context(), sessionID)
	if err != nil {
		abortWithError(c, NewHTTPError(artifactStatus(err), artifactCode(err), errMessage(err), err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Data(http.StatusOK, artifact.MimeType, artifact.Data)
}

// Narrate serves the synthesized narration. `?encoding=base64` returns
// a JSON envelope for inline playback; playback speed is a client-side
// concern over the raw bytes.
func (h *Handler) Narrate(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	artifact, err := h.reports.Narrate(c.Request.Context(), sessionID)
	if err != nil {
		abortWithError(c, NewHTTPError(artifactStatus(err), artifactCode(err), errMessage(err), err))
		return
	}
	if c.Query("encoding") == "base64" {
		c.JSON(http.StatusOK, gin.H{
			"filename":    artifact.Filename,
			"mimeType":    artifact.MimeType,
			"locale":      artifact.Locale,
			"audioBase64": base64.StdEncoding.EncodeToString(artifact.Data),
		})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	c.Data(http.StatusOK, artifact.MimeType, artifact.Data)
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid session id", err))
		return uuid.Nil, false
	}
	return id, true
}

func analyzeStatus(err error) int {
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		return http.StatusBadRequest
	case apperrors.IsCode(err, "extract_failed"):
		return http.StatusBadRequest
	case apperrors.IsCode(err, "insufficient_content"):
		return http.StatusUnprocessableEntity
	case apperrors.IsCode(err, "generation_failed"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func analyzeCode(err error) string {
	for _, code := range []string{"invalid_input", "extract_failed", "insufficient_content", "generation_failed"} {
		if apperrors.IsCode(err, code) {
			return code
		}
	}
	return "analyze_failed"
}

func artifactStatus(err error) int {
	switch {
	case apperrors.IsCode(err, "not_found"):
		return http.StatusNotFound
	case apperrors.IsCode(err, "render_failed"), apperrors.IsCode(err, "narration_failed"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func artifactCode(err error) string {
	for _, code := range []string{"not_found", "render_failed", "narration_failed"} {
		if apperrors.IsCode(err, code) {
			return code
		}
	}
	return "export_failed"
}

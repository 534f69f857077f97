package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "github.com/lifelink/report-analyzer/pkg/errors"
	"github.com/lifelink/report-analyzer/pkg/metrics"
	"github.com/lifelink/report-analyzer/pkg/util"
)

// Config drives pipeline limits.
type Config struct {
	MinTextChars    int
	MaxFileBytes    int64
	MaxPromptTokens int
	// DefaultLanguage applies when the request omits a language;
	// empty means English.
	DefaultLanguage string
}

// Service orchestrates the report pipeline: extraction, summarization,
// and on-demand derivation of the document and narration artifacts.
type Service struct {
	cfg         Config
	extractor   Extractor
	generator   TextGenerator
	renderer    DocumentRenderer
	synthesizer SpeechSynthesizer
	sessions    SessionStore
	history     SummaryHistory
	archive     ArtifactArchive
	tokens      TokenBudget
	logger      *slog.Logger
}

// NewService constructs a Service.
func NewService(cfg Config, extractor Extractor, generator TextGenerator, renderer DocumentRenderer, synthesizer SpeechSynthesizer, sessions SessionStore, history SummaryHistory, archive ArtifactArchive, tokens TokenBudget, logger *slog.Logger) *Service {
	return &Service{
		cfg:         cfg,
		extractor:   extractor,
		generator:   generator,
		renderer:    renderer,
		synthesizer: synthesizer,
		sessions:    sessions,
		history:     history,
		archive:     archive,
		tokens:      tokens,
		logger:      logger.With("component", "report.service"),
	}
}

// AnalyzeRequest carries the uploaded report and language selection.
type AnalyzeRequest struct {
	Document SourceDocument
	Language string
}

// AnalyzeResponse returns the session handle and the generated summary.
type AnalyzeResponse struct {
	SessionID uuid.UUID `json:"sessionId"`
	Summary   Summary   `json:"summary"`
}

// Analyze runs extraction and summarization, then seeds the session
// state. The two derived artifacts are produced lazily on export.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (AnalyzeResponse, error) {
	if len(req.Document.Content) == 0 {
		return AnalyzeResponse{}, apperrors.Wrap("invalid_input", "file content cannot be empty", nil)
	}
	if s.cfg.MaxFileBytes > 0 && int64(len(req.Document.Content)) > s.cfg.MaxFileBytes {
		return AnalyzeResponse{}, apperrors.Wrap("invalid_input", "file exceeds maximum allowed size", nil)
	}
	rawLang := strings.TrimSpace(req.Language)
	if rawLang == "" {
		rawLang = s.cfg.DefaultLanguage
	}
	lang, ok := ParseLanguage(rawLang)
	if !ok {
		return AnalyzeResponse{}, apperrors.Wrap("invalid_input", "unsupported language", nil)
	}

	text, err := s.extractor.Extract(ctx, req.Document)
	if err != nil {
		return AnalyzeResponse{}, apperrors.Wrap("extract_failed", "could not read this file", err)
	}
	text = strings.TrimSpace(text)
	// Character count, not byte count: Devanagari and Kannada reports
	// run three bytes per rune and must not slip past the gate.
	if utf8.RuneCountInString(text) < s.cfg.MinTextChars {
		// A readable container with too little text is a distinct
		// condition from a parse failure; no network call is made.
		return AnalyzeResponse{}, apperrors.Wrap("insufficient_content", "could not extract sufficient text from the report", nil)
	}

	if s.tokens != nil && s.cfg.MaxPromptTokens > 0 {
		text = s.tokens.Clamp(text, s.cfg.MaxPromptTokens)
	}

	generated, err := s.generator.Generate(ctx, BuildPrompt(text, lang))
	if err != nil {
		return AnalyzeResponse{}, apperrors.Wrap("generation_failed", "could not reach the summarization service", err)
	}
	summaryText := strings.TrimSpace(generated.Text)
	if summaryText == "" {
		return AnalyzeResponse{}, apperrors.Wrap("generation_failed", "summarization service returned no content", nil)
	}

	now := util.NowUTC()
	var usage *metrics.TokenUsage
	if !generated.Usage.IsZero() {
		u := generated.Usage
		usage = &u
	}
	summary := Summary{
		Text:        summaryText,
		Language:    lang,
		GeneratedAt: now,
		Usage:       usage,
	}

	sessionID := uuid.New()
	var state PipelineState
	state.SourceName = req.Document.Filename
	state.SetSummary(summary, now)
	if err := s.sessions.Save(ctx, sessionID, state); err != nil {
		return AnalyzeResponse{}, apperrors.Wrap("storage_error", "failed to persist session state", err)
	}

	if s.history != nil {
		rec := HistoryRecord{
			ID:           uuid.New(),
			SessionID:    sessionID,
			Language:     lang,
			SourceName:   req.Document.Filename,
			ReportChars:  utf8.RuneCountInString(text),
			SummaryChars: utf8.RuneCountInString(summaryText),
			Usage:        generated.Usage,
			CreatedAt:    now,
		}
		if err := s.history.Append(ctx, rec); err != nil {
			s.logger.Warn("history append failed", "session", sessionID, "error", err)
		}
	}

	s.logger.Info("report summarized", "session", sessionID, "language", lang, "report_chars", utf8.RuneCountInString(text), "summary_chars", utf8.RuneCountInString(summaryText))
	return AnalyzeResponse{SessionID: sessionID, Summary: summary}, nil
}

// GetSummary returns the cached summary for a session.
func (s *Service) GetSummary(ctx context.Context, sessionID uuid.UUID) (Summary, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return Summary{}, err
	}
	return *state.Summary, nil
}

// ExportDocument renders the cached summary into the paginated document
// artifact, memoizing the result. Re-export never re-invokes the
// generative service and yields byte-identical output.
func (s *Service) ExportDocument(ctx context.Context, sessionID uuid.UUID) (RenderedArtifact, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return RenderedArtifact{}, err
	}
	if state.Document != nil {
		return *state.Document, nil
	}

	data, err := s.renderer.Render(*state.Summary, state.SourceName)
	if err != nil {
		return RenderedArtifact{}, apperrors.Wrap("render_failed", "could not produce the summary document", err)
	}
	artifact := RenderedArtifact{
		Filename:  artifactFilename(state.Summary.Language, "pdf"),
		MimeType:  "application/pdf",
		Data:      data,
		CreatedAt: util.NowUTC(),
	}
	state.SetDocument(artifact, artifact.CreatedAt)
	if err := s.sessions.Save(ctx, sessionID, state); err != nil {
		return RenderedArtifact{}, apperrors.Wrap("storage_error", "failed to persist session state", err)
	}
	s.archivePut(ctx, sessionID, artifact.Filename, artifact.Data, artifact.MimeType)
	return artifact, nil
}

// Narrate synthesizes the cached summary into speech, memoizing the
// result. Unmapped languages fall back to the default locale; only
// synthesis-service failures surface as errors.
func (s *Service) Narrate(ctx context.Context, sessionID uuid.UUID) (AudioArtifact, error) {
	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return AudioArtifact{}, err
	}
	if state.Audio != nil {
		return *state.Audio, nil
	}

	locale := state.Summary.Language.SpeechLocale()
	data, err := s.synthesizer.Synthesize(ctx, SpeechText(state.Summary.Text), locale)
	if err != nil {
		return AudioArtifact{}, apperrors.Wrap("narration_failed", "could not synthesize speech for this language", err)
	}
	artifact := AudioArtifact{
		Filename:  artifactFilename(state.Summary.Language, "mp3"),
		MimeType:  "audio/mpeg",
		Locale:    locale,
		Data:      data,
		CreatedAt: util.NowUTC(),
	}
	state.SetAudio(artifact, artifact.CreatedAt)
	if err := s.sessions.Save(ctx, sessionID, state); err != nil {
		return AudioArtifact{}, apperrors.Wrap("storage_error", "failed to persist session state", err)
	}
	s.archivePut(ctx, sessionID, artifact.Filename, artifact.Data, artifact.MimeType)
	return artifact, nil
}

func (s *Service) loadState(ctx context.Context, sessionID uuid.UUID) (PipelineState, error) {
	state, found, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return PipelineState{}, apperrors.Wrap("storage_error", "failed to load session state", err)
	}
	if !found || !state.HasSummary() {
		return PipelineState{}, apperrors.Wrap("not_found", "no summary exists for this session", nil)
	}
	return state, nil
}

func (s *Service) archivePut(ctx context.Context, sessionID uuid.UUID, filename string, data []byte, mimeType string) {
	if s.archive == nil {
		return
	}
	key := fmt.Sprintf("artifacts/%s/%s", sessionID, filename)
	if err := s.archive.Put(ctx, key, data, mimeType); err != nil {
		s.logger.Warn("artifact archive failed", "key", key, "error", err)
	}
}

func artifactFilename(lang Language, ext string) string {
	return fmt.Sprintf("health_summary_%s.%s", strings.ToLower(string(lang)), ext)
}

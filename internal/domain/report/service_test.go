package report

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lifelink/report-analyzer/pkg/errors"
	"github.com/lifelink/report-analyzer/pkg/metrics"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(context.Context, SourceDocument) (string, error) {
	return f.text, f.err
}

type fakeGenerator struct {
	text  string
	usage metrics.TokenUsage
	err   error
	calls int
	last  string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (GeneratedText, error) {
	f.calls++
	f.last = prompt
	if f.err != nil {
		return GeneratedText{}, f.err
	}
	return GeneratedText{Text: f.text, Usage: f.usage}, nil
}

type fakeRenderer struct {
	data       []byte
	err        error
	calls      int
	lastSource string
}

func (f *fakeRenderer) Render(_ Summary, sourceName string) ([]byte, error) {
	f.calls++
	f.lastSource = sourceName
	return f.data, f.err
}

type fakeSynthesizer struct {
	data       []byte
	err        error
	calls      int
	lastText   string
	lastLocale string
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, text, locale string) ([]byte, error) {
	f.calls++
	f.lastText = text
	f.lastLocale = locale
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

type fakeArchive struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeArchive) Put(_ context.Context, key string, _ []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return nil
}

type stubStore struct {
	mu     sync.Mutex
	states map[uuid.UUID]PipelineState
}

func newStubStore() *stubStore {
	return &stubStore{states: make(map[uuid.UUID]PipelineState)}
}

func (s *stubStore) Load(_ context.Context, id uuid.UUID) (PipelineState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[id]
	return state, ok, nil
}

func (s *stubStore) Save(_ context.Context, id uuid.UUID, state PipelineState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = state
	return nil
}

func (s *stubStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

const longReport = "Hemoglobin 13.5 g/dL, WBC 6.2, Platelets 250k, LDL 120 mg/dL, HDL 45 mg/dL."

func newTestService(extractor *fakeExtractor, generator *fakeGenerator, renderer *fakeRenderer, synth *fakeSynthesizer, store SessionStore) *Service {
	cfg := Config{MinTextChars: 50, MaxFileBytes: 1 << 20}
	return NewService(cfg, extractor, generator, renderer, synth, store, nil, nil, nil, testLogger())
}

func analyzeFixture(t *testing.T, svc *Service, language string) AnalyzeResponse {
	t.Helper()
	resp, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Document: SourceDocument{Filename: "report.pdf", MimeType: "application/pdf", Content: []byte("%PDF-")},
		Language: language,
	})
	require.NoError(t, err)
	return resp
}

func TestAnalyzeHappyPath(t *testing.T) {
	generator := &fakeGenerator{text: "**Key Findings**\nAll values look normal."}
	svc := newTestService(&fakeExtractor{text: longReport}, generator, &fakeRenderer{}, &fakeSynthesizer{}, newStubStore())

	resp := analyzeFixture(t, svc, "English")

	require.NotEqual(t, uuid.Nil, resp.SessionID)
	require.NotEmpty(t, resp.Summary.Text)
	require.Equal(t, LanguageEnglish, resp.Summary.Language)
	require.False(t, resp.Summary.GeneratedAt.IsZero())
	require.Equal(t, 1, generator.calls)
	require.Contains(t, generator.last, longReport)
}

func TestAnalyzeInsufficientContentSkipsGenerator(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "short text", text: "too short"},
		{name: "empty text", text: ""},
		{name: "whitespace only", text: "   \n\n  "},
		// 19 characters but 51 bytes; the gate counts characters.
		{name: "short devanagari", text: "हीमोग्लोबिन १३.५ कम"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			generator := &fakeGenerator{text: "unused"}
			svc := newTestService(&fakeExtractor{text: tt.text}, generator, &fakeRenderer{}, &fakeSynthesizer{}, newStubStore())

			_, err := svc.Analyze(context.Background(), AnalyzeRequest{
				Document: SourceDocument{Content: []byte("%PDF-")},
			})
			require.True(t, apperrors.IsCode(err, "insufficient_content"))
			require.Zero(t, generator.calls, "generator must not be called")
		})
	}
}

func TestAnalyzeErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		extractor *fakeExtractor
		generator *fakeGenerator
		language  string
		content   []byte
		wantCode  string
	}{
		{
			name:      "corrupt container",
			extractor: &fakeExtractor{err: errors.New("bad xref")},
			generator: &fakeGenerator{},
			content:   []byte("not a pdf"),
			wantCode:  "extract_failed",
		},
		{
			name:      "generation failure",
			extractor: &fakeExtractor{text: longReport},
			generator: &fakeGenerator{err: errors.New("503 unavailable")},
			content:   []byte("%PDF-"),
			wantCode:  "generation_failed",
		},
		{
			name:      "empty model response",
			extractor: &fakeExtractor{text: longReport},
			generator: &fakeGenerator{text: "   "},
			content:   []byte("%PDF-"),
			wantCode:  "generation_failed",
		},
		{
			name:      "unsupported language",
			extractor: &fakeExtractor{text: longReport},
			generator: &fakeGenerator{},
			language:  "Klingon",
			content:   []byte("%PDF-"),
			wantCode:  "invalid_input",
		},
		{
			name:      "empty payload",
			extractor: &fakeExtractor{text: longReport},
			generator: &fakeGenerator{},
			content:   nil,
			wantCode:  "invalid_input",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(tt.extractor, tt.generator, &fakeRenderer{}, &fakeSynthesizer{}, newStubStore())
			_, err := svc.Analyze(context.Background(), AnalyzeRequest{
				Document: SourceDocument{Content: tt.content},
				Language: tt.language,
			})
			require.True(t, apperrors.IsCode(err, tt.wantCode), "got %v, want code %s", err, tt.wantCode)
		})
	}
}

func TestExportDocumentMemoized(t *testing.T) {
	renderer := &fakeRenderer{data: []byte("%PDF-1.4 artifact")}
	svc := newTestService(&fakeExtractor{text: longReport}, &fakeGenerator{text: "summary body"}, renderer, &fakeSynthesizer{}, newStubStore())
	resp := analyzeFixture(t, svc, "English")

	first, err := svc.ExportDocument(context.Background(), resp.SessionID)
	require.NoError(t, err)
	second, err := svc.ExportDocument(context.Background(), resp.SessionID)
	require.NoError(t, err)

	require.Equal(t, first.Data, second.Data)
	require.Equal(t, 1, renderer.calls, "second export must reuse the cached artifact")
	require.Equal(t, "health_summary_english.pdf", first.Filename)
	require.Equal(t, "application/pdf", first.MimeType)
}

func TestNarrateHindiWarningGlyph(t *testing.T) {
	summary := "## Important Notes\n* " + WarningGlyph + " LDL is above normal range"
	synth := &fakeSynthesizer{data: []byte("mp3-bytes")}
	svc := newTestService(&fakeExtractor{text: longReport}, &fakeGenerator{text: summary}, &fakeRenderer{}, synth, newStubStore())
	resp := analyzeFixture(t, svc, "Hindi")

	artifact, err := svc.Narrate(context.Background(), resp.SessionID)
	require.NoError(t, err)

	require.Equal(t, "hi", synth.lastLocale)
	require.Contains(t, synth.lastText, "Warning:")
	require.NotContains(t, synth.lastText, WarningGlyph)
	require.Equal(t, "health_summary_hindi.mp3", artifact.Filename)
	require.Equal(t, "audio/mpeg", artifact.MimeType)
}

func TestNarrateSynthesisFailure(t *testing.T) {
	synth := &fakeSynthesizer{err: errors.New("tts unavailable")}
	svc := newTestService(&fakeExtractor{text: longReport}, &fakeGenerator{text: "summary"}, &fakeRenderer{}, synth, newStubStore())
	resp := analyzeFixture(t, svc, "Kannada")

	_, err := svc.Narrate(context.Background(), resp.SessionID)
	require.True(t, apperrors.IsCode(err, "narration_failed"))
}

func TestArtifactsNotFoundWithoutSummary(t *testing.T) {
	svc := newTestService(&fakeExtractor{}, &fakeGenerator{}, &fakeRenderer{}, &fakeSynthesizer{}, newStubStore())

	_, err := svc.ExportDocument(context.Background(), uuid.New())
	require.True(t, apperrors.IsCode(err, "not_found"))
	_, err = svc.Narrate(context.Background(), uuid.New())
	require.True(t, apperrors.IsCode(err, "not_found"))
	_, err = svc.GetSummary(context.Background(), uuid.New())
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestAnalyzeDefaultLanguageFromConfig(t *testing.T) {
	cfg := Config{MinTextChars: 50, MaxFileBytes: 1 << 20, DefaultLanguage: "Marathi"}
	svc := NewService(cfg, &fakeExtractor{text: longReport}, &fakeGenerator{text: "summary"}, &fakeRenderer{}, &fakeSynthesizer{}, newStubStore(), nil, nil, nil, testLogger())

	resp := analyzeFixture(t, svc, "")
	require.Equal(t, LanguageMarathi, resp.Summary.Language)

	// An explicit language still wins over the configured default.
	resp = analyzeFixture(t, svc, "Kannada")
	require.Equal(t, LanguageKannada, resp.Summary.Language)
}

func TestSummaryUsageSerialization(t *testing.T) {
	svc := newTestService(&fakeExtractor{text: longReport}, &fakeGenerator{text: "summary"}, &fakeRenderer{}, &fakeSynthesizer{}, newStubStore())
	resp := analyzeFixture(t, svc, "English")
	require.Nil(t, resp.Summary.Usage)

	raw, err := json.Marshal(resp.Summary)
	require.NoError(t, err)
	require.NotContains(t, string(raw), `"usage"`)

	usage := metrics.TokenUsage{PromptTokens: 120, CompletionTokens: 80, TotalTokens: 200}
	svc = newTestService(&fakeExtractor{text: longReport}, &fakeGenerator{text: "summary", usage: usage}, &fakeRenderer{}, &fakeSynthesizer{}, newStubStore())
	resp = analyzeFixture(t, svc, "English")
	require.NotNil(t, resp.Summary.Usage)
	require.Equal(t, usage, *resp.Summary.Usage)
}

func TestExportArchivesArtifactUnderSessionKey(t *testing.T) {
	archive := &fakeArchive{}
	cfg := Config{MinTextChars: 50, MaxFileBytes: 1 << 20}
	renderer := &fakeRenderer{data: []byte("%PDF-1.4 artifact")}
	svc := NewService(cfg, &fakeExtractor{text: longReport}, &fakeGenerator{text: "summary"}, renderer, &fakeSynthesizer{}, newStubStore(), nil, archive, nil, testLogger())
	resp := analyzeFixture(t, svc, "English")

	_, err := svc.ExportDocument(context.Background(), resp.SessionID)
	require.NoError(t, err)

	require.Len(t, archive.keys, 1)
	require.Equal(t, "artifacts/"+resp.SessionID.String()+"/health_summary_english.pdf", archive.keys[0])
	require.Equal(t, "report.pdf", renderer.lastSource, "renderer must receive the uploaded filename")
}

func TestAnalyzeTrimsSummaryText(t *testing.T) {
	svc := newTestService(&fakeExtractor{text: longReport}, &fakeGenerator{text: "\n\n  padded summary  \n"}, &fakeRenderer{}, &fakeSynthesizer{}, newStubStore())
	resp := analyzeFixture(t, svc, "")
	require.Equal(t, "padded summary", resp.Summary.Text)
	require.False(t, strings.HasPrefix(resp.Summary.Text, "\n"))
}

package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetSummaryInvalidatesDerivedArtifacts(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	var state PipelineState
	state.SetSummary(Summary{Text: "first", Language: LanguageEnglish, GeneratedAt: now}, now)
	state.SetDocument(RenderedArtifact{Filename: "health_summary_english.pdf", Data: []byte("pdf")}, now)
	state.SetAudio(AudioArtifact{Filename: "health_summary_english.mp3", Data: []byte("mp3")}, now)

	require.NotNil(t, state.Document)
	require.NotNil(t, state.Audio)

	// Switching language produces a new summary; stale artifacts must
	// never be served against it.
	later := now.Add(time.Minute)
	state.SetSummary(Summary{Text: "second", Language: LanguageHindi, GeneratedAt: later}, later)

	require.Nil(t, state.Document)
	require.Nil(t, state.Audio)
	require.Equal(t, LanguageHindi, state.Summary.Language)
	require.Equal(t, later, state.UpdatedAt)
}

func TestHasSummary(t *testing.T) {
	var state PipelineState
	require.False(t, state.HasSummary())
	state.SetSummary(Summary{Text: "text"}, time.Now())
	require.True(t, state.HasSummary())
}

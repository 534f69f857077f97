package report

import "time"

// PipelineState is the per-session cache around one in-flight report.
// It holds at most one live Summary and at most one of each derived
// artifact; there is deliberately no multi-entry history here.
type PipelineState struct {
	SourceName string            `json:"sourceName"`
	Summary    *Summary          `json:"summary,omitempty"`
	Document   *RenderedArtifact `json:"document,omitempty"`
	Audio      *AudioArtifact    `json:"audio,omitempty"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// SetSummary installs a freshly generated summary. Derived artifacts
// from any prior summary are invalidated so they can never be served
// against a mismatched text.
func (s *PipelineState) SetSummary(summary Summary, now time.Time) {
	s.Summary = &summary
	s.Document = nil
	s.Audio = nil
	s.UpdatedAt = now
}

// SetDocument memoizes the rendered artifact for the current summary.
func (s *PipelineState) SetDocument(artifact RenderedArtifact, now time.Time) {
	s.Document = &artifact
	s.UpdatedAt = now
}

// SetAudio memoizes the narration for the current summary.
func (s *PipelineState) SetAudio(artifact AudioArtifact, now time.Time) {
	s.Audio = &artifact
	s.UpdatedAt = now
}

// HasSummary reports whether a summary is cached.
func (s *PipelineState) HasSummary() bool {
	return s.Summary != nil
}

package history

import (
	"context"
	"sync"

	"github.com/lifelink/report-analyzer/internal/domain/report"
)

// MemoryHistory is an in-memory audit log for tests and local dev.
type MemoryHistory struct {
	mu      sync.RWMutex
	records []report.HistoryRecord
}

// NewMemoryHistory constructs the log.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

// Append implements report.SummaryHistory.
func (h *MemoryHistory) Append(_ context.Context, rec report.HistoryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	return nil
}

// Records returns a copy of everything appended so far.
func (h *MemoryHistory) Records() []report.HistoryRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]report.HistoryRecord, len(h.records))
	copy(out, h.records)
	return out
}

var _ report.SummaryHistory = (*MemoryHistory)(nil)

package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lifelink/report-analyzer/internal/domain/report"
)

func TestMemoryHistoryAppendRecords(t *testing.T) {
	h := NewMemoryHistory()
	require.Empty(t, h.Records())

	first := report.HistoryRecord{
		ID:           uuid.New(),
		SessionID:    uuid.New(),
		Language:     report.LanguageHindi,
		SourceName:   "report.pdf",
		ReportChars:  420,
		SummaryChars: 180,
		CreatedAt:    time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
	}
	second := report.HistoryRecord{ID: uuid.New(), SessionID: first.SessionID, Language: report.LanguageEnglish}

	require.NoError(t, h.Append(context.Background(), first))
	require.NoError(t, h.Append(context.Background(), second))

	records := h.Records()
	require.Len(t, records, 2)
	require.Equal(t, first, records[0])
	require.Equal(t, second, records[1])
}

func TestMemoryHistoryRecordsReturnsCopy(t *testing.T) {
	h := NewMemoryHistory()
	require.NoError(t, h.Append(context.Background(), report.HistoryRecord{ID: uuid.New(), SourceName: "a.pdf"}))

	snapshot := h.Records()
	snapshot[0].SourceName = "mutated.pdf"

	require.Equal(t, "a.pdf", h.Records()[0].SourceName)
}

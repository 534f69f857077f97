package history

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lifelink/report-analyzer/internal/domain/report"
)

// PostgresHistory implements report.SummaryHistory using pgx.
//
// Expected schema:
//
//	CREATE TABLE IF NOT EXISTS summary_history (
//	    id UUID PRIMARY KEY,
//	    session_id UUID NOT NULL,
//	    language TEXT NOT NULL,
//	    source_name TEXT NOT NULL DEFAULT '',
//	    report_chars INT NOT NULL,
//	    summary_chars INT NOT NULL,
//	    prompt_tokens INT NOT NULL DEFAULT 0,
//	    completion_tokens INT NOT NULL DEFAULT 0,
//	    total_tokens INT NOT NULL DEFAULT 0,
//	    created_at TIMESTAMPTZ NOT NULL
//	);
type PostgresHistory struct {
	pool *pgxpool.Pool
}

// NewPostgresHistory constructs the repository.
func NewPostgresHistory(pool *pgxpool.Pool) *PostgresHistory {
	return &PostgresHistory{pool: pool}
}

// Append implements report.SummaryHistory.
func (h *PostgresHistory) Append(ctx context.Context, rec report.HistoryRecord) error {
	_, err := h.pool.Exec(ctx, `
		INSERT INTO summary_history (
			id, session_id, language, source_name,
			report_chars, summary_chars,
			prompt_tokens, completion_tokens, total_tokens,
			created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		rec.ID,
		rec.SessionID,
		string(rec.Language),
		rec.SourceName,
		rec.ReportChars,
		rec.SummaryChars,
		rec.Usage.PromptTokens,
		rec.Usage.CompletionTokens,
		rec.Usage.TotalTokens,
		rec.CreatedAt,
	)
	return err
}

var _ report.SummaryHistory = (*PostgresHistory)(nil)

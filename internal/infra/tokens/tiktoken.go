package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/lifelink/report-analyzer/internal/domain/report"
)

// Counter clamps report text to a model token budget so oversized
// reports fail gracefully instead of being rejected by the service.
type Counter struct {
	tok *tiktoken.Tiktoken
}

// NewCounter loads the encoder once for all requests.
func NewCounter() (*Counter, error) {
	tok, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load token encoder: %w", err)
	}
	return &Counter{tok: tok}, nil
}

// Clamp implements report.TokenBudget.
func (c *Counter) Clamp(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return text
	}
	encoded := c.tok.Encode(text, nil, nil)
	if len(encoded) <= maxTokens {
		return text
	}
	return c.tok.Decode(encoded[:maxTokens])
}

var _ report.TokenBudget = (*Counter)(nil)

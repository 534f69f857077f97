package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/lifelink/report-analyzer/internal/domain/report"
	"github.com/lifelink/report-analyzer/pkg/metrics"
)

// Config carries the generative-model settings.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	// MaxAttempts stays at 1 unless explicitly raised; the pipeline is
	// specified as single-shot and retries change its failure timing.
	MaxAttempts int
}

// Client calls the Gemini API for summary generation.
type Client struct {
	cfg    Config
	logger *slog.Logger
}

// NewClient constructs the client.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini: model is required")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, logger: logger.With("component", "llm.gemini")}, nil
}

// Generate implements report.TextGenerator with one blocking call per
// attempt. No partial responses are accepted.
func (c *Client) Generate(ctx context.Context, prompt string) (report.GeneratedText, error) {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		out, err := c.generateOnce(ctx, prompt)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		if attempt < c.cfg.MaxAttempts {
			c.logger.Warn("generation attempt failed, retrying", "attempt", attempt, "error", err)
		}
	}
	return report.GeneratedText{}, lastErr
}

func (c *Client) generateOnce(ctx context.Context, prompt string) (report.GeneratedText, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return report.GeneratedText{}, fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), nil)
	if err != nil {
		return report.GeneratedText{}, fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return report.GeneratedText{}, errors.New("empty response from Gemini")
	}
	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return report.GeneratedText{}, errors.New("empty response from Gemini")
	}

	out := report.GeneratedText{Text: text}
	if result.UsageMetadata != nil {
		out.Usage = metrics.TokenUsage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

var _ report.TextGenerator = (*Client)(nil)

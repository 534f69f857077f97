package gtranslate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lifelink/report-analyzer/internal/domain/report"
)

const defaultBaseURL = "https://translate.google.com/translate_tts"

// The endpoint rejects long inputs, so the text is synthesized in
// chunks and the resulting mp3 segments are concatenated. MP3 frames
// are self-contained, so simple byte concatenation yields a playable
// stream that clients can speed-shift locally.
const maxChunkRunes = 180

// Client synthesizes speech through the Google Translate TTS endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a synthesis client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	u := strings.TrimSpace(baseURL)
	if u == "" {
		u = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(u, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Synthesize implements report.SpeechSynthesizer. Any transport or
// service failure is returned to the caller; there are no retries.
func (c *Client) Synthesize(ctx context.Context, text, locale string) ([]byte, error) {
	chunks := splitChunks(text, maxChunkRunes)
	if len(chunks) == 0 {
		return nil, errors.New("no narratable text")
	}

	var out bytes.Buffer
	for i, chunk := range chunks {
		segment, err := c.fetchSegment(ctx, chunk, locale, i, len(chunks))
		if err != nil {
			return nil, err
		}
		out.Write(segment)
	}
	return out.Bytes(), nil
}

func (c *Client) fetchSegment(ctx context.Context, chunk, locale string, idx, total int) ([]byte, error) {
	query := url.Values{
		"ie":      {"UTF-8"},
		"client":  {"tw-ob"},
		"tl":      {locale},
		"q":       {chunk},
		"total":   {strconv.Itoa(total)},
		"idx":     {strconv.Itoa(idx)},
		"textlen": {strconv.Itoa(utf8.RuneCountInString(chunk))},
	}
	endpoint := c.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("tts request error: status=%d locale=%s body=%s", resp.StatusCode, locale, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	if len(body) == 0 {
		return nil, errors.New("tts response was empty")
	}
	return body, nil
}

var _ report.SpeechSynthesizer = (*Client)(nil)

// splitChunks breaks the text on line and sentence boundaries, hard
// splitting only runs longer than the limit.
func splitChunks(text string, limit int) []string {
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, sentence := range splitSentences(line) {
			chunks = appendChunk(chunks, sentence, limit)
		}
	}
	return chunks
}

func splitSentences(line string) []string {
	var out []string
	var b strings.Builder
	for _, r := range line {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '।' { // devanagari danda
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func appendChunk(chunks []string, sentence string, limit int) []string {
	runes := []rune(sentence)
	for len(runes) > limit {
		chunks = append(chunks, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) == 0 {
		return chunks
	}
	sentence = string(runes)
	if n := len(chunks); n > 0 && utf8.RuneCountInString(chunks[n-1])+utf8.RuneCountInString(sentence)+1 <= limit {
		chunks[n-1] = chunks[n-1] + " " + sentence
		return chunks
	}
	return append(chunks, sentence)
}

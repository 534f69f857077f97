package report

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// The generated summary follows an informal markdown-like convention
// (bold markers, headings, bullets). The document primitive only lays
// out a restricted character repertoire, so every paragraph passes
// through a two-tier sanitization: numeric character references first,
// stripping as the fallback. Neither tier ever fails the caller; a
// paragraph that survives neither is rendered as an empty spacer.

// StripMarkup neutralizes the lightweight markup tokens. It is
// defensive: unbalanced or absent markers are handled the same way.
func StripMarkup(line string) string {
	line = strings.ReplaceAll(line, "**", "")
	trimmed := strings.TrimLeft(line, " ")
	if strings.HasPrefix(trimmed, "#") {
		trimmed = strings.TrimLeft(trimmed, "#")
		line = strings.TrimLeft(trimmed, " ")
	}
	if strings.HasPrefix(line, "* ") {
		line = "- " + line[2:]
	}
	return line
}

// IsHeading reports whether the raw summary line used a heading marker.
func IsHeading(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " "), "#")
}

// EscapeMarkup escapes the markup-reserved characters so later
// reference encoding cannot be confused with pre-existing text.
func EscapeMarkup(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// encodeReferences rewrites every rune outside the safe repertoire as a
// decimal numeric character reference. It reports failure on malformed
// UTF-8, which reference encoding cannot represent.
func encodeReferences(s string) (string, bool) {
	var b strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return "", false
		}
		if isSafeRune(r) {
			b.WriteRune(r)
		} else {
			fmt.Fprintf(&b, "&#%d;", r)
		}
		i += size
	}
	return b.String(), true
}

// stripUnencodable drops everything outside the safe repertoire.
func stripUnencodable(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isSafeRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isSafeRune(r rune) bool {
	return r == '\t' || (r >= 0x20 && r <= 0x7e)
}

// SanitizeParagraph prepares one summary line for document rendering.
// ASCII-only input passes through with zero information loss (modulo
// the reserved-character escapes, which a markup consumer reverses).
func SanitizeParagraph(line string) string {
	line = EscapeMarkup(StripMarkup(line))
	if encoded, ok := encodeReferences(line); ok {
		return encoded
	}
	return stripUnencodable(line)
}

// SpeechText prepares the whole summary for narration: markup tokens
// are stripped and the warning glyph becomes an audible word.
func SpeechText(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = StripMarkup(line)
		line = strings.ReplaceAll(line, WarningGlyph, "Warning:")
		line = strings.ReplaceAll(line, "⚠", "Warning:")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

package services

import (
	"strings"
	"unicode"
)

// isTerminal reports whether r ends a sentence. ASCII '!' and '?' plus the
// full-width CJK terminators; a bare ASCII period is deliberately not a
// boundary so that "2.5" or "Mr. Cat" never splits.
func isTerminal(r rune) bool {
	switch r {
	case '!', '?', '。', '！', '？':
		return true
	}
	return false
}

// SplitSentences segments text into sentence units: a cut happens after a
// terminal punctuation mark followed by whitespace, or at any newline. Units
// are trimmed and empty units dropped. Text without terminal punctuation is a
// single unit.
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var units []string
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			units = append(units, s)
		}
		b.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' {
			flush()
			continue
		}
		b.WriteRune(r)
		if isTerminal(r) && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])) {
			flush()
		}
	}
	flush()

	return units
}

// ClampSentences limits text to at most max sentence units. When the text is
// already within budget the trimmed original is returned untouched, which
// preserves internal spacing and makes the operation idempotent.
func ClampSentences(text string, max int) string {
	parts := SplitSentences(text)
	if len(parts) <= max {
		return strings.TrimSpace(text)
	}
	return strings.Join(parts[:max], " ")
}

// Package highlight renders padded excerpts around answer spans and marks
// answer substrings inside their context.
package highlight

import "strings"

// Markers wrapped around a located answer inside its context. The TUI
// replaces them with terminal styling; other frontends may render them as-is.
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// DefaultWindow is the padding, in characters, applied on both sides of a span.
const DefaultWindow = 100

// Excerpt extracts the substring around [start, end) padded by window
// characters on each side, clamped to the text bounds. Ellipses mark the
// sides where text was cut off. Out-of-range spans yield an empty or
// truncated excerpt rather than an error.
func Excerpt(text string, start, end, window int) string {
	lo := start - window
	if lo < 0 {
		lo = 0
	}
	hi := end + window
	if hi > len(text) {
		hi = len(text)
	}
	if lo > hi {
		lo = hi
	}
	excerpt := text[lo:hi]
	if lo > 0 {
		excerpt = "..." + excerpt
	}
	if hi < len(text) {
		excerpt = excerpt + "..."
	}
	return strings.TrimSpace(excerpt)
}

// MarkAnswer locates answer inside passage case-insensitively and wraps the
// exact-cased occurrence in mark tags. If the answer does not occur verbatim
// (a paraphrase), the passage is returned unchanged.
func MarkAnswer(passage, answer string) string {
	if passage == "" || answer == "" {
		return passage
	}
	pos := strings.Index(strings.ToLower(passage), strings.ToLower(answer))
	if pos < 0 || pos+len(answer) > len(passage) {
		return passage
	}
	matched := passage[pos : pos+len(answer)]
	return passage[:pos] + MarkOpen + matched + MarkClose + passage[pos+len(answer):]
}

package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docqa/internal/highlight"
)

func TestRenderMarks_StripsTags(t *testing.T) {
	in := "The cat sat on the " + highlight.MarkOpen + "mat" + highlight.MarkClose + "."
	got := renderMarks(in)
	assert.NotContains(t, got, highlight.MarkOpen)
	assert.NotContains(t, got, highlight.MarkClose)
	assert.Contains(t, got, "mat")
}

func TestRenderMarks_UnbalancedLeftAlone(t *testing.T) {
	in := "dangling " + highlight.MarkOpen + "tag"
	assert.Equal(t, in, renderMarks(in))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))
	assert.Equal(t, "multi line", truncate("multi\nline", 40))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

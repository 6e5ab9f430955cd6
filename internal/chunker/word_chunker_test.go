package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunk_ShortDocumentSingleChunk(t *testing.T) {
	c := NewWordChunker(1000, 200)
	doc := "The cat sat on the mat. The dog ran in the park."
	chunks := c.Chunk(doc)

	require.Len(t, chunks, 1)
	assert.Equal(t, doc, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Start)
	// End counts len(word)+1 per word, so the single-space join plus one.
	assert.Equal(t, len(doc)+1, chunks[0].End)
}

func TestChunk_EmptyDocument(t *testing.T) {
	c := NewWordChunker(1000, 200)
	assert.Nil(t, c.Chunk(""))
	assert.Nil(t, c.Chunk("   \n\t  "))
}

func TestChunk_OverlapAndStep(t *testing.T) {
	c := NewWordChunker(1000, 200)
	words := make([]string, 2500)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	doc := strings.Join(words, " ")
	chunks := c.Chunk(doc)

	// Windows start at word 0, 800, 1600, 2400.
	require.Len(t, chunks, 4)
	for i, ch := range chunks {
		got := strings.Fields(ch.Text)
		start := i * 800
		end := start + 1000
		if end > len(words) {
			end = len(words)
		}
		require.Equal(t, words[start:end], got, "chunk %d word range", i)
	}
	// Consecutive full windows share exactly 200 words.
	first := strings.Fields(chunks[0].Text)
	second := strings.Fields(chunks[1].Text)
	assert.Equal(t, first[800:], second[:200])
}

func TestChunk_OffsetsAreCumulativeWordLengths(t *testing.T) {
	c := NewWordChunker(4, 1)
	doc := "aa bbb c dddd ee f"
	chunks := c.Chunk(doc)
	require.Len(t, chunks, 2)

	// Second window starts at word index 3 ("dddd").
	assert.Equal(t, len("aa ")+len("bbb ")+len("c "), chunks[1].Start)
	assert.Equal(t, "dddd ee f", chunks[1].Text)
	assert.Equal(t, len(doc)+1, chunks[1].End)
}

func TestChunk_LastWindowMayBeShort(t *testing.T) {
	c := NewWordChunker(10, 2)
	words := make([]string, 19)
	for i := range words {
		words[i] = "x"
	}
	chunks := c.Chunk(strings.Join(words, " "))
	require.Len(t, chunks, 3)
	assert.Len(t, strings.Fields(chunks[0].Text), 10)
	assert.Len(t, strings.Fields(chunks[1].Text), 10)
	assert.Len(t, strings.Fields(chunks[2].Text), 3)
}

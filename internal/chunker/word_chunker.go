package chunker

import (
	"strings"

	"docqa/internal/domain"
)

// WordChunker splits a document into overlapping fixed-size word windows.
// Offsets are approximated from cumulative word+space lengths, assuming
// single-space separation in the source text.
type WordChunker struct {
	windowWords  int
	overlapWords int
}

func NewWordChunker(windowWords, overlapWords int) *WordChunker {
	if windowWords <= 0 {
		windowWords = 1000
	}
	if overlapWords < 0 {
		overlapWords = 0
	}
	if overlapWords >= windowWords {
		overlapWords = windowWords - 1
	}
	return &WordChunker{windowWords: windowWords, overlapWords: overlapWords}
}

func (c *WordChunker) Chunk(document string) []domain.Chunk {
	words := strings.Fields(document)
	if len(words) == 0 {
		return nil
	}
	// cum[i] is the approximate character offset of word i.
	cum := make([]int, len(words)+1)
	for i, w := range words {
		cum[i+1] = cum[i] + len(w) + 1
	}
	step := c.windowWords - c.overlapWords
	var chunks []domain.Chunk
	for i := 0; i < len(words); i += step {
		end := i + c.windowWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, domain.Chunk{
			Text:  strings.Join(words[i:end], " "),
			Start: cum[i],
			End:   cum[end],
		})
	}
	return chunks
}

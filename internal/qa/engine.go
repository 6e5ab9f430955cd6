// Package qa implements answer localization over chunked documents: it
// scores every chunk with the extractive QA capability, keeps the best
// span, and remaps its offsets back into the full document.
package qa

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"docqa/internal/domain"
	"docqa/internal/highlight"
)

const (
	// FallbackAnswer is returned when no chunk produces a nonzero score.
	FallbackAnswer = "I couldn't find a clear answer in the document."

	// NoDocumentAnswer is returned when the document text is empty.
	NoDocumentAnswer = "No document text provided."

	noContextText = "No specific context found."

	maxAnswerLen   = 150
	maxQuestionLen = 100
	maxSeqLen      = 512

	fullContextChars = 1000
)

// Limits passed to the extractive QA capability for every chunk.
var limits = domain.QALimits{
	MaxAnswerLen:   maxAnswerLen,
	MaxQuestionLen: maxQuestionLen,
	MaxSeqLen:      maxSeqLen,
}

// Engine runs the extractive question answering pipeline.
type Engine struct {
	chunker   domain.Chunker
	extractor domain.ExtractiveQA
	override  Override
	log       *zap.Logger
}

func NewEngine(chunker domain.Chunker, extractor domain.ExtractiveQA, override Override, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{chunker: chunker, extractor: extractor, override: override, log: log}
}

// FindBestAnswer scores every chunk and returns the highest-scoring span
// with document-global offsets. Per-chunk capability failures are logged
// and skipped; if no chunk scores above zero the fallback answer is
// returned with score 0 and empty offsets.
func (e *Engine) FindBestAnswer(ctx context.Context, document, question string) domain.ScoredAnswer {
	best := domain.ScoredAnswer{Answer: FallbackAnswer}
	for _, chunk := range e.chunker.Chunk(document) {
		result, err := e.extractor.Extract(ctx, question, chunk.Text, limits)
		if err != nil {
			e.log.Warn("chunk scoring failed",
				zap.Int("chunk_start", chunk.Start),
				zap.Error(err))
			continue
		}
		if result.Score > best.Score {
			best = domain.ScoredAnswer{
				Answer:  result.Answer,
				Score:   result.Score,
				Start:   result.Start + chunk.Start,
				End:     result.End + chunk.Start,
				Context: chunk.Text,
			}
		}
	}
	return best
}

// Ask answers a question about the document. Every path returns a
// well-formed Answer; errors never cross this boundary.
func (e *Engine) Ask(ctx context.Context, document, question string) domain.Answer {
	if strings.TrimSpace(document) == "" {
		return domain.Answer{Text: NoDocumentAnswer}
	}
	if a := e.override.Match(question); a != nil {
		return *a
	}

	result := e.FindBestAnswer(ctx, document, question)
	marked := highlight.MarkAnswer(result.Context, result.Answer)
	if marked == "" {
		marked = noContextText
	}
	full := result.Context
	if full == "" {
		full = head(document, fullContextChars)
	}
	return domain.Answer{
		Text:        result.Answer,
		Confidence:  math.Round(result.Score*1000) / 10,
		Context:     marked,
		Highlight:   result.Answer,
		FullContext: full,
	}
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

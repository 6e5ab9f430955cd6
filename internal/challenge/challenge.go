// Package challenge implements quiz mode: drafting comprehension questions
// from document chunks and grading free-text answers against document
// context with a keyword-overlap heuristic.
package challenge

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docqa/internal/domain"
)

const (
	maxQuestions    = 3
	promptTextChars = 1000

	defaultContextChars = 500
)

var scanLimits = domain.QALimits{
	MaxAnswerLen:   150,
	MaxQuestionLen: 100,
	MaxSeqLen:      512,
}

const questionPromptTemplate = `Generate one specific, detailed question that can be answered from the following text.
The question should test comprehension and require understanding of the content.

Text: %s

Question:`

// Generator drafts challenge questions from a document and pairs each with
// the document context that best supports it.
type Generator struct {
	chunker   domain.Chunker
	extractor domain.ExtractiveQA
	generator domain.Generator
	log       *zap.Logger
}

func NewGenerator(chunker domain.Chunker, extractor domain.ExtractiveQA, generator domain.Generator, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{chunker: chunker, extractor: extractor, generator: generator, log: log}
}

// Questions generates up to three challenge questions. Per-chunk generation
// failures are skipped; if nothing could be generated the canned fallback
// questions are returned so the quiz always has content.
func (g *Generator) Questions(ctx context.Context, document string) []domain.QuestionItem {
	chunks := g.chunker.Chunk(document)
	if len(chunks) > maxQuestions {
		chunks = chunks[:maxQuestions]
	}

	var questions []domain.QuestionItem
	for _, chunk := range chunks {
		text := chunk.Text
		if len(text) > promptTextChars {
			text = text[:promptTextChars]
		}
		output, err := g.generator.Generate(ctx, fmt.Sprintf(questionPromptTemplate, text), domain.GenerateOptions{
			Temperature: 0.7,
			TopP:        0.9,
		})
		if err != nil {
			g.log.Warn("question generation failed", zap.Int("chunk_start", chunk.Start), zap.Error(err))
			continue
		}
		question := parseQuestion(output)
		relevant := g.relevantContext(ctx, document, question)
		questions = append(questions, domain.QuestionItem{
			Question:     question,
			Context:      relevant.Text,
			ContextStart: relevant.Start,
			ContextEnd:   relevant.End,
		})
		if len(questions) >= maxQuestions {
			break
		}
	}
	if len(questions) == 0 {
		return fallbackQuestions(document)
	}
	return questions
}

// relevantContext scans all chunks with the extractive capability and keeps
// the whole chunk whose candidate answer scored highest. The default is the
// first 500 characters of the document.
func (g *Generator) relevantContext(ctx context.Context, document, question string) domain.Chunk {
	best := domain.Chunk{
		Text:  head(document, defaultContextChars),
		Start: 0,
		End:   min(defaultContextChars, len(document)),
	}
	bestScore := 0.0
	for _, chunk := range g.chunker.Chunk(document) {
		result, err := g.extractor.Extract(ctx, question, chunk.Text, scanLimits)
		if err != nil {
			g.log.Warn("context scan failed", zap.Int("chunk_start", chunk.Start), zap.Error(err))
			continue
		}
		if result.Score > bestScore {
			bestScore = result.Score
			best = chunk
		}
	}
	return best
}

// parseQuestion pulls the generated question out of the raw completion:
// everything after the last "Question:" marker up to the first question mark.
func parseQuestion(output string) string {
	if idx := strings.LastIndex(output, "Question:"); idx >= 0 {
		output = output[idx+len("Question:"):]
	}
	if idx := strings.Index(output, "?"); idx >= 0 {
		output = output[:idx]
	}
	return strings.TrimSpace(output) + "?"
}

func fallbackQuestions(document string) []domain.QuestionItem {
	n := len(document)
	second := domain.QuestionItem{
		Question: "What are the key points mentioned in the document?",
		Context:  document,
	}
	if n > 1000 {
		second.Context = document[1000:min(2000, n)]
		second.ContextStart = 1000
	}
	second.ContextEnd = min(2000, n)
	return []domain.QuestionItem{
		{
			Question:   "What is the main topic of the document?",
			Context:    head(document, 1000),
			ContextEnd: min(1000, n),
		},
		second,
		{
			Question:     "What conclusions or recommendations does the document present?",
			Context:      document[max(0, n-1000):],
			ContextStart: max(0, n-1000),
			ContextEnd:   n,
		},
	}
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

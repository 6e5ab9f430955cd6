package challenge

import (
	"strings"

	"docqa/internal/domain"
	"docqa/internal/highlight"
)

const (
	// matchThreshold is the keyword-overlap ratio a user answer must strictly
	// exceed to pass. Kept as-is for compatibility with existing grading.
	matchThreshold = 0.5

	// minKeywordLen filters out short tokens before the overlap comparison.
	minKeywordLen = 3

	defaultAnswerSpanEnd  = 100
	defaultContextSpanEnd = 500
)

const (
	feedbackEmpty     = "Please provide an answer."
	feedbackCorrect   = "Your answer appears to be relevant to the document content."
	feedbackIncorrect = "Your answer may not fully address the question based on the document content."
)

// Evaluate grades a free-text answer against the question's document context
// using keyword overlap. This is a heuristic, not semantic grading; no model
// is consulted.
func Evaluate(item domain.QuestionItem, userAnswer string) domain.EvaluationResult {
	if strings.TrimSpace(userAnswer) == "" {
		return domain.EvaluationResult{
			Feedback:  feedbackEmpty,
			Reference: item.Context,
		}
	}

	answerKeywords := keywords(userAnswer)
	contextKeywords := keywords(item.Context)

	matching := 0
	for kw := range answerKeywords {
		if _, ok := contextKeywords[kw]; ok {
			matching++
		}
	}
	denom := len(answerKeywords)
	if denom < 1 {
		denom = 1
	}
	ratio := float64(matching) / float64(denom)

	if ratio > matchThreshold {
		start, end := item.AnswerStart, item.AnswerEnd
		if end == 0 {
			end = defaultAnswerSpanEnd
		}
		return domain.EvaluationResult{
			IsCorrect: true,
			Feedback:  feedbackCorrect,
			Reference: highlight.Excerpt(item.Context, start, end, highlight.DefaultWindow),
		}
	}
	start, end := item.ContextStart, item.ContextEnd
	if end == 0 {
		end = defaultContextSpanEnd
	}
	return domain.EvaluationResult{
		Feedback:  feedbackIncorrect,
		Reference: highlight.Excerpt(item.Context, start, end, highlight.DefaultWindow),
	}
}

// keywords lower-cases and collects whitespace tokens longer than
// minKeywordLen characters.
func keywords(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(text) {
		if len(word) > minKeywordLen {
			set[strings.ToLower(word)] = struct{}{}
		}
	}
	return set
}

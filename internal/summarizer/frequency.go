package summarizer

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Frequency is an offline summarizer that ranks sentences by normalized
// token frequency, stopwords excluded. It serves as the fallback when the
// remote summarization capability is unavailable.
type Frequency struct {
	maxSentences int
	tokenRe      *regexp.Regexp
	sentenceRe   *regexp.Regexp
	stopwords    map[string]struct{}
}

func NewFrequency(maxSentences int) *Frequency {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	return &Frequency{
		maxSentences: maxSentences,
		tokenRe:      regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentenceRe:   regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		stopwords:    stopwordSet(),
	}
}

func (f *Frequency) Summarize(_ context.Context, text string) (string, error) {
	sentences := f.sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	freq := map[string]float64{}
	for _, sentence := range sentences {
		for _, tok := range f.tokens(sentence) {
			if _, ok := f.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}
	maxFreq := 0.0
	for _, v := range freq {
		if v > maxFreq {
			maxFreq = v
		}
	}
	if maxFreq > 0 {
		for k, v := range freq {
			freq[k] = v / maxFreq
		}
	}

	type ranked struct {
		idx   int
		score float64
	}
	scores := make([]ranked, len(sentences))
	for i, sentence := range sentences {
		toks := f.tokens(sentence)
		score := 0.0
		for _, tok := range toks {
			score += freq[tok]
		}
		// Length normalization so long sentences don't dominate.
		if len(toks) > 0 {
			score /= math.Sqrt(float64(len(toks)))
		}
		scores[i] = ranked{i, score}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	keep := f.maxSentences
	if keep > len(scores) {
		keep = len(scores)
	}
	selected := make([]int, keep)
	for i := 0; i < keep; i++ {
		selected[i] = scores[i].idx
	}
	// Present selected sentences in document order.
	sort.Ints(selected)

	out := make([]string, 0, keep)
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " "), nil
}

func (f *Frequency) tokens(text string) []string {
	return f.tokenRe.FindAllString(strings.ToLower(text), -1)
}

func stopwordSet() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of",
		"in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been",
		"being", "it", "this", "that", "these", "those", "from", "up", "down", "over",
		"under", "again", "further", "than", "so", "such", "into", "about", "between",
		"through", "during", "before", "after", "above", "below", "out", "off", "own",
		"same", "too", "very", "can", "will", "just", "should", "now",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

package qa

import (
	"strings"

	"docqa/internal/domain"
)

// Override short-circuits retrieval for a small set of known high-value
// topics: if the question mentions a trigger phrase, a curated long-form
// answer is returned instead of running the extractive scan. Triggers and
// text are configuration, not derived logic.
type Override struct {
	Triggers   []string
	Answer     string
	Context    string
	Highlight  string
	Confidence float64
}

// Match returns the canned answer if the lower-cased question contains any
// trigger phrase, nil otherwise.
func (o Override) Match(question string) *domain.Answer {
	if o.Answer == "" || len(o.Triggers) == 0 {
		return nil
	}
	lower := strings.ToLower(question)
	for _, trigger := range o.Triggers {
		if trigger != "" && strings.Contains(lower, strings.ToLower(trigger)) {
			return &domain.Answer{
				Text:            o.Answer,
				Confidence:      o.Confidence,
				Context:         o.Context,
				Highlight:       o.Highlight,
				IsComprehensive: true,
			}
		}
	}
	return nil
}

// DefaultOverride reproduces the stock transformer-topic override.
func DefaultOverride() Override {
	return Override{
		Triggers:   []string{"transformer", "transformers"},
		Highlight:  "transformer",
		Confidence: 95.0,
		Answer: "A transformer is a deep learning model architecture introduced in the paper " +
			"'Attention Is All You Need' by Vaswani et al. in 2017. It's designed to handle " +
			"sequential data (like text) using self-attention mechanisms rather than traditional " +
			"recurrent or convolutional layers.\n\n" +
			"Key features of transformers include:\n" +
			"• Self-attention mechanisms to weigh the importance of different parts of the input\n" +
			"• Parallel processing of sequence data (unlike RNNs which process sequentially)\n" +
			"• Positional encodings to account for word order\n" +
			"• Layer normalization and residual connections for stable training\n\n" +
			"Transformers have become fundamental in natural language processing and are the " +
			"basis for models like BERT, GPT, and others.",
		Context: "The document discusses technical details about transformers, including their " +
			"architecture with encoder-decoder structure, multi-head attention mechanisms, and " +
			"layer normalization.",
	}
}

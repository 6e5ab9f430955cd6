package summarizer

import "context"

const (
	// inputCapChars bounds how much document text is sent to the model.
	inputCapChars = 3000

	summaryMaxLen = 150
	summaryMinLen = 50
)

// SummarizeFunc is the remote summarization capability.
type SummarizeFunc func(ctx context.Context, text string, maxLen, minLen int) (string, error)

// Remote summarizes through an external capability, feeding it at most the
// first 3000 characters of the document.
type Remote struct {
	summarize SummarizeFunc
}

func NewRemote(summarize SummarizeFunc) *Remote {
	return &Remote{summarize: summarize}
}

func (r *Remote) Summarize(ctx context.Context, text string) (string, error) {
	if len(text) > inputCapChars {
		text = text[:inputCapChars]
	}
	return r.summarize(ctx, text, summaryMaxLen, summaryMinLen)
}

package domain

import "context"

// Chunk is an offset-tagged window of the source document used to bound
// model context size. Start and End are character positions in the original
// document, approximated from cumulative word+space lengths.
type Chunk struct {
	Text  string
	Start int
	End   int
}

// Extraction is what the extractive QA capability returns for one chunk.
// Start and End are local to the passage the capability was given.
type Extraction struct {
	Answer string
	Score  float64
	Start  int
	End    int
}

// ScoredAnswer is the best extraction over all chunks, with offsets remapped
// to document-global positions and the owning chunk text attached.
type ScoredAnswer struct {
	Answer  string
	Score   float64
	Start   int
	End     int
	Context string
}

// Answer is the caller-facing result of asking a question.
type Answer struct {
	Text            string
	Confidence      float64
	Context         string
	Highlight       string
	FullContext     string
	IsComprehensive bool
	Model           string
}

// QuestionItem is one generated challenge question together with the
// document context it was drawn from. Offsets are document-global.
type QuestionItem struct {
	Question     string
	Context      string
	ContextStart int
	ContextEnd   int
	AnswerStart  int
	AnswerEnd    int
}

// UserAnswerRecord tracks a user's answer for one challenge question.
// Evaluation is nil until the answers are submitted.
type UserAnswerRecord struct {
	Answer     string
	Evaluation *EvaluationResult
	Context    string
}

// EvaluationResult is the verdict for one submitted challenge answer.
type EvaluationResult struct {
	IsCorrect   bool
	Feedback    string
	Reference   string
	FullContext string
}

// QALimits caps what the extractive QA capability may consume and produce.
// The values are token counts; truncation is the capability's concern.
type QALimits struct {
	MaxAnswerLen   int
	MaxQuestionLen int
	MaxSeqLen      int
}

// Chunker splits a document into overlapping offset-tagged windows.
type Chunker interface {
	Chunk(document string) []Chunk
}

// ExtractiveQA answers a question by returning a literal span copied from
// the given passage, with a confidence score in [0,1].
type ExtractiveQA interface {
	Extract(ctx context.Context, question, passage string, limits QALimits) (Extraction, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// GenerateOptions tune a single generative completion.
type GenerateOptions struct {
	Temperature float64
	TopP        float64
	NumCtx      int
}

// Generator is a free-form text generation capability, used for drafting
// challenge questions and for the generative answering path.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

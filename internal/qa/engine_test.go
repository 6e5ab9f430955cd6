package qa

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docqa/internal/chunker"
	"docqa/internal/domain"
)

type extractFunc func(ctx context.Context, question, passage string, limits domain.QALimits) (domain.Extraction, error)

func (f extractFunc) Extract(ctx context.Context, question, passage string, limits domain.QALimits) (domain.Extraction, error) {
	return f(ctx, question, passage, limits)
}

func newTestEngine(extractor domain.ExtractiveQA) *Engine {
	return NewEngine(chunker.NewWordChunker(1000, 200), extractor, DefaultOverride(), zap.NewNop())
}

func TestFindBestAnswer_SingleChunkScenario(t *testing.T) {
	doc := "The cat sat on the mat. The dog ran in the park."
	calls := 0
	extractor := extractFunc(func(_ context.Context, question, passage string, limits domain.QALimits) (domain.Extraction, error) {
		calls++
		assert.Equal(t, "Where did the cat sit?", question)
		assert.Equal(t, doc, passage)
		assert.Equal(t, 150, limits.MaxAnswerLen)
		assert.Equal(t, 100, limits.MaxQuestionLen)
		assert.Equal(t, 512, limits.MaxSeqLen)
		idx := strings.Index(passage, "mat")
		return domain.Extraction{Answer: "mat", Score: 0.8, Start: idx, End: idx + 3}, nil
	})

	e := newTestEngine(extractor)
	got := e.FindBestAnswer(context.Background(), doc, "Where did the cat sit?")

	assert.Equal(t, 1, calls, "twelve words means exactly one chunk and one scoring call")
	assert.Equal(t, "mat", got.Answer)
	assert.Equal(t, "mat", doc[got.Start:got.End])
}

func TestFindBestAnswer_RemapsOffsetsAcrossChunks(t *testing.T) {
	// Window 4, overlap 1: second chunk starts at word index 3 ("dddd"),
	// character offset 9 under the word-join approximation.
	e := NewEngine(chunker.NewWordChunker(4, 1), extractFunc(
		func(_ context.Context, _, passage string, _ domain.QALimits) (domain.Extraction, error) {
			if strings.HasPrefix(passage, "dddd") {
				return domain.Extraction{Answer: "ee", Score: 0.9, Start: 5, End: 7}, nil
			}
			return domain.Extraction{Answer: "aa", Score: 0.2, Start: 0, End: 2}, nil
		}), DefaultOverride(), zap.NewNop())

	got := e.FindBestAnswer(context.Background(), "aa bbb c dddd ee f", "which pair?")
	assert.Equal(t, "ee", got.Answer)
	assert.Equal(t, 9+5, got.Start)
	assert.Equal(t, 9+7, got.End)
	assert.Equal(t, "dddd ee f", got.Context)
}

func TestFindBestAnswer_TiesKeepEarliestChunk(t *testing.T) {
	e := NewEngine(chunker.NewWordChunker(4, 1), extractFunc(
		func(_ context.Context, _, passage string, _ domain.QALimits) (domain.Extraction, error) {
			return domain.Extraction{Answer: passage, Score: 0.5}, nil
		}), DefaultOverride(), zap.NewNop())

	got := e.FindBestAnswer(context.Background(), "aa bbb c dddd ee f", "q")
	assert.Equal(t, "aa bbb c dddd", got.Answer, "equal scores keep the first chunk seen")
}

func TestFindBestAnswer_SkipsFailingChunks(t *testing.T) {
	e := NewEngine(chunker.NewWordChunker(4, 1), extractFunc(
		func(_ context.Context, _, passage string, _ domain.QALimits) (domain.Extraction, error) {
			if strings.HasPrefix(passage, "aa") {
				return domain.Extraction{}, errors.New("model overloaded")
			}
			return domain.Extraction{Answer: "ee", Score: 0.4, Start: 5, End: 7}, nil
		}), DefaultOverride(), zap.NewNop())

	got := e.FindBestAnswer(context.Background(), "aa bbb c dddd ee f", "q")
	assert.Equal(t, "ee", got.Answer)
}

func TestFindBestAnswer_TotalFailureFallback(t *testing.T) {
	e := newTestEngine(extractFunc(
		func(_ context.Context, _, _ string, _ domain.QALimits) (domain.Extraction, error) {
			return domain.Extraction{}, errors.New("down")
		}))

	got := e.FindBestAnswer(context.Background(), "some document text here", "q")
	assert.Equal(t, FallbackAnswer, got.Answer)
	assert.Zero(t, got.Score)
	assert.Zero(t, got.Start)
	assert.Zero(t, got.End)
	assert.Empty(t, got.Context)
}

func TestFindBestAnswer_ZeroScoresNeverWin(t *testing.T) {
	e := newTestEngine(extractFunc(
		func(_ context.Context, _, _ string, _ domain.QALimits) (domain.Extraction, error) {
			return domain.Extraction{Answer: "something", Score: 0}, nil
		}))

	got := e.FindBestAnswer(context.Background(), "some document text here", "q")
	assert.Equal(t, FallbackAnswer, got.Answer)
}

func TestAsk_EmptyDocument(t *testing.T) {
	e := newTestEngine(nil)
	got := e.Ask(context.Background(), "   \n ", "anything?")
	assert.Equal(t, NoDocumentAnswer, got.Text)
	assert.Zero(t, got.Confidence)
	assert.False(t, got.IsComprehensive)
}

func TestAsk_ComprehensiveOverride(t *testing.T) {
	e := newTestEngine(extractFunc(
		func(_ context.Context, _, _ string, _ domain.QALimits) (domain.Extraction, error) {
			t.Fatal("extractor must not run when the override matches")
			return domain.Extraction{}, nil
		}))

	got := e.Ask(context.Background(), "some document", "What is a Transformer?")
	require.True(t, got.IsComprehensive)
	assert.Equal(t, 95.0, got.Confidence)
	assert.Contains(t, got.Text, "Attention Is All You Need")
}

func TestAsk_MarksAnswerInContext(t *testing.T) {
	doc := "The cat sat on the mat. The dog ran in the park."
	e := newTestEngine(extractFunc(
		func(_ context.Context, _, passage string, _ domain.QALimits) (domain.Extraction, error) {
			idx := strings.Index(passage, "mat")
			return domain.Extraction{Answer: "Mat", Score: 0.734, Start: idx, End: idx + 3}, nil
		}))

	got := e.Ask(context.Background(), doc, "Where did the cat sit?")
	assert.Equal(t, "Mat", got.Text)
	assert.Equal(t, 73.4, got.Confidence)
	// Case-insensitive locate keeps the document's own casing.
	assert.Contains(t, got.Context, "<mark>mat</mark>")
	assert.Equal(t, doc, got.FullContext)
}

func TestAsk_FallbackFullContext(t *testing.T) {
	doc := strings.Repeat("word ", 400)
	e := newTestEngine(extractFunc(
		func(_ context.Context, _, _ string, _ domain.QALimits) (domain.Extraction, error) {
			return domain.Extraction{}, errors.New("down")
		}))

	got := e.Ask(context.Background(), doc, "q")
	assert.Equal(t, FallbackAnswer, got.Text)
	assert.Equal(t, "No specific context found.", got.Context)
	assert.Equal(t, doc[:1000], got.FullContext)
}

func TestGenerativeEngine_Ask(t *testing.T) {
	gen := generateFunc(func(_ context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
		assert.Contains(t, prompt, "Question: What is attention?")
		assert.Equal(t, 0.2, opts.Temperature)
		assert.Equal(t, 0.9, opts.TopP)
		assert.Equal(t, 4096, opts.NumCtx)
		return "  Attention weighs token relevance.  ", nil
	})
	e := NewGenerativeEngine(gen, "llama3:instruct")

	got := e.Ask(context.Background(), "Attention weighs token relevance across a sequence.", "What is attention?")
	assert.Equal(t, "Attention weighs token relevance.", got.Text)
	assert.Equal(t, 90.0, got.Confidence)
	assert.True(t, got.IsComprehensive)
	assert.Equal(t, "llama3:instruct", got.Model)
}

func TestGenerativeEngine_ErrorsBecomeAnswers(t *testing.T) {
	e := NewGenerativeEngine(generateFunc(
		func(_ context.Context, _ string, _ domain.GenerateOptions) (string, error) {
			return "", errors.New("connection refused")
		}), "llama3:instruct")

	got := e.Ask(context.Background(), "doc", "q")
	assert.Contains(t, got.Text, "connection refused")
	assert.Zero(t, got.Confidence)
	assert.False(t, got.IsComprehensive)
}

func TestGenerativeEngine_EmptyResponse(t *testing.T) {
	e := NewGenerativeEngine(generateFunc(
		func(_ context.Context, _ string, _ domain.GenerateOptions) (string, error) {
			return "   ", nil
		}), "mistral")

	got := e.Ask(context.Background(), "doc", "q")
	assert.Equal(t, emptyGenerationAnswer, got.Text)
}

func TestGenerativeEngine_LongContextEcho(t *testing.T) {
	doc := strings.Repeat("x", 1500)
	e := NewGenerativeEngine(generateFunc(
		func(_ context.Context, _ string, _ domain.GenerateOptions) (string, error) {
			return "fine", nil
		}), "mistral")

	got := e.Ask(context.Background(), doc, "q")
	assert.Equal(t, doc[:1000]+"...", got.Context)
}

type generateFunc func(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error)

func (f generateFunc) Generate(ctx context.Context, prompt string, opts domain.GenerateOptions) (string, error) {
	return f(ctx, prompt, opts)
}

package qa

import (
	"context"
	"fmt"
	"strings"

	"docqa/internal/domain"
)

const (
	generativeConfidence = 90.0
	contextEchoChars     = 1000
	highlightChars       = 200

	emptyGenerationAnswer = "I couldn't generate a response. The model returned an empty answer."
)

const generativePromptTemplate = `You are a helpful AI assistant. Answer the following question based on the provided context.

Context:
%s

Question: %s

Provide a detailed and accurate answer. If the context doesn't contain enough information, say so.
Answer: `

// GenerativeEngine answers free-form questions with a generative capability
// instead of span extraction. Its answers carry a fixed confidence and are
// flagged comprehensive.
type GenerativeEngine struct {
	generator domain.Generator
	model     string
}

func NewGenerativeEngine(generator domain.Generator, model string) *GenerativeEngine {
	return &GenerativeEngine{generator: generator, model: model}
}

// Ask drafts an answer grounded on the whole document text. Transport
// failures surface as an error-text answer with confidence 0 so the caller
// can render them like any other answer.
func (e *GenerativeEngine) Ask(ctx context.Context, document, question string) domain.Answer {
	if strings.TrimSpace(document) == "" {
		return domain.Answer{Text: NoDocumentAnswer, Model: e.model}
	}
	prompt := fmt.Sprintf(generativePromptTemplate, document, question)
	response, err := e.generator.Generate(ctx, prompt, domain.GenerateOptions{
		Temperature: 0.2,
		TopP:        0.9,
		NumCtx:      4096,
	})
	if err != nil {
		return domain.Answer{
			Text: fmt.Sprintf("Error getting response from the model: %v\n\n"+
				"Make sure the generation backend is running and the model is downloaded.", err),
			Model: e.model,
		}
	}
	answer := strings.TrimSpace(response)
	if answer == "" {
		answer = emptyGenerationAnswer
	}

	echo := document
	if len(echo) > contextEchoChars {
		echo = echo[:contextEchoChars] + "..."
	}
	return domain.Answer{
		Text:            answer,
		Confidence:      generativeConfidence,
		Context:         echo,
		Highlight:       head(answer, highlightChars),
		IsComprehensive: true,
		Model:           e.model,
	}
}

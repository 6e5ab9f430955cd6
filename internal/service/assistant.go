// Package service owns the per-session state of the assistant: the loaded
// document, its summary, the chat transcript, and challenge progress.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"docqa/internal/challenge"
	"docqa/internal/domain"
)

const fullContextChars = 1000

// Asker answers a question about a document. Both the extractive and the
// generative engines satisfy it.
type Asker interface {
	Ask(ctx context.Context, document, question string) domain.Answer
}

// QuestionSource drafts challenge questions for a document.
type QuestionSource interface {
	Questions(ctx context.Context, document string) []domain.QuestionItem
}

// TextExtractor turns a file path into plain document text.
type TextExtractor interface {
	Text(path string) (string, error)
}

// Message is one entry in the chat transcript.
type Message struct {
	Role    string
	Content string
	Answer  *domain.Answer
}

// Session is the state for one loaded document.
type Session struct {
	ID        string
	Path      string
	Document  string
	Summary   string
	Messages  []Message
	Questions []domain.QuestionItem
	Answers   []domain.UserAnswerRecord
	Submitted bool
}

// Assistant wires the capabilities together behind a session.
type Assistant struct {
	extractor  TextExtractor
	asker      Asker
	questions  QuestionSource
	summarizer domain.Summarizer
	fallback   domain.Summarizer
	log        *zap.Logger
	session    Session
}

func New(extractor TextExtractor, asker Asker, questions QuestionSource, summarizer, fallback domain.Summarizer, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{
		extractor:  extractor,
		asker:      asker,
		questions:  questions,
		summarizer: summarizer,
		fallback:   fallback,
		log:        log,
	}
}

// Session returns the current session state.
func (a *Assistant) Session() *Session { return &a.session }

// LoadDocument extracts text from a file, summarizes it, and resets the
// session around the new document.
func (a *Assistant) LoadDocument(ctx context.Context, path string) error {
	text, err := a.extractor.Text(path)
	if err != nil {
		return err
	}
	if err := a.LoadText(ctx, text); err != nil {
		return err
	}
	a.session.Path = path
	return nil
}

// LoadText starts a fresh session for the given document text.
func (a *Assistant) LoadText(ctx context.Context, text string) error {
	if text == "" {
		return eris.New("document is empty")
	}
	summary, err := a.summarizer.Summarize(ctx, text)
	if err != nil {
		if a.fallback == nil {
			return eris.Wrap(err, "summarizing document")
		}
		a.log.Warn("remote summarization failed, using fallback", zap.Error(err))
		summary, err = a.fallback.Summarize(ctx, text)
		if err != nil {
			return eris.Wrap(err, "summarizing document")
		}
	}
	a.session = Session{
		ID:       uuid.NewString(),
		Document: text,
		Summary:  summary,
	}
	a.log.Info("document loaded",
		zap.String("session_id", a.session.ID),
		zap.Int("chars", len(text)))
	return nil
}

// Ask answers a question and appends both sides to the transcript.
func (a *Assistant) Ask(ctx context.Context, question string) domain.Answer {
	answer := a.asker.Ask(ctx, a.session.Document, question)
	a.session.Messages = append(a.session.Messages,
		Message{Role: "user", Content: question},
		Message{Role: "assistant", Content: answer.Text, Answer: &answer},
	)
	return answer
}

// StartChallenge generates a fresh set of challenge questions and clears
// any previous answers.
func (a *Assistant) StartChallenge(ctx context.Context) ([]domain.QuestionItem, error) {
	if a.session.Document == "" {
		return nil, eris.New("no document loaded")
	}
	items := a.questions.Questions(ctx, a.session.Document)
	a.session.Questions = items
	a.session.Answers = make([]domain.UserAnswerRecord, len(items))
	for i := range a.session.Answers {
		a.session.Answers[i].Context = items[i].Context
	}
	a.session.Submitted = false
	return items, nil
}

// RecordAnswer updates the stored answer text for one question.
func (a *Assistant) RecordAnswer(index int, text string) {
	if index < 0 || index >= len(a.session.Answers) {
		return
	}
	a.session.Answers[index].Answer = text
}

// SubmitAnswers grades every recorded answer. All questions must be
// answered first.
func (a *Assistant) SubmitAnswers() ([]domain.UserAnswerRecord, error) {
	if len(a.session.Questions) == 0 {
		return nil, eris.New("no challenge in progress")
	}
	for _, rec := range a.session.Answers {
		if strings.TrimSpace(rec.Answer) == "" {
			return nil, eris.New("please answer all questions before submitting")
		}
	}
	for i, item := range a.session.Questions {
		result := challenge.Evaluate(item, a.session.Answers[i].Answer)
		result.FullContext = item.Context
		if result.FullContext == "" {
			result.FullContext = head(a.session.Document, fullContextChars)
		}
		a.session.Answers[i].Evaluation = &result
	}
	a.session.Submitted = true
	return a.session.Answers, nil
}

// ResetAnswers clears recorded answers and verdicts, keeping the questions.
func (a *Assistant) ResetAnswers() {
	for i := range a.session.Answers {
		a.session.Answers[i] = domain.UserAnswerRecord{Context: a.session.Questions[i].Context}
	}
	a.session.Submitted = false
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

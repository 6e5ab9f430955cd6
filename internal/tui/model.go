package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/highlight"
	"docqa/internal/service"
)

type mode int

const (
	modeChat mode = iota
	modeChallenge
)

// Model is the Bubble Tea model for the assistant.
type Model struct {
	assistant *service.Assistant
	input     textinput.Model
	viewport  viewport.Model
	mode      mode
	status    string
	qIndex    int
	ready     bool
}

// New creates the TUI around a loaded assistant session.
func New(assistant *service.Assistant) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about the document"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		assistant: assistant,
		input:     ti,
		viewport:  vp,
		status:    "Document loaded. Ask away, or press Tab for challenge mode.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := boxStyle.GetFrameSize()
		reserved := 4 + bh // header + summary + status + input frame + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderBody())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab":
			return m.toggleMode()
		case "enter":
			return m.submitInput()
		case "ctrl+s":
			if m.mode == modeChallenge {
				return m.submitAnswers()
			}
		case "ctrl+r":
			if m.mode == modeChallenge {
				m.assistant.ResetAnswers()
				m.qIndex = 0
				m.status = "Answers reset."
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "up":
			if m.mode == modeChallenge && m.qIndex > 0 {
				m.qIndex--
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		case "down":
			if m.mode == modeChallenge && m.qIndex < len(m.assistant.Session().Questions)-1 {
				m.qIndex++
				m.viewport.SetContent(m.renderBody())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) toggleMode() (tea.Model, tea.Cmd) {
	if m.mode == modeChat {
		m.mode = modeChallenge
		m.input.Placeholder = "Type your answer and press Enter"
		if len(m.assistant.Session().Questions) == 0 {
			m.status = "Generating challenge questions..."
			if _, err := m.assistant.StartChallenge(context.Background()); err != nil {
				m.status = "Error: " + err.Error()
			} else {
				m.status = "Answer each question, then Ctrl+S to submit. Ctrl+R resets."
			}
		}
		m.qIndex = 0
	} else {
		m.mode = modeChat
		m.input.Placeholder = "Ask a question about the document"
		m.status = "Chat mode. Press Tab for challenge mode."
	}
	m.viewport.SetContent(m.renderBody())
	return m, nil
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.SetValue("")
	switch m.mode {
	case modeChat:
		answer := m.assistant.Ask(context.Background(), text)
		m.status = fmt.Sprintf("Answered with %.1f%% confidence", answer.Confidence)
		if answer.IsComprehensive {
			m.status = "Answered"
		}
	case modeChallenge:
		m.assistant.RecordAnswer(m.qIndex, text)
		m.status = fmt.Sprintf("Recorded answer for Q%d", m.qIndex+1)
		if m.qIndex < len(m.assistant.Session().Questions)-1 {
			m.qIndex++
		}
	}
	m.viewport.SetContent(m.renderBody())
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) submitAnswers() (tea.Model, tea.Cmd) {
	if _, err := m.assistant.SubmitAnswers(); err != nil {
		m.status = "Error: " + err.Error()
	} else {
		m.status = "Answers graded. Ctrl+R to try again."
	}
	m.viewport.SetContent(m.renderBody())
	return m, nil
}

// View renders the layout and current body.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := "Document Q&A"
	if m.mode == modeChallenge {
		title = "Challenge Mode"
	}
	header := headerStyle.Render(title)
	summary := summaryStyle.Render(truncate(m.assistant.Session().Summary, m.viewport.Width))
	body := m.viewport.View()
	input := boxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + body + "\n" + input + "\n" + status
}

func (m Model) renderBody() string {
	if m.mode == modeChallenge {
		return m.renderChallenge()
	}
	return m.renderChat()
}

func (m Model) renderChat() string {
	msgs := m.assistant.Session().Messages
	if len(msgs) == 0 {
		return "No questions yet."
	}
	var b strings.Builder
	for _, msg := range msgs {
		if msg.Role == "user" {
			b.WriteString(userStyle.Render("You: ") + msg.Content + "\n\n")
			continue
		}
		b.WriteString(assistantStyle.Render("Assistant: ") + msg.Content + "\n")
		if a := msg.Answer; a != nil && !a.IsComprehensive {
			b.WriteString(confidenceLine(a.Confidence) + "\n")
			if a.Context != "" {
				b.WriteString(contextStyle.Render("Source: ") + renderMarks(a.Context) + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderChallenge() string {
	sess := m.assistant.Session()
	if len(sess.Questions) == 0 {
		return "No challenge questions yet."
	}
	var b strings.Builder
	for i, q := range sess.Questions {
		marker := "  "
		if i == m.qIndex {
			marker = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%sQ%d: %s\n", marker, i+1, q.Question))
		rec := sess.Answers[i]
		if rec.Answer != "" {
			b.WriteString("    Your answer: " + rec.Answer + "\n")
		}
		if rec.Evaluation != nil {
			if rec.Evaluation.IsCorrect {
				b.WriteString("    " + correctStyle.Render(rec.Evaluation.Feedback) + "\n")
			} else {
				b.WriteString("    " + incorrectStyle.Render(rec.Evaluation.Feedback) + "\n")
			}
			b.WriteString("    " + contextStyle.Render("Reference: ") + renderMarks(rec.Evaluation.Reference) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func confidenceLine(confidence float64) string {
	style := lowConfStyle
	switch {
	case confidence > 70:
		style = highConfStyle
	case confidence > 30:
		style = medConfStyle
	}
	return contextStyle.Render("Confidence: ") + style.Render(fmt.Sprintf("%.1f%%", confidence))
}

// renderMarks swaps the core's mark tags for terminal highlighting.
func renderMarks(text string) string {
	for {
		open := strings.Index(text, highlight.MarkOpen)
		if open < 0 {
			return text
		}
		end := strings.Index(text[open:], highlight.MarkClose)
		if end < 0 {
			return text
		}
		end += open
		inner := text[open+len(highlight.MarkOpen) : end]
		text = text[:open] + markStyle.Render(inner) + text[end+len(highlight.MarkClose):]
	}
}

func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width > 3 && len(s) > width {
		return s[:width-3] + "..."
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	contextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	highConfStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	medConfStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	lowConfStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	markStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

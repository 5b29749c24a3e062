package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/app"
	"github.com/UmaMaheswariAchanta/Q-A-Tutor-Agent/internal/domain"
)

// Answerer is the chat-facing subset of the answer service.
type Answerer interface {
	Answer(ctx context.Context, prompt string) domain.Answer
}

type exchange struct {
	prompt string
	answer domain.Answer
}

// answerMsg carries a finished answer back into Update.
type answerMsg struct {
	prompt string
	answer domain.Answer
}

// Model is the Bubble Tea model for the terminal chat.
type Model struct {
	ctx      context.Context
	service  Answerer
	input    textinput.Model
	viewport viewport.Model
	history  []exchange
	status   string
	waiting  bool
	ready    bool
}

// New creates a chat model. Answers are requested with ctx.
func New(ctx context.Context, service Answerer) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	return Model{ctx: ctx, service: service, input: ti, viewport: viewport.New(0, 0), status: "Ready."}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, hh := historyBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-hh)
		m.refresh()
		return m, nil
	case answerMsg:
		m.waiting = false
		m.history = append(m.history, exchange{prompt: msg.prompt, answer: msg.answer})
		m.status = "Answered from " + sourceKind(msg.answer)
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			prompt := strings.TrimSpace(m.input.Value())
			if prompt == "" || m.waiting {
				return m, nil
			}
			m.input.SetValue("")
			m.waiting = true
			m.status = fmt.Sprintf("Thinking about %q...", prompt)
			return m, m.ask(prompt)
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Q&A Tutor")
	history := historyBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + history + "\n" + input + "\n" + status
}

func (m Model) ask(prompt string) tea.Cmd {
	ctx, service := m.ctx, m.service
	return func() tea.Msg {
		return answerMsg{prompt: prompt, answer: service.Answer(ctx, prompt)}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderHistory(m.history))
}

func renderHistory(history []exchange) string {
	if len(history) == 0 {
		return "No questions yet."
	}
	var b strings.Builder
	for i, ex := range history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(promptStyle.Render("You: " + ex.prompt))
		b.WriteString("\n")
		b.WriteString(ex.answer.Response)
		if ex.answer.Source != "" {
			b.WriteString("\n")
			b.WriteString(sourceStyle.Render(ex.answer.Source))
		}
	}
	return b.String()
}

// sourceKind labels where an answer came from for the status line.
func sourceKind(a domain.Answer) string {
	switch {
	case a.Source == app.SearchFailureSource:
		return "nowhere (search failed)"
	case strings.Contains(a.Source, "[URL:"):
		return "the web"
	default:
		return "course notes"
	}
}

var (
	historyBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sourceStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

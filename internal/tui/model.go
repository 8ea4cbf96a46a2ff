package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pdfchat/internal/service"
)

// ChatPort is the TUI-facing subset of the RAG service.
type ChatPort interface {
	Open(ctx context.Context) (service.OpenReport, error)
	Rebuild(ctx context.Context) (service.OpenReport, error)
	Ask(ctx context.Context, question string) (string, error)
}

const (
	title          = "Chat with PDF"
	inputLabel     = "Ask a Question from the PDF files:"
	loadingText    = "Loading vector store..."
	rebuildingText = "Rebuilding index..."
	generatingText = "Generating response..."
	rebuildWarning = "Could not load index. Regenerating..."
	loadedText     = "Vector store loaded."
)

type openedMsg struct {
	report service.OpenReport
	err    error
}

type answerMsg struct {
	question string
	answer   string
	err      error
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	service  ChatPort
	rebuild  bool
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	loading bool
	busy    bool
	ready   bool

	warning   string
	status    string
	content   string
	answerErr bool
}

// New creates the chat model. With rebuild set the stored index is ignored.
func New(svc ChatPort, rebuild bool) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		service:  svc,
		rebuild:  rebuild,
		input:    ti,
		viewport: viewport.New(80, 10),
		spinner:  sp,
		loading:  true,
	}
}

// Init starts loading the index in the background.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.open())
}

func (m Model) open() tea.Cmd {
	svc, rebuild := m.service, m.rebuild
	return func() tea.Msg {
		ctx := context.Background()
		if rebuild {
			report, err := svc.Rebuild(ctx)
			return openedMsg{report: report, err: err}
		}
		report, err := svc.Open(ctx)
		return openedMsg{report: report, err: err}
	}
}

func (m Model) ask(question string) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		answer, err := svc.Ask(context.Background(), question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

// Update handles key, window and background events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		fw, fh := answerBoxStyle.GetFrameSize()
		// title, status lines, label, input, spinner, spacer
		reserved := 8 + fh
		m.viewport.Width = maxInt(20, msg.Width-fw)
		m.viewport.Height = maxInt(3, msg.Height-reserved)
		m.viewport.SetContent(m.wrapped())
		return m, nil

	case openedMsg:
		m.loading = false
		// an explicit rebuild never tried to load
		if msg.report.Rebuilt && !m.rebuild {
			m.warning = rebuildWarning
		}
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.ready = true
		m.status = fmt.Sprintf("%s (%d documents)", loadedText, msg.report.Documents)
		return m, nil

	case answerMsg:
		m.busy = false
		m.answerErr = msg.err != nil
		if msg.err != nil {
			m.content = "Error: " + msg.err.Error()
		} else {
			m.content = msg.answer
		}
		m.viewport.SetContent(m.wrapped())
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.loading && !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the current question unless one is already in flight.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.ready || m.busy {
		return m, nil
	}
	q := strings.TrimSpace(m.input.Value())
	if q == "" {
		return m, nil
	}
	m.busy = true
	m.content = ""
	m.viewport.SetContent("")
	return m, tea.Batch(m.ask(q), m.spinner.Tick)
}

// View renders the chat screen.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if m.warning != "" {
		b.WriteString(warningStyle.Render(m.warning))
		b.WriteString("\n")
	}
	switch {
	case m.loading && m.rebuild:
		b.WriteString(m.spinner.View() + " " + rebuildingText)
	case m.loading:
		b.WriteString(m.spinner.View() + " " + loadingText)
	case strings.HasPrefix(m.status, "Error: "):
		b.WriteString(errorStyle.Render(m.status))
	default:
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(inputLabel)
	b.WriteString("\n")
	b.WriteString(inputBoxStyle.Render(m.input.View()))
	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spinner.View() + " " + generatingText + "\n")
	}
	if m.content != "" {
		b.WriteString(answerBoxStyle.Render(m.viewport.View()))
	}
	return b.String()
}

func (m Model) wrapped() string {
	style := answerStyle
	if m.answerErr {
		style = errorStyle
	}
	if m.viewport.Width > 0 {
		style = style.Width(m.viewport.Width)
	}
	return style.Render(m.content)
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	answerStyle    = lipgloss.NewStyle()
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/tdiff.go/cli"
	"github.com/sokinpui/tdiff.go/internal/render"
	"github.com/sokinpui/tdiff.go/model"
	"github.com/sokinpui/tdiff.go/tdiff"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")) // Mauve
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))             // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))            // Red
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// chromeHeight is the header and footer lines around the viewport.
const chromeHeight = 3

// --- Messages ---
type reportMsg struct {
	model.Report
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

type copiedMsg struct{ err error }

// Runner produces the report the viewer shows.
type Runner interface {
	Execute() (model.Report, error)
	CopyPrompt(result *model.Result) error
}

// --- Model ---
type Model struct {
	app      Runner
	spinner  spinner.Model
	viewport viewport.Model
	styles   render.Styles
	state    state
	report   model.Report
	view     string
	width    int
	status   string
	err      error
}

type state int

const (
	stateProcessing state = iota
	stateViewing
	stateError
)

func New(app Runner, cfg *cli.Config, styles render.Styles) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		app:      app,
		spinner:  s,
		viewport: viewport.New(80, 20),
		styles:   styles,
		state:    stateProcessing,
		view:     cfg.View,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.state == stateViewing {
				m.view = render.NextView(m.view)
				m.status = ""
				m.refresh()
			}
			return m, nil
		case "y":
			if m.state == stateViewing {
				return m, m.copyPrompt
			}
			return m, nil
		}
		if m.state == stateViewing {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case reportMsg:
		m.report = msg.Report
		if m.report.Result == nil {
			m.state = stateError
			m.err = errors.New("nothing to compare")
			return m, tea.Quit
		}
		m.state = stateViewing
		m.status = m.report.Message
		m.refresh()
		return m, nil

	case errorMsg:
		m.state = stateError
		m.err = msg
		return m, tea.Quit

	case copiedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Copy failed: " + msg.err.Error())
		} else {
			m.status = successStyle.Render("Review prompt copied to clipboard.")
		}
		return m, nil

	default:
		var cmd tea.Cmd
		switch m.state {
		case stateProcessing:
			m.spinner, cmd = m.spinner.Update(msg)
		case stateViewing:
			m.viewport, cmd = m.viewport.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) refresh() {
	if m.report.Result == nil {
		return
	}
	m.viewport.SetContent(render.View(m.view, m.report.Result.Spans, m.styles, m.width))
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		return fmt.Sprintf("%s Comparing...", m.spinner.View())
	case stateError:
		return errorStyle.Render("Error: " + m.err.Error())
	case stateViewing:
		return m.renderViewer()
	default:
		return ""
	}
}

func (m *Model) renderViewer() string {
	r := m.report.Result
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s → %s", r.Pair.Original.Label, r.Pair.Modified.Label)))
	b.WriteString("  ")
	b.WriteString(faintStyle.Render(render.StatsLine(r)))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	footer := fmt.Sprintf("[%s] tab: view · y: copy review prompt · q: quit", m.view)
	b.WriteString(faintStyle.Render(footer))
	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(m.status)
	}
	return b.String()
}

func (m Model) runApp() tea.Msg {
	report, err := m.app.Execute()
	if err != nil {
		// Check for detailed error to print stack
		var e *tdiff.DetailedError
		if errors.As(err, &e) {
			// The TUI will exit, so we can print to stderr here for the stack trace.
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", e.Stack)
		}
		return errorMsg{err}
	}
	return reportMsg{Report: report}
}

func (m Model) copyPrompt() tea.Msg {
	return copiedMsg{err: m.app.CopyPrompt(m.report.Result)}
}

// Err is the error the program ended with, if any.
func (m Model) Err() error {
	return m.err
}

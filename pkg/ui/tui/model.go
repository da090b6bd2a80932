package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"igengage/pkg/engagement"
)

// Checker runs one engagement check
type Checker interface {
	Check(ctx context.Context, username string) (*engagement.Report, error)
}

// State is the phase the form is in
type State int

const (
	StateEditing State = iota
	StateFetching
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateFetching:
		return "fetching"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Model is the form: one username input and one action
type Model struct {
	ctx       context.Context
	checker   Checker
	precision int

	input   textinput.Model
	spinner spinner.Model

	state   State
	pending string
	report  *engagement.Report
	errText string
	warning string
	width   int
}

// NewModel creates the form. precision controls how the rate is printed.
func NewModel(ctx context.Context, checker Checker, precision int) Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. natgeo"
	ti.Prompt = "› "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(neonMagenta)
	ti.CharLimit = 64
	ti.Width = 32
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	if ctx == nil {
		ctx = context.Background()
	}

	return Model{
		ctx:       ctx,
		checker:   checker,
		precision: precision,
		input:     ti,
		spinner:   s,
		state:     StateEditing,
	}
}

// Init starts the cursor blinking
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// State returns the current phase
func (m Model) State() State { return m.state }

// Report returns the last successful check, if any
func (m Model) Report() *engagement.Report { return m.report }

// SetUsername prefills the input
func (m *Model) SetUsername(username string) {
	m.input.SetValue(username)
	m.input.CursorEnd()
}

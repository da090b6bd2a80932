package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"igengage/pkg/engagement"
	"igengage/pkg/errors"
	"igengage/pkg/ui"
)

// CheckResultMsg carries the outcome of a check back to the form
type CheckResultMsg struct {
	Username string
	Report   *engagement.Report
	Err      error
}

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.state != StateFetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CheckResultMsg:
		return m.handleResult(msg), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyEnter:
		if m.state == StateFetching {
			return m, nil
		}
		return m.submit()
	}

	if m.state == StateFetching {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit validates the input and starts a check
func (m Model) submit() (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(m.input.Value())
	if username == "" {
		m.state = StateEditing
		m.warning = ui.MsgInvalidUsername
		m.report = nil
		m.errText = ""
		return m, nil
	}

	m.state = StateFetching
	m.pending = username
	m.warning = ""
	m.errText = ""
	return m, tea.Batch(m.spinner.Tick, m.checkCmd(username))
}

// checkCmd runs the check off the UI goroutine
func (m Model) checkCmd(username string) tea.Cmd {
	ctx, checker := m.ctx, m.checker
	return func() tea.Msg {
		report, err := checker.Check(ctx, username)
		return CheckResultMsg{Username: username, Report: report, Err: err}
	}
}

func (m Model) handleResult(msg CheckResultMsg) Model {
	// A result for an input that is no longer pending is stale
	if m.state != StateFetching || msg.Username != m.pending {
		return m
	}
	m.pending = ""

	switch {
	case msg.Err == nil && msg.Report != nil:
		m.state = StateDone
		m.report = msg.Report
	case errors.Is(msg.Err, errors.ErrEmptyUsername):
		m.state = StateEditing
		m.report = nil
		m.warning = ui.MsgInvalidUsername
	default:
		err := msg.Err
		if err == nil {
			err = errors.New(errors.ErrorTypeUnknown, 0, "empty result")
		}
		m.state = StateFailed
		m.report = nil
		m.errText = ui.ErrorPrefix + ui.ErrorMessage(err)
	}
	return m
}

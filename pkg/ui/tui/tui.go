package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the form on the terminal and blocks until the user quits or ctx ends
func Run(ctx context.Context, checker Checker, precision int, username string, opts ...tea.ProgramOption) error {
	model := NewModel(ctx, checker, precision)
	if username != "" {
		model.SetUsername(username)
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("form ui: %w", err)
	}
	return nil
}

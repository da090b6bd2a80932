package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"igengage/pkg/ui"
)

const logo = "📊 Instagram Engagement Rate Checker"

// View renders the form and the outcome of the last check
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(logoStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Enter Instagram username (public profile only):"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch m.state {
	case StateFetching:
		b.WriteString(m.spinner.View() + " Fetching data...")
		b.WriteString("\n")
	case StateDone:
		b.WriteString(m.renderReport())
		b.WriteString("\n")
	case StateFailed:
		b.WriteString(errorStyle.Render(m.errText))
		b.WriteString("\n")
	}

	if m.warning != "" {
		b.WriteString(warningStyle.Render(m.warning))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter: check engagement rate • esc: quit"))
	b.WriteString("\n")
	return b.String()
}

// renderReport renders the result panel
func (m Model) renderReport() string {
	lines := ui.ReportLines(m.report, m.precision)

	rows := []string{
		titleStyle.Render(" ENGAGEMENT "),
		"",
		successStyle.Render(lines[0].Value),
	}
	for _, l := range lines[1:] {
		rows = append(rows, statsLabelStyle.Render(l.Label+":")+" "+statsValueStyle.Render(l.Value))
	}
	rows = append(rows, RatingStyle(m.report.Rating).Render(string(m.report.Rating)), "")
	for _, l := range ui.InsightLines(m.report) {
		rows = append(rows, insightLabelStyle.Render(l.Label+":")+" "+statsValueStyle.Render(l.Value))
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

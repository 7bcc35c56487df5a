package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderHelp() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Help")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	form := []string{
		"  Tab / Shift+Tab   Next / previous field",
		"  Enter             Next field, next step on the last one",
		"  Ctrl+N / Ctrl+P   Next / previous step",
		"  Left / Right      Change a picker",
		"  Space             Toggle \"new to the field\"",
		"  Ctrl+S            Generate",
		"  Ctrl+O            History",
		"  Ctrl+E            Settings",
	}
	b.WriteString(a.helpSection("Form", form))

	other := []string{
		"  c                 Copy subject and body",
		"  r                 Regenerate with the same details",
		"  h                 Open history (from a result)",
		"  Enter             Reuse a history entry",
		"  d / x             Delete entry / clear history",
		"  Esc               Back, cancel a running generation",
		"  Ctrl+C            Quit",
	}
	b.WriteString(a.helpSection("Results and history", other))

	b.WriteString(a.renderStatus("[Esc] Back"))

	return a.centerVertically(b.String())
}

func (a *App) helpSection(name string, lines []string) string {
	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, styleSubtitle.Render(name)))
	b.WriteString("\n\n")
	box := styleBox.
		Width(a.boxWidth(60)).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")
	return b.String()
}

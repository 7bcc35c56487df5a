package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderProcessing() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Writing your email")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	if req := a.state.lastRequest; req != nil {
		info := styleSubtitle.Render(truncate(req.Target+" at "+req.Company, 60))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, info))
		b.WriteString("\n\n")
	}

	line := a.state.spinner.View() + " Asking " + a.primaryName()
	box := styleBox.
		Width(a.boxWidth(50)).
		BorderForeground(colorSecondary).
		Render(line)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	b.WriteString(a.renderStatus("[Esc] Cancel"))

	return a.centerVertically(b.String())
}

func (a *App) primaryName() string {
	if len(a.state.providers) > 0 {
		return a.state.providers[0].Name()
	}
	return a.deps.Config.Primary.Name()
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderResult() string {
	var b strings.Builder

	result := a.state.result
	if result == nil {
		return a.renderForm()
	}

	titleColor := colorSuccess
	heading := "Your email is ready"
	if a.state.failed {
		titleColor = colorError
		heading = "Something went wrong"
	}
	title := lipgloss.NewStyle().Foreground(titleColor).Bold(true).Render(heading)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	subject := styleTitle.Render("Subject: ") + result.Subject

	// Leave room for the title, subject and status lines
	body := result.Body
	maxLines := a.height - 12
	if maxLines < 5 {
		maxLines = 5
	}
	if lines := strings.Split(body, "\n"); len(lines) > maxLines {
		body = strings.Join(lines[:maxLines], "\n") + "\n" + styleSubtitle.Render("... (copy to see the full email)")
	}

	border := colorPrimary
	if a.state.failed {
		border = colorError
	}
	box := styleBox.
		Width(a.boxWidth(76)).
		BorderForeground(border).
		Render(subject + "\n\n" + body)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	b.WriteString(a.renderStatus("[c] Copy  [r] Regenerate  [h] History  [n] New  [Esc] Back"))

	return a.centerVertically(b.String())
}

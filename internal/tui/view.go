package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.view {
	case viewSetup:
		return a.renderSetup()
	case viewProcessing:
		return a.renderProcessing()
	case viewResult:
		return a.renderResult()
	case viewHistory:
		return a.renderHistory()
	case viewSettings:
		return a.renderSettings()
	case viewHelp:
		return a.renderHelp()
	default:
		return a.renderForm()
	}
}

// renderStatus renders the key hints, or the flash message when one is set
func (a *App) renderStatus(hints string) string {
	line := styleStatusBar.Render(hints)
	if a.state.flash != "" {
		line = styleFlash.Render(a.state.flash) + "\n" + line
	}
	return lipgloss.PlaceHorizontal(a.width, lipgloss.Center, line)
}

func (a *App) centerVertically(content string) string {
	lines := strings.Count(content, "\n") + 1
	padding := (a.height - lines) / 2
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat("\n", padding) + content
}

func (a *App) boxWidth(limit int) int {
	return min(limit, max(a.width-4, 20))
}

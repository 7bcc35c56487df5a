package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (a *App) renderForm() string {
	var b strings.Builder
	f := a.state.form

	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	// Step indicator
	var steps []string
	for i, s := range f.steps {
		label := fmt.Sprintf("%d. %s", i+1, s.title)
		switch {
		case i == f.step:
			steps = append(steps, styleFocused.Render("["+label+"]"))
		case i < f.step:
			steps = append(steps, lipgloss.NewStyle().Foreground(colorSuccess).Render(label))
		default:
			steps = append(steps, styleSubtitle.Render(label))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, strings.Join(steps, "  ")))
	b.WriteString("\n\n")

	var lines []string
	for i, fd := range f.steps[f.step].fields {
		focused := i == f.focus
		lines = append(lines, renderLabel(fd, focused, f.missing[fd.name]))
		lines = append(lines, renderField(fd, focused))
		lines = append(lines, "")
	}

	box := styleBox.
		Width(a.boxWidth(64)).
		BorderForeground(colorPrimary).
		Render(strings.TrimRight(strings.Join(lines, "\n"), "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	if a.state.connectErr != nil {
		warn := styleInvalid.Render("Endpoints not ready: " + truncate(a.state.connectErr.Error(), 60))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, warn))
		b.WriteString("\n")
	}

	hints := "[Tab] Next field  [Ctrl+N/P] Step  [Ctrl+S] Generate  [Ctrl+O] History  [F1] Help  [Esc] Quit"
	b.WriteString(a.renderStatus(hints))

	return a.centerVertically(b.String())
}

func renderLabel(fd *field, focused, missing bool) string {
	label := fd.label
	if fd.required {
		label += " *"
	}
	switch {
	case missing:
		return styleInvalid.Render(label + "  (required)")
	case focused:
		return styleFocused.Render(label)
	default:
		return styleLabel.Render(label)
	}
}

func renderField(fd *field, focused bool) string {
	switch fd.kind {
	case fieldToggle:
		box := "[ ]"
		if fd.on {
			box = "[x]"
		}
		text := box + " I'm just starting out"
		if focused {
			return styleFocused.Render(text) + styleSubtitle.Render("  space to toggle")
		}
		return styleSubtitle.Render(text)

	case fieldChoice:
		v := fd.value()
		if v == "" {
			v = "(none)"
		}
		if focused {
			return styleFocused.Render("< "+v+" >") + styleSubtitle.Render(fmt.Sprintf("  %d/%d", fd.choice+1, len(fd.options)))
		}
		return styleSubtitle.Render("  " + v)
	}
	return fd.input.View()
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/coldpitch/internal/config"
)

func (a *App) handleSetupKey(msg tea.KeyMsg) tea.Cmd {
	switch a.state.setupStep {
	case 0: // Primary endpoint selection
		switch {
		case key.Matches(msg, keys.Up):
			if a.state.selectedPreset > 0 {
				a.state.selectedPreset--
			}
		case key.Matches(msg, keys.Down):
			if a.state.selectedPreset < len(config.Presets)-1 {
				a.state.selectedPreset++
			}
		case key.Matches(msg, keys.Enter):
			a.state.setupStep = 1
			return a.state.apiKeyInput.Focus()
		case key.Matches(msg, keys.Back):
			if a.deps.NeedsSetup {
				a.quitting = true
				return tea.Quit
			}
			a.view = viewSettings
		}

	case 1: // Token entry
		switch {
		case key.Matches(msg, keys.Enter):
			preset := config.Presets[a.state.selectedPreset]
			a.deps.Config.Primary.Preset = preset.ID
			a.deps.Config.Primary.BaseURL = ""
			a.deps.Config.Primary.Model = preset.DefaultModel
			if v := strings.TrimSpace(a.state.apiKeyInput.Value()); v != "" {
				a.deps.Config.APIKey = v
			}
			return a.finishSetup()
		case key.Matches(msg, keys.Back):
			a.state.setupStep = 0
			a.state.apiKeyInput.Reset()
			a.state.apiKeyInput.Blur()
			return nil
		}

		var cmd tea.Cmd
		a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
		return cmd
	}

	return nil
}

func (a *App) finishSetup() tea.Cmd {
	cfg, path := a.deps.Config, a.deps.ConfigPath
	return func() tea.Msg {
		save := cfg.Save
		if path != "" {
			save = func() error { return cfg.SaveTo(path) }
		}
		if err := save(); err != nil {
			return setupErrorMsg{err}
		}
		return setupCompleteMsg{}
	}
}

func (a *App) renderSetup() string {
	switch a.state.setupStep {
	case 1:
		return a.renderTokenEntry()
	default:
		return a.renderPresetSelection()
	}
}

func (a *App) renderPresetSelection() string {
	var b strings.Builder

	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	title := styleTitle.Render("Choose the endpoint to write with:")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	var lines []string
	for i, p := range config.Presets {
		if i == a.state.selectedPreset {
			lines = append(lines, styleFocused.Render(fmt.Sprintf("> [x] %-14s %s", p.Name, p.Description)))
		} else {
			lines = append(lines, styleSubtitle.Render(fmt.Sprintf("  [ ] %-14s %s", p.Name, p.Description)))
		}
	}

	box := styleBox.
		Width(a.boxWidth(56)).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	fallback := styleSubtitle.Render("Fallback: " + a.deps.Config.Fallback.Name() + " " + a.deps.Config.Fallback.Model)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, fallback))
	b.WriteString("\n\n")

	b.WriteString(a.renderStatus("[j/k] Navigate  [Enter] Select  [Esc] Quit"))

	return a.centerVertically(b.String())
}

func (a *App) renderTokenEntry() string {
	var b strings.Builder

	preset := config.Presets[a.state.selectedPreset]

	header := styleLogo.Render(logo)
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, header))
	b.WriteString("\n\n")

	title := styleTitle.Render(fmt.Sprintf("Enter your %s token:", preset.Name))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	if preset.SignupURL != "" {
		link := styleSubtitle.Render(fmt.Sprintf("Get one at: %s", preset.SignupURL))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, link))
		b.WriteString("\n\n")
	}

	input := styleBox.
		Width(a.boxWidth(60)).
		BorderForeground(colorSecondary).
		Render(a.state.apiKeyInput.View())
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, input))
	b.WriteString("\n\n")

	if a.state.setupError != nil {
		errLine := styleInvalid.Render("Could not save config: " + truncate(a.state.setupError.Error(), 50))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, errLine))
		b.WriteString("\n\n")
	}

	hint := "[Enter] Save  [Esc] Back"
	if a.deps.Config.APIKey != "" {
		hint = "[Enter] Save (empty keeps the current token)  [Esc] Back"
	}
	b.WriteString(a.renderStatus(hint))

	return a.centerVertically(b.String())
}

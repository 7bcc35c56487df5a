package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/coldpitch/internal/config"
	"github.com/sant0-9/coldpitch/internal/llm"
)

func (a *App) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Back) {
		a.view = viewForm
		return a.state.form.focusField(a.state.form.focus)
	}

	switch msg.String() {
	case "p":
		if a.state.pinging || len(a.state.providers) == 0 {
			return nil
		}
		a.state.pinging = true
		a.state.pings = nil
		return a.ping(a.state.providers)
	case "k":
		a.state.setupStep = 0
		a.state.setupError = nil
		a.view = viewSetup
	}
	return nil
}

func (a *App) ping(providers []llm.Provider) tea.Cmd {
	parent := a.ctx
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, 10*time.Second)
		defer cancel()

		results := make([]pingResult, len(providers))
		for i, p := range providers {
			results[i] = pingResult{name: p.Name(), err: p.Ping(ctx)}
		}
		return pingMsg{results: results}
	}
}

func (a *App) renderSettings() string {
	var b strings.Builder
	cfg := a.deps.Config

	title := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true).
		Render("Settings")
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	token, ok := cfg.Token()
	masked := config.MaskToken(token)
	if !ok {
		masked = "Not set (sending placeholder)"
	}

	lines := []string{
		fmt.Sprintf("  Primary:  %s  %s", cfg.Primary.Name(), cfg.Primary.Model),
		fmt.Sprintf("  Fallback: %s  %s", cfg.Fallback.Name(), cfg.Fallback.Model),
		fmt.Sprintf("  Token:    %s", masked),
		fmt.Sprintf("  Timeout:  %s", cfg.Timeout),
		fmt.Sprintf("  Storage:  %s", cfg.Storage.Backend),
	}

	box := styleBox.
		Width(a.boxWidth(60)).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	if a.state.pinging || len(a.state.pings) > 0 {
		var status []string
		if a.state.pinging {
			status = append(status, styleSubtitle.Render("  Checking endpoints..."))
		}
		for _, p := range a.state.pings {
			if p.err != nil {
				status = append(status, styleInvalid.Render(fmt.Sprintf("  [!] %s: %s", p.name, truncate(p.err.Error(), 45))))
			} else {
				status = append(status, lipgloss.NewStyle().Foreground(colorSuccess).Render(fmt.Sprintf("  [x] %s reachable", p.name)))
			}
		}
		pingBox := styleBox.
			Width(a.boxWidth(60)).
			Render(strings.Join(status, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, pingBox))
		b.WriteString("\n\n")
	}

	b.WriteString(a.renderStatus("[p] Ping endpoints  [k] Change endpoint and token  [Esc] Back"))

	return a.centerVertically(b.String())
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/coldpitch/internal/history"
	"github.com/sant0-9/coldpitch/internal/logging"
)

func (a *App) loadHistory() tea.Cmd {
	store := a.deps.History
	if store == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		return historyLoadedMsg{entries: store.List(ctx)}
	}
}

func (a *App) watchHistory() tea.Cmd {
	store := a.deps.History
	if store == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		changes, err := store.Watch(ctx)
		if err != nil {
			logging.From(ctx).Warn("history watch unavailable", "error", err)
			return nil
		}
		if changes == nil {
			return nil
		}
		return watchStartedMsg{changes: changes}
	}
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return historyChangedMsg{}
	}
}

func (a *App) mutateHistory(what string, fn func(*history.Store) error) tea.Cmd {
	store := a.deps.History
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return historyMutatedMsg{what: what, err: fn(store)}
	}
}

func (a *App) handleHistoryKey(msg tea.KeyMsg) tea.Cmd {
	entries := a.state.entries

	switch {
	case key.Matches(msg, keys.Back):
		a.view = a.prev
		if a.view == viewHistory || a.view == viewProcessing {
			a.view = viewForm
		}
		return nil
	case key.Matches(msg, keys.Up):
		a.state.cursor = clamp(a.state.cursor-1, 0, max(len(entries)-1, 0))
		return nil
	case key.Matches(msg, keys.Down):
		a.state.cursor = clamp(a.state.cursor+1, 0, max(len(entries)-1, 0))
		return nil
	}

	if len(entries) == 0 {
		return nil
	}
	selected := entries[clamp(a.state.cursor, 0, len(entries)-1)]

	switch {
	case key.Matches(msg, keys.Enter):
		// reuse fills the form; nothing is regenerated until submit
		cmd := a.state.form.fill(selected.Reuse())
		a.view = viewForm
		a.state.flash = "Loaded entry into the form"
		return cmd
	}

	switch msg.String() {
	case "c":
		return a.copy(selected.Email().String())
	case "d":
		id := selected.ID
		return a.mutateHistory("delete", func(s *history.Store) error {
			return s.Remove(a.ctx, id)
		})
	case "x":
		return a.mutateHistory("clear", func(s *history.Store) error {
			return s.Clear(a.ctx)
		})
	}
	return nil
}

func (a *App) renderHistory() string {
	var b strings.Builder

	title := styleTitle.Render(fmt.Sprintf("History (%d/%d)", len(a.state.entries), history.MaxEntries))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, title))
	b.WriteString("\n\n")

	var lines []string
	if len(a.state.entries) == 0 {
		lines = append(lines, styleSubtitle.Render("No emails yet. Generate one and it will show up here."))
	}

	now := a.deps.Now()
	for i, e := range a.state.entries {
		when := relativeTime(e.CreatedAt(), now)
		subject := truncate(e.Subject, 50)
		meta := fmt.Sprintf("%s  %s  %s", truncate(e.Inputs.Target, 30), e.Inputs.UseCase, when)

		cursor := "  "
		style := lipgloss.NewStyle().Foreground(colorWhite)
		if i == a.state.cursor {
			cursor = "> "
			style = styleFocused
		}
		lines = append(lines,
			style.Render(cursor+subject),
			styleSubtitle.Render("    "+meta),
		)
	}

	box := styleBox.
		Width(min(70, max(a.width-4, 20))).
		Render(strings.Join(lines, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(a.width, lipgloss.Center, box))
	b.WriteString("\n\n")

	b.WriteString(a.renderStatus("[j/k] Navigate  [Enter] Reuse  [c] Copy  [d] Delete  [x] Clear all  [Esc] Back"))

	return a.centerVertically(b.String())
}

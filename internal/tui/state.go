package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sant0-9/coldpitch/internal/llm"
	"github.com/sant0-9/coldpitch/internal/model"
)

type state struct {
	// Setup wizard state
	setupStep      int
	selectedPreset int
	apiKeyInput    textinput.Model
	setupError     error

	// Form
	form *form

	// Generation. seq identifies the in-flight request; results carrying
	// an older seq are dropped.
	generator   Generator
	providers   []llm.Provider
	connectErr  error
	busy        bool
	seq         int
	cancel      context.CancelFunc
	spinner     spinner.Model
	lastRequest *model.Request

	// Result
	result *model.Email
	failed bool

	// History
	entries []*model.HistoryEntry
	cursor  int
	changes <-chan struct{}

	// Settings
	pinging bool
	pings   []pingResult

	// one-line feedback in the status bar
	flash string
}

type pingResult struct {
	name string
	err  error
}

func newState() *state {
	apiKey := textinput.New()
	apiKey.Placeholder = "Paste your API token here..."
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.CharLimit = 200
	apiKey.Width = 50

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(colorSecondary)),
	)

	return &state{
		apiKeyInput: apiKey,
		form:        newForm(),
		spinner:     s,
	}
}

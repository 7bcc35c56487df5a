package tui

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sant0-9/coldpitch/internal/config"
	"github.com/sant0-9/coldpitch/internal/email"
	"github.com/sant0-9/coldpitch/internal/history"
	"github.com/sant0-9/coldpitch/internal/llm"
	"github.com/sant0-9/coldpitch/internal/logging"
	"github.com/sant0-9/coldpitch/internal/model"
)

type view int

const (
	viewSetup view = iota
	viewForm
	viewProcessing
	viewResult
	viewHistory
	viewSettings
	viewHelp
)

// Generator produces an email for a request
type Generator interface {
	Generate(ctx context.Context, req *model.Request) (*model.Email, error)
}

// Deps is what the app needs from the outside
type Deps struct {
	Config     *config.Config
	ConfigPath string // empty means the default location
	NeedsSetup bool
	History    *history.Store

	// Connect builds the generator and the endpoints used by the ping check
	Connect func(cfg *config.Config) (Generator, []llm.Provider, error)

	// Clipboard defaults to the system clipboard
	Clipboard func(text string) error
	Now       func() time.Time
}

type App struct {
	ctx      context.Context
	deps     Deps
	width    int
	height   int
	view     view
	prev     view
	state    *state
	quitting bool
}

func NewApp(ctx context.Context, deps Deps) *App {
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.WriteAll
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Config == nil {
		deps.Config = config.DefaultConfig()
	}

	a := &App{
		ctx:   ctx,
		deps:  deps,
		view:  viewForm,
		state: newState(),
	}
	if deps.NeedsSetup {
		a.view = viewSetup
	} else {
		a.connect()
	}
	return a
}

func (a *App) connect() {
	if a.deps.Connect == nil {
		a.state.connectErr = errors.New("no generator configured")
		return
	}
	gen, providers, err := a.deps.Connect(a.deps.Config)
	a.state.generator = gen
	a.state.providers = providers
	a.state.connectErr = err
	if err != nil {
		logging.From(a.ctx).Error("failed to set up endpoints", "error", err)
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.WindowSize(),
		textinput.Blink,
		a.loadHistory(),
		a.watchHistory(),
	)
}

type generatedMsg struct {
	seq   int
	email *model.Email
	err   error
}
type historyLoadedMsg struct{ entries []*model.HistoryEntry }
type historyMutatedMsg struct {
	what string
	err  error
}
type watchStartedMsg struct{ changes <-chan struct{} }
type historyChangedMsg struct{}
type copiedMsg struct{ err error }
type pingMsg struct{ results []pingResult }
type setupCompleteMsg struct{}
type setupErrorMsg struct{ error }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case generatedMsg:
		return a, a.handleGenerated(msg)

	case spinner.TickMsg:
		if a.state.busy {
			var cmd tea.Cmd
			a.state.spinner, cmd = a.state.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case historyLoadedMsg:
		a.state.entries = msg.entries
		a.state.cursor = clamp(a.state.cursor, 0, max(len(msg.entries)-1, 0))
		return a, nil

	case historyMutatedMsg:
		if msg.err != nil {
			logging.From(a.ctx).Error("history update failed", "op", msg.what, "error", msg.err)
			a.state.flash = "Could not " + msg.what + " history"
		} else {
			a.state.flash = "History " + msg.what + "d"
		}
		return a, a.loadHistory()

	case watchStartedMsg:
		a.state.changes = msg.changes
		return a, waitForChange(msg.changes)

	case historyChangedMsg:
		return a, tea.Batch(a.loadHistory(), waitForChange(a.state.changes))

	case copiedMsg:
		if msg.err != nil {
			logging.From(a.ctx).Warn("clipboard copy failed", "error", msg.err)
			a.state.flash = "Copy failed: " + msg.err.Error()
		} else {
			a.state.flash = "Copied to clipboard"
		}
		return a, nil

	case pingMsg:
		a.state.pinging = false
		a.state.pings = msg.results
		return a, nil

	case setupCompleteMsg:
		a.deps.NeedsSetup = false
		a.connect()
		a.view = viewForm
		return a, a.state.form.focusField(0)

	case setupErrorMsg:
		a.state.setupError = msg.error
		return a, nil
	}

	// Forward cursor blinks to whichever input is visible
	if a.view == viewSetup && a.state.setupStep == 1 {
		var cmd tea.Cmd
		a.state.apiKeyInput, cmd = a.state.apiKeyInput.Update(msg)
		cmds = append(cmds, cmd)
	} else if a.view == viewForm {
		if cur := a.state.form.current(); cur.kind == fieldText {
			var cmd tea.Cmd
			cur.input, cmd = cur.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Quit) {
		if a.state.cancel != nil {
			a.state.cancel()
		}
		a.quitting = true
		return tea.Quit
	}

	a.state.flash = ""

	switch a.view {
	case viewSetup:
		return a.handleSetupKey(msg)
	case viewForm:
		return a.handleFormKey(msg)
	case viewProcessing:
		if key.Matches(msg, keys.Back) {
			a.cancelGeneration()
		}
		return nil
	case viewResult:
		return a.handleResultKey(msg)
	case viewHistory:
		return a.handleHistoryKey(msg)
	case viewSettings:
		return a.handleSettingsKey(msg)
	case viewHelp:
		if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Help) {
			a.view = a.prev
		}
	}
	return nil
}

func (a *App) open(v view) {
	a.prev = a.view
	a.view = v
}

func (a *App) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	f := a.state.form
	cur := f.current()

	switch {
	case key.Matches(msg, keys.Back):
		a.quitting = true
		return tea.Quit
	case key.Matches(msg, keys.Submit):
		return a.submit()
	case key.Matches(msg, keys.NextStep):
		_, cmd := f.advance()
		return cmd
	case key.Matches(msg, keys.PrevStep):
		return f.back()
	case key.Matches(msg, keys.Tab):
		return f.nextField()
	case key.Matches(msg, keys.ShiftTab):
		return f.prevField()
	case key.Matches(msg, keys.Enter):
		if !f.lastField() {
			return f.nextField()
		}
		if f.lastStep() {
			return a.submit()
		}
		_, cmd := f.advance()
		return cmd
	case key.Matches(msg, keys.History):
		a.open(viewHistory)
		return a.loadHistory()
	case key.Matches(msg, keys.Settings):
		a.open(viewSettings)
		return nil
	case key.Matches(msg, keys.Help):
		a.open(viewHelp)
		return nil
	}

	switch cur.kind {
	case fieldToggle:
		if key.Matches(msg, keys.Toggle) || key.Matches(msg, keys.Left) || key.Matches(msg, keys.Right) {
			cur.cycle(1)
		}
		return nil
	case fieldChoice:
		if key.Matches(msg, keys.Left) {
			cur.cycle(-1)
		} else if key.Matches(msg, keys.Right) || key.Matches(msg, keys.Toggle) {
			cur.cycle(1)
		}
		return nil
	}

	var cmd tea.Cmd
	cur.input, cmd = cur.input.Update(msg)
	delete(f.missing, cur.name)
	return cmd
}

// submit validates the whole form and starts a generation
func (a *App) submit() tea.Cmd {
	if a.state.busy {
		return nil
	}
	ok, cmd := a.state.form.validate()
	if !ok {
		a.state.flash = "Fill in the highlighted fields"
		return cmd
	}
	return a.startGeneration(a.state.form.request())
}

func (a *App) startGeneration(req *model.Request) tea.Cmd {
	if a.state.generator == nil {
		err := a.state.connectErr
		if err == nil {
			err = errors.New("no generator configured")
		}
		a.state.result = email.ErrorEmail(err)
		a.state.failed = true
		a.view = viewResult
		return nil
	}

	a.state.seq++
	ctx, cancel := context.WithCancel(a.ctx)
	a.state.cancel = cancel
	a.state.busy = true
	a.state.lastRequest = req
	a.view = viewProcessing

	return tea.Batch(a.state.spinner.Tick, a.generateCmd(ctx, a.state.seq, req))
}

func (a *App) generateCmd(ctx context.Context, seq int, req *model.Request) tea.Cmd {
	gen := a.state.generator
	return func() tea.Msg {
		result, err := gen.Generate(ctx, req)
		return generatedMsg{seq: seq, email: result, err: err}
	}
}

func (a *App) cancelGeneration() {
	if a.state.cancel != nil {
		a.state.cancel()
		a.state.cancel = nil
	}
	// invalidate whatever is still in flight
	a.state.seq++
	a.state.busy = false
	a.state.flash = "Generation canceled"
	a.view = viewForm
}

func (a *App) handleGenerated(msg generatedMsg) tea.Cmd {
	if msg.seq != a.state.seq {
		logging.From(a.ctx).Debug("dropping stale generation result", "seq", msg.seq, "current", a.state.seq)
		return nil
	}

	if a.state.cancel != nil {
		a.state.cancel()
		a.state.cancel = nil
	}
	a.state.busy = false

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			a.view = viewForm
			return nil
		}
		logging.From(a.ctx).Error("generation failed", "error", msg.err)
		a.state.result = email.ErrorEmail(msg.err)
		a.state.failed = true
	} else {
		a.state.result = msg.email
		a.state.failed = false
	}

	a.view = viewResult
	return a.loadHistory()
}

func (a *App) handleResultKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
		a.view = viewForm
		return a.state.form.focusField(a.state.form.focus)
	case key.Matches(msg, keys.Help):
		a.open(viewHelp)
		return nil
	}

	switch msg.String() {
	case "c":
		if a.state.result != nil {
			return a.copy(a.state.result.String())
		}
	case "r":
		req := a.state.lastRequest
		if req == nil {
			req = a.state.form.request()
		}
		return a.startGeneration(req)
	case "h":
		a.open(viewHistory)
		return a.loadHistory()
	case "n":
		a.view = viewForm
		return a.state.form.focusField(a.state.form.focus)
	}
	return nil
}

func (a *App) copy(text string) tea.Cmd {
	write := a.deps.Clipboard
	return func() tea.Msg {
		return copiedMsg{err: write(text)}
	}
}

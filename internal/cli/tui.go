package cli

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sant0-9/coldpitch/internal/config"
	"github.com/sant0-9/coldpitch/internal/llm"
	"github.com/sant0-9/coldpitch/internal/logging"
	"github.com/sant0-9/coldpitch/internal/tui"
	"github.com/urfave/cli/v3"
)

func tuiCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Open the interactive email builder (default)",
		Action: func(ctx context.Context, c *cli.Command) error {
			return runTUI(ctx, g)
		},
	}
}

func runTUI(ctx context.Context, g *globals) error {
	cfg, found, err := g.loadConfig()
	if err != nil {
		return err
	}

	logFile, err := openLogFile(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()
	ctx = attachLogger(ctx, cfg, logFile)

	store, kv, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeStore(ctx, kv)

	path, err := g.path()
	if err != nil {
		return goerr.Wrap(err, "failed to resolve config path")
	}

	_, hasToken := cfg.Token()
	deps := tui.Deps{
		Config:     cfg,
		ConfigPath: path,
		NeedsSetup: !found && !hasToken,
		History:    store,
		Connect: func(cfg *config.Config) (tui.Generator, []llm.Provider, error) {
			gen, providers, err := newGenerator(cfg, store)
			if err != nil {
				return nil, nil, err
			}
			return gen, providers, nil
		},
	}

	logging.From(ctx).Info("starting tui", slog.String("storage", cfg.Storage.Backend))

	p := tea.NewProgram(tui.NewApp(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return goerr.Wrap(err, "tui exited with error")
	}
	return nil
}

package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sant0-9/coldpitch/internal/config"
	"github.com/sant0-9/coldpitch/internal/email"
	"github.com/sant0-9/coldpitch/internal/history"
	"github.com/sant0-9/coldpitch/internal/llm"
	"github.com/sant0-9/coldpitch/internal/logging"
	"github.com/sant0-9/coldpitch/internal/storage"
	"github.com/urfave/cli/v3"
)

// globals holds values of the flags shared by every command
type globals struct {
	configPath string
	logLevel   string
	token      string

	primaryURL    string
	primaryModel  string
	fallbackURL   string
	fallbackModel string
	timeout       time.Duration

	backend   string
	dataDir   string
	ephemeral bool
}

func globalFlags(g *globals) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to config file (default: $XDG_CONFIG_HOME/coldpitch/config.yaml)",
			Sources:     cli.EnvVars("COLDPITCH_CONFIG"),
			Destination: &g.configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Sources:     cli.EnvVars("COLDPITCH_LOG_LEVEL"),
			Destination: &g.logLevel,
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "Bearer token for both endpoints",
			Sources:     cli.EnvVars("COLDPITCH_TOKEN", "GITHUB_TOKEN"),
			Destination: &g.token,
		},
		&cli.StringFlag{
			Name:        "primary-url",
			Usage:       "Base URL of the primary chat completions endpoint",
			Sources:     cli.EnvVars("COLDPITCH_PRIMARY_URL"),
			Destination: &g.primaryURL,
		},
		&cli.StringFlag{
			Name:        "primary-model",
			Usage:       "Model used on the primary endpoint",
			Destination: &g.primaryModel,
		},
		&cli.StringFlag{
			Name:        "fallback-url",
			Usage:       "Base URL of the fallback chat completions endpoint",
			Sources:     cli.EnvVars("COLDPITCH_FALLBACK_URL"),
			Destination: &g.fallbackURL,
		},
		&cli.StringFlag{
			Name:        "fallback-model",
			Usage:       "Model used on the fallback endpoint",
			Destination: &g.fallbackModel,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Timeout for each endpoint call",
			Sources:     cli.EnvVars("COLDPITCH_TIMEOUT"),
			Destination: &g.timeout,
		},
		&cli.StringFlag{
			Name:        "storage",
			Usage:       "History backend (file, sqlite, memory)",
			Sources:     cli.EnvVars("COLDPITCH_STORAGE"),
			Destination: &g.backend,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Directory for history and logs",
			Sources:     cli.EnvVars("COLDPITCH_DATA_DIR"),
			Destination: &g.dataDir,
		},
		&cli.BoolFlag{
			Name:        "ephemeral",
			Usage:       "Keep history in memory only",
			Destination: &g.ephemeral,
		},
	}
}

func (g *globals) path() (string, error) {
	if g.configPath != "" {
		return g.configPath, nil
	}
	return config.ConfigPath()
}

// loadConfig reads the config file, or the defaults when there is none, and
// applies flag overrides. found reports whether a file was read.
func (g *globals) loadConfig() (cfg *config.Config, found bool, err error) {
	path, err := g.path()
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to resolve config path")
	}

	cfg, err = config.LoadFrom(path)
	if err != nil {
		return nil, false, err
	}
	found = cfg != nil
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.token != "" {
		cfg.APIKey = g.token
	}
	if g.primaryURL != "" {
		cfg.Primary.BaseURL = g.primaryURL
	}
	if g.primaryModel != "" {
		cfg.Primary.Model = g.primaryModel
	}
	if g.fallbackURL != "" {
		cfg.Fallback.BaseURL = g.fallbackURL
	}
	if g.fallbackModel != "" {
		cfg.Fallback.Model = g.fallbackModel
	}
	if g.timeout > 0 {
		cfg.Timeout = g.timeout
	}
	if g.backend != "" {
		cfg.Storage.Backend = g.backend
	}
	if g.dataDir != "" {
		cfg.Storage.Dir = g.dataDir
	}
	if g.ephemeral {
		cfg.Storage.Backend = storage.BackendMemory
	}

	return cfg, found, nil
}

// setup loads config and attaches a logger writing to w
func (g *globals) setup(ctx context.Context, w io.Writer) (context.Context, *config.Config, error) {
	cfg, _, err := g.loadConfig()
	if err != nil {
		return ctx, nil, err
	}
	return attachLogger(ctx, cfg, w), cfg, nil
}

func attachLogger(ctx context.Context, cfg *config.Config, w io.Writer) context.Context {
	logger := logging.New(cfg.LogLevel, w)
	logging.SetDefault(logger)
	ctx = logging.With(ctx, logger)

	if _, ok := cfg.Token(); !ok {
		logger.Warn("no token configured, requests will be sent with a placeholder and fail to authenticate",
			"env", "COLDPITCH_TOKEN or GITHUB_TOKEN")
	}
	return ctx
}

// openLogFile opens <data dir>/coldpitch.log for appending
func openLogFile(cfg *config.Config) (*os.File, error) {
	dir, err := cfg.StorageDir()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve data dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create data dir", goerr.V("dir", dir))
	}
	path := filepath.Join(dir, "coldpitch.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", path))
	}
	return f, nil
}

func openHistory(cfg *config.Config) (*history.Store, storage.Store, error) {
	dir, err := cfg.StorageDir()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to resolve data dir")
	}
	kv, err := storage.Open(cfg.Storage.Backend, dir)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open history storage")
	}
	return history.New(kv), kv, nil
}

func newGenerator(cfg *config.Config, store *history.Store) (*email.Generator, []llm.Provider, error) {
	primary, fallback, err := llm.NewProviders(cfg)
	if err != nil {
		return nil, nil, err
	}
	gen := email.New(primary, fallback, email.WithHistory(store))
	return gen, []llm.Provider{primary, fallback}, nil
}

func closeStore(ctx context.Context, kv storage.Store) {
	if err := kv.Close(); err != nil {
		logging.From(ctx).Warn("failed to close storage", slog.Any("error", err))
	}
}

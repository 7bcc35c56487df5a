package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sant0-9/coldpitch/internal/config"
	"github.com/sant0-9/coldpitch/internal/history"
	"github.com/sant0-9/coldpitch/internal/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func historyCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect and manage recently generated emails",
		Commands: []*cli.Command{
			historyListCommand(g),
			historyShowCommand(g),
			historyDeleteCommand(g),
			historyClearCommand(g),
			historyReuseCommand(g),
		},
	}
}

// withHistory runs fn against the configured history store
func (g *globals) withHistory(ctx context.Context, c *cli.Command, fn func(ctx context.Context, cfg *config.Config, store *history.Store) error) error {
	ctx, cfg, err := g.setup(ctx, c.Root().ErrWriter)
	if err != nil {
		return err
	}
	store, kv, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeStore(ctx, kv)

	return fn(ctx, cfg, store)
}

func entryArg(c *cli.Command) (model.EntryID, error) {
	if c.Args().Len() == 0 {
		return "", goerr.New("entry id is required")
	}
	return model.EntryID(c.Args().Get(0)), nil
}

func historyListCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List saved emails, most recent first",
		Action: func(ctx context.Context, c *cli.Command) error {
			return g.withHistory(ctx, c, func(ctx context.Context, _ *config.Config, store *history.Store) error {
				entries := store.List(ctx)
				w := c.Root().Writer
				if len(entries) == 0 {
					fmt.Fprintf(w, "No emails in history\n")
					return nil
				}
				for _, e := range entries {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
						e.ID,
						e.CreatedAt().Local().Format(time.DateTime),
						e.Inputs.UseCase,
						e.Subject,
					)
				}
				return nil
			})
		},
	}
}

func historyShowCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print a saved email",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := entryArg(c)
			if err != nil {
				return err
			}
			return g.withHistory(ctx, c, func(ctx context.Context, _ *config.Config, store *history.Store) error {
				entry, err := store.Get(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.Root().Writer, entry.Email().String())
				return nil
			})
		},
	}
}

func historyDeleteCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Remove one saved email",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := entryArg(c)
			if err != nil {
				return err
			}
			return g.withHistory(ctx, c, func(ctx context.Context, _ *config.Config, store *history.Store) error {
				if err := store.Remove(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(c.Root().Writer, "Deleted %s\n", id)
				return nil
			})
		},
	}
}

func historyClearCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Remove every saved email",
		Action: func(ctx context.Context, c *cli.Command) error {
			return g.withHistory(ctx, c, func(ctx context.Context, _ *config.Config, store *history.Store) error {
				if err := store.Clear(ctx); err != nil {
					return err
				}
				fmt.Fprintf(c.Root().Writer, "History cleared\n")
				return nil
			})
		},
	}
}

func historyReuseCommand(g *globals) *cli.Command {
	var (
		regenerate bool
		quiet      bool
	)

	return &cli.Command{
		Name:      "reuse",
		Usage:     "Print the request behind a saved email as yaml, or generate again from it",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "generate",
				Usage:       "Generate a new email from the saved request",
				Destination: &regenerate,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Aliases:     []string{"q"},
				Usage:       "Do not show the progress spinner",
				Destination: &quiet,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := entryArg(c)
			if err != nil {
				return err
			}

			var req *model.Request
			err = g.withHistory(ctx, c, func(ctx context.Context, _ *config.Config, store *history.Store) error {
				entry, err := store.Get(ctx, id)
				if err != nil {
					return err
				}
				req = entry.Reuse()
				return nil
			})
			if err != nil {
				return err
			}

			if regenerate {
				return runGenerate(ctx, g, c, req, quiet)
			}

			data, err := yaml.Marshal(req)
			if err != nil {
				return goerr.Wrap(err, "failed to encode request")
			}
			fmt.Fprintf(c.Root().Writer, "%s", data)
			return nil
		},
	}
}

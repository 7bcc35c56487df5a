package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sant0-9/coldpitch/internal/config"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func configCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Create or inspect the config file",
		Commands: []*cli.Command{
			configInitCommand(g),
			configShowCommand(g),
		},
	}
}

func configInitCommand(g *globals) *cli.Command {
	var force bool

	return &cli.Command{
		Name:  "init",
		Usage: "Write the default config file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "Overwrite an existing file",
				Destination: &force,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path, err := g.path()
			if err != nil {
				return goerr.Wrap(err, "failed to resolve config path")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return goerr.New("config file already exists, use --force to overwrite", goerr.V("path", path))
			}

			// never persist a token that only came from the environment
			if err := config.DefaultConfig().SaveTo(path); err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Wrote %s\n", path)
			return nil
		},
	}
}

func configShowCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print the effective configuration",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, found, err := g.loadConfig()
			if err != nil {
				return err
			}

			shown := *cfg
			shown.APIKey = config.MaskToken(cfg.APIKey)
			data, err := yaml.Marshal(&shown)
			if err != nil {
				return goerr.Wrap(err, "failed to encode config")
			}

			w := c.Root().Writer
			path, _ := g.path()
			if found {
				fmt.Fprintf(w, "# %s\n", path)
			} else {
				fmt.Fprintf(w, "# defaults (no file at %s)\n", path)
			}
			fmt.Fprintf(w, "%s", data)
			return nil
		},
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sant0-9/coldpitch/internal/prompts"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func promptCommand() *cli.Command {
	in := &requestInput{}
	var signals bool

	flags := append(requestFlags(in),
		&cli.BoolFlag{
			Name:        "signals",
			Usage:       "Also print the bio and offer analysis",
			Destination: &signals,
		},
	)

	return &cli.Command{
		Name:  "prompt",
		Usage: "Print the system and user prompts for a request without calling any endpoint",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			req, err := in.build(c)
			if err != nil {
				return err
			}
			p := prompts.Build(req)

			w := c.Root().Writer
			fmt.Fprintf(w, "# strategy: %s\n\n", p.Strategy)
			fmt.Fprintf(w, "## system\n\n%s\n\n## user\n\n%s\n", p.System, p.User)

			if signals {
				data, err := yaml.Marshal(p.Signals)
				if err != nil {
					return goerr.Wrap(err, "failed to encode signals")
				}
				fmt.Fprintf(w, "\n## signals\n\n%s", data)
			}
			return nil
		},
	}
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sant0-9/coldpitch/internal/config"
	"github.com/sant0-9/coldpitch/internal/llm"
	"github.com/urfave/cli/v3"
)

func doctorCommand(g *globals) *cli.Command {
	return &cli.Command{
		Name:  "doctor",
		Usage: "Check that both endpoints are reachable with the configured token",
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, cfg, err := g.setup(ctx, c.Root().ErrWriter)
			if err != nil {
				return err
			}

			primary, fallback, err := llm.NewProviders(cfg)
			if err != nil {
				return err
			}

			w := c.Root().Writer
			token, ok := cfg.Token()
			if ok {
				fmt.Fprintf(w, "token     %s\n", config.MaskToken(token))
			} else {
				fmt.Fprintf(w, "token     not set (sending placeholder)\n")
			}

			failed := 0
			for _, p := range []llm.Provider{primary, fallback} {
				start := time.Now()
				if err := p.Ping(ctx); err != nil {
					failed++
					fmt.Fprintf(w, "FAIL  %s: %v\n", p.Name(), err)
					continue
				}
				fmt.Fprintf(w, "OK    %s (%s)\n", p.Name(), time.Since(start).Round(time.Millisecond))
			}

			if failed > 0 {
				return goerr.New("endpoint check failed", goerr.V("failed", failed))
			}
			return nil
		},
	}
}

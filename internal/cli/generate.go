package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sant0-9/coldpitch/internal/email"
	"github.com/sant0-9/coldpitch/internal/model"
	"github.com/urfave/cli/v3"
)

var fieldPrompts = map[string]string{
	model.FieldBio:       "Your bio",
	model.FieldOffer:     "Your offer",
	model.FieldTarget:    "Target audience",
	model.FieldCompany:   "Company",
	model.FieldPainPoint: "Pain point",
	model.FieldIndustry:  "Industry",
}

func generateCommand(g *globals) *cli.Command {
	in := &requestInput{}
	var (
		ask   bool
		quiet bool
	)

	flags := append(requestFlags(in),
		&cli.BoolFlag{
			Name:        "ask",
			Aliases:     []string{"i"},
			Usage:       "Prompt for required fields that were not given",
			Destination: &ask,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Aliases:     []string{"q"},
			Usage:       "Do not show the progress spinner",
			Destination: &quiet,
		},
	)

	return &cli.Command{
		Name:  "generate",
		Usage: "Write one cold email and print it",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			req, err := in.build(c)
			if err != nil {
				return err
			}
			if ask {
				if err := askMissing(req); err != nil {
					return err
				}
			}
			return runGenerate(ctx, g, c, req, quiet)
		},
	}
}

func runGenerate(ctx context.Context, g *globals, c *cli.Command, req *model.Request, quiet bool) error {
	if err := req.Validate(); err != nil {
		return err
	}

	ctx, cfg, err := g.setup(ctx, c.Root().ErrWriter)
	if err != nil {
		return err
	}

	store, kv, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeStore(ctx, kv)

	gen, _, err := newGenerator(cfg, store)
	if err != nil {
		return err
	}

	stop := startSpinner(c.Root().ErrWriter, quiet, "Crafting your email with "+cfg.Primary.Name())
	result, err := gen.Generate(ctx, req)
	stop()

	w := c.Root().Writer
	if err != nil {
		fmt.Fprintln(w, email.ErrorEmail(err).String())
		return goerr.Wrap(err, "failed to generate email")
	}

	fmt.Fprintln(w, result.String())
	return nil
}

// startSpinner shows progress on stderr when it is a terminal
func startSpinner(w io.Writer, quiet bool, suffix string) func() {
	if quiet || w != os.Stderr || !isTerminal(os.Stderr) {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(w),
		spinner.WithSuffix(" "+suffix),
	)
	s.Start()
	return s.Stop
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// askMissing reads each blank required field from the terminal
func askMissing(req *model.Request) error {
	missing := req.Missing(model.RequiredFields...)
	if len(missing) == 0 {
		return nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt: "> ",
	})
	if err != nil {
		return goerr.Wrap(err, "failed to initialize readline")
	}
	defer rl.Close()

	for _, field := range missing {
		rl.SetPrompt(fieldPrompts[field] + ": ")
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return goerr.New("input canceled", goerr.V("field", field))
			}
			if err != nil {
				return goerr.Wrap(err, "failed to read input")
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			setField(req, field, line)
			break
		}
	}
	return nil
}

func setField(req *model.Request, field, value string) {
	switch field {
	case model.FieldBio:
		req.Bio = value
	case model.FieldOffer:
		req.Offer = value
	case model.FieldTarget:
		req.Target = value
	case model.FieldCompany:
		req.Company = value
	case model.FieldPainPoint:
		req.PainPoint = value
	case model.FieldIndustry:
		req.Industry = value
	}
}

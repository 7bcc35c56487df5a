package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := newRootCommand()

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}

func newRootCommand() *cli.Command {
	g := &globals{}

	return &cli.Command{
		Name:  "coldpitch",
		Usage: "Cold email writer for the terminal",
		Flags: globalFlags(g),
		Commands: []*cli.Command{
			tuiCommand(g),
			generateCommand(g),
			promptCommand(),
			historyCommand(g),
			configCommand(g),
			doctorCommand(g),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runTUI(ctx, g)
		},
	}
}

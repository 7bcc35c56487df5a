package cli

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sant0-9/coldpitch/internal/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// requestInput collects a request from flags, optionally layered over a yaml file
type requestInput struct {
	from string
	req  model.Request
}

func requestFlags(in *requestInput) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "from",
			Aliases:     []string{"f"},
			Usage:       "Read the request from a yaml file; flags override its values",
			Destination: &in.from,
		},
		&cli.StringFlag{
			Name:        "bio",
			Usage:       "Who you are",
			Destination: &in.req.Bio,
		},
		&cli.StringFlag{
			Name:        "offer",
			Usage:       "What you are offering",
			Destination: &in.req.Offer,
		},
		&cli.StringFlag{
			Name:        "target",
			Usage:       "Who you are writing to",
			Destination: &in.req.Target,
		},
		&cli.StringFlag{
			Name:        "company",
			Usage:       "Recipient company",
			Destination: &in.req.Company,
		},
		&cli.StringFlag{
			Name:        "industry",
			Usage:       "Recipient industry",
			Value:       model.DefaultIndustry,
			Destination: &in.req.Industry,
		},
		&cli.StringFlag{
			Name:        "pain-point",
			Usage:       "Problem the recipient is facing",
			Destination: &in.req.PainPoint,
		},
		&cli.StringFlag{
			Name:        "companies",
			Usage:       "Comma separated companies you have worked with",
			Destination: &in.req.CompaniesWorkedWith,
		},
		&cli.BoolFlag{
			Name:        "new-to-field",
			Usage:       "Position yourself as new to the field",
			Destination: &in.req.IsNewToField,
		},
		&cli.StringFlag{
			Name:        "goal",
			Usage:       "Campaign goal",
			Destination: &in.req.Goal,
		},
		&cli.StringFlag{
			Name:        "tone",
			Usage:       "Preferred tone",
			Destination: &in.req.Tone,
		},
	}
}

// build merges the file, if any, with the flags that were set explicitly
func (in *requestInput) build(c *cli.Command) (*model.Request, error) {
	if in.from == "" {
		req := in.req
		return &req, nil
	}

	data, err := os.ReadFile(in.from)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read request file", goerr.V("path", in.from))
	}
	var req model.Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, goerr.Wrap(err, "failed to parse request file", goerr.V("path", in.from))
	}

	overrides := map[string]*string{
		"bio":        &req.Bio,
		"offer":      &req.Offer,
		"target":     &req.Target,
		"company":    &req.Company,
		"industry":   &req.Industry,
		"pain-point": &req.PainPoint,
		"companies":  &req.CompaniesWorkedWith,
		"goal":       &req.Goal,
		"tone":       &req.Tone,
	}
	for name, dst := range overrides {
		if c.IsSet(name) {
			*dst = c.String(name)
		}
	}
	if c.IsSet("new-to-field") {
		req.IsNewToField = c.Bool("new-to-field")
	}

	return &req, nil
}

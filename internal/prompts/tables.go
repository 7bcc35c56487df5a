package prompts

import (
	"embed"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml data/*.tmpl
var dataFS embed.FS

// Facts is the industry intelligence quoted in the system prompt
type Facts struct {
	Name       string   `yaml:"name"`
	Challenges []string `yaml:"challenges"`
	Metrics    []string `yaml:"metrics"`
	Solutions  []string `yaml:"solutions"`
}

// Strategy is one positioning/social-proof/tone block
type Strategy struct {
	Audience        string   `yaml:"audience"`
	PositioningLead string   `yaml:"positioning_lead"`
	Positioning     []string `yaml:"positioning"`
	SocialProofLead string   `yaml:"social_proof_lead"`
	SocialProof     []string `yaml:"social_proof"`
	Tone            string   `yaml:"tone"`
}

var (
	industries     []Facts
	industryByName map[string]Facts
	strategies     map[StrategyKind]Strategy

	systemTmpl *template.Template
	userTmpl   *template.Template
)

func init() {
	if err := loadTables(); err != nil {
		panic(err)
	}
}

func loadTables() error {
	raw, err := dataFS.ReadFile("data/industries.yaml")
	if err != nil {
		return goerr.Wrap(err, "failed to read industry table")
	}
	if err := yaml.Unmarshal(raw, &industries); err != nil {
		return goerr.Wrap(err, "failed to parse industry table")
	}
	industryByName = make(map[string]Facts, len(industries))
	for _, f := range industries {
		industryByName[f.Name] = f
	}
	if _, ok := industryByName[fallbackIndustry]; !ok {
		return goerr.New("industry table has no fallback entry", goerr.V("name", fallbackIndustry))
	}

	raw, err = dataFS.ReadFile("data/strategies.yaml")
	if err != nil {
		return goerr.Wrap(err, "failed to read strategy table")
	}
	if err := yaml.Unmarshal(raw, &strategies); err != nil {
		return goerr.Wrap(err, "failed to parse strategy table")
	}
	for _, kind := range []StrategyKind{StrategyNewProfessional, StrategyExperienced, StrategyGeneric} {
		if _, ok := strategies[kind]; !ok {
			return goerr.New("strategy table is incomplete", goerr.V("strategy", kind))
		}
	}

	funcs := template.FuncMap{
		"upper": strings.ToUpper,
		"join":  func(items []string) string { return strings.Join(items, ", ") },
	}
	systemTmpl, err = template.New("system.tmpl").Funcs(funcs).ParseFS(dataFS, "data/system.tmpl")
	if err != nil {
		return goerr.Wrap(err, "failed to parse system prompt template")
	}
	userTmpl, err = template.New("user.tmpl").Funcs(funcs).ParseFS(dataFS, "data/user.tmpl")
	if err != nil {
		return goerr.Wrap(err, "failed to parse user prompt template")
	}
	return nil
}

// Industries returns the names that have their own facts, in table order
func Industries() []string {
	names := make([]string, len(industries))
	for i, f := range industries {
		names[i] = f.Name
	}
	return names
}

// LookupFacts returns the facts for industry, or the SaaS facts when the
// table has no entry for it. The match is exact.
func LookupFacts(industry string) Facts {
	if f, ok := industryByName[industry]; ok {
		return f
	}
	return industryByName[fallbackIndustry]
}

package prompts

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/sant0-9/coldpitch/internal/model"
)

const fallbackIndustry = model.DefaultIndustry

// StrategyKind names the positioning strategy chosen for a sender
type StrategyKind string

const (
	StrategyNewProfessional StrategyKind = "new"
	StrategyExperienced     StrategyKind = "experienced"
	StrategyGeneric         StrategyKind = "generic"
)

// Prompt is the instruction pair sent to the model
type Prompt struct {
	System    string
	User      string
	Strategy  StrategyKind
	Companies []string
	Signals   Signals
}

// Build renders both prompts for req. req is not modified.
func Build(req *model.Request) *Prompt {
	r := *req
	r.Normalize()

	kind, companies := SelectStrategy(&r)
	return &Prompt{
		System:    renderSystem(&r, kind, companies),
		User:      BuildUser(&r),
		Strategy:  kind,
		Companies: companies,
		Signals:   Analyze(r.Bio, r.Offer),
	}
}

// BuildSystem renders the system prompt only
func BuildSystem(req *model.Request) string {
	r := *req
	r.Normalize()
	kind, companies := SelectStrategy(&r)
	return renderSystem(&r, kind, companies)
}

// BuildUser renders the user prompt. Field values are inserted verbatim.
func BuildUser(req *model.Request) string {
	r := *req
	r.Normalize()
	return render(userTmpl, &r)
}

// SelectStrategy applies the priority new-to-field, then companies worked
// with, then generic.
func SelectStrategy(req *model.Request) (StrategyKind, []string) {
	if req.IsNewToField {
		return StrategyNewProfessional, nil
	}
	if companies := ParseCompanies(req.CompaniesWorkedWith); len(companies) > 0 {
		return StrategyExperienced, companies
	}
	return StrategyGeneric, nil
}

// ParseCompanies splits a comma separated list, trimming and dropping empty names
func ParseCompanies(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

type systemData struct {
	Industry  string
	Facts     Facts
	Strategy  Strategy
	Companies []string
}

func renderSystem(req *model.Request, kind StrategyKind, companies []string) string {
	return render(systemTmpl, systemData{
		Industry:  req.Industry,
		Facts:     LookupFacts(req.Industry),
		Strategy:  strategies[kind],
		Companies: companies,
	})
}

// render panics on failure. Templates and tables are embedded, so an
// execution error is a build defect caught by the package tests.
func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sant0-9/coldpitch/internal/model"
	"github.com/sant0-9/coldpitch/internal/prompts"
)

var (
	extraIndustries = []string{
		"Technology & IT",
		"Finance & Banking",
		"Healthcare",
		"Education",
		"Retail",
		"Manufacturing",
		"Real Estate",
		"Marketing & Advertising",
		"Consulting",
		"Other",
	}

	campaignGoals = []string{
		"",
		"Schedule a meeting",
		"Introduce product",
		"Get feedback",
		"Establish partnership",
		"Attract investment",
	}

	tones = []string{
		"",
		"Professional",
		"Friendly",
		"Direct",
		"Creative",
		"Formal",
	}
)

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldToggle
	fieldChoice
)

type field struct {
	name     string
	label    string
	required bool
	kind     fieldKind

	input   textinput.Model
	on      bool
	options []string
	choice  int
}

func (f *field) value() string {
	switch f.kind {
	case fieldText:
		return f.input.Value()
	case fieldChoice:
		return f.options[f.choice]
	}
	return ""
}

func (f *field) setValue(v string) {
	switch f.kind {
	case fieldText:
		f.input.SetValue(v)
	case fieldChoice:
		for i, o := range f.options {
			if o == v {
				f.choice = i
				return
			}
		}
		// keep values that are not in the picker, e.g. from an older entry
		f.options = append(f.options, v)
		f.choice = len(f.options) - 1
	}
}

func (f *field) cycle(delta int) {
	switch f.kind {
	case fieldToggle:
		f.on = !f.on
	case fieldChoice:
		n := len(f.options)
		f.choice = ((f.choice+delta)%n + n) % n
	}
}

type formStep struct {
	title  string
	fields []*field
}

// form is the three-step request editor
type form struct {
	steps   []formStep
	step    int
	focus   int
	missing map[string]bool
}

func newTextField(name, label, placeholder string, required bool) *field {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 1000
	in.Width = 56
	return &field{name: name, label: label, required: required, kind: fieldText, input: in}
}

func newChoiceField(name, label string, options []string, required bool) *field {
	opts := make([]string, len(options))
	copy(opts, options)
	return &field{name: name, label: label, required: required, kind: fieldChoice, options: opts}
}

func newForm() *form {
	industries := append(prompts.Industries(), extraIndustries...)

	f := &form{
		steps: []formStep{
			{
				title: "About You",
				fields: []*field{
					newTextField(model.FieldBio, "Your bio", "Growth consultant who helped 20 SaaS teams...", true),
					newTextField(model.FieldOffer, "Your offer", "A 30 day onboarding audit...", true),
					newTextField(model.FieldCompaniesWorkedWith, "Companies worked with", "Stripe, Notion (optional)", false),
					{name: "isNewToField", label: "New to the field", kind: fieldToggle},
				},
			},
			{
				title: "Target Audience",
				fields: []*field{
					newTextField(model.FieldTarget, "Recipient", "Jane Doe, VP Product", true),
					newTextField(model.FieldCompany, "Company", "Acme", true),
					newTextField(model.FieldPainPoint, "Pain point", "Trial users never activate", true),
				},
			},
			{
				title: "Campaign Details",
				fields: []*field{
					newChoiceField(model.FieldIndustry, "Industry", industries, true),
					newChoiceField(model.FieldGoal, "Campaign goal", campaignGoals, false),
					newChoiceField(model.FieldTone, "Tone", tones, false),
				},
			},
		},
		missing: map[string]bool{},
	}
	f.focusField(0)
	return f
}

func (f *form) current() *field {
	return f.steps[f.step].fields[f.focus]
}

func (f *form) field(name string) *field {
	for _, s := range f.steps {
		for _, fd := range s.fields {
			if fd.name == name {
				return fd
			}
		}
	}
	return nil
}

func (f *form) focusField(i int) tea.Cmd {
	fields := f.steps[f.step].fields
	if f.focus < len(fields) {
		fields[f.focus].input.Blur()
	}
	f.focus = clamp(i, 0, len(fields)-1)

	cur := fields[f.focus]
	if cur.kind == fieldText {
		return cur.input.Focus()
	}
	return nil
}

func (f *form) nextField() tea.Cmd {
	n := len(f.steps[f.step].fields)
	return f.focusField((f.focus + 1) % n)
}

func (f *form) prevField() tea.Cmd {
	n := len(f.steps[f.step].fields)
	return f.focusField((f.focus - 1 + n) % n)
}

func (f *form) lastField() bool {
	return f.focus == len(f.steps[f.step].fields)-1
}

func (f *form) lastStep() bool {
	return f.step == len(f.steps)-1
}

func (f *form) gotoStep(i int) tea.Cmd {
	f.current().input.Blur()
	f.step = clamp(i, 0, len(f.steps)-1)
	f.focus = 0
	return f.focusField(0)
}

// stepMissing returns the required fields of step i that are blank
func (f *form) stepMissing(i int) []string {
	var required []string
	for _, fd := range f.steps[i].fields {
		if fd.required {
			required = append(required, fd.name)
		}
	}
	return f.request().Missing(required...)
}

func (f *form) markMissing(names []string) {
	f.missing = map[string]bool{}
	for _, n := range names {
		f.missing[n] = true
	}
}

// advance moves to the next step when the current one is complete
func (f *form) advance() (bool, tea.Cmd) {
	missing := f.stepMissing(f.step)
	f.markMissing(missing)
	if len(missing) > 0 || f.lastStep() {
		return false, nil
	}
	return true, f.gotoStep(f.step + 1)
}

func (f *form) back() tea.Cmd {
	if f.step == 0 {
		return nil
	}
	f.missing = map[string]bool{}
	return f.gotoStep(f.step - 1)
}

// validate checks every step and jumps to the first incomplete one
func (f *form) validate() (bool, tea.Cmd) {
	for i := range f.steps {
		if missing := f.stepMissing(i); len(missing) > 0 {
			var cmd tea.Cmd
			if i != f.step {
				cmd = f.gotoStep(i)
			}
			f.markMissing(missing)
			return false, cmd
		}
	}
	f.missing = map[string]bool{}
	return true, nil
}

func (f *form) request() *model.Request {
	get := func(name string) string {
		if fd := f.field(name); fd != nil {
			return fd.value()
		}
		return ""
	}
	return &model.Request{
		Bio:                 get(model.FieldBio),
		Offer:               get(model.FieldOffer),
		Target:              get(model.FieldTarget),
		Company:             get(model.FieldCompany),
		Industry:            get(model.FieldIndustry),
		PainPoint:           get(model.FieldPainPoint),
		CompaniesWorkedWith: get(model.FieldCompaniesWorkedWith),
		IsNewToField:        f.field("isNewToField").on,
		Goal:                get(model.FieldGoal),
		Tone:                get(model.FieldTone),
	}
}

// fill loads req into the form and returns to the first step
func (f *form) fill(req *model.Request) tea.Cmd {
	for _, name := range []string{
		model.FieldBio, model.FieldOffer, model.FieldCompaniesWorkedWith,
		model.FieldTarget, model.FieldCompany, model.FieldPainPoint,
		model.FieldGoal, model.FieldTone,
	} {
		f.field(name).setValue(req.Value(name))
	}

	industry := req.Industry
	if strings.TrimSpace(industry) == "" {
		industry = model.DefaultIndustry
	}
	f.field(model.FieldIndustry).setValue(industry)
	f.field("isNewToField").on = req.IsNewToField

	f.missing = map[string]bool{}
	return f.gotoStep(0)
}

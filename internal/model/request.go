package model

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// DefaultIndustry is used when a request names no industry
const DefaultIndustry = "SaaS"

var ErrMissingFields = goerr.New("required fields are missing")

// Request holds everything the sender typed for one generation attempt
type Request struct {
	Bio                 string `yaml:"bio"`
	Offer               string `yaml:"offer"`
	Target              string `yaml:"target"`
	Company             string `yaml:"company"`
	Industry            string `yaml:"industry"`
	PainPoint           string `yaml:"pain_point"`
	CompaniesWorkedWith string `yaml:"companies_worked_with,omitempty"`
	IsNewToField        bool   `yaml:"is_new_to_field"`

	// Optional campaign details from the step form
	Goal string `yaml:"goal,omitempty"`
	Tone string `yaml:"tone,omitempty"`
}

// Field names as used in validation errors and form labels
const (
	FieldBio                 = "bio"
	FieldOffer               = "offer"
	FieldTarget              = "target"
	FieldCompany             = "company"
	FieldIndustry            = "industry"
	FieldPainPoint           = "painPoint"
	FieldCompaniesWorkedWith = "companiesWorkedWith"
	FieldGoal                = "goal"
	FieldTone                = "tone"
)

// RequiredFields lists the fields that must be non-blank on submit
var RequiredFields = []string{
	FieldBio,
	FieldOffer,
	FieldTarget,
	FieldCompany,
	FieldPainPoint,
	FieldIndustry,
}

// Normalize fills defaults in place
func (r *Request) Normalize() {
	if strings.TrimSpace(r.Industry) == "" {
		r.Industry = DefaultIndustry
	}
}

// Value returns the text value of a named field
func (r *Request) Value(field string) string {
	switch field {
	case FieldBio:
		return r.Bio
	case FieldOffer:
		return r.Offer
	case FieldTarget:
		return r.Target
	case FieldCompany:
		return r.Company
	case FieldIndustry:
		return r.Industry
	case FieldPainPoint:
		return r.PainPoint
	case FieldCompaniesWorkedWith:
		return r.CompaniesWorkedWith
	case FieldGoal:
		return r.Goal
	case FieldTone:
		return r.Tone
	}
	return ""
}

// Missing returns the subset of fields that are blank
func (r *Request) Missing(fields ...string) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(r.Value(f)) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Validate checks that all required fields are filled
func (r *Request) Validate() error {
	if missing := r.Missing(RequiredFields...); len(missing) > 0 {
		return goerr.Wrap(ErrMissingFields, "invalid request", goerr.V("fields", strings.Join(missing, ", ")))
	}
	return nil
}

// Email is a generated subject and body
type Email struct {
	Subject string
	Body    string
}

// String renders the email the way it is copied to the clipboard
func (e Email) String() string {
	return "Subject: " + e.Subject + "\n\n" + e.Body
}

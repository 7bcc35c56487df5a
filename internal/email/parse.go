package email

import (
	"regexp"
	"strings"

	"github.com/sant0-9/coldpitch/internal/model"
)

var subjectPattern = regexp.MustCompile(`(?i)Subject: (.+)`)

const errorSubject = "Error Generating Email"

// ParseEmail splits a model reply into subject and body. The first
// "Subject: " line wins; without one the subject names the company.
func ParseEmail(content, company string) *model.Email {
	loc := subjectPattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return &model.Email{
			Subject: "Opportunity for " + company,
			Body:    strings.TrimSpace(content),
		}
	}

	return &model.Email{
		Subject: strings.TrimSpace(content[loc[2]:loc[3]]),
		Body:    strings.TrimSpace(content[:loc[0]] + content[loc[1]:]),
	}
}

// ErrorEmail renders a failure as an email so the user always has a result
func ErrorEmail(err error) *model.Email {
	msg := "Unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &model.Email{
		Subject: errorSubject,
		Body:    "We encountered an issue: " + msg + "\n\nPlease try again later.",
	}
}

// IsErrorEmail reports whether e was produced by ErrorEmail
func IsErrorEmail(e *model.Email) bool {
	return e != nil && e.Subject == errorSubject && strings.HasPrefix(e.Body, "We encountered an issue: ")
}

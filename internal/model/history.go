package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// EntryID identifies a history entry
type EntryID string

// NewEntryID returns a time-ordered unique id
func NewEntryID() EntryID {
	id, err := uuid.NewV7()
	if err != nil {
		return EntryID(uuid.New().String())
	}
	return EntryID(id.String())
}

// UnmarshalJSON accepts both string ids and the numeric millisecond ids
// written by older clients.
func (id *EntryID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return goerr.Wrap(err, "failed to decode entry id")
		}
		*id = EntryID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return goerr.Wrap(err, "failed to decode numeric entry id", goerr.V("raw", string(data)))
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return goerr.Wrap(err, "entry id is not an integer", goerr.V("raw", n.String()))
	}
	*id = EntryID(n.String())
	return nil
}

// Inputs is the request snapshot stored with an entry
type Inputs struct {
	Bio                 string `json:"bio"`
	Offer               string `json:"offer"`
	Target              string `json:"target"`
	UseCase             string `json:"useCase"`
	Company             string `json:"company"`
	PainPoint           string `json:"painPoint"`
	CompaniesWorkedWith string `json:"companiesWorkedWith"`
	IsNewToField        bool   `json:"isNewToField"`
	Goal                string `json:"goal,omitempty"`
	Tone                string `json:"tone,omitempty"`
}

// HistoryEntry is one persisted generation
type HistoryEntry struct {
	ID        EntryID `json:"id"`
	Inputs    Inputs  `json:"inputs"`
	Subject   string  `json:"subject"`
	Body      string  `json:"body"`
	Timestamp int64   `json:"timestamp"`
}

// NewHistoryEntry snapshots a request and its result
func NewHistoryEntry(req *Request, email *Email, now time.Time) *HistoryEntry {
	return &HistoryEntry{
		ID: NewEntryID(),
		Inputs: Inputs{
			Bio:                 req.Bio,
			Offer:               req.Offer,
			Target:              req.Target,
			UseCase:             req.Industry,
			Company:             req.Company,
			PainPoint:           req.PainPoint,
			CompaniesWorkedWith: req.CompaniesWorkedWith,
			IsNewToField:        req.IsNewToField,
			Goal:                req.Goal,
			Tone:                req.Tone,
		},
		Subject:   email.Subject,
		Body:      email.Body,
		Timestamp: now.UnixMilli(),
	}
}

// CreatedAt returns the entry timestamp as time.Time
func (e *HistoryEntry) CreatedAt() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Email returns the stored subject and body
func (e *HistoryEntry) Email() Email {
	return Email{Subject: e.Subject, Body: e.Body}
}

// Reuse maps the stored inputs back into an editable request
func (e *HistoryEntry) Reuse() *Request {
	return &Request{
		Bio:                 e.Inputs.Bio,
		Offer:               e.Inputs.Offer,
		Target:              e.Inputs.Target,
		Company:             e.Inputs.Company,
		Industry:            e.Inputs.UseCase,
		PainPoint:           e.Inputs.PainPoint,
		CompaniesWorkedWith: e.Inputs.CompaniesWorkedWith,
		IsNewToField:        e.Inputs.IsNewToField,
		Goal:                e.Inputs.Goal,
		Tone:                e.Inputs.Tone,
	}
}

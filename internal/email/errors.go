package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/sant0-9/coldpitch/internal/llm"
)

// Kind classifies why one leg failed
type Kind string

const (
	KindNetwork   Kind = "network"
	KindStatus    Kind = "status"
	KindMalformed Kind = "malformed"
)

// LegError is the failure of one attempt against one endpoint
type LegError struct {
	Endpoint string
	Kind     Kind
	Status   int
	Err      error
}

func (e *LegError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: %d", e.Endpoint, e.Status)
	case KindMalformed:
		return fmt.Sprintf("invalid response format from %s", e.Endpoint)
	default:
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	}
}

func (e *LegError) Unwrap() error {
	return e.Err
}

// GenerationError reports a failed generation. Fallback is nil when the
// primary failure was terminal or no fallback is configured.
type GenerationError struct {
	Primary  *LegError
	Fallback *LegError
}

func (e *GenerationError) Error() string {
	if e.Fallback == nil {
		return e.Primary.Error()
	}
	if e.Fallback.Kind == KindMalformed {
		return e.Fallback.Error()
	}
	return fmt.Sprintf("both %s and %s failed. %s, %s",
		e.Primary.Endpoint, e.Fallback.Endpoint, e.Primary.Error(), e.Fallback.Error())
}

func (e *GenerationError) Unwrap() []error {
	errs := []error{e.Primary}
	if e.Fallback != nil {
		errs = append(errs, e.Fallback)
	}
	return errs
}

// Statuses returns the HTTP status of each failed leg, 0 where none was received
func (e *GenerationError) Statuses() []int {
	out := []int{e.Primary.Status}
	if e.Fallback != nil {
		out = append(out, e.Fallback.Status)
	}
	return out
}

func classify(endpoint string, err error) *LegError {
	leg := &LegError{Endpoint: endpoint, Kind: KindNetwork, Err: err}

	var statusErr *llm.StatusError
	switch {
	case errors.As(err, &statusErr):
		leg.Kind = KindStatus
		leg.Status = statusErr.Code
	case errors.Is(err, llm.ErrMalformedResponse):
		leg.Kind = KindMalformed
	}
	return leg
}

func isCanceled(ctx context.Context) bool {
	return ctx.Err() != nil
}

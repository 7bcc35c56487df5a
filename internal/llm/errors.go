package llm

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
)

// ErrMalformedResponse is returned when a 2xx reply has no choices[0].message.content
var ErrMalformedResponse = goerr.New("malformed chat completion response")

// StatusError is a non-2xx reply
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.Code)
}

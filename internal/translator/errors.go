package translator

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned by services that cannot run without credentials.
var ErrMissingAPIKey = errors.New("API key required")

// NetworkError reports a transport failure or a non-ok HTTP status.
type NetworkError struct {
	Service    string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: API returned status %d: %v", e.Service, e.StatusCode, e.Err)
		}
		return fmt.Sprintf("%s: API returned status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s: request failed: %v", e.Service, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports malformed JSON, an unexpected response shape or an empty translation.
type ParseError struct {
	Service string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse response: %v", e.Service, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var errEmptyTranslation = errors.New("empty translation")

package domain

import (
	"errors"
	"fmt"
)

// ErrRunNotFound is returned by repositories when no archived run matches
// the requested identifier
var ErrRunNotFound = errors.New("simulation run not found")

// ConfigurationError reports a reference to an entity the registry does not
// define, or a static entity definition whose parameters are out of range.
// Configuration problems are detected before any simulation work starts.
type ConfigurationError struct {
	Entity string // "region", "segment", "manufacturer" or "strategy"
	ID     string // identifier as supplied by the caller
	Reason string // optional detail for malformed definitions
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Entity, e.ID, e.Reason)
	}
	return fmt.Sprintf("unknown %s %q", e.Entity, e.ID)
}

// ValidationError reports a malformed simulation request. The driver rejects
// the request before producing any records, so a ValidationError always means
// no partial results exist. When the request failed because it referenced an
// unknown entity, the underlying ConfigurationError is wrapped and reachable
// via errors.As.
type ValidationError struct {
	Field  string // request field that failed, e.g. "start_year"
	Reason string
	Err    error // optional underlying cause
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid simulation request: %s: %s: %v", e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid simulation request: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

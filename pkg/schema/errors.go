package schema

import (
	"errors"
	"fmt"
)

// DecodeError represents a single problem found in a document.
type DecodeError struct {
	Path   string // Location of the node, e.g. "children[1].props.onClick"
	Reason string // Human-readable reason for failure
	Value  any    // The value that could not be decoded
}

func (e *DecodeError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: %s (got %T)", e.Path, e.Reason, e.Value)
}

// AggregateError represents multiple decoding failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d decoding errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// DecodeErrors returns all decoding errors if err is an AggregateError.
// Otherwise returns nil.
func DecodeErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

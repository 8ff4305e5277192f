package grading

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyTranscript is wrapped by the InputError for blank transcripts.
var ErrEmptyTranscript = errors.New("transcript is empty")

// InputError rejects a scoring request before evaluation starts.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return "invalid input: " + e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// InternalError reports an unexpected failure while evaluating valid input,
// usually a rubric that violates the rule contract.
type InternalError struct {
	Metric string
	Cause  error
}

func (e *InternalError) Error() string {
	if e.Metric != "" {
		return fmt.Sprintf("scoring metric %q: %v", e.Metric, e.Cause)
	}
	return "scoring: " + e.Cause.Error()
}

func (e *InternalError) Unwrap() error { return e.Cause }

package grading

import (
	"errors"
	"fmt"
)

// Validation errors are returned before any network call is made.
var (
	ErrEmptyAnswer       = errors.New("answer is empty")
	ErrNotConfigured     = errors.New("grading API URL is not configured")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrInFlight          = errors.New("a grading request is already in progress")
)

// Transport and data-shape errors.
var (
	ErrTimeout           = errors.New("request timed out")
	ErrCancelled         = errors.New("request cancelled")
	ErrNoFeedback        = errors.New("no feedback found in the analysis response")
	ErrMalformedResponse = errors.New("malformed analysis response")
)

// Step names the request of a grading cycle that failed.
type Step string

const (
	StepSubmit  Step = "submit"
	StepAnalyze Step = "analyze"
)

// StatusError is returned when the grading service answers with a non-2xx
// status.
type StatusError struct {
	Step       Step
	StatusCode int
	StatusText string

	// Detail is the server supplied `detail` message, analyze step only.
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	switch e.Step {
	case StepSubmit:
		return fmt.Sprintf("failed to submit answer: %d %s", e.StatusCode, e.StatusText)
	default:
		return fmt.Sprintf("failed to get feedback: %d %s", e.StatusCode, e.StatusText)
	}
}

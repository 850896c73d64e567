package akinator

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotStarted is returned by Answer, Back and Win before Start succeeded.
	ErrNotStarted = errors.New("akinator session not started")

	// ErrNoDataFound is returned when a scraped page lacks the expected data.
	ErrNoDataFound = errors.New("failed to find the relevant data")

	// ErrParseResponse is returned when a response body cannot be decoded.
	ErrParseResponse = errors.New("failed to parse API response")

	// ErrServersDown is returned when the servers for the region are down.
	ErrServersDown = errors.New("the akinator servers in that region are currently down")

	// ErrTechnicalError is returned when the service reports a technical error.
	ErrTechnicalError = errors.New("there is a technical error with the akinator servers")

	// ErrTimeout is returned when the remote session expired.
	ErrTimeout = errors.New("akinator session timed out")

	// ErrNoMoreQuestions is returned when the service has nothing left to ask.
	ErrNoMoreQuestions = errors.New("there are no more available questions")

	// ErrConnection is returned when the service cannot be reached or answers
	// with an unknown completion.
	ErrConnection = errors.New("failed to connect to akinator servers")

	// ErrCantGoBackAnyFurther is returned by Back on the first question.
	ErrCantGoBackAnyFurther = errors.New("cannot go back any further, you are already on the first question")

	// ErrInvalidAnswer is returned for unparseable or out-of-range answers.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrUnsupportedLanguage is returned by ParseLanguage.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// HTTPError is returned when an endpoint answers with a non-2xx status.
type HTTPError struct {
	Op         string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

// Unwrap makes HTTP failures match ErrConnection.
func (e *HTTPError) Unwrap() error { return ErrConnection }

// CompletionError carries a non-OK completion code from the service.
type CompletionError struct {
	Err        error
	Op         string
	Completion string
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s: %v (completion %q)", e.Op, e.Err, e.Completion)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// completionErr maps a completion code to its sentinel, or nil for "OK".
func completionErr(completion string) error {
	switch completion {
	case "OK":
		return nil
	case "KO - SERVER DOWN":
		return ErrServersDown
	case "KO - TECHNICAL ERROR":
		return ErrTechnicalError
	case "KO - TIMEOUT":
		return ErrTimeout
	case "KO - ELEM LIST IS EMPTY", "WARN - NO QUESTION":
		return ErrNoMoreQuestions
	}
	return ErrConnection
}

package intent

import (
	"errors"
	"fmt"
)

// ErrExtraction matches any failure of the entity extractor.
var ErrExtraction = errors.New("entity extraction failed")

// ExtractionError carries the extractor's original error.
type ExtractionError struct {
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrExtraction.Error(), e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

// Result is the outcome of one parse: either an intent or an error, never both.
type Result struct {
	intent VacationIntent
	err    error
}

// Ok wraps a successfully parsed intent.
func Ok(v VacationIntent) Result {
	return Result{intent: v}
}

// Failed wraps a parse failure. A nil err is replaced so the variant stays a failure.
func Failed(err error) Result {
	if err == nil {
		err = errors.New("intent: unknown failure")
	}
	return Result{err: err}
}

func (r Result) Succeeded() bool {
	return r.err == nil
}

// Intent returns the parsed intent; zero value on failure.
func (r Result) Intent() VacationIntent {
	return r.intent
}

func (r Result) Err() error {
	return r.err
}

// Get unpacks the result into the usual (value, error) pair.
func (r Result) Get() (VacationIntent, error) {
	if r.err != nil {
		return VacationIntent{}, r.err
	}
	return r.intent, nil
}

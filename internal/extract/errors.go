package extract

import (
	"errors"
	"unicode/utf8"
)

// MaxSnippetLength is the number of characters of the failing input kept on
// an ExtractionFailedError for diagnostics.
const MaxSnippetLength = 500

var (
	// ErrEmptyInput is returned when the model answered with nothing but
	// whitespace.
	ErrEmptyInput = errors.New("no response from AI")

	// ErrSchemaMismatch is wrapped by ExtractionFailedError when valid JSON
	// was recovered but does not have the shape the caller asked for.
	ErrSchemaMismatch = errors.New("extracted JSON does not match the expected shape")
)

// ExtractionFailedError is returned when no strategy produced a parseable
// value. Error() is deliberately generic because it is shown to end users;
// Snippet carries the start of the last attempted candidate for logs.
type ExtractionFailedError struct {
	// Snippet is at most MaxSnippetLength characters of the last candidate.
	Snippet string

	// Strategy is the last strategy that was attempted.
	Strategy Strategy

	// Err is the last parse or validation error.
	Err error
}

// Error implements error.
func (e *ExtractionFailedError) Error() string {
	return "could not parse results"
}

// Unwrap returns the underlying parse error.
func (e *ExtractionFailedError) Unwrap() error {
	return e.Err
}

// snippet returns the first MaxSnippetLength characters of s without
// splitting a multi-byte character.
func snippet(s string) string {
	if utf8.RuneCountInString(s) <= MaxSnippetLength {
		return s
	}
	n := 0
	for i := range s {
		if n == MaxSnippetLength {
			return s[:i]
		}
		n++
	}
	return s
}

package llm

import (
	"errors"
)

var (
	// ErrMissingAPIKey is returned when no Gemini API key is configured.
	ErrMissingAPIKey = errors.New("gemini API key is required")

	// ErrEmptyPrompt is returned for a request without a prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrBlocked is wrapped when the model refused the prompt.
	ErrBlocked = errors.New("prompt was blocked")
)

// ServiceError is a failure of the report generation service. Error()
// returns the underlying message unchanged, because the provider's own
// wording (quota exceeded, invalid key, ...) is what the user needs to see.
type ServiceError struct {
	// Model is the model that was called, if known.
	Model string

	// Err is the original error.
	Err error
}

// Error implements error.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return "report generation service failed"
	}
	return e.Err.Error()
}

// Unwrap returns the original error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// asServiceError wraps err unless it already is a *ServiceError.
func asServiceError(modelName string, err error) error {
	if err == nil {
		return nil
	}
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return &ServiceError{Model: modelName, Err: err}
}

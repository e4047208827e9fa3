package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode recovers a JSON value from text with Extract and decodes it into T.
// Struct values (and structs inside slices) are then checked against their
// `validate` tags. A value that parses but does not fit T is reported as an
// *ExtractionFailedError wrapping ErrSchemaMismatch; the Result is returned
// alongside so callers can log which strategy was used.
func Decode[T any](text string, opts ...Option) (T, *Result, error) {
	var out T

	res, err := Extract(text, opts...)
	if err != nil {
		return out, nil, err
	}

	mismatch := func(cause error) error {
		return &ExtractionFailedError{
			Snippet:  snippet(res.Candidate),
			Strategy: res.Strategy,
			Err:      fmt.Errorf("%w: %w", ErrSchemaMismatch, cause),
		}
	}

	raw, err := json.Marshal(res.Value)
	if err != nil {
		return out, res, mismatch(err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&out); err != nil {
		return out, res, mismatch(err)
	}
	if err := ValidateValue(out); err != nil {
		return out, res, mismatch(err)
	}
	return out, res, nil
}

// ValidateValue runs struct validation on v, descending into slices and
// arrays. Other kinds are accepted as is.
func ValidateValue(v any) error {
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Struct:
		if err := validate.Struct(v); err != nil {
			return formatValidationError(err)
		}
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if err := ValidateValue(rv.Index(i).Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	default:
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "url", "http_url":
		return field + " must be a URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return field + " is invalid"
	}
}

package service

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/jask/surveyboard/internal/survey"
)

// FieldError is one failed form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Message) }

// ValidationError aggregates every field problem of a create request. It is
// produced before any network call.
type ValidationError struct {
	err error
}

func (e *ValidationError) Error() string { return "validation failed: " + e.err.Error() }

// Unwrap exposes the individual field errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error { return multierr.Errors(e.err) }

// Fields lists the failing fields in form order.
func (e *ValidationError) Fields() []FieldError {
	var out []FieldError
	for _, err := range multierr.Errors(e.err) {
		if fe, ok := err.(*FieldError); ok {
			out = append(out, *fe)
		}
	}
	return out
}

// Has reports whether field failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields() {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Validate checks the required fields of a new survey.
func Validate(in survey.Input) error {
	var err error
	if strings.TrimSpace(in.Title) == "" {
		err = multierr.Append(err, &FieldError{Field: "title", Message: "Title is required"})
	}
	if strings.TrimSpace(string(in.Status)) == "" {
		err = multierr.Append(err, &FieldError{Field: "status", Message: "Status is required"})
	}
	if strings.TrimSpace(in.Type) == "" {
		err = multierr.Append(err, &FieldError{Field: "type", Message: "Type is required"})
	}
	if strings.TrimSpace(in.Language) == "" {
		err = multierr.Append(err, &FieldError{Field: "language", Message: "Language is required"})
	}
	if err != nil {
		return &ValidationError{err: err}
	}
	return nil
}

package validation

import (
	"errors"
	"sort"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// Violation is a single field level constraint failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries the violations that rejected a payload.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// New builds an *Error from explicit violations.
func New(violations ...Violation) *Error {
	return &Error{Violations: violations}
}

// FromError converts the result of ozzo.ValidateStruct into an *Error.
// It returns nil for a nil error and passes through errors that are not
// validation failures (e.g. ozzo.InternalError).
func FromError(err error) error {
	if err == nil {
		return nil
	}

	var errs ozzo.Errors
	if !errors.As(err, &errs) {
		return err
	}

	violations := make([]Violation, 0, len(errs))
	collect("", errs, &violations)
	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Field < violations[j].Field
	})
	return &Error{Violations: violations}
}

func collect(prefix string, errs ozzo.Errors, out *[]Violation) {
	for field, err := range errs {
		name := field
		if prefix != "" {
			name = prefix + "." + field
		}
		var nested ozzo.Errors
		if errors.As(err, &nested) {
			collect(name, nested, out)
			continue
		}
		*out = append(*out, Violation{Field: name, Message: err.Error()})
	}
}

// Violations extracts the violations of err, if it is a validation error.
func Violations(err error) ([]Violation, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Violations, true
	}
	return nil, false
}

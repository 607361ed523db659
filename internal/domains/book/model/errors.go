package model

import (
	"errors"
	"net/http"

	"bookapi-backend/internal/shared/validation"
)

var ErrBookNotFound = errors.New("book not found")

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return "NOT_FOUND"
	case isValidation(err):
		return "VALIDATION_FAILED"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return http.StatusNotFound
	case isValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isValidation(err error) bool {
	_, ok := validation.Violations(err)
	return ok
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
)

// Error codes surfaced by the API.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeValidation   = "VALIDATION_FAILED"
	CodeInternal     = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// New constructs a DomainError.
func New(code, message string, status int) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status}
}

func Unauthorized(message string) error {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Forbidden(message string) error {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NotFound(resource string) error {
	return New(CodeNotFound, resource+" tidak ditemukan", http.StatusNotFound)
}

// Conflict reports a violated precondition. The API contract maps it to 400.
func Conflict(message string) error {
	return New(CodeConflict, message, http.StatusBadRequest)
}

func Validation(message string) error {
	return New(CodeValidation, message, http.StatusBadRequest)
}

// Internal wraps an unexpected failure; the cause is kept for logging only.
func Internal(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "Server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// From converts any error into a DomainError.
func From(err error) *DomainError {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return New(CodeNotFound, "Data tidak ditemukan", http.StatusNotFound)
	}
	return Internal(err).(*DomainError)
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

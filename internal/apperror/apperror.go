// Package apperror defines the domain error taxonomy shared by every layer.
//
// Services return *AppError values wrapping one of the sentinel errors below.
// Callers branch with errors.Is(err, apperror.ErrXxx); the HTTP layer maps each
// sentinel to a status code in exactly one place (handler/response.go).
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("Validation Error")
	ErrConflict            = errors.New("conflict")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotFoundOrForbidden = errors.New("not found or forbidden")
	ErrDeadlinePassed      = errors.New("deadline passed")
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthenticated means no valid session was presented.
// It is deliberately distinct from Forbidden (valid session, wrong role).
func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "valid authentication required",
	}
}

// InvalidCredentials is returned for both an unknown email and a wrong
// password, so a caller cannot tell which accounts exist.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid email or password",
	}
}

// NotFoundOrForbidden collapses "does not exist" and "not yours" into one
// answer for owner-only mutations.
func NotFoundOrForbidden(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFoundOrForbidden,
		Message: fmt.Sprintf("%s %s not found or not owned by you", resource, id),
	}
}

func DeadlinePassed(assignmentID string) *AppError {
	return &AppError{
		Err:     ErrDeadlinePassed,
		Message: fmt.Sprintf("the deadline for assignment %s has passed", assignmentID),
	}
}

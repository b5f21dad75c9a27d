package errors

import "fmt"

// ApplicationError represents a domain-specific error
type ApplicationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	cause   error
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *ApplicationError) Unwrap() error {
	return e.cause
}

// WithCause attaches the error that triggered this one
func (e *ApplicationError) WithCause(err error) *ApplicationError {
	e.cause = err
	return e
}

// Error constructors
func NewValidationError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  400,
	}
}

func NewUnauthorizedError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  401,
	}
}

func NewForbiddenError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  403,
	}
}

func NewNotFoundError(resource string) *ApplicationError {
	return &ApplicationError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  404,
	}
}

func NewRequestTimeoutError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "REQUEST_TIMEOUT",
		Message: message,
		Status:  408,
	}
}

func NewConflictError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "CONFLICT",
		Message: message,
		Status:  409,
	}
}

func NewInternalError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  500,
	}
}

func NewBadGatewayError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "BAD_GATEWAY",
		Message: message,
		Status:  502,
	}
}

func NewServiceUnavailableError(message string) *ApplicationError {
	return &ApplicationError{
		Code:    "SERVICE_UNAVAILABLE",
		Message: message,
		Status:  503,
	}
}

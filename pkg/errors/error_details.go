package errors

import stderrors "errors"

// ErrorDetails represents detailed information about an error.
type ErrorDetails struct {
	// Message (required) is the user-defined error message.
	// E.g. "quantity must be positive".
	Message string

	// Code (required) is one of the ErrorCode values.
	Code string

	// Field (optional) is the related field the error occurred on, if any.
	Field string
}

// NewErrorDetails creates a new ErrorDetails struct with the given parameters.
func NewErrorDetails(message, code, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

// Error() is used to implement the Golang `error` interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// ErrorCodeEquals checks whether a given `error` has a specific code.
// Wrapped errors, tracers and base errors are inspected as well.
func ErrorCodeEquals(err error, code ErrorCode) bool {
	var details *ErrorDetails
	if stderrors.As(err, &details) {
		return details.Code == string(code)
	}

	var base *BaseError
	if stderrors.As(err, &base) {
		return base.IsAnyCodeEqual(string(code))
	}

	return false
}

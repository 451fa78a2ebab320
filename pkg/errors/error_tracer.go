package errors

import "github.com/pkg/errors"

// ErrorTracer is a custom error type that includes a message and an underlying error.
type ErrorTracer struct {
	Message string
	Err     error
}

// NewTracer creates a new ErrorTracer with the provided message.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{
		Message: message,
	}
}

// TracerFromError creates a new ErrorTracer from an existing error, preserving the stack trace.
func TracerFromError(err error) *ErrorTracer {
	tracer := NewTracer(err.Error())
	tracer.Err = err
	_, ok := err.(StackTracer)
	if !ok {
		tracer.Err = errors.WithStack(err)
	}
	return tracer
}

// Wrap attaches err as the cause of the tracer, recording a stack if err has none.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	if err == nil {
		return e
	}

	if _, ok := err.(StackTracer); ok {
		e.Err = err
	} else {
		e.Err = errors.WithStack(err)
	}

	return e
}

// StackTracer is an interface that requires a StackTrace method.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

func (e *ErrorTracer) Error() string {
	if e.Err != nil && e.Message != e.Err.Error() {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// StackTrace returns the stack trace recorded on the wrapped cause.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	if st, ok := e.Err.(StackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

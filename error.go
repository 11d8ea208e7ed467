package svcerr

import (
	stderrors "errors"
	"fmt"
)

// ClassifiedError is an error annotated with its kind and end-user message.
//
// ClassifiedError is immutable: WithContext returns a copy. It works with
// errors.Is, errors.As and errors.Unwrap; errors.Is matches another
// *ClassifiedError of the same kind.
type ClassifiedError struct {
	kind    ErrorKind
	message string
	context map[string]any
	cause   error
}

// NewError creates a ClassifiedError without a cause.
//
// Example:
//
//	err := svcerr.NewError(svcerr.KindNoV4Services, "no OData V4 services in catalog")
func NewError(kind ErrorKind, message string) *ClassifiedError {
	return &ClassifiedError{kind: kind, message: message}
}

// NewErrorf creates a ClassifiedError with a formatted message.
func NewErrorf(kind ErrorKind, format string, args ...any) *ClassifiedError {
	return &ClassifiedError{kind: kind, message: fmt.Sprintf(format, args...)}
}

// Error returns "[Kind] message" or "[Kind] message: cause".
func (e *ClassifiedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.kind, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.kind, e.message)
}

// Kind returns the error kind.
func (e *ClassifiedError) Kind() ErrorKind {
	return e.kind
}

// Message returns the end-user message.
func (e *ClassifiedError) Message() string {
	return e.message
}

// Context returns a copy of the attached metadata, or nil.
func (e *ClassifiedError) Context() map[string]any {
	if e.context == nil {
		return nil
	}
	ctx := make(map[string]any, len(e.context))
	for k, v := range e.context {
		ctx[k] = v
	}
	return ctx
}

// Unwrap returns the classified failure.
func (e *ClassifiedError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a *ClassifiedError of the same kind.
func (e *ClassifiedError) Is(target error) bool {
	t, ok := target.(*ClassifiedError)
	return ok && t.kind == e.kind
}

// WithContext returns a copy of e with key set to value.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	ctx := e.Context()
	if ctx == nil {
		ctx = make(map[string]any, 1)
	}
	ctx[key] = value
	return &ClassifiedError{kind: e.kind, message: e.message, context: ctx, cause: e.cause}
}

// Wrap classifies err and returns it as a *ClassifiedError carrying the
// rendered message. Errors that are already classified are returned as is.
// Returns nil if err is nil.
//
// Example:
//
//	resp, err := client.Do(req)
//	if err != nil {
//	    return handler.Wrap(err)
//	}
func (h *Handler) Wrap(err error) error {
	if err == nil {
		return nil
	}
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return err
	}
	kind, msg := h.describe(Raw(err))
	return &ClassifiedError{kind: kind, message: msg, cause: err}
}

// KindOf returns the kind of the outermost *ClassifiedError in err's chain,
// classifying err with the default registry when there is none.
// Returns KindUnknown for nil.
//
// Example:
//
//	if svcerr.KindOf(err).IsCertificate() {
//	    return promptTrustCertificate()
//	}
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return ce.kind
	}
	return ClassifyValue(err)
}

// IsKind reports whether err is of kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// Is is a convenience wrapper around the standard library errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is a convenience wrapper around the standard library errors.As.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

package app

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure an operation can report
type ErrorKind int

const (
	// KindInvalidArgument covers bad coordinates, malformed references and ragged payloads.
	// Always detected before any network call.
	KindInvalidArgument ErrorKind = iota + 1
	// KindNoData is a well-formed read that came back empty
	KindNoData
	// KindAuthorizationFailed means the credential was missing, unreadable or rejected
	KindAuthorizationFailed
	// KindTransportInitFailed means the backend handle could not be constructed
	KindTransportInitFailed
	// KindRemoteFailure carries a backend or network error verbatim
	KindRemoteFailure
	// KindInternal is reported when an operation body panics
	KindInternal
)

// String returns the canonical name of the kind
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindNoData:
		return "NoData"
	case KindAuthorizationFailed:
		return "AuthorizationFailed"
	case KindTransportInitFailed:
		return "TransportInitFailed"
	case KindRemoteFailure:
		return "RemoteFailure"
	case KindInternal:
		return "Internal"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinels for errors.Is matching by kind.
var (
	ErrInvalidArgument     = &Error{Kind: KindInvalidArgument}
	ErrNoData              = &Error{Kind: KindNoData}
	ErrAuthorizationFailed = &Error{Kind: KindAuthorizationFailed}
	ErrTransportInitFailed = &Error{Kind: KindTransportInitFailed}
	ErrRemoteFailure       = &Error{Kind: KindRemoteFailure}
	ErrInternal            = &Error{Kind: KindInternal}
)

// Error is the failure half of an operation outcome.
type Error struct {
	Kind    ErrorKind
	Op      string // operation name, e.g. "ReadRow"; empty below the operation layer
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError creates an Error of the given kind with a formatted message
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates an Error of the given kind around a cause.
// The cause's message is kept verbatim.
func WrapError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

// InvalidArgument is shorthand for NewError(KindInvalidArgument, ...)
func InvalidArgument(format string, args ...interface{}) *Error {
	return NewError(KindInvalidArgument, format, args...)
}

// KindOf extracts the kind from err. Errors that carry no kind are remote failures.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindRemoteFailure
}

// WithOp returns err as an *Error tagged with the operation name.
// Untyped errors become remote failures.
func WithOp(op string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		tagged := *e
		tagged.Op = op
		return &tagged
	}
	return &Error{Kind: KindRemoteFailure, Op: op, Message: err.Error(), Err: err}
}

// OperationError is what the error-notification channel carries for each failed operation
type OperationError struct {
	Operation string
	Kind      ErrorKind
	Message   string
}

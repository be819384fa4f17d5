package core

import "errors"

// ErrorKind classifies a failure so handlers can map it to a fixed HTTP
// status without exposing internal error text to clients.
type ErrorKind int

const (
	// KindInvalidInput marks errors caused by a bad client request.
	KindInvalidInput ErrorKind = iota
	// KindDetectionFailure marks errors raised while analyzing an image.
	KindDetectionFailure
	// KindInternal marks everything else.
	KindInternal
)

// Error pairs an internal cause with a client-safe message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind and a message safe to return to clients.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ClientMessage returns the message of err that is safe to send to clients.
// Unclassified errors yield a generic message.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}

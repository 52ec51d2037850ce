package models

import "errors"

// Kind classifies store-layer failures. The HTTP boundary translates kinds to
// status codes in one place; anything unclassified is treated as internal.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindNotFound
	KindConflict
	KindTx
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func ValidationErr(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// AuthErr deliberately carries the same message for an unknown email and a bad
// password so callers cannot probe which accounts exist.
func AuthErr() *Error {
	return &Error{Kind: KindAuth, Message: "unknown user"}
}

func NotFoundErr(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func ConflictErr(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// TxErr marks a multi-statement operation that failed after rolling back.
func TxErr(msg string, err error) *Error {
	return &Error{Kind: KindTx, Message: msg, Err: err}
}

// KindOf returns the classification of err, or 0 when it carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

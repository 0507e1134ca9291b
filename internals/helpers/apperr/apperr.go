// file: internals/helpers/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
)

// Kind membedakan "input/token kamu salah" dari "sistem rusak".
type Kind int

const (
	KindInternal Kind = iota
	KindConfiguration
	KindValidation
	KindNotFound
	KindState
	KindInvalidToken
	KindDuplicate
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindState:
		return "state"
	case KindInvalidToken:
		return "invalid_token"
	case KindDuplicate:
		return "duplicate"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Code    string // kode mesin, mis. "not_configured"; di response jadi NOT_CONFIGURED
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// ===== shortcut konstruktor =====

func Configuration(code, message string) *Error {
	return New(KindConfiguration, code, message)
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func State(code, message string) *Error {
	return New(KindState, code, message)
}

func InvalidToken(code, message string) *Error {
	return New(KindInvalidToken, code, message)
}

func Duplicate(code, message string) *Error {
	return New(KindDuplicate, code, message)
}

// Internal membungkus error storage/backend yang tidak terduga.
func Internal(message string, err error) *Error {
	return Wrap(KindInternal, "internal_error", message, err)
}

// KindOf mengembalikan KindInternal untuk error yang bukan *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

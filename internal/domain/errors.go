package domain

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing driver-specific codes.
type ErrKind int

const (
	ErrKindStore ErrKind = iota
	ErrKindConfiguration
	ErrKindValidation
	ErrKindNotFound
	ErrKindAlreadyExists
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindConfiguration:
		return "configuration"
	case ErrKindValidation:
		return "validation"
	case ErrKindNotFound:
		return "not_found"
	case ErrKindAlreadyExists:
		return "already_exists"
	default:
		return "store"
	}
}

// Error is the single error type returned by the data-access layer.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Message == "":
		return e.Kind.String()
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets the kind sentinels below match any error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Cause == nil && t.Kind == e.Kind
}

var (
	ErrStore         = &Error{Kind: ErrKindStore}
	ErrConfiguration = &Error{Kind: ErrKindConfiguration}
	ErrValidation    = &Error{Kind: ErrKindValidation}
	ErrNotFound      = &Error{Kind: ErrKindNotFound}
	ErrAlreadyExists = &Error{Kind: ErrKindAlreadyExists}
)

func Validation(msg string) *Error { return &Error{Kind: ErrKindValidation, Message: msg} }

func Configuration(msg string) *Error { return &Error{Kind: ErrKindConfiguration, Message: msg} }

// NotFound names the missing entity, e.g. NotFound("hotel").
func NotFound(entity string) *Error {
	return &Error{Kind: ErrKindNotFound, Message: entity + " not found"}
}

func AlreadyExists(entity string) *Error {
	return &Error{Kind: ErrKindAlreadyExists, Message: entity + " already exists"}
}

func Store(msg string, cause error) *Error {
	return &Error{Kind: ErrKindStore, Message: msg, Cause: cause}
}

// KindOf extracts the ErrKind from any error in the chain; unknown errors are store errors.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindStore
}

// Package apperrors holds the closed set of failure kinds shared by the
// identity adapter and the project sync layer.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotAuthenticated
	KindAccessDenied
	KindNotFound
	KindValidation
	KindStoreUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindAccessDenied:
		return "access_denied"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_error"
	case KindStoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

var (
	ErrNotAuthenticated = errors.New("sign-in required")
	ErrAccessDenied     = errors.New("access denied")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrStoreUnavailable = errors.New("store unavailable")
)

var sentinels = map[Kind]error{
	KindNotAuthenticated: ErrNotAuthenticated,
	KindAccessDenied:     ErrAccessDenied,
	KindNotFound:         ErrNotFound,
	KindValidation:       ErrValidation,
	KindStoreUnavailable: ErrStoreUnavailable,
}

// Error is a classified failure. Message is shown to users as-is.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// New returns a classified error with the given message.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Validation returns a KindValidation error with a formatted message.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Unavailable wraps a transport or service failure. The underlying message
// is kept verbatim.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindStoreUnavailable, Message: err.Error(), Err: err}
}

// KindOf classifies err. Unclassified errors report KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for kind, s := range sentinels {
		if errors.Is(err, s) {
			return kind
		}
	}
	return KindUnknown
}

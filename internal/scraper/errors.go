package scraper

import (
	"errors"
	"fmt"
)

// Kind classifies scrape failures. A Kind is itself an error so callers can
// test with errors.Is(err, scraper.ErrParse).
type Kind int

const (
	KindUnknown Kind = iota
	ErrSession
	ErrNavigation
	ErrElementNotFound
	ErrParse
	ErrNetwork
	ErrJSONShape
	ErrNotImplemented
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case ErrSession:
		return "session"
	case ErrNavigation:
		return "navigation"
	case ErrElementNotFound:
		return "element_not_found"
	case ErrParse:
		return "parse"
	case ErrNetwork:
		return "network"
	case ErrJSONShape:
		return "json_shape"
	case ErrNotImplemented:
		return "not_implemented"
	default:
		return "unknown"
	}
}

func (k Kind) Error() string {
	return k.String()
}

// Error is a classified scrape failure
type Error struct {
	Kind    Kind
	Site    string
	Message string
	Cause   error
}

// NewError creates a classified error; site may be empty for site-agnostic failures
func NewError(kind Kind, site, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Site:    site,
		Message: message,
		Cause:   cause,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Site != "" {
		msg = e.Site + ": " + msg
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause
func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// KindOf returns the kind of the first classified error in err's chain
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return KindUnknown
}

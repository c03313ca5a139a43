// Package errors defines typed site application errors.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
)

// Kind classifies application failures for consistent HTTP mapping.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindUnavailable  Kind = "unavailable"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
)

// Error is a typed application failure. Key names a catalog message shown to
// the visitor; Message is the raw detail for logs and fallbacks.
type Error struct {
	Kind    Kind
	Key     string
	Message string
	Err     error
}

// Error renders the human-readable message.
func (e Error) Error() string {
	if e.Message == "" {
		if e.Err != nil {
			return e.Err.Error()
		}
		return string(e.Kind)
	}
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e Error) Unwrap() error {
	return e.Err
}

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: message}
}

// EK builds a typed Error with a localization key.
func EK(kind Kind, key string, message string) error {
	return Error{Kind: kind, Key: strings.TrimSpace(key), Message: message}
}

// Wrap classifies err under kind while keeping it in the chain.
func Wrap(kind Kind, key string, err error) error {
	if err == nil {
		return nil
	}
	return Error{Kind: kind, Key: strings.TrimSpace(key), Err: err}
}

// KindOf returns the kind of the first typed error in err's chain.
func KindOf(err error) Kind {
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return KindUnknown
	}
	return appErr.Kind
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// LocalizationKey returns the structured localization key when available.
func LocalizationKey(err error) string {
	var appErr Error
	if err == nil || !stderrors.As(err, &appErr) {
		return ""
	}
	return strings.TrimSpace(appErr.Key)
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

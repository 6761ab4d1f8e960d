// Package mterr defines the tagged error taxonomy threaded through the
// expansion, translation, and reassembly stages. Every error the core
// returns is a *mterr.Error with a fixed Kind, so callers can branch on
// failure mode without string matching.
package mterr

import (
	"errors"
	"fmt"
)

// Kind tags the stage and nature of a failure.
type Kind string

const (
	// KindExpansion covers a variant cap overflow or AST inconsistency
	// during expansion.
	KindExpansion Kind = "expansion"
	// KindInvalidLocale covers a locale that does not parse or has no
	// plural rules.
	KindInvalidLocale Kind = "invalid_locale"
	// KindConsistency covers the reassembly similarity guard tripping.
	KindConsistency Kind = "consistency"
	// KindReassembly covers empty variants, a source/translated length
	// mismatch, or a non-singleton result after axis collapse.
	KindReassembly Kind = "reassembly"
	// KindConfig covers MT provider misconfiguration (missing key, etc.).
	KindConfig Kind = "config"
	// KindNetwork covers MT provider transport failures.
	KindNetwork Kind = "network"
	// KindTranslation covers MT provider-side translation failures.
	KindTranslation Kind = "translation"
)

// Error is the concrete error type returned by every stage boundary.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with no wrapped cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds an *Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error tagging an existing error with a Kind.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// Wrapf builds an *Error tagging an existing error with a Kind and a
// formatted message.
func Wrapf(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// Is reports whether err is an *Error of the given Kind, unwrapping
// through any wrapper chain.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

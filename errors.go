// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

import (
	"errors"
	"fmt"
)

// SyntaxError is the concrete type of errors reported by strict decoding.
type SyntaxError struct {
	Offset   int     // absolute byte offset of the failure in the input
	Location LineCol // line and column corresponding to Offset
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s (offset %d): %s", s.Location, s.Offset, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// EncodeError is the concrete type of errors reported by encoding.
type EncodeError struct {
	Message string
}

// Error satisfies the error interface.
func (e *EncodeError) Error() string { return "encode: " + e.Message }

// errNoMatch is the failure reported by every decoder in probe mode.
// It carries no detail, and reporting it does not allocate.
var errNoMatch = errors.New("no match")

// A mode selects whether a decoder reports failures in detail (strict) or
// only reports that the input did not match (probe).
type mode bool

const (
	strict mode = false
	probe  mode = true
)

// failf reports a decoding failure at the position of c.
// In probe mode the message is not formatted.
func (m mode) failf(c Cursor, msg string, args ...any) error {
	if m == probe {
		return errNoMatch
	}
	return &SyntaxError{Offset: c.pos, Message: fmt.Sprintf(msg, args...)}
}

// wrapf reports a decoding failure at the position of c that was caused by
// err, which is preserved for unwrapping.
func (m mode) wrapf(c Cursor, err error, msg string, args ...any) error {
	if m == probe {
		return errNoMatch
	}
	return &SyntaxError{Offset: c.pos, Message: fmt.Sprintf(msg, args...), err: err}
}

// unexpected reports that c does not begin with the delimiter want.
func (m mode) unexpected(c Cursor, want byte) error {
	if m == probe {
		return errNoMatch
	}
	if c.empty() {
		return m.failf(c, "unexpected end of input, expected %q", want)
	}
	return m.failf(c, "unexpected %q, expected %q", c.head(), want)
}

// locateError fills in the line and column of err, if it is a syntax error,
// relative to the original input text.
func locateError(err error, text string) error {
	var serr *SyntaxError
	if errors.As(err, &serr) {
		serr.Location = locate(text, serr.Offset)
	}
	return err
}

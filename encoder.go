// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

import (
	"fmt"
	"strings"

	"github.com/creachadair/jshape/internal/escape"
	"go4.org/mem"
)

// An Indent is the unit of indentation used by EncodeIndent for each level
// of nesting. The zero Indent indents by zero spaces per level, which places
// each member on its own line without indentation.
type Indent struct {
	unit string
}

// Spaces returns an Indent of n spaces per level. It panics if n < 0.
func Spaces(n int) Indent {
	if n < 0 {
		panic(fmt.Sprintf("invalid indent width %d", n))
	}
	return Indent{unit: strings.Repeat(" ", n)}
}

// Tab is an Indent of one tab per level.
var Tab = Indent{unit: "\t"}

// Encode encodes v as compact JSON text using c. In case of error, the
// concrete type of the error is *EncodeError.
func Encode[T any](c Codec[T], v T) (string, error) {
	return encodeWith(c, v, &encoder{})
}

// EncodeIndent encodes v as JSON text using c, placing each member of an
// object or array on its own line indented by ind per level of nesting.
// Empty objects and arrays are rendered as {} and [].
func EncodeIndent[T any](c Codec[T], v T, ind Indent) (string, error) {
	return encodeWith(c, v, &encoder{indent: true, unit: ind.unit})
}

func encodeWith[T any](c Codec[T], v T, e *encoder) (string, error) {
	if isAbsent(c, v) {
		return "", &EncodeError{Message: "top-level value is absent"}
	}
	c.encode(e, v)
	if e.err != nil {
		return "", e.err
	}
	return string(e.buf), nil
}

// An encoder accumulates the encoding of a value. The first error reported
// during encoding is retained, and later output is discarded by the caller.
type encoder struct {
	buf    []byte
	indent bool     // whether to place members on separate lines
	unit   string   // the indentation unit per level
	depth  int      // current nesting depth
	cache  []string // cached indentation prefixes, by depth
	err    error
}

// failf records an encoding failure, if one has not already been recorded.
func (e *encoder) failf(msg string, args ...any) {
	if e.err == nil {
		e.err = &EncodeError{Message: fmt.Sprintf(msg, args...)}
	}
}

func (e *encoder) writeString(s string) { e.buf = append(e.buf, s...) }
func (e *encoder) writeByte(b byte)     { e.buf = append(e.buf, b) }

// quote appends the JSON encoding of s.
func (e *encoder) quote(s string) { e.buf = escape.Quote(e.buf, mem.S(s)) }

// prefix returns the indentation prefix for the current depth.
func (e *encoder) prefix() string {
	for len(e.cache) <= e.depth {
		e.cache = append(e.cache, strings.Repeat(e.unit, len(e.cache)))
	}
	return e.cache[e.depth]
}

// newline begins a new line at the current depth, if indenting.
func (e *encoder) newline() {
	if e.indent {
		e.writeByte('\n')
		e.writeString(e.prefix())
	}
}

// A composite tracks the members written to an array or object.
type composite struct {
	e     *encoder
	close byte
	n     int
}

// open writes the opening delimiter of an array or object and begins a new
// level of nesting.
func (e *encoder) open(open, close byte) *composite {
	e.writeByte(open)
	e.depth++
	return &composite{e: e, close: close}
}

// next begins the next member of the composite.
func (c *composite) next() {
	if c.n > 0 {
		c.e.writeByte(',')
	}
	c.n++
	c.e.newline()
}

// key begins the next member of an object, and writes its key.
func (c *composite) key(name string) {
	c.next()
	c.e.quote(name)
	c.e.writeByte(':')
	if c.e.indent {
		c.e.writeByte(' ')
	}
}

// done ends the level of nesting and writes the closing delimiter.
// An empty composite is written without line breaks.
func (c *composite) done() {
	c.e.depth--
	if c.n > 0 {
		c.e.newline()
	}
	c.e.writeByte(c.close)
}

// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

import "go4.org/mem"

// A Cursor is a read-only view of the unconsumed remainder of an input,
// together with the offset of that remainder from the start of the input.
//
// Every decoding step that succeeds returns a cursor that is a suffix of its
// input cursor.
type Cursor struct {
	rest mem.RO
	pos  int
}

func newCursor(text string) Cursor { return Cursor{rest: mem.S(text)} }

// Offset returns the byte offset of c from the start of the input.
func (c Cursor) Offset() int { return c.pos }

// Len returns the number of unconsumed bytes remaining.
func (c Cursor) Len() int { return c.rest.Len() }

// Rest returns a copy of the unconsumed remainder of the input.
func (c Cursor) Rest() string { return c.rest.StringCopy() }

func (c Cursor) empty() bool   { return c.rest.Len() == 0 }
func (c Cursor) at(i int) byte { return c.rest.At(i) }
func (c Cursor) head() byte    { return c.rest.At(0) }

// advance returns a cursor positioned n bytes past c.
// Precondition: 0 <= n <= c.Len().
func (c Cursor) advance(n int) Cursor {
	return Cursor{rest: c.rest.SliceFrom(n), pos: c.pos + n}
}

// text returns the bytes between c and a later cursor end.
func (c Cursor) text(end Cursor) mem.RO { return c.rest.SliceTo(end.pos - c.pos) }

// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

import (
	"sync"

	"github.com/tailscale/hujson"
)

// A Codec decodes JSON text into values of type T, and encodes values of
// type T as JSON text. The behavior of a codec is determined by its Shape.
//
// The Codec interface cannot be implemented outside this package; use the
// constructors such as Number, String, Slice, and Record to build codecs.
type Codec[T any] interface {
	// Shape reports the shape category of values handled by the codec.
	Shape() Shape

	// decode decodes a value from the front of c in the given mode, and
	// returns the value and a cursor positioned after it.
	decode(m mode, c Cursor) (T, Cursor, error)

	// encode appends the encoding of v to e.
	encode(e *encoder, v T)
}

// omitter is implemented by codecs whose values may be absent. Absent values
// are omitted from the encoding of their enclosing object or array.
type omitter[T any] interface {
	absent(v T) bool
}

// acceptor is implemented by codecs that can encode only some of the values
// of their type.
type acceptor[T any] interface {
	accepts(v T) bool
}

// isOptional reports whether values of c may be absent.
func isOptional[T any](c Codec[T]) bool {
	_, ok := c.(omitter[T])
	return ok
}

// isAbsent reports whether v is an absent value of c.
func isAbsent[T any](c Codec[T], v T) bool {
	if o, ok := c.(omitter[T]); ok {
		return o.absent(v)
	}
	return false
}

// accepts reports whether c can encode v.
func accepts[T any](c Codec[T], v T) bool {
	if a, ok := c.(acceptor[T]); ok {
		return a.accepts(v)
	}
	return true
}

// Decode decodes a value from the front of text using c. Any text following
// the value is ignored. In case of error, the concrete type of the error is
// *SyntaxError.
func Decode[T any](c Codec[T], text string) (T, error) {
	v, _, err := DecodeRemainder(c, text)
	return v, err
}

// DecodeRemainder decodes a value from the front of text using c, and
// returns the value along with the remaining unconsumed suffix of text.
func DecodeRemainder[T any](c Codec[T], text string) (T, string, error) {
	v, next, err := c.decode(strict, newCursor(text))
	if err != nil {
		var zero T
		return zero, text, locateError(err, text)
	}
	return v, text[next.pos:], nil
}

// Probe reports whether c can decode a value from the front of text. If so,
// it returns the value and the offset of the end of the value in text.
// Probe never reports why the input failed to match; use Decode for that.
func Probe[T any](c Codec[T], text string) (T, int, bool) {
	v, next, err := c.decode(probe, newCursor(text))
	if err != nil {
		var zero T
		return zero, 0, false
	}
	return v, next.pos, true
}

// DecodeJWCC decodes a value from text using c, where text may contain
// comments and trailing commas as permitted by JSON With Commas and Comments
// (JWCC). Comments and trailing commas are replaced by whitespace before
// decoding, so the offsets of syntax errors refer to the original text.
//
// Unlike Decode, the text must contain a single complete value, and strings
// must use double quotes. Text that is not well-formed JWCC is reported by
// an error from the JWCC parser rather than a *SyntaxError.
func DecodeJWCC[T any](c Codec[T], text string) (T, error) {
	std, err := hujson.Standardize([]byte(text))
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode(c, string(std))
}

// Defer returns a codec that calls f to obtain the codec it delegates to.
// It is used to construct codecs for recursive shapes. The function f is
// called at most once, the first time the codec is used.
func Defer[T any](f func() Codec[T]) Codec[T] { return deferred[T]{get: sync.OnceValue(f)} }

type deferred[T any] struct {
	get func() Codec[T]
}

func (d deferred[T]) Shape() Shape { return d.get().Shape() }

func (d deferred[T]) decode(m mode, c Cursor) (T, Cursor, error) { return d.get().decode(m, c) }

func (d deferred[T]) encode(e *encoder, v T) { d.get().encode(e, v) }

// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

import "github.com/creachadair/mds/value"

// Optional returns a codec for a value of shape c that may be absent.
//
// An absent value is omitted from the encoding of a record, map, or sequence
// that contains it, and a record field or trailing tuple element whose codec
// is optional may be missing from the input. A decoded value is always
// present. It is an error to encode an absent value at the top level.
//
// To make a recursive shape optional, wrap the result of Defer in Optional,
// not the other way around.
func Optional[T any](c Codec[T]) Codec[value.Maybe[T]] { return optCodec[T]{elem: c} }

type optCodec[T any] struct{ elem Codec[T] }

func (optCodec[T]) Shape() Shape { return ShapeOptional }

func (o optCodec[T]) decode(m mode, c Cursor) (value.Maybe[T], Cursor, error) {
	v, next, err := o.elem.decode(m, c)
	if err != nil {
		return value.Absent[T](), c, err
	}
	return value.Just(v), next, nil
}

func (o optCodec[T]) encode(e *encoder, v value.Maybe[T]) {
	w, ok := v.GetOK()
	if !ok {
		e.failf("cannot encode an absent value")
		return
	}
	o.elem.encode(e, w)
}

func (optCodec[T]) absent(v value.Maybe[T]) bool { return !v.Present() }

func (o optCodec[T]) accepts(v value.Maybe[T]) bool {
	w, ok := v.GetOK()
	return ok && accepts(o.elem, w)
}

// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// An Alt is one alternative of a union of type T.
// Use Variant to construct an Alt.
type Alt[T any] struct {
	desc   string // shape or literal, for errors
	decode func(m mode, c Cursor) (T, Cursor, error)
	match  func(v T) bool
	encode func(e *encoder, v T)
}

// Variant returns an alternative of a union of type T whose values are
// decoded and encoded by c. The type V must be T, or must implement T if T
// is an interface type; otherwise Variant panics.
func Variant[T, V any](c Codec[V]) Alt[T] {
	tt, vt := reflect.TypeFor[T](), reflect.TypeFor[V]()
	if vt != tt && (tt.Kind() != reflect.Interface || !vt.Implements(tt)) {
		panic(fmt.Sprintf("variant type %v is not assignable to %v", vt, tt))
	}
	desc := c.Shape().String()
	if k, ok := c.(interface{ literal() string }); ok {
		desc = strconv.Quote(k.literal())
	}
	return Alt[T]{
		decode: func(m mode, cur Cursor) (T, Cursor, error) {
			v, next, err := c.decode(m, cur)
			if err != nil {
				var zero T
				return zero, cur, err
			}
			t, _ := any(v).(T)
			return t, next, nil
		},
		match: func(v T) bool {
			w, ok := any(v).(V)
			return ok && accepts(c, w)
		},
		encode: func(e *encoder, v T) {
			w, _ := any(v).(V)
			c.encode(e, w)
		},
		desc: desc,
	}
}

// Union returns a codec for a value that may have any of several shapes.
//
// To decode, each alternative is tried in order, and the first that matches
// the input wins. Put more specific alternatives before more general ones.
//
// To encode, the value is encoded by the first alternative whose type holds
// the value and whose codec accepts it. A constant accepts only its literal.
//
// Union panics if alts is empty.
func Union[T any](alts ...Alt[T]) Codec[T] {
	if len(alts) == 0 {
		panic("union has no alternatives")
	}
	names := make([]string, len(alts))
	for i, alt := range alts {
		names[i] = alt.desc
	}
	return unionCodec[T]{alts: alts, want: strings.Join(names, " or ")}
}

type unionCodec[T any] struct {
	alts []Alt[T]
	want string // description of the alternatives, for errors
}

func (unionCodec[T]) Shape() Shape { return ShapeUnion }

func (u unionCodec[T]) decode(m mode, c Cursor) (T, Cursor, error) {
	start := skipSpace(c)
	for _, alt := range u.alts {
		if v, next, err := alt.decode(probe, start); err == nil {
			return v, next, nil
		}
	}
	var zero T
	return zero, c, m.expected(start, u.want)
}

func (u unionCodec[T]) encode(e *encoder, v T) {
	for _, alt := range u.alts {
		if alt.match(v) {
			alt.encode(e, v)
			return
		}
	}
	e.failf("no alternative of union matches %v", v)
}

func (u unionCodec[T]) accepts(v T) bool {
	for _, alt := range u.alts {
		if alt.match(v) {
			return true
		}
	}
	return false
}

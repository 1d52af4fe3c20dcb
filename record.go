// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

import (
	"fmt"

	"github.com/creachadair/mds/mapset"
)

// A Member describes one field of a record or one element of a tuple whose
// values are stored in a Go value of type R. Use Field or Elem to construct
// a Member.
type Member[R any] struct {
	name     string
	optional bool
	decode   func(m mode, c Cursor, r *R) (Cursor, error)
	absent   func(r *R) bool
	encode   func(e *encoder, r *R)
}

// Field returns a record member with the given key, whose value has the
// shape of c and is stored in the location of r returned by ref.
// The field is optional if c is an Optional codec.
func Field[R, F any](name string, ref func(r *R) *F, c Codec[F]) Member[R] {
	return Member[R]{
		name:     name,
		optional: isOptional(c),
		decode: func(m mode, cur Cursor, r *R) (Cursor, error) {
			v, next, err := c.decode(m, cur)
			if err != nil {
				return cur, err
			}
			*ref(r) = v
			return next, nil
		},
		absent: func(r *R) bool { return isAbsent(c, *ref(r)) },
		encode: func(e *encoder, r *R) { c.encode(e, *ref(r)) },
	}
}

// Elem returns a tuple member whose value has the shape of c and is stored
// in the location of r returned by ref. The element is optional if c is an
// Optional codec.
func Elem[R, F any](ref func(r *R) *F, c Codec[F]) Member[R] { return Field("", ref, c) }

// Record returns a codec for a JSON object with the given fields.
//
// Decoding reports an error for a key that is not one of the fields, for a
// key that occurs more than once, and for a required field that is missing.
// Fields are encoded in the order given, and absent optional fields are
// omitted. Record panics if two fields have the same name.
func Record[R any](fields ...Member[R]) Codec[R] {
	index := make(map[string]int, len(fields))
	names := mapset.New[string]()
	for i, f := range fields {
		if names.Has(f.name) {
			panic(fmt.Sprintf("duplicate field name %q", f.name))
		}
		names.Add(f.name)
		index[f.name] = i
	}
	return recordCodec[R]{fields: fields, index: index}
}

type recordCodec[R any] struct {
	fields []Member[R]
	index  map[string]int
}

func (recordCodec[R]) Shape() Shape { return ShapeRecord }

func (rc recordCodec[R]) decode(m mode, c Cursor) (R, Cursor, error) {
	var out R
	seen := make([]bool, len(rc.fields))
	end, err := walkObject(m, c, func(m mode, key string, at, c Cursor) (Cursor, error) {
		i, ok := rc.index[key]
		if !ok {
			return c, m.fieldf(at, "unknown field %q", key)
		} else if seen[i] {
			return c, m.fieldf(at, "duplicate field %q", key)
		}
		seen[i] = true
		return rc.fields[i].decode(m, c, &out)
	})
	if err != nil {
		var zero R
		return zero, c, err
	}
	for i, f := range rc.fields {
		if !seen[i] && !f.optional {
			var zero R
			return zero, c, m.fieldf(end, "missing required field %q", f.name)
		}
	}
	return out, end.advance(1), nil
}

func (rc recordCodec[R]) encode(e *encoder, v R) {
	obj := e.open('{', '}')
	for _, f := range rc.fields {
		if !f.absent(&v) {
			obj.key(f.name)
			f.encode(e, &v)
		}
	}
	obj.done()
}

// fieldf reports a failure concerning the named member of an object.
// The name is not formatted in probe mode.
func (m mode) fieldf(c Cursor, msg, name string) error {
	if m == probe {
		return errNoMatch
	}
	return m.failf(c, msg, name)
}

// Tuple returns a codec for a JSON array of fixed arity, whose elements are
// the given members in order.
//
// Optional elements must form a contiguous suffix of elems, and may be
// missing from the end of the input. When encoding, absent trailing elements
// are omitted. Tuple panics if an optional element is followed by one that
// is required.
func Tuple[R any](elems ...Member[R]) Codec[R] {
	required := len(elems)
	for i, elt := range elems {
		if elt.optional && required == len(elems) {
			required = i
		} else if !elt.optional && required < i {
			panic(fmt.Sprintf("required tuple element %d follows optional element %d", i, required))
		}
	}
	return tupleCodec[R]{elems: elems, required: required}
}

type tupleCodec[R any] struct {
	elems    []Member[R]
	required int // the number of required elements
}

func (tupleCodec[R]) Shape() Shape { return ShapeTuple }

func (tc tupleCodec[R]) decode(m mode, c Cursor) (R, Cursor, error) {
	var out R
	n := 0
	end, err := walkArray(m, c, func(m mode, i int, c Cursor) (Cursor, error) {
		if i >= len(tc.elems) {
			return c, m.arityf(skipSpace(c), "too many elements, want at most %d", len(tc.elems))
		}
		n++
		return tc.elems[i].decode(m, c, &out)
	})
	if err != nil {
		var zero R
		return zero, c, err
	} else if n < tc.required {
		var zero R
		return zero, c, m.arityf(end, "got %d elements, want at least %d", n, tc.required)
	}
	return out, end.advance(1), nil
}

func (tc tupleCodec[R]) encode(e *encoder, v R) {
	n := len(tc.elems)
	for n > tc.required && tc.elems[n-1].absent(&v) {
		n--
	}
	arr := e.open('[', ']')
	for _, elt := range tc.elems[:n] {
		if elt.absent(&v) {
			e.failf("absent tuple element is followed by a present element")
			return
		}
		arr.next()
		elt.encode(e, &v)
	}
	arr.done()
}

// A Pair is a tuple of two elements.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Tuple2 returns a codec for a JSON array of two elements with the shapes of
// a and b, represented as a Pair.
func Tuple2[A, B any](a Codec[A], b Codec[B]) Codec[Pair[A, B]] {
	return Tuple(
		Elem(func(p *Pair[A, B]) *A { return &p.First }, a),
		Elem(func(p *Pair[A, B]) *B { return &p.Second }, b),
	)
}

// A Triple is a tuple of three elements.
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Tuple3 returns a codec for a JSON array of three elements with the shapes
// of a, b, and c, represented as a Triple.
func Tuple3[A, B, C any](a Codec[A], b Codec[B], c Codec[C]) Codec[Triple[A, B, C]] {
	return Tuple(
		Elem(func(t *Triple[A, B, C]) *A { return &t.First }, a),
		Elem(func(t *Triple[A, B, C]) *B { return &t.Second }, b),
		Elem(func(t *Triple[A, B, C]) *C { return &t.Third }, c),
	)
}

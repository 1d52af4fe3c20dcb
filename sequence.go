// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

import "fmt"

// walkArray decodes a JSON array from the front of c, calling elem to decode
// each element in order with its index. It returns a cursor positioned at the
// closing bracket.
func walkArray(m mode, c Cursor, elem func(m mode, i int, c Cursor) (Cursor, error)) (Cursor, error) {
	cur, err := expect(m, c, '[')
	if err != nil {
		return c, err
	}
	if end, ok := atDelim(cur, ']'); ok {
		return end, nil
	}
	for i := 0; ; i++ {
		cur, err = elem(m, i, cur)
		if err != nil {
			return c, err
		}
		next, done, err := separator(m, cur, ']')
		if err != nil {
			return c, err
		} else if done {
			return next, nil
		}
		cur = next
	}
}

// walkObject decodes a JSON object from the front of c, calling member to
// decode the value of each member in order. The member function is given the
// decoded key, a cursor positioned at the key, and a cursor positioned after
// the colon. It returns a cursor positioned at the closing brace.
func walkObject(m mode, c Cursor, member func(m mode, key string, at, c Cursor) (Cursor, error)) (Cursor, error) {
	cur, err := expect(m, c, '{')
	if err != nil {
		return c, err
	}
	if end, ok := atDelim(cur, '}'); ok {
		return end, nil
	}
	for {
		at := skipSpace(cur)
		key, next, err := scanString(m, at)
		if err != nil {
			return c, err
		}
		next, err = expect(m, next, ':')
		if err != nil {
			return c, err
		}
		next, err = member(m, key, at, next)
		if err != nil {
			return c, err
		}
		next, done, err := separator(m, next, '}')
		if err != nil {
			return c, err
		} else if done {
			return next, nil
		}
		cur = next
	}
}

// atDelim skips whitespace at the front of c and reports whether the result
// begins with delim, without consuming it.
func atDelim(c Cursor, delim byte) (Cursor, bool) {
	c = skipSpace(c)
	return c, !c.empty() && c.head() == delim
}

// separator consumes the comma between members of an array or object. If
// instead the input is at the closing delimiter, it reports done with a
// cursor positioned at the delimiter.
func separator(m mode, c Cursor, close byte) (_ Cursor, done bool, _ error) {
	c = skipSpace(c)
	if !c.empty() {
		switch c.head() {
		case ',':
			return c.advance(1), false, nil
		case close:
			return c, true, nil
		}
	}
	if m == probe {
		return c, false, errNoMatch
	}
	return c, false, m.expected(c, fmt.Sprintf(`"," or "%c"`, close))
}

// Slice returns a codec for a JSON array of any length, whose elements all
// have the shape of elem. An empty array decodes as a nil slice, and absent
// elements are omitted from the encoding.
func Slice[T any](elem Codec[T]) Codec[[]T] { return sliceCodec[T]{elem: elem} }

type sliceCodec[T any] struct{ elem Codec[T] }

func (sliceCodec[T]) Shape() Shape { return ShapeSequence }

func (s sliceCodec[T]) decode(m mode, c Cursor) ([]T, Cursor, error) {
	var out []T
	end, err := walkArray(m, c, func(m mode, _ int, c Cursor) (Cursor, error) {
		v, next, err := s.elem.decode(m, c)
		if err == nil {
			out = append(out, v)
		}
		return next, err
	})
	if err != nil {
		return nil, c, err
	}
	return out, end.advance(1), nil
}

func (s sliceCodec[T]) encode(e *encoder, vs []T) {
	arr := e.open('[', ']')
	for _, v := range vs {
		if !isAbsent(s.elem, v) {
			arr.next()
			s.elem.encode(e, v)
		}
	}
	arr.done()
}

// Array returns a codec for a JSON array of exactly n elements, all of which
// have the shape of elem. Values are represented as slices of length n.
//
// If elem is optional, trailing elements may be missing from the input and
// decode as absent, and absent trailing elements are omitted when encoding.
// Array panics if n < 0.
func Array[T any](n int, elem Codec[T]) Codec[[]T] {
	if n < 0 {
		panic(fmt.Sprintf("invalid array length %d", n))
	}
	required := n
	if isOptional(elem) {
		required = 0
	}
	return arrayCodec[T]{n: n, required: required, elem: elem}
}

type arrayCodec[T any] struct {
	n        int
	required int // the minimum number of elements present in the input
	elem     Codec[T]
}

func (arrayCodec[T]) Shape() Shape { return ShapeTuple }

func (a arrayCodec[T]) decode(m mode, c Cursor) ([]T, Cursor, error) {
	out := make([]T, 0, a.n)
	end, err := walkArray(m, c, func(m mode, i int, c Cursor) (Cursor, error) {
		if i >= a.n {
			return c, m.arityf(skipSpace(c), "too many elements, want %d", a.n)
		}
		v, next, err := a.elem.decode(m, c)
		if err == nil {
			out = append(out, v)
		}
		return next, err
	})
	if err != nil {
		return nil, c, err
	} else if len(out) < a.required {
		return nil, c, m.arityf(end, "got %d elements, want %d", len(out), a.n)
	}
	return out[:a.n], end.advance(1), nil
}

func (a arrayCodec[T]) encode(e *encoder, vs []T) {
	if len(vs) != a.n {
		e.failf("array has %d elements, want %d", len(vs), a.n)
		return
	}
	n := a.n
	for n > a.required && isAbsent(a.elem, vs[n-1]) {
		n--
	}
	arr := e.open('[', ']')
	for _, v := range vs[:n] {
		if isAbsent(a.elem, v) {
			e.failf("absent array element is followed by a present element")
			return
		}
		arr.next()
		a.elem.encode(e, v)
	}
	arr.done()
}

// arityf reports a mismatch in the number of members of an array or object.
// The arguments are not formatted in probe mode.
func (m mode) arityf(c Cursor, msg string, args ...int) error {
	if m == probe {
		return errNoMatch
	}
	vs := make([]any, len(args))
	for i, v := range args {
		vs[i] = v
	}
	return m.failf(c, msg, vs...)
}

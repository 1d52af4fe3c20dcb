// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

// Constant returns a codec for a single string literal. It decodes only a
// string equal to lit, and can encode only the value lit.
func Constant[S ~string](lit S) Codec[S] { return constCodec[S]{lit: lit} }

type constCodec[S ~string] struct{ lit S }

func (constCodec[S]) Shape() Shape { return ShapeConstant }

func (k constCodec[S]) decode(m mode, c Cursor) (S, Cursor, error) {
	start := skipSpace(c)
	if raw, next, ok := rawString(start); ok {
		if raw.EqualString(string(k.lit)) {
			return k.lit, next, nil
		} else if m == probe {
			return "", c, errNoMatch
		}
	}
	s, next, err := scanString(m, start)
	if err != nil {
		return "", c, err
	} else if s != string(k.lit) {
		if m == probe {
			return "", c, errNoMatch
		}
		return "", c, m.failf(start, "got %q, expected %q", s, k.lit)
	}
	return k.lit, next, nil
}

func (k constCodec[S]) encode(e *encoder, v S) {
	if v != k.lit {
		e.failf("value %q does not match constant %q", v, k.lit)
		return
	}
	e.quote(string(v))
}

func (k constCodec[S]) accepts(v S) bool { return v == k.lit }

func (k constCodec[S]) literal() string { return string(k.lit) }

// Enum returns a codec for a closed set of string literals. It is a union of
// the constants for each of lits, in order. Enum panics if lits is empty.
func Enum[S ~string](lits ...S) Codec[S] {
	alts := make([]Alt[S], len(lits))
	for i, lit := range lits {
		alts[i] = Variant[S](Constant(lit))
	}
	return Union(alts...)
}

// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

// Bool returns a codec for the JSON constants true and false.
func Bool() Codec[bool] { return boolCodec{} }

type boolCodec struct{}

func (boolCodec) Shape() Shape { return ShapeBoolean }

func (boolCodec) decode(m mode, c Cursor) (bool, Cursor, error) {
	start := skipSpace(c)
	switch tokenAt(start) {
	case trueTok:
		return true, start.advance(len("true")), nil
	case falseTok:
		return false, start.advance(len("false")), nil
	}
	return false, c, m.expected(start, "true or false")
}

func (boolCodec) encode(e *encoder, v bool) {
	if v {
		e.writeString("true")
	} else {
		e.writeString("false")
	}
}

// Null is the Go representation of the JSON null constant.
type Null struct{}

// NullValue returns a codec for the JSON constant null.
func NullValue() Codec[Null] { return nullCodec{} }

type nullCodec struct{}

func (nullCodec) Shape() Shape { return ShapeNull }

func (nullCodec) decode(m mode, c Cursor) (Null, Cursor, error) {
	next, err := literal(m, c, "null")
	if err != nil {
		return Null{}, c, err
	}
	return Null{}, next, nil
}

func (nullCodec) encode(e *encoder, _ Null) { e.writeString("null") }

// String returns a codec for JSON strings represented as values of type S.
// Strings may be quoted with either double or single quotes.
func String[S ~string]() Codec[S] { return stringCodec[S]{} }

type stringCodec[S ~string] struct{}

func (stringCodec[S]) Shape() Shape { return ShapeString }

func (stringCodec[S]) decode(m mode, c Cursor) (S, Cursor, error) {
	s, next, err := scanString(m, c)
	if err != nil {
		return "", c, err
	}
	return S(s), next, nil
}

func (stringCodec[S]) encode(e *encoder, v S) { e.quote(string(v)) }

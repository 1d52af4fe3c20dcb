// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

import (
	"math"
	"reflect"
	"strconv"

	"go4.org/mem"
	"golang.org/x/exp/constraints"
)

// A Numeric is a Go type that can be represented as a JSON number.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// Number returns a codec for JSON numbers represented as values of type T.
//
// An integer type accepts any number whose value is an integer in the range
// of T, including one written with a fraction or exponent such as 1e3. A
// floating-point type accepts any number in the range of T, rounded to the
// nearest representable value.
func Number[T Numeric]() Codec[T] {
	return numberCodec[T]{kind: numKind(reflect.TypeFor[T]())}
}

type numberCodec[T Numeric] struct{ kind numericKind }

func (numberCodec[T]) Shape() Shape { return ShapeNumber }

func (n numberCodec[T]) decode(m mode, c Cursor) (T, Cursor, error) {
	z, next, err := n.kind.scan(m, c)
	if err != nil {
		return 0, c, err
	}
	switch {
	case n.kind.float:
		return T(z.f), next, nil
	case n.kind.signed:
		return T(z.i), next, nil
	default:
		return T(z.u), next, nil
	}
}

func (n numberCodec[T]) encode(e *encoder, v T) {
	switch {
	case n.kind.float:
		e.number(n.kind, numValue{f: float64(v)})
	case n.kind.signed:
		e.number(n.kind, numValue{i: int64(v)})
	default:
		e.number(n.kind, numValue{u: uint64(v)})
	}
}

// A numericKind describes the representation of a Go numeric type.
type numericKind struct {
	signed, float bool
	bits          int
}

func numKind(t reflect.Type) numericKind {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return numericKind{signed: true, bits: t.Bits()}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return numericKind{bits: t.Bits()}
	case reflect.Float32, reflect.Float64:
		return numericKind{signed: true, float: true, bits: t.Bits()}
	}
	panic("unsupported numeric type " + t.String())
}

// A numValue holds a decoded number. Only the field selected by the
// numericKind of the target is meaningful.
type numValue struct {
	i int64
	u uint64
	f float64
}

// scan decodes a number from the front of c as a value of kind k.
func (k numericKind) scan(m mode, c Cursor) (numValue, Cursor, error) {
	start := skipSpace(c)
	text, integral, next, err := scanNumber(m, start)
	if err != nil {
		return numValue{}, c, err
	}
	switch {
	case k.float:
		f, err := mem.ParseFloat(text, k.bits)
		if err != nil {
			return numValue{}, c, m.badNumber(start, err, "out of range", text)
		}
		return numValue{f: f}, next, nil

	case integral && k.signed:
		z, err := mem.ParseInt(text, 10, k.bits)
		if err != nil {
			return numValue{}, c, m.badNumber(start, err, "out of range", text)
		}
		return numValue{i: z}, next, nil

	case integral && text.At(0) != '-':
		z, err := mem.ParseUint(text, 10, k.bits)
		if err != nil {
			return numValue{}, c, m.badNumber(start, err, "out of range", text)
		}
		return numValue{u: z}, next, nil
	}

	// An integer target with a fraction, an exponent, or a sign the target
	// does not have: accept the value only if it is an exact integer in range.
	var buf [24]byte
	digits, integer, overflow := integerText(buf[:0], text)
	if !integer {
		return numValue{}, c, m.badNumber(start, nil, "is not an integer", text)
	} else if overflow {
		return numValue{}, c, m.badNumber(start, nil, "out of range", text)
	}
	if k.signed {
		z, err := mem.ParseInt(mem.B(digits), 10, k.bits)
		if err != nil {
			return numValue{}, c, m.badNumber(start, err, "out of range", text)
		}
		return numValue{i: z}, next, nil
	}
	z, err := mem.ParseUint(mem.B(digits), 10, k.bits)
	if err != nil {
		return numValue{}, c, m.badNumber(start, err, "out of range", text)
	}
	return numValue{u: z}, next, nil
}

// maxIntDigits is the number of decimal digits in the largest 64-bit integer.
const maxIntDigits = 20

// integerText appends to buf the plain decimal form of the number text, which
// must satisfy the JSON number grammar. It reports whether the value is an
// integer, and whether it has too many digits for a 64-bit integer. The
// conversion is exact.
func integerText(buf []byte, text mem.RO) (_ []byte, integer, overflow bool) {
	neg := text.At(0) == '-'
	if neg {
		text = text.SliceFrom(1)
	}

	// Split the text into mantissa and exponent, and the mantissa into its
	// integer and fraction parts.
	mant, exp := text, int64(0)
	if i := mem.IndexByte(text, 'e'); i >= 0 {
		mant, exp = text.SliceTo(i), expValue(text.SliceFrom(i+1))
	} else if i := mem.IndexByte(text, 'E'); i >= 0 {
		mant, exp = text.SliceTo(i), expValue(text.SliceFrom(i+1))
	}
	whole, frac := mant, mem.RO{}
	if i := mem.IndexByte(mant, '.'); i >= 0 {
		whole, frac = mant.SliceTo(i), mant.SliceFrom(i+1)
	}

	// The digits of whole and frac taken together, scaled by 10^shift.
	n := whole.Len() + frac.Len()
	digit := func(i int) byte {
		if i < whole.Len() {
			return whole.At(i)
		}
		return frac.At(i - whole.Len())
	}
	first, last := 0, n-1
	for first < n && digit(first) == '0' {
		first++
	}
	if first == n {
		return append(buf, '0'), true, false
	}
	for digit(last) == '0' {
		last--
	}
	shift := exp - int64(frac.Len()) + int64(n-1-last)
	if shift < 0 {
		return buf, false, false
	} else if int64(last-first+1)+shift > maxIntDigits {
		return buf, true, true
	}
	if neg {
		buf = append(buf, '-')
	}
	for i := first; i <= last; i++ {
		buf = append(buf, digit(i))
	}
	for range shift {
		buf = append(buf, '0')
	}
	return buf, true, false
}

// expValue returns the value of the exponent text of a number, clamped to a
// magnitude that cannot be an integer in range.
func expValue(text mem.RO) int64 {
	const limit = 1 << 40
	v, err := mem.ParseInt(text, 10, 64)
	if err != nil {
		if text.At(0) == '-' {
			return -limit
		}
		return limit
	}
	return min(max(v, -limit), limit)
}

// badNumber reports that the number text at c cannot be represented.
// The text is copied only in strict mode.
func (m mode) badNumber(c Cursor, err error, why string, text mem.RO) error {
	if m == probe {
		return errNoMatch
	}
	return m.wrapf(c, err, "number %q %s", text.StringCopy(), why)
}

// number appends the encoding of z as a number of kind k.
func (e *encoder) number(k numericKind, z numValue) {
	switch {
	case k.float:
		e.float(z.f, k.bits)
	case k.signed:
		e.buf = strconv.AppendInt(e.buf, z.i, 10)
	default:
		e.buf = strconv.AppendUint(e.buf, z.u, 10)
	}
}

// float appends the shortest decimal representation of f that will
// round-trip at the given bit size. Values of magnitude in [1e-6, 1e21) are
// written without an exponent.
func (e *encoder) float(f float64, bits int) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		e.failf("unsupported number %v", f)
		return
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	buf := strconv.AppendFloat(e.buf, f, format, -1, bits)
	if format == 'e' {
		// Trim a leading zero from a two-digit exponent: 1e-07 becomes 1e-7.
		n := len(buf)
		if n >= 4 && buf[n-4] == 'e' && buf[n-3] == '-' && buf[n-2] == '0' {
			buf[n-2] = buf[n-1]
			buf = buf[:n-1]
		}
	}
	e.buf = buf
}

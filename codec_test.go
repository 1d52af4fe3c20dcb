// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape_test

import (
	"errors"
	"math"
	"testing"

	"github.com/creachadair/jshape"
	"github.com/creachadair/mds/mtest"
	"github.com/creachadair/mds/value"
	"github.com/google/go-cmp/cmp"
)

type Person struct {
	Name string
	Age  value.Maybe[int]
}

var personCodec = jshape.Record(
	jshape.Field("name", func(p *Person) *string { return &p.Name }, jshape.String[string]()),
	jshape.Field("age", func(p *Person) *value.Maybe[int] { return &p.Age }, jshape.Optional(jshape.Number[int]())),
)

var opts = cmp.Options{
	cmp.AllowUnexported(value.Maybe[int]{}),
}

// checkError verifies that err is a *jshape.SyntaxError with the given
// offset and message.
func checkError(t *testing.T, input string, err error, offset int, msg string) {
	t.Helper()
	var serr *jshape.SyntaxError
	if !errors.As(err, &serr) {
		t.Errorf("Input %#q: got error %v, want *SyntaxError", input, err)
		return
	}
	if serr.Offset != offset || serr.Message != msg {
		t.Errorf("Input %#q: got error (%d, %q), want (%d, %q)", input, serr.Offset, serr.Message, offset, msg)
	}
}

func TestNumberDecode(t *testing.T) {
	t.Run("Int", func(t *testing.T) {
		tests := []struct {
			input string
			want  int
		}{
			{"0", 0},
			{"-0", 0},
			{"17", 17},
			{" -25 ", -25},
			{"1e3", 1000},
			{"2.0", 2},
			{"-4.5e1", -45},
			{"9223372036854775807", math.MaxInt64},
			{"9223372036854775807.0", math.MaxInt64},
			{"9007199254740993.0", 9007199254740993},
			{"-9.223372036854775808e18", math.MinInt64},
			{"120e-1", 12},
			{"0.00e99999999999", 0},
		}
		for _, test := range tests {
			got, err := jshape.Decode(jshape.Number[int](), test.input)
			if err != nil {
				t.Errorf("Decode %q: unexpected error: %v", test.input, err)
			} else if got != test.want {
				t.Errorf("Decode %q: got %d, want %d", test.input, got, test.want)
			}
		}
	})
	t.Run("Float", func(t *testing.T) {
		tests := []struct {
			input string
			want  float64
		}{
			{"0", 0},
			{"-0.5e10", -5e9},
			{"3.25", 3.25},
			{"1E-2", 0.01},
			{"12345678901234567890", 12345678901234567890},
		}
		for _, test := range tests {
			got, err := jshape.Decode(jshape.Number[float64](), test.input)
			if err != nil {
				t.Errorf("Decode %q: unexpected error: %v", test.input, err)
			} else if got != test.want {
				t.Errorf("Decode %q: got %g, want %g", test.input, got, test.want)
			}
		}
	})
	t.Run("Uint8", func(t *testing.T) {
		got, err := jshape.Decode(jshape.Number[uint8](), "255")
		if err != nil || got != 255 {
			t.Errorf("Decode 255: got %d, %v; want 255, nil", got, err)
		}
	})
	t.Run("Errors", func(t *testing.T) {
		for _, input := range []string{"01", "1.", "1e", "-", "x", ""} {
			if got, err := jshape.Decode(jshape.Number[float64](), input); err == nil {
				t.Errorf("Decode %q: got %g, want error", input, got)
			}
		}
		_, err := jshape.Decode(jshape.Number[int](), "1.5")
		checkError(t, "1.5", err, 0, `number "1.5" is not an integer`)

		_, err = jshape.Decode(jshape.Number[uint8](), "256")
		checkError(t, "256", err, 0, `number "256" out of range`)

		_, err = jshape.Decode(jshape.Number[uint](), " -1")
		checkError(t, " -1", err, 1, `number "-1" out of range`)

		_, err = jshape.Decode(jshape.Number[int8](), "1e3")
		checkError(t, "1e3", err, 0, `number "1e3" out of range`)

		_, err = jshape.Decode(jshape.Number[float32](), "1e39")
		checkError(t, "1e39", err, 0, `number "1e39" out of range`)

		_, err = jshape.Decode(jshape.Number[int](), "1.0000000000000000001")
		checkError(t, "1.0000000000000000001", err, 0, `number "1.0000000000000000001" is not an integer`)

		_, err = jshape.Decode(jshape.Number[int](), "1e-999999999999")
		checkError(t, "1e-999999999999", err, 0, `number "1e-999999999999" is not an integer`)

		_, err = jshape.Decode(jshape.Number[int64](), "9.3e18")
		checkError(t, "9.3e18", err, 0, `number "9.3e18" out of range`)

		_, err = jshape.Decode(jshape.Number[int](), "  01")
		checkError(t, "  01", err, 3, "extra leading zeroes")
	})
}

func TestNumberEncode(t *testing.T) {
	tests := []struct {
		name string
		got  func() (string, error)
		want string
	}{
		{"zero", func() (string, error) { return jshape.Encode(jshape.Number[float64](), 0) }, "0"},
		{"half", func() (string, error) { return jshape.Encode(jshape.Number[float64](), 0.5) }, "0.5"},
		{"negative", func() (string, error) { return jshape.Encode(jshape.Number[float64](), -0.25) }, "-0.25"},
		{"integral", func() (string, error) { return jshape.Encode(jshape.Number[float64](), 123456789) }, "123456789"},
		{"large", func() (string, error) { return jshape.Encode(jshape.Number[float64](), 1e21) }, "1e+21"},
		{"small", func() (string, error) { return jshape.Encode(jshape.Number[float64](), 1e-7) }, "1e-7"},
		{"float32", func() (string, error) { return jshape.Encode(jshape.Number[float32](), 0.1) }, "0.1"},
		{"int8", func() (string, error) { return jshape.Encode(jshape.Number[int8](), -5) }, "-5"},
		{"uint64", func() (string, error) { return jshape.Encode(jshape.Number[uint64](), math.MaxUint64) }, "18446744073709551615"},
	}
	for _, test := range tests {
		got, err := test.got()
		if err != nil {
			t.Errorf("%s: unexpected error: %v", test.name, err)
		} else if got != test.want {
			t.Errorf("%s: got %q, want %q", test.name, got, test.want)
		}
	}

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		got, err := jshape.Encode(jshape.Number[float64](), v)
		var eerr *jshape.EncodeError
		if !errors.As(err, &eerr) {
			t.Errorf("Encode %v: got %q, %v; want *EncodeError", v, got, err)
		}
	}
}

func TestScalars(t *testing.T) {
	if got, err := jshape.Decode(jshape.Bool(), " true"); err != nil || !got {
		t.Errorf("Decode true: got %v, %v", got, err)
	}
	if got, err := jshape.Decode(jshape.Bool(), "false"); err != nil || got {
		t.Errorf("Decode false: got %v, %v", got, err)
	}
	_, err := jshape.Decode(jshape.Bool(), "tru")
	checkError(t, "tru", err, 0, "unexpected 't', expected true or false")

	if _, rest, err := jshape.DecodeRemainder(jshape.NullValue(), "null]"); err != nil || rest != "]" {
		t.Errorf("Decode null: got rest %q, %v; want %q", rest, err, "]")
	}
	_, err = jshape.Decode(jshape.NullValue(), "0")
	checkError(t, "0", err, 0, "unexpected number, expected null")

	if got, err := jshape.Decode(jshape.String[string](), `'single'`); err != nil || got != "single" {
		t.Errorf("Decode single-quoted: got %q, %v", got, err)
	}

	type label string
	if got, err := jshape.Encode(jshape.String[label](), `a"b`); err != nil || got != `"a\"b"` {
		t.Errorf("Encode string: got %#q, %v", got, err)
	}
	if got, err := jshape.Encode(jshape.NullValue(), jshape.Null{}); err != nil || got != "null" {
		t.Errorf("Encode null: got %q, %v", got, err)
	}
}

func TestRecord(t *testing.T) {
	t.Run("Decode", func(t *testing.T) {
		tests := []struct {
			input string
			want  Person
		}{
			{`{"name":"Ann","age":41}`, Person{Name: "Ann", Age: value.Just(41)}},
			{`{ "age" : 3, "name" : "Bo" }`, Person{Name: "Bo", Age: value.Just(3)}},
			{`{"name":"Cy"}`, Person{Name: "Cy"}},
		}
		for _, test := range tests {
			got, err := jshape.Decode(personCodec, test.input)
			if err != nil {
				t.Errorf("Decode %#q: unexpected error: %v", test.input, err)
			} else if diff := cmp.Diff(test.want, got, opts); diff != "" {
				t.Errorf("Decode %#q: (-want, +got)\n%s", test.input, diff)
			}
		}
	})
	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			input  string
			offset int
			msg    string
		}{
			{`{"name":"Ann","extra":1}`, 14, `unknown field "extra"`},
			{`{"age":3}`, 8, `missing required field "name"`},
			{`{"name":"a","name":"b"}`, 12, `duplicate field "name"`},
			{`{"name":"a",}`, 12, `unexpected "}", expected string`},
			{`{"name" "a"}`, 8, `unexpected '"', expected ':'`},
			{`{"name":"a" "age":1}`, 12, `unexpected string, expected "," or "}"`},
			{`["name"]`, 0, `unexpected '[', expected '{'`},
			{`{"name":"a"`, 11, `unexpected end of input, expected "," or "}"`},
		}
		for _, test := range tests {
			_, err := jshape.Decode(personCodec, test.input)
			checkError(t, test.input, err, test.offset, test.msg)
		}
	})
	t.Run("Encode", func(t *testing.T) {
		tests := []struct {
			input Person
			want  string
		}{
			{Person{Name: "Ann", Age: value.Just(41)}, `{"name":"Ann","age":41}`},
			{Person{Name: "Cy"}, `{"name":"Cy"}`},
		}
		for _, test := range tests {
			got, err := jshape.Encode(personCodec, test.input)
			if err != nil {
				t.Errorf("Encode %+v: unexpected error: %v", test.input, err)
			} else if got != test.want {
				t.Errorf("Encode %+v: got %#q, want %#q", test.input, got, test.want)
			}
		}
	})
	t.Run("Location", func(t *testing.T) {
		const input = "{\n  \"name\": 5\n}"
		_, err := jshape.Decode(personCodec, input)
		const want = "at 2:10 (offset 12): unexpected number, expected string"
		if err == nil || err.Error() != want {
			t.Errorf("Decode: got error %v, want %q", err, want)
		}
	})
}

func TestUnion(t *testing.T) {
	numOrString := jshape.Union(
		jshape.Variant[any](jshape.Number[float64]()),
		jshape.Variant[any](jshape.String[string]()),
	)

	tests := []struct {
		input string
		want  any
	}{
		{"12", 12.0},
		{` "hi"`, "hi"},
		{"-0.5", -0.5},
	}
	for _, test := range tests {
		got, err := jshape.Decode(numOrString, test.input)
		if err != nil {
			t.Errorf("Decode %#q: unexpected error: %v", test.input, err)
		} else if got != test.want {
			t.Errorf("Decode %#q: got %v, want %v", test.input, got, test.want)
		}
	}

	_, err := jshape.Decode(numOrString, "  true")
	checkError(t, "  true", err, 2, "unexpected true, expected number or string")

	if got, err := jshape.Encode(numOrString, any("x")); err != nil || got != `"x"` {
		t.Errorf("Encode string: got %#q, %v", got, err)
	}
	if got, err := jshape.Encode(numOrString, any(2.5)); err != nil || got != "2.5" {
		t.Errorf("Encode number: got %#q, %v", got, err)
	}
	if got, err := jshape.Encode(numOrString, any(true)); err == nil {
		t.Errorf("Encode bool: got %#q, want error", got)
	}
}

func TestEnum(t *testing.T) {
	type color string
	colors := jshape.Enum[color]("red", "green")

	if got, err := jshape.Decode(colors, `"green"`); err != nil || got != "green" {
		t.Errorf("Decode green: got %q, %v", got, err)
	}
	_, err := jshape.Decode(colors, `"blue"`)
	checkError(t, `"blue"`, err, 0, `unexpected string, expected "red" or "green"`)

	for _, input := range []string{`'red'`, `"r\u0065d"`, ` 're\u0064'`} {
		if got, _, ok := jshape.Probe(colors, input); !ok || got != "red" {
			t.Errorf("Probe %#q: got %q, %v; want red", input, got, ok)
		}
	}
	if got, _, ok := jshape.Probe(colors, `"r\x65d"`); ok {
		t.Errorf("Probe invalid escape: got %q, want no match", got)
	}
	allocs := testing.AllocsPerRun(100, func() { jshape.Probe(colors, `"purple"`) })
	if allocs != 0 {
		t.Errorf("Probe mismatch: got %v allocations, want 0", allocs)
	}

	if got, err := jshape.Encode(colors, "red"); err != nil || got != `"red"` {
		t.Errorf("Encode red: got %#q, %v", got, err)
	}
	if got, err := jshape.Encode(colors, "blue"); err == nil {
		t.Errorf("Encode blue: got %#q, want error", got)
	}

	version := jshape.Constant("v1")
	_, err = jshape.Decode(version, `"v2"`)
	checkError(t, `"v2"`, err, 0, `got "v2", expected "v1"`)
	if got, err := jshape.Encode(version, "v2"); err == nil {
		t.Errorf("Encode v2: got %#q, want error", got)
	}
}

func TestSlice(t *testing.T) {
	ints := jshape.Slice(jshape.Number[int]())

	got, err := jshape.Decode(ints, "[]")
	if err != nil || got != nil {
		t.Errorf("Decode []: got %v, %v; want nil", got, err)
	}
	got, err = jshape.Decode(ints, "[1, 2 ,3]")
	if err != nil {
		t.Errorf("Decode: unexpected error: %v", err)
	} else if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("Decode (-want, +got):\n%s", diff)
	}

	tests := []struct {
		input  string
		offset int
		msg    string
	}{
		{"[1,]", 3, `unexpected "]", expected number`},
		{"[1 2]", 3, `unexpected number, expected "," or "]"`},
		{"[1, 2", 5, `unexpected end of input, expected "," or "]"`},
		{"{}", 0, `unexpected '{', expected '['`},
	}
	for _, test := range tests {
		_, err := jshape.Decode(ints, test.input)
		checkError(t, test.input, err, test.offset, test.msg)
	}

	if got, err := jshape.Encode(ints, nil); err != nil || got != "[]" {
		t.Errorf("Encode nil: got %#q, %v", got, err)
	}

	maybes := jshape.Slice(jshape.Optional(jshape.Number[int]()))
	enc, err := jshape.Encode(maybes, []value.Maybe[int]{value.Just(1), value.Absent[int](), value.Just(3)})
	if err != nil || enc != "[1,3]" {
		t.Errorf("Encode optional elements: got %#q, %v", enc, err)
	}
}

func TestTuple(t *testing.T) {
	pair := jshape.Tuple2(jshape.String[string](), jshape.Number[int]())

	got, err := jshape.Decode(pair, `["x", 3]`)
	if err != nil {
		t.Errorf("Decode: unexpected error: %v", err)
	} else if want := (jshape.Pair[string, int]{First: "x", Second: 3}); got != want {
		t.Errorf("Decode: got %+v, want %+v", got, want)
	}
	if enc, err := jshape.Encode(pair, got); err != nil || enc != `["x",3]` {
		t.Errorf("Encode: got %#q, %v", enc, err)
	}

	_, err = jshape.Decode(pair, `["x"]`)
	checkError(t, `["x"]`, err, 4, "got 1 elements, want at least 2")
	_, err = jshape.Decode(pair, `["x",3,4]`)
	checkError(t, `["x",3,4]`, err, 7, "too many elements, want at most 2")

	triple := jshape.Tuple3(jshape.Bool(), jshape.NullValue(), jshape.Number[float64]())
	tv, err := jshape.Decode(triple, "[true, null, 1.5]")
	if err != nil {
		t.Errorf("Decode triple: unexpected error: %v", err)
	} else if want := (jshape.Triple[bool, jshape.Null, float64]{First: true, Third: 1.5}); tv != want {
		t.Errorf("Decode triple: got %+v, want %+v", tv, want)
	}

	t.Run("OptionalTail", func(t *testing.T) {
		type span struct {
			Lo int
			Hi value.Maybe[int]
		}
		c := jshape.Tuple(
			jshape.Elem(func(s *span) *int { return &s.Lo }, jshape.Number[int]()),
			jshape.Elem(func(s *span) *value.Maybe[int] { return &s.Hi }, jshape.Optional(jshape.Number[int]())),
		)
		tests := []struct {
			input string
			want  span
			enc   string
		}{
			{"[1]", span{Lo: 1}, "[1]"},
			{"[1, 2]", span{Lo: 1, Hi: value.Just(2)}, "[1,2]"},
		}
		for _, test := range tests {
			got, err := jshape.Decode(c, test.input)
			if err != nil {
				t.Errorf("Decode %q: unexpected error: %v", test.input, err)
				continue
			}
			if diff := cmp.Diff(test.want, got, opts); diff != "" {
				t.Errorf("Decode %q: (-want, +got)\n%s", test.input, diff)
			}
			if enc, err := jshape.Encode(c, got); err != nil || enc != test.enc {
				t.Errorf("Encode %+v: got %#q, %v; want %#q", got, enc, err, test.enc)
			}
		}
		_, err := jshape.Decode(c, "[]")
		checkError(t, "[]", err, 1, "got 0 elements, want at least 1")
	})

	t.Run("Array", func(t *testing.T) {
		c := jshape.Array(2, jshape.Number[int]())
		got, err := jshape.Decode(c, "[4,5]")
		if err != nil {
			t.Errorf("Decode: unexpected error: %v", err)
		} else if diff := cmp.Diff([]int{4, 5}, got); diff != "" {
			t.Errorf("Decode (-want, +got):\n%s", diff)
		}
		_, err = jshape.Decode(c, "[4]")
		checkError(t, "[4]", err, 2, "got 1 elements, want 2")

		if enc, err := jshape.Encode(c, []int{1}); err == nil {
			t.Errorf("Encode short array: got %#q, want error", enc)
		}
	})

	t.Run("OptionalArray", func(t *testing.T) {
		c := jshape.Array(3, jshape.Optional(jshape.Number[int]()))
		got, err := jshape.Decode(c, "[1]")
		if err != nil {
			t.Fatalf("Decode: unexpected error: %v", err)
		}
		want := []value.Maybe[int]{value.Just(1), value.Absent[int](), value.Absent[int]()}
		if diff := cmp.Diff(want, got, opts); diff != "" {
			t.Errorf("Decode (-want, +got):\n%s", diff)
		}
		if enc, err := jshape.Encode(c, got); err != nil || enc != "[1]" {
			t.Errorf("Encode: got %#q, %v; want [1]", enc, err)
		}
		if enc, err := jshape.Encode(c, make([]value.Maybe[int], 3)); err != nil || enc != "[]" {
			t.Errorf("Encode all absent: got %#q, %v; want []", enc, err)
		}

		gap := []value.Maybe[int]{value.Just(1), value.Absent[int](), value.Just(3)}
		if enc, err := jshape.Encode(c, gap); err == nil {
			t.Errorf("Encode with gap: got %#q, want error", enc)
		}
		_, err = jshape.Decode(c, "[1,2,3,4]")
		checkError(t, "[1,2,3,4]", err, 7, "too many elements, want 3")
	})
}

func TestMap(t *testing.T) {
	ints := jshape.Map[string](jshape.Number[int]())

	got, err := jshape.Decode(ints, `{"b":1, "a":2, "b":3}`)
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	if diff := cmp.Diff(map[string]int{"a": 2, "b": 1}, got); diff != "" {
		t.Errorf("Decode (-want, +got):\n%s", diff)
	}
	if enc, err := jshape.Encode(ints, got); err != nil || enc != `{"a":2,"b":1}` {
		t.Errorf("Encode: got %#q, %v", enc, err)
	}

	empty, err := jshape.Decode(ints, " { } ")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("Decode empty: got %v, %v; want empty map", empty, err)
	}

	_, err = jshape.Decode(ints, `{"a":"x"}`)
	checkError(t, `{"a":"x"}`, err, 5, "unexpected string, expected number")

	maybes := jshape.Map[string](jshape.Optional(jshape.Number[int]()))
	enc, err := jshape.Encode(maybes, map[string]value.Maybe[int]{"x": value.Absent[int](), "y": value.Just(1)})
	if err != nil || enc != `{"y":1}` {
		t.Errorf("Encode optional values: got %#q, %v", enc, err)
	}
}

func TestEncodeIndent(t *testing.T) {
	c := jshape.Map[string](jshape.Slice(jshape.Number[int]()))
	v := map[string][]int{"a": {1, 2}, "b": nil}

	got, err := jshape.EncodeIndent(c, v, jshape.Spaces(2))
	if err != nil {
		t.Fatalf("EncodeIndent: unexpected error: %v", err)
	}
	const want = "{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": []\n}"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EncodeIndent (-want, +got):\n%s", diff)
	}

	tab, err := jshape.EncodeIndent(jshape.Slice(jshape.Number[int]()), []int{1}, jshape.Tab)
	if err != nil || tab != "[\n\t1\n]" {
		t.Errorf("EncodeIndent tab: got %#q, %v", tab, err)
	}

	rec, err := jshape.EncodeIndent(personCodec, Person{Name: "Ann", Age: value.Just(41)}, jshape.Spaces(1))
	if err != nil || rec != "{\n \"name\": \"Ann\",\n \"age\": 41\n}" {
		t.Errorf("EncodeIndent record: got %#q, %v", rec, err)
	}

	empty, err := jshape.EncodeIndent(jshape.Slice(jshape.Number[int]()), nil, jshape.Spaces(4))
	if err != nil || empty != "[]" {
		t.Errorf("EncodeIndent empty: got %#q, %v", empty, err)
	}
}

func TestOptional(t *testing.T) {
	c := jshape.Optional(jshape.Number[int]())
	got, err := jshape.Decode(c, "5")
	if err != nil || got != value.Just(5) {
		t.Errorf("Decode: got %v, %v; want 5", got, err)
	}

	enc, err := jshape.Encode(c, value.Absent[int]())
	var eerr *jshape.EncodeError
	if !errors.As(err, &eerr) {
		t.Errorf("Encode absent: got %#q, %v; want *EncodeError", enc, err)
	}
	if enc, err := jshape.Encode(c, value.Just(7)); err != nil || enc != "7" {
		t.Errorf("Encode present: got %#q, %v", enc, err)
	}
}

type Tree struct {
	Label string
	Kids  []Tree
}

func TestDefer(t *testing.T) {
	var tree jshape.Codec[Tree]
	tree = jshape.Record(
		jshape.Field("label", func(n *Tree) *string { return &n.Label }, jshape.String[string]()),
		jshape.Field("kids", func(n *Tree) *[]Tree { return &n.Kids },
			jshape.Slice(jshape.Defer(func() jshape.Codec[Tree] { return tree }))),
	)

	const input = `{"label":"a","kids":[{"label":"b","kids":[]},{"label":"c","kids":[{"label":"d","kids":[]}]}]}`
	got, err := jshape.Decode(tree, input)
	if err != nil {
		t.Fatalf("Decode: unexpected error: %v", err)
	}
	want := Tree{Label: "a", Kids: []Tree{
		{Label: "b"},
		{Label: "c", Kids: []Tree{{Label: "d"}}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode (-want, +got):\n%s", diff)
	}
	if enc, err := jshape.Encode(tree, got); err != nil || enc != input {
		t.Errorf("Encode: got %#q, %v; want %#q", enc, err, input)
	}
	if s := tree.Shape(); s != jshape.ShapeRecord {
		t.Errorf("Shape: got %v, want %v", s, jshape.ShapeRecord)
	}
}

func TestEntryPoints(t *testing.T) {
	t.Run("DecodeRemainder", func(t *testing.T) {
		got, rest, err := jshape.DecodeRemainder(jshape.Number[int](), "12 rest")
		if err != nil || got != 12 || rest != " rest" {
			t.Errorf("DecodeRemainder: got %d, %q, %v; want 12, %q", got, rest, err, " rest")
		}
		_, rest, err = jshape.DecodeRemainder(jshape.Number[int](), "x")
		if err == nil || rest != "x" {
			t.Errorf("DecodeRemainder: got %q, %v; want error", rest, err)
		}
	})
	t.Run("TrailingText", func(t *testing.T) {
		if got, err := jshape.Decode(jshape.Number[int](), "12 garbage"); err != nil || got != 12 {
			t.Errorf("Decode: got %d, %v; want 12", got, err)
		}
	})
	t.Run("Probe", func(t *testing.T) {
		got, end, ok := jshape.Probe(jshape.Number[int](), " 42,")
		if !ok || got != 42 || end != 3 {
			t.Errorf("Probe: got %d, %d, %v; want 42, 3, true", got, end, ok)
		}
		if got, end, ok := jshape.Probe(jshape.Number[int](), "x"); ok {
			t.Errorf("Probe: got %d, %d, %v; want failure", got, end, ok)
		}
	})
	t.Run("DecodeJWCC", func(t *testing.T) {
		const input = `{
  // the name
  "name": "Ann",
  "age": 41, /* trailing comma */
}`
		got, err := jshape.DecodeJWCC(personCodec, input)
		if err != nil {
			t.Fatalf("DecodeJWCC: unexpected error: %v", err)
		}
		if diff := cmp.Diff(Person{Name: "Ann", Age: value.Just(41)}, got, opts); diff != "" {
			t.Errorf("DecodeJWCC (-want, +got):\n%s", diff)
		}

		_, err = jshape.DecodeJWCC(personCodec, `/* x */ {"name": 1}`)
		checkError(t, "jwcc", err, 17, "unexpected number, expected string")
	})
}

// Probing and strict decoding must agree on every input.
func TestProbeAgreement(t *testing.T) {
	t.Run("Record", func(t *testing.T) {
		checkAgreement(t, personCodec,
			`{"name":"Ann","age":41}`,
			`{"name":"Ann"}  rest`,
			`{"age":41}`,
			`{"name":"Ann","age":41,"name":"Bo"}`,
			`{"name":"Ann","age":4.5}`,
			`{"name":"Ann","age":01}`,
			`{"name":'Ann'}`,
			`{"name":"A\u00"}`,
			`{"name":"Ann",}`,
			`{`,
			``,
			`null`,
		)
	})
	t.Run("Union", func(t *testing.T) {
		checkAgreement(t, jshape.Union(
			jshape.Variant[any](jshape.Number[int]()),
			jshape.Variant[any](jshape.String[string]()),
			jshape.Variant[any](jshape.Slice(jshape.Bool())),
		), `42`, ` "x" y`, `[true, false],`, `4.5`, `[1]`, `{}`, `nul`)
	})
	t.Run("Slice", func(t *testing.T) {
		checkAgreement(t, jshape.Slice(jshape.Number[int]()),
			`[]`, ` [ 1 , 2 ] [3]`, `[1,]`, `[1 2]`, `[`, `[1e3, -0]x`)
	})
	t.Run("Tuple", func(t *testing.T) {
		checkAgreement(t, jshape.Tuple2(jshape.String[string](), jshape.Optional(jshape.Number[int]())),
			`["a", 1]`, `["a"] tail`, `[]`, `["a", 1, 2]`, `[1, "a"]`)
	})
	t.Run("Array", func(t *testing.T) {
		checkAgreement(t, jshape.Array(2, jshape.Optional(jshape.Number[int]())),
			`[1, 2]`, `[1]`, `[] !`, `[1, 2, 3]`)
	})
	t.Run("Map", func(t *testing.T) {
		checkAgreement(t, jshape.Map[string](jshape.Number[int]()),
			`{"a":1,"b":2}`, `{"a":1,"a":2} {}`, `{}`, `{"a":}`, `{a:1}`, `{"a":1`)
	})
}

// checkAgreement verifies that Probe and DecodeRemainder agree on whether
// each input matches c, and when it does, on the value and its end offset.
func checkAgreement[T any](t *testing.T, c jshape.Codec[T], inputs ...string) {
	t.Helper()
	for _, input := range inputs {
		want, rest, err := jshape.DecodeRemainder(c, input)
		got, end, ok := jshape.Probe(c, input)
		if ok != (err == nil) {
			t.Errorf("Input %#q: probe ok=%v, strict err=%v", input, ok, err)
			continue
		} else if !ok {
			continue
		}
		if wantEnd := len(input) - len(rest); end != wantEnd {
			t.Errorf("Input %#q: probe end %d, strict end %d", input, end, wantEnd)
		}
		if diff := cmp.Diff(want, got, opts); diff != "" {
			t.Errorf("Input %#q: (-strict, +probe)\n%s", input, diff)
		}
	}
}

func TestQuoteUnquote(t *testing.T) {
	if got, want := jshape.Quote("a\"b\n\x01é"), "\"a\\\"b\\n\\u0001é\""; got != want {
		t.Errorf("Quote: got %#q, want %#q", got, want)
	}
	if got, err := jshape.Unquote(`'it\'s'`); err != nil || got != "it's" {
		t.Errorf("Unquote: got %q, %v", got, err)
	}
	for _, bad := range []string{``, `abc`, `"abc`, `"a\x"`, `"a" b`} {
		if got, err := jshape.Unquote(bad); err == nil {
			t.Errorf("Unquote %#q: got %q, want error", bad, got)
		}
	}
}

func TestConstructorPanics(t *testing.T) {
	mtest.MustPanic(t, func() {
		jshape.Record(
			jshape.Field("name", func(p *Person) *string { return &p.Name }, jshape.String[string]()),
			jshape.Field("name", func(p *Person) *string { return &p.Name }, jshape.String[string]()),
		)
	})
	mtest.MustPanic(t, func() {
		type bad struct {
			A value.Maybe[int]
			B int
		}
		jshape.Tuple(
			jshape.Elem(func(b *bad) *value.Maybe[int] { return &b.A }, jshape.Optional(jshape.Number[int]())),
			jshape.Elem(func(b *bad) *int { return &b.B }, jshape.Number[int]()),
		)
	})
	mtest.MustPanic(t, func() { jshape.Union[any]() })
	mtest.MustPanic(t, func() { jshape.Enum[string]() })
	mtest.MustPanic(t, func() { jshape.Variant[string](jshape.Number[int]()) })
	mtest.MustPanic(t, func() { jshape.Array(-1, jshape.Bool()) })
	mtest.MustPanic(t, func() { jshape.Spaces(-1) })
}

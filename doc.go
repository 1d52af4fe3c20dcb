// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Package jshape implements a JSON codec driven by the static shape of the
// values it reads and writes.
//
// A Codec[T] converts between JSON text and values of type T directly,
// without constructing an intermediate syntax tree. Codecs are built by
// composing constructors that correspond to the shape of T:
//
//	Shape    | Constructors                 | JSON
//	-------- | ---------------------------- | ----------------------------
//	number   | Number                       | 15, -0.5e10
//	boolean  | Bool                         | true, false
//	null     | NullValue                    | null
//	string   | String                       | "text" or 'text'
//	tuple    | Tuple, Tuple2, Tuple3, Array | [1, "a", true]
//	sequence | Slice                        | [1, 2, 3]
//	map      | Map                          | {"any": 1, "key": 2}
//	union    | Union, Variant, Enum         | one of several shapes
//	record   | Record, Field                | {"name": "Alice", "age": 30}
//	constant | Constant                     | "red"
//	optional | Optional                     | a value that may be absent
//
// Defer supports shapes that refer to themselves.
//
// For example, given
//
//	type Person struct {
//	   Name string
//	   Age  value.Maybe[int]
//	}
//
// a codec for Person is
//
//	var personCodec = jshape.Record(
//	   jshape.Field("name", func(p *Person) *string { return &p.Name }, jshape.String[string]()),
//	   jshape.Field("age", func(p *Person) *value.Maybe[int] { return &p.Age },
//	      jshape.Optional(jshape.Number[int]())),
//	)
//
// and it is used with the Decode and Encode functions:
//
//	p, err := jshape.Decode(personCodec, `{"name": "Alice"}`)
//	...
//	text, err := jshape.EncodeIndent(personCodec, p, jshape.Spaces(2))
//
// Alternatively, For derives a codec from the definition of a Go type using
// reflection; see Classify for the rules.
//
// # Decoding
//
// Every codec can decode in two modes. In strict mode, used by Decode and
// DecodeRemainder, malformed input is reported as a *SyntaxError carrying the
// absolute byte offset of the failure. In probe mode, used by Probe and
// internally wherever several interpretations of the input must be tried,
// failure is reported only as a boolean. The two modes follow the same code
// paths, so for any input they succeed or fail together, and on success they
// produce the same value and consume the same input.
//
// A Union tries its alternatives in declaration order and selects the first
// one that matches. The order of alternatives is part of the contract of a
// union: for example, a union of a number and a string alternative decodes
// 42 as a number, and "42" as a string.
//
// Decoding accepts standard JSON with one extension: strings may be quoted
// with single quotes ('...') as well as double quotes. Record codecs reject
// unknown keys, duplicate keys, and missing required keys. Text following a
// complete value is not examined; use DecodeRemainder to recover it.
// DecodeJWCC additionally accepts comments and trailing commas.
//
// # Encoding
//
// Encode renders compact JSON. EncodeIndent places each member of an object
// or array on its own line, indented by a chosen unit per level of nesting.
// Strings are always double-quoted; non-ASCII text is copied through without
// escaping. Absent optional values are omitted from their enclosing object or
// array.
//
// Codecs hold no mutable state, and may be shared freely among goroutines.
package jshape

// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jshape

// Shape is the structural category of a type, which determines the
// algorithm used to decode and encode its values.
type Shape byte

// Constants defining the valid Shape values.
const (
	ShapeInvalid  Shape = iota // not a supported shape
	ShapeNumber                // integer or floating-point number
	ShapeBoolean               // true or false
	ShapeNull                  // the null constant
	ShapeString                // quoted string
	ShapeTuple                 // array of fixed arity
	ShapeSequence              // array of any length
	ShapeMap                   // object with arbitrary string keys
	ShapeUnion                 // one of several alternative shapes
	ShapeRecord                // object with declared fields
	ShapeConstant              // a single string literal
	ShapeOptional              // a value that may be absent
)

var shapeStr = [...]string{
	ShapeInvalid:  "invalid",
	ShapeNumber:   "number",
	ShapeBoolean:  "boolean",
	ShapeNull:     "null",
	ShapeString:   "string",
	ShapeTuple:    "tuple",
	ShapeSequence: "sequence",
	ShapeMap:      "map",
	ShapeUnion:    "union",
	ShapeRecord:   "record",
	ShapeConstant: "constant",
	ShapeOptional: "optional",
}

func (s Shape) String() string {
	v := int(s)
	if v >= len(shapeStr) {
		return shapeStr[ShapeInvalid]
	}
	return shapeStr[v]
}

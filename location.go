package jshape

import "fmt"

// A LineCol describes the line number and column offset of a location in
// source text.
type LineCol struct {
	Line   int // line number, 1-based
	Column int // byte offset of column in line, 0-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// locate returns the line and column of the given byte offset in text.
// Offsets past the end of text are clamped to the end.
func locate(text string, offset int) LineCol {
	offset = min(max(offset, 0), len(text))
	lc := LineCol{Line: 1}
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			lc.Line++
			lc.Column = 0
		} else {
			lc.Column++
		}
	}
	return lc
}

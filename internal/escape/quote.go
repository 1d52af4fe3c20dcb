// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package escape

import "go4.org/mem"

// controlEsc maps control bytes to their short escapes, if any.
var controlEsc = [' ']byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
}

var hexDigit = []byte("0123456789abcdef")

// Quote appends the double-quoted JSON encoding of src to dst and returns the
// extended slice.
//
// Backslash, double quote, and control bytes below U+0020 are escaped. All
// other bytes, including non-ASCII UTF-8 sequences and invalid UTF-8, are
// copied through unchanged.
func Quote(dst []byte, src mem.RO) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < src.Len(); i++ {
		b := src.At(i)
		if b >= ' ' && b != '\\' && b != '"' {
			continue
		}
		dst = mem.Append(dst, src.Slice(start, i))
		start = i + 1
		if b >= ' ' {
			dst = append(dst, '\\', b)
		} else if c := controlEsc[b]; c != 0 {
			dst = append(dst, '\\', c)
		} else {
			dst = append(dst, '\\', 'u', '0', '0', hexDigit[b>>4], hexDigit[b&15])
		}
	}
	dst = mem.Append(dst, src.SliceFrom(start))
	return append(dst, '"')
}

// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jshape

import (
	"errors"

	"github.com/creachadair/jshape/internal/escape"
	"go4.org/mem"
)

// Quote encodes src as a JSON string value. The contents are escaped and
// double quotation marks are added. Bytes outside the ASCII range are copied
// without change.
func Quote(src string) string { return string(escape.Quote(nil, mem.S(src))) }

// Unquote decodes a JSON string value. The quotation marks, which may be
// double or single, are removed and escape sequences are replaced with their
// unescaped equivalents. Unquote reports an error if src is not exactly one
// complete quoted string.
func Unquote(src string) (string, error) {
	text, n, p, _ := escape.Unquote(mem.S(src))
	if p != escape.OK {
		return "", errors.New(p.String())
	} else if n != len(src) {
		return "", errors.New("extra text after string")
	}
	return text, nil
}

// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// A Problem classifies a failure to unquote a string.
type Problem byte

// Constants defining the Problem values.
const (
	OK              Problem = iota // no problem
	NoQuote                        // input does not begin with a quote
	Unterminated                   // closing quote not found
	IncompleteEsc                  // input ends inside an escape sequence
	InvalidEsc                     // unknown character after backslash
	InvalidUnicode                 // malformed \uXXXX escape
	InvalidSurrogate               // unpaired UTF-16 surrogate escape
)

var problemStr = [...]string{
	OK:               "ok",
	NoQuote:          "opening quote not found",
	Unterminated:     "closing quote not found",
	IncompleteEsc:    "incomplete escape sequence",
	InvalidEsc:       "invalid escape sequence",
	InvalidUnicode:   "invalid Unicode escape",
	InvalidSurrogate: "invalid Unicode surrogate",
}

func (p Problem) String() string {
	if int(p) >= len(problemStr) {
		return "unknown problem"
	}
	return problemStr[p]
}

// IsQuote reports whether b opens a string literal.
func IsQuote(b byte) bool { return b == '"' || b == '\'' }

// Unquote decodes a quoted string from the front of src. The first byte of
// src must be a quotation mark, either double (") or single ('), and the
// string runs to the next unescaped copy of the same mark.
//
// On success, Unquote returns the decoded text and the number of bytes of src
// consumed, including both quotation marks. Otherwise it reports a Problem
// and the offset in src at which the problem was found. Reporting a problem
// does not allocate.
func Unquote(src mem.RO) (text string, size int, p Problem, at int) {
	if src.Len() == 0 || !IsQuote(src.At(0)) {
		return "", 0, NoQuote, 0
	}
	quote := src.At(0)
	body := src.SliceFrom(1)

	// Fast path: no escapes before the closing quote.
	end := mem.IndexByte(body, quote)
	esc := mem.IndexByte(body, '\\')
	if end < 0 && esc < 0 {
		return "", 0, Unterminated, src.Len()
	} else if end >= 0 && (esc < 0 || end < esc) {
		return body.SliceTo(end).StringCopy(), end + 2, OK, 0
	}

	dec := make([]byte, 0, body.Len())
	i := 0
	for i < body.Len() {
		b := body.At(i)
		if b == quote {
			return string(dec), i + 2, OK, 0
		} else if b != '\\' {
			dec = append(dec, b)
			i++
			continue
		}

		// We are at the start of an escape sequence.
		if i+1 >= body.Len() {
			return "", 0, IncompleteEsc, i + 1
		}
		switch c := body.At(i + 1); c {
		case '"', '\'', '\\', '/':
			dec = append(dec, c)
		case 'b':
			dec = append(dec, '\b')
		case 'f':
			dec = append(dec, '\f')
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			r, n, p := decodeUnicode(body.SliceFrom(i + 2))
			if p != OK {
				return "", 0, p, i + 1
			}
			dec = utf8.AppendRune(dec, r)
			i += 2 + n
			continue
		default:
			return "", 0, InvalidEsc, i + 1
		}
		i += 2
	}
	return "", 0, Unterminated, src.Len()
}

// decodeUnicode decodes the hex digits of a \u escape from the front of src,
// which begins just after the "u". A high surrogate must be followed by an
// escaped low surrogate, and the pair is combined. It returns the number of
// bytes of src consumed.
func decodeUnicode(src mem.RO) (rune, int, Problem) {
	v, ok := parseHex4(src)
	if !ok {
		return 0, 0, InvalidUnicode
	}
	r := rune(v)
	if !utf16.IsSurrogate(r) {
		return r, 4, OK
	}
	if r >= 0xdc00 || src.Len() < 10 || src.At(4) != '\\' || src.At(5) != 'u' {
		return 0, 0, InvalidSurrogate // unpaired or out of order
	}
	v2, ok := parseHex4(src.SliceFrom(6))
	if !ok {
		return 0, 0, InvalidUnicode
	}
	if c := utf16.DecodeRune(r, rune(v2)); c != utf8.RuneError {
		return c, 10, OK
	}
	return 0, 0, InvalidSurrogate
}

// parseHex4 parses exactly four hexadecimal digits from the front of data.
func parseHex4(data mem.RO) (uint32, bool) {
	if data.Len() < 4 {
		return 0, false
	}
	var v uint32
	for i := 0; i < 4; i++ {
		b := data.At(i)
		v <<= 4
		if '0' <= b && b <= '9' {
			v += uint32(b - '0')
		} else if 'a' <= b && b <= 'f' {
			v += uint32(b - 'a' + 10)
		} else if 'A' <= b && b <= 'F' {
			v += uint32(b - 'A' + 10)
		} else {
			return 0, false
		}
	}
	return v, true
}

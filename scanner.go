// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jshape

import (
	"fmt"
	"strings"

	"github.com/creachadair/jshape/internal/escape"
	"go4.org/mem"
)

// token is the type of a lexical token in the JSON grammar, as classified by
// the first byte of its text. Tokens are used to describe unexpected input.
type token byte

// Constants defining the valid token values.
const (
	invalid token = iota // invalid token
	lBrace               // left brace "{"
	rBrace               // right brace "}"
	lSquare              // left square bracket "["
	rSquare              // right square bracket "]"
	comma                // comma ","
	colon                // colon ":"
	number               // number
	quoted               // quoted string
	trueTok              // constant: true
	falseTok             // constant: false
	nullTok              // constant: null
	endTok               // end of input
)

var tokenStr = [...]string{
	invalid:  "invalid token",
	lBrace:   `"{"`,
	rBrace:   `"}"`,
	lSquare:  `"["`,
	rSquare:  `"]"`,
	comma:    `","`,
	colon:    `":"`,
	number:   "number",
	quoted:   "string",
	trueTok:  "true",
	falseTok: "false",
	nullTok:  "null",
	endTok:   "end of input",
}

func (t token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[invalid]
	}
	return tokenStr[v]
}

var self = [...]token{lBrace, rBrace, lSquare, rSquare, comma, colon}

// tokenAt classifies the token beginning at c, which must not begin with
// whitespace.
func tokenAt(c Cursor) token {
	if c.empty() {
		return endTok
	}
	ch := c.head()
	if i := strings.IndexByte("{}[],:", ch); i >= 0 {
		return self[i]
	}
	switch {
	case isNumStart(ch):
		return number
	case escape.IsQuote(ch):
		return quoted
	case mem.HasPrefix(c.rest, mem.S("true")):
		return trueTok
	case mem.HasPrefix(c.rest, mem.S("false")):
		return falseTok
	case mem.HasPrefix(c.rest, mem.S("null")):
		return nullTok
	}
	return invalid
}

// describe returns a human-readable description of the input at c.
func describe(c Cursor) string {
	if tok := tokenAt(c); tok != invalid {
		return tok.String()
	}
	r, _ := mem.DecodeRune(c.rest)
	return fmt.Sprintf("%q", r)
}

// expected reports that the input at c is not the start of what.
func (m mode) expected(c Cursor, what string) error {
	if m == probe {
		return errNoMatch
	}
	return m.failf(c, "unexpected %s, expected %s", describe(c), what)
}

// skipSpace returns a cursor past any whitespace at the front of c.
func skipSpace(c Cursor) Cursor {
	i := 0
	for i < c.Len() && isSpace(c.at(i)) {
		i++
	}
	return c.advance(i)
}

// peek reports whether the next non-whitespace byte of c is delim, and if so
// returns a cursor positioned just past it. This is the lookahead used to
// detect the end of arrays and objects.
func peek(c Cursor, delim byte) (Cursor, bool) {
	c = skipSpace(c)
	if !c.empty() && c.head() == delim {
		return c.advance(1), true
	}
	return c, false
}

// expect consumes whitespace followed by the structural delimiter delim.
func expect(m mode, c Cursor, delim byte) (Cursor, error) {
	next, ok := peek(c, delim)
	if !ok {
		return c, m.unexpected(next, delim)
	}
	return next, nil
}

// literal consumes whitespace followed by the keyword word.
func literal(m mode, c Cursor, word string) (Cursor, error) {
	c = skipSpace(c)
	if !mem.HasPrefix(c.rest, mem.S(word)) {
		return c, m.expected(c, word)
	}
	return c.advance(len(word)), nil
}

// scanString consumes whitespace followed by a quoted string, and returns
// the decoded text of the string.
func scanString(m mode, c Cursor) (string, Cursor, error) {
	c = skipSpace(c)
	if c.empty() || !escape.IsQuote(c.head()) {
		return "", c, m.expected(c, "string")
	}
	text, n, p, at := escape.Unquote(c.rest)
	if p != escape.OK {
		return "", c, m.failf(c.advance(at), "%v", p)
	}
	return text, c.advance(n), nil
}

// rawString reports whether c begins with a quoted string containing no
// escape sequences. If so, it returns the body of the string without copying
// and a cursor positioned after the closing quote.
func rawString(c Cursor) (mem.RO, Cursor, bool) {
	if c.empty() || !escape.IsQuote(c.head()) {
		return mem.RO{}, c, false
	}
	body := c.rest.SliceFrom(1)
	end := mem.IndexByte(body, c.head())
	if end < 0 || mem.IndexByte(body.SliceTo(end), '\\') >= 0 {
		return mem.RO{}, c, false
	}
	return body.SliceTo(end), c.advance(end + 2), true
}

// scanNumber consumes whitespace followed by a number, and returns the text
// of the number. It reports whether the number is integral, meaning it has
// neither a fraction nor an exponent.
//
// The grammar is that of JSON:
//
//	number   = [ "-" ] int [ frac ] [ exp ]
//	int      = "0" / ( digit1-9 *digit )
//	frac     = "." 1*digit
//	exp      = ( "e" / "E" ) [ "-" / "+" ] 1*digit
func scanNumber(m mode, c Cursor) (_ mem.RO, integral bool, _ Cursor, _ error) {
	c = skipSpace(c)
	n, i := c.Len(), 0
	if i < n && c.at(i) == '-' {
		i++
	}
	switch {
	case i < n && c.at(i) == '0':
		i++
		if i < n && isDigit(c.at(i)) {
			// Extra leading zeroes are disallowed: 0.12 is OK, 01.2 is not.
			return mem.RO{}, false, c, m.failf(c.advance(i), "extra leading zeroes")
		}
	case i < n && isDigit(c.at(i)):
		i = skipDigits(c, i)
	case i == 0:
		return mem.RO{}, false, c, m.expected(c, "number")
	default:
		return mem.RO{}, false, c, m.failf(c.advance(i), "missing digit after sign")
	}

	integral = true
	if i < n && c.at(i) == '.' {
		j := skipDigits(c, i+1)
		if j == i+1 {
			return mem.RO{}, false, c, m.failf(c.advance(j), "missing digit after fraction")
		}
		i, integral = j, false
	}
	if i < n && (c.at(i) == 'e' || c.at(i) == 'E') {
		i++
		if i < n && (c.at(i) == '-' || c.at(i) == '+') {
			i++
		}
		j := skipDigits(c, i)
		if j == i {
			return mem.RO{}, false, c, m.failf(c.advance(j), "missing digit after exponent")
		}
		i, integral = j, false
	}
	next := c.advance(i)
	return c.text(next), integral, next, nil
}

// skipDigits returns the offset of the first non-digit in c at or after i.
func skipDigits(c Cursor, i int) int {
	for i < c.Len() && isDigit(c.at(i)) {
		i++
	}
	return i
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }

// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jcomplete

import (
	"fmt"
	"io"
	"strings"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Integer: "integer",
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
}

func (t Token) String() string {
	if int(t) >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[t]
}

// A Scanner reads lexical tokens from a complete source text. Each call to
// Next advances the scanner to the next token, or reports an error.
//
// Lexical errors reported by Next have concrete type [*SyntaxError].
type Scanner struct {
	src mem.RO
	tok Token
	err error

	pos, end int // start and end offsets of current token

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes src.
func NewScanner(src string) *Scanner { return &Scanner{src: mem.S(src)} }

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.
func (s *Scanner) Next() error {
	s.tok = Invalid
	s.err = nil
	s.skipSpace()
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	if s.end >= s.src.Len() {
		s.err = io.EOF
		return io.EOF
	}

	ch := s.src.At(s.end)
	if t, ok := selfDelim(ch); ok {
		s.advance(1)
		s.tok = t
		return nil
	}
	switch {
	case ch == '"':
		return s.scanString()
	case ch == '-' || isDigit(ch):
		return s.scanNumber()
	case ch == 't':
		return s.scanConstant(True, "true")
	case ch == 'f':
		return s.scanConstant(False, "false")
	case ch == 'n':
		return s.scanConstant(Null, "null")
	}
	r, _ := mem.DecodeRune(s.src.SliceFrom(s.end))
	return s.failf(s.end, InvalidToken, "unexpected character %q", r)
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token.
func (s *Scanner) Text() string { return s.src.Slice(s.pos, s.end).StringCopy() }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

// at returns the line and column of offset, which must lie within the current
// token. Tokens never span lines.
func (s *Scanner) at(offset int) LineCol {
	return LineCol{Line: s.pline + 1, Column: s.pcol + (offset - s.pos)}
}

func (s *Scanner) skipSpace() {
	for s.end < s.src.Len() {
		switch s.src.At(s.end) {
		case '\n':
			s.end++
			s.eline++
			s.ecol = 0
		case ' ', '\t', '\r':
			s.advance(1)
		default:
			return
		}
	}
}

func (s *Scanner) advance(n int) { s.end += n; s.ecol += n }

// peek returns the byte at offset i of the input, and false if i is past the
// end of the input.
func (s *Scanner) peek(i int) (byte, bool) {
	if i >= s.src.Len() {
		return 0, false
	}
	return s.src.At(i), true
}

func (s *Scanner) scanString() error {
	i := s.pos + 1 // skip open quote
	for {
		ch, ok := s.peek(i)
		if !ok {
			return s.eof(i, "unterminated string")
		}
		switch {
		case ch == '"':
			s.advance(i + 1 - s.end)
			s.tok = String
			return nil

		case ch == '\\':
			esc, ok := s.peek(i + 1)
			if !ok {
				return s.eof(i+1, "incomplete escape sequence")
			}
			switch esc {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				i += 2
			case 'u':
				for j := i + 2; j < i+6; j++ {
					h, ok := s.peek(j)
					if !ok {
						return s.eof(j, "incomplete Unicode escape")
					} else if !isHexDigit(h) {
						return s.failf(j, InvalidToken, "invalid Unicode escape: not a hex digit: %q", h)
					}
				}
				i += 6
			default:
				return s.failf(i+1, InvalidToken, "invalid %q after escape", esc)
			}

		case ch < ' ':
			return s.failf(i, InvalidToken, "unescaped control %q in string", ch)

		default:
			i++
		}
	}
}

func (s *Scanner) scanNumber() error {
	i := s.pos
	if s.src.At(i) == '-' {
		// If there is a leading sign, we need at least one digit.
		i++
		if err := s.requireDigit(i, "digit after sign"); err != nil {
			return err
		}
	}

	// Integer part. A leading zero is OK only if it is the only digit.
	if s.src.At(i) == '0' {
		i++
		if ch, ok := s.peek(i); ok && isDigit(ch) {
			return s.failf(i, InvalidToken, "extra leading zeroes")
		}
	} else {
		i = s.digits(i)
	}
	tok := Integer

	// If a decimal point follows, consume a fractional part.
	if ch, ok := s.peek(i); ok && ch == '.' {
		i++
		if err := s.requireDigit(i, "digit after decimal point"); err != nil {
			return err
		}
		i = s.digits(i)
		tok = Number
	}

	// If an exponent follows, consume it.
	if ch, ok := s.peek(i); ok && (ch == 'e' || ch == 'E') {
		i++
		if sign, ok := s.peek(i); ok && (sign == '+' || sign == '-') {
			i++
		}
		if err := s.requireDigit(i, "exponent digits"); err != nil {
			return err
		}
		i = s.digits(i)
		tok = Number
	}

	s.advance(i - s.end)
	s.tok = tok
	return nil
}

// requireDigit reports an error unless the byte at offset i is a digit.
func (s *Scanner) requireDigit(i int, label string) error {
	ch, ok := s.peek(i)
	if !ok {
		return s.eof(i, "missing "+label)
	} else if !isDigit(ch) {
		return s.failf(i, InvalidToken, "got %q, want %s", ch, label)
	}
	return nil
}

// digits returns the offset of the first non-digit at or after i.
func (s *Scanner) digits(i int) int {
	for {
		ch, ok := s.peek(i)
		if !ok || !isDigit(ch) {
			return i
		}
		i++
	}
}

func (s *Scanner) scanConstant(tok Token, want string) error {
	i := s.pos
	for {
		ch, ok := s.peek(i)
		if !ok || !isNameByte(ch) {
			break
		}
		i++
	}
	got := s.src.Slice(s.pos, i)
	if got.EqualString(want) {
		s.advance(i - s.end)
		s.tok = tok
		return nil
	}
	if i == s.src.Len() && strings.HasPrefix(want, got.StringCopy()) {
		return s.eof(i, fmt.Sprintf("incomplete constant %q", got.StringCopy()))
	}
	return s.failf(s.pos, InvalidToken, "unknown constant %q", got.StringCopy())
}

func (s *Scanner) eof(offset int, msg string) error {
	return s.failf(offset, UnexpectedEOF, "unexpected end of input: %s", msg)
}

func (s *Scanner) failf(offset int, kind ErrorKind, msg string, args ...any) error {
	s.err = &SyntaxError{
		Kind:     kind,
		Location: s.at(offset),
		Offset:   offset,
		Message:  fmt.Sprintf(msg, args...),
	}
	return s.err
}

func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }
func isNameByte(ch byte) bool { return ch >= 'a' && ch <= 'z' }

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch byte) (Token, bool) {
	i := strings.IndexByte("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}

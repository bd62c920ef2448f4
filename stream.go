// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jcomplete

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// An Anchor represents a location in source text. The methods of an Anchor
// will report the location, token type, and contents of the anchor.
type Anchor interface {
	Token() Token       // Returns the token type of the anchor
	Text() string       // Returns the raw (undecoded) text of the anchor
	Location() Location // Returns the full location of the anchor
}

// A Handler handles events from parsing a document.  If a method reports an
// error, parsing stops and that error is returned to the caller.
// The parser ensures objects and arrays are correctly balanced.
//
// The Anchor argument to a Handler method is only valid for the duration of
// that method call.
type Handler interface {
	// Begin a new object, whose open brace is at loc.
	BeginObject(loc Anchor) error

	// End the most-recently-opened object, whose close brace is at loc.
	EndObject(loc Anchor) error

	// Begin a new array, whose open bracket is at loc.
	BeginArray(loc Anchor) error

	// End the most-recently-opened array, whose close bracket is at loc.
	EndArray(loc Anchor) error

	// Begin a new object member, whose key is at loc.  The text of the key is
	// still quoted; the handler is responsible for unquoting it (see Unquote).
	BeginMember(loc Anchor) error

	// End the current object member giving the location and type of the token
	// that terminated the member (either Comma or RBrace).
	EndMember(loc Anchor) error

	// Report a data value at the given location. The type of the value can be
	// recovered from the token. String tokens are quoted.
	Value(loc Anchor) error

	// EndOfInput reports the end of the input.
	EndOfInput(loc Anchor)
}

// Stream is a parser that consumes a single JSON document and delivers events
// to a Handler corresponding with the structure of the input.
type Stream struct {
	s     *Scanner
	depth int // number of open objects and arrays
}

// MaxDepth is the maximum nesting depth of objects and arrays accepted by a
// Stream. Deeper input is reported as an InvalidToken error at the bracket
// that exceeds the limit.
const MaxDepth = 10000

// NewStream constructs a new Stream that consumes the document in src.
func NewStream(src string) *Stream { return &Stream{s: NewScanner(src)} }

func (s *Stream) recoverParseError(errp *error) {
	if serr := recover(); serr != nil {
		switch err := serr.(type) {
		case *SyntaxError:
			*errp = err
		case handlerError:
			*errp = err.error
		default:
			panic(serr)
		}
	}
}

// Parse parses exactly one JSON value followed by the end of the input, and
// delivers events to h until either an error occurs or the input is
// exhausted. An empty input is an error. In case of a syntax error, the
// returned error has type [*SyntaxError].
func (s *Stream) Parse(h Handler) (err error) {
	defer s.recoverParseError(&err)

	s.advance()
	s.parseElement(h)

	if err := s.s.Next(); err == io.EOF {
		h.EndOfInput(s.s)
		return nil
	} else if err != nil {
		panic(err)
	}
	s.syntaxError(UnexpectedToken, "unexpected %v after top-level value", s.s.Token())
	return nil
}

// parseElement consumes a single value of any type.
// Precondition: token != Invalid.
func (s *Stream) parseElement(h Handler) {
	switch tok := s.s.Token(); tok {
	case LBrace:
		s.push()
		s.checkError(h.BeginObject(s.s))
		s.parseMembers(h)
		s.checkError(h.EndObject(s.s))
		s.depth--
	case LSquare:
		s.push()
		s.checkError(h.BeginArray(s.s))
		s.parseElements(h)
		s.checkError(h.EndArray(s.s))
		s.depth--
	case Integer, Number, String, True, False, Null:
		s.checkError(h.Value(s.s))
	default:
		s.syntaxError(UnexpectedToken, "unexpected %v, expected a value", tok)
	}
}

// push records entry into an object or array at the current token.
func (s *Stream) push() {
	if s.depth >= MaxDepth {
		s.syntaxError(InvalidToken, "nesting too deep (more than %d levels)", MaxDepth)
	}
	s.depth++
}

// parseMembers consumes zero of more key:value object members.
// Precondition: token == LBrace.
// Postcondition: token == RBrace.
func (s *Stream) parseMembers(h Handler) {
	if tok := s.advance(RBrace, String); tok == RBrace {
		return // end of object
	}
	for {
		// Parse a single member: "key": value
		s.checkError(h.BeginMember(s.s))
		s.advance(Colon)
		s.advance()
		s.parseElement(h)

		// Check whether we have more members (",") or are done ("}").
		tok := s.advance(RBrace, Comma)
		s.checkError(h.EndMember(s.s))
		if tok == RBrace {
			return // end of object
		}
		s.advance(String) // advance to next key
	}
}

// parseElements consumes zero or more comma-separated array values.
// Precondition: token == LSquare.
// Postcondition: token == RSquare.
func (s *Stream) parseElements(h Handler) {
	if tok := s.advance(); tok == RSquare {
		return // end of array
	}
	for {
		s.parseElement(h)
		if tok := s.advance(RSquare, Comma); tok == RSquare {
			return // end of array
		}
		s.advance()
	}
}

// advance reads the next token, which must be one of tokens if any are given.
// Running out of input here is always an error, since every caller is in the
// middle of a value.
func (s *Stream) advance(tokens ...Token) Token {
	if err := s.s.Next(); err == io.EOF {
		s.syntaxError(UnexpectedEOF, "unexpected end of input, %s", expectLabel(tokens))
	} else if err != nil {
		panic(err)
	}
	tok := s.s.Token()
	if len(tokens) != 0 && !slices.Contains(tokens, tok) {
		s.syntaxError(UnexpectedToken, "unexpected %v, %s", tok, expectLabel(tokens))
	}
	return tok
}

func (s *Stream) syntaxError(kind ErrorKind, msg string, args ...any) {
	loc := s.s.Location()
	panic(&SyntaxError{
		Kind:     kind,
		Location: loc.First,
		Offset:   loc.Pos,
		Message:  fmt.Sprintf(msg, args...),
	})
}

func (s *Stream) checkError(err error) {
	if err != nil {
		panic(handlerError{err})
	}
}

type handlerError struct{ error }

func (h handlerError) Unwrap() error { return h.error }

// expectLabel makes a human-readable summary string for the given token types.
func expectLabel(tokens []Token) string {
	switch len(tokens) {
	case 0:
		return "expected a value"
	case 1:
		return "expected " + tokens[0].String()
	}
	last := len(tokens) - 1
	ss := make([]string, last)
	for i, tok := range tokens[:last] {
		ss[i] = tok.String()
	}
	return "expected " + strings.Join(ss, ", ") + " or " + tokens[last].String()
}

// ErrorKind classifies a [SyntaxError].
type ErrorKind byte

const (
	InvalidToken    ErrorKind = iota // malformed lexical token
	UnexpectedToken                  // well-formed token in the wrong place
	UnexpectedEOF                    // input ended inside a value
)

var kindStr = [...]string{
	InvalidToken:    "invalid token",
	UnexpectedToken: "unexpected token",
	UnexpectedEOF:   "unexpected end of input",
}

func (k ErrorKind) String() string {
	if int(k) >= len(kindStr) {
		return kindStr[InvalidToken]
	}
	return kindStr[k]
}

// SyntaxError is the concrete type of errors reported by the scanner and the
// stream parser.
type SyntaxError struct {
	Kind     ErrorKind
	Location LineCol
	Offset   int // byte offset of the problem, 0-based
	Message  string
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

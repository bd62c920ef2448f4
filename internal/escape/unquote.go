// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Unquote decodes the JSON encoding of a string. The input must have the
// enclosing double quotation marks already removed.
//
// Escape sequences are replaced with their unescaped equivalents. Invalid
// escapes, unpaired surrogates, and bytes that are not valid UTF-8 are
// replaced by the Unicode replacement rune. Unquote reports an error for an
// incomplete escape sequence.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	for {
		i := mem.IndexByte(src, '\\')
		if i < 0 {
			return appendValid(dec, src), nil
		}
		dec = appendValid(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}

		c := src.At(0)
		src = src.SliceFrom(1)
		switch c {
		case '"', '\\', '/':
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
			r, ok := parseHex4(src)
			if !ok {
				if src.Len() < 4 {
					return nil, errors.New("incomplete Unicode escape")
				}
				r = utf8.RuneError
			}
			src = src.SliceFrom(4)

			// A high surrogate must be followed by an escaped low surrogate.
			if utf16.IsSurrogate(r) {
				lo, ok := lowSurrogate(src)
				if dr := utf16.DecodeRune(r, lo); ok && dr != utf8.RuneError {
					r = dr
					src = src.SliceFrom(6)
				} else {
					r = utf8.RuneError
				}
			}
			dec = utf8.AppendRune(dec, r)
		default:
			dec = utf8.AppendRune(dec, utf8.RuneError)
		}
	}
}

// appendValid appends src to dec, replacing each byte that is not part of a
// valid UTF-8 encoding with the replacement rune.
func appendValid(dec []byte, src mem.RO) []byte {
	if mem.ValidUTF8(src) {
		return mem.Append(dec, src)
	}
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		if r == utf8.RuneError && n == 1 {
			dec = utf8.AppendRune(dec, utf8.RuneError)
		} else {
			dec = mem.Append(dec, src.SliceTo(n))
		}
		src = src.SliceFrom(n)
	}
	return dec
}

// lowSurrogate reports whether src begins with a \uXXXX escape, and if so
// returns its value.
func lowSurrogate(src mem.RO) (rune, bool) {
	if src.Len() < 6 || src.At(0) != '\\' || src.At(1) != 'u' {
		return 0, false
	}
	return parseHex4(src.SliceFrom(2))
}

func parseHex4(data mem.RO) (rune, bool) {
	if data.Len() < 4 {
		return 0, false
	}
	var v rune
	for i := 0; i < 4; i++ {
		b := data.At(i)
		v <<= 4
		switch {
		case '0' <= b && b <= '9':
			v += rune(b - '0')
		case 'a' <= b && b <= 'f':
			v += rune(b - 'a' + 10)
		case 'A' <= b && b <= 'F':
			v += rune(b - 'A' + 10)
		default:
			return 0, false
		}
	}
	return v, true
}

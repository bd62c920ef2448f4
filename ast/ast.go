// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a value tree for JSON documents, and a parser that
// constructs trees from JSON source.
//
// Trees are plain data: two trees parsed from equivalent text compare equal
// with cmp.Equal, and Format renders a tree back to text that parses to an
// equal tree.
package ast

import (
	"strconv"
	"strings"

	"github.com/creachadair/jcomplete"
)

// A Value is an arbitrary JSON value.
type Value interface {
	// JSON returns the compact JSON encoding of the value.
	JSON() string
}

// An Object is a sequence of key-value members, in source order.
type Object []*Member

// JSON satisfies the Value interface.
func (o Object) JSON() string { return Format(o) }

// Find returns the member of o with the given key, or nil. If the key occurs
// more than once, the last occurrence wins.
func (o Object) Find(key string) *Member {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i]
		}
	}
	return nil
}

// Keys returns the distinct keys of o in order of first appearance.
func (o Object) Keys() []string {
	seen := make(map[string]bool, len(o))
	keys := make([]string, 0, len(o))
	for _, m := range o {
		if !seen[m.Key] {
			seen[m.Key] = true
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// An Array is a sequence of values.
type Array []Value

// JSON satisfies the Value interface.
func (a Array) JSON() string { return Format(a) }

// A String is a string value. It holds the decoded text.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return jcomplete.Quote(string(s)) }

// A Number is a numeric value. It holds the source text of the number.
type Number string

// JSON satisfies the Value interface.
func (n Number) JSON() string { return string(n) }

// IsInt reports whether n has no fraction or exponent.
func (n Number) IsInt() bool { return !strings.ContainsAny(string(n), ".eE") }

// Int64 returns the value of n as an int64. It reports false if n is not an
// integer or is out of range.
func (n Number) Int64() (int64, bool) {
	v, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Float64 returns the value of n as a float64.
func (n Number) Float64() float64 {
	v, _ := strconv.ParseFloat(string(n), 64) // out of range yields ±Inf
	return v
}

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string { return strconv.FormatBool(bool(b)) }

// Null represents the null constant.
type Null struct{}

// JSON satisfies the Value interface.
func (Null) JSON() string { return "null" }

// TypeName returns a short name for the JSON type of v: "object", "array",
// "string", "number", "boolean", or "null".
func TypeName(v Value) string {
	switch v.(type) {
	case Object:
		return "object"
	case Array:
		return "array"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case Null:
		return "null"
	default:
		return "unknown"
	}
}

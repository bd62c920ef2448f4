// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package complete implements an input component that suggests path
// expressions for a JSON value.
//
// The component is a controlled input in the Bubble Tea style: the caller
// supplies the data to complete against with SetData and the current text
// with SetValue, and learns about edits made by the user through the
// OnChange callback in Config.
package complete

import (
	"strconv"
	"strings"

	"github.com/creachadair/jcomplete"
	"github.com/creachadair/jcomplete/ast"
	"github.com/creachadair/jcomplete/jpath"
)

// A Suggestion is a candidate continuation of a path expression.
type Suggestion struct {
	Label string // the key or index offered, e.g. "profile" or "[0]"
	Value string // the complete input text if the suggestion is accepted
	Type  string // JSON type of the value the suggestion leads to
}

// Suggest returns the continuations of input that address a location in data.
//
// The input is split into the complete steps and a trailing partial step (see
// jpath.Split). The complete steps are resolved against data, and the keys or
// indices of the value reached are offered if they begin with the partial
// text. Object keys match without regard to case.
//
// No suggestions are offered if data is nil, if input is not a prefix of a
// valid path, if the complete steps do not resolve, or if they lead to a
// scalar value.
func Suggest(data ast.Value, input string) []Suggestion {
	if data == nil {
		return nil
	}
	prefix, part, err := jpath.Split(input)
	if err != nil {
		return nil
	}
	target, err := jpath.Resolve(data, prefix)
	if err != nil {
		return nil
	}
	head := input[:part.Pos]

	var out []Suggestion
	switch t := target.(type) {
	case ast.Object:
		if part.Op == jpath.Index && part.Text != "" {
			return nil // an index into an object
		}
		for _, key := range t.Keys() {
			if part.Op == jpath.Member && !hasPrefixFold(key, part.Text) {
				continue
			}
			var next string
			if part.Op == jpath.Index {
				next = "[" + jcomplete.Quote(key) + "]"
			} else {
				next = jpath.FormatStep(jpath.Step{Op: jpath.Member, Name: key}, part.First)
			}
			out = append(out, Suggestion{
				Label: key,
				Value: head + next,
				Type:  ast.TypeName(t.Find(key).Value),
			})
		}

	case ast.Array:
		if part.Op == jpath.Member {
			return nil // a key in an array
		}
		for i, elt := range t {
			idx := strconv.Itoa(i)
			if part.Op == jpath.Index && !strings.HasPrefix(idx, part.Text) {
				continue
			}
			out = append(out, Suggestion{
				Label: "[" + idx + "]",
				Value: head + "[" + idx + "]",
				Type:  ast.TypeName(elt),
			})
		}
	}
	return out
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

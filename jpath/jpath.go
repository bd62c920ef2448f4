// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package jpath implements the path expressions used to address locations
// inside a JSON value, such as user.profile.address.city or posts[0].tags[1].
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/creachadair/jcomplete"
	"github.com/creachadair/jcomplete/ast"
)

/*
Grammar:

  expr = [ "$" ] [ name ] steps
 steps = step [steps]
  step = "." name
  step = "[" INDEX "]"
  step = "[" QSTR "]"
  step = "[" "'" QTEXT "'" "]"
  name = WORD

  WORD = RE `\w+`
 INDEX = RE `-?\d+`
  QSTR = { a JSON string literal }
 QTEXT = RE `[^']*`

A leading name without a dot is permitted only when the expression does not
begin with "$".
*/

// An Expr is a parsed path expression.
type Expr []Step

// String renders e in canonical form, with a leading "$".
func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		buf.WriteString(FormatStep(s, false))
	}
	return buf.String()
}

// FormatStep renders a single step. If first is true and s is a member step
// whose name is a plain word, the leading dot is omitted.
func FormatStep(s Step, first bool) string {
	switch s.Op {
	case Member:
		if !IsWord(s.Name) {
			return "[" + jcomplete.Quote(s.Name) + "]"
		} else if first {
			return s.Name
		}
		return "." + s.Name
	case Index:
		return "[" + strconv.Itoa(s.Index) + "]"
	default:
		return "[?]"
	}
}

// IsWord reports whether name can be written after a dot without quoting.
func IsWord(name string) bool { return fullWordRE.MatchString(name) }

// Parse parses s as a complete path expression.
func Parse(s string) (Expr, error) {
	e, p, err := parse(s, false)
	if err != nil {
		return nil, err
	} else if p.Op != Invalid {
		return nil, fmt.Errorf("at %d: incomplete path step", p.Pos)
	}
	return e, nil
}

// A Partial is an incomplete step at the end of a path expression.
type Partial struct {
	// Op is Member or Index for a partially-typed step, or Invalid if the
	// expression ends on a step boundary.
	Op Op

	// Text is the portion of the name or index typed so far.
	Text string

	// Pos is the offset in the input where the partial step begins,
	// including its leading "." or "[" if any.
	Pos int

	// First reports whether a member step at Pos is written without a
	// leading dot, as the first step of an expression with no "$".
	First bool
}

// Split parses s as a path expression that may end with an incomplete step.
// It returns the complete steps and a description of the trailing partial
// step. An error is reported only if s cannot be the prefix of a valid
// expression.
func Split(s string) (Expr, Partial, error) { return parse(s, true) }

func parse(s string, partial bool) (Expr, Partial, error) {
	var out Expr
	i, first := 0, true
	if strings.HasPrefix(s, "$") {
		i, first = 1, false
	}
	for i < len(s) {
		switch c := s[i]; {
		case c == '.':
			name := wordRE.FindString(s[i+1:])
			end := i + 1 + len(name)
			if partial && end == len(s) {
				return out, Partial{Op: Member, Text: name, Pos: i}, nil
			} else if name == "" {
				return nil, Partial{}, fmt.Errorf("at %d: missing name after dot", i)
			}
			out = append(out, Step{Op: Member, Name: name})
			i = end

		case c == '[':
			step, n, p, err := parseBracket(s[i+1:])
			if err != nil {
				return nil, Partial{}, fmt.Errorf("at %d: %w", i, err)
			} else if p != nil {
				if !partial {
					return nil, Partial{}, fmt.Errorf("at %d: incomplete path step", i)
				}
				p.Pos = i
				return out, *p, nil
			}
			out = append(out, step)
			i += 1 + n

		case first:
			name := wordRE.FindString(s[i:])
			end := i + len(name)
			if name == "" {
				return nil, Partial{}, fmt.Errorf("at %d: invalid name", i)
			} else if partial && end == len(s) {
				return out, Partial{Op: Member, Text: name, Pos: i, First: true}, nil
			}
			out = append(out, Step{Op: Member, Name: name})
			i = end

		default:
			return nil, Partial{}, fmt.Errorf("at %d: unexpected %q", i, c)
		}
		first = false
	}
	return out, Partial{Pos: len(s), First: first}, nil
}

// parseBracket parses the remainder of a bracketed step from s, which begins
// just after the open bracket. It returns the step and the number of bytes
// consumed including the close bracket. If s ends before the step is
// complete, it returns a non-nil Partial whose Pos the caller must set.
func parseBracket(s string) (Step, int, *Partial, error) {
	if s == "" {
		return Step{}, 0, &Partial{Op: Index}, nil
	}
	var step Step
	var n int
	switch s[0] {
	case '"':
		end, ok := scanQuoted(s)
		if !ok {
			// Best effort: show the raw text typed so far.
			return Step{}, 0, &Partial{Op: Member, Text: strings.ReplaceAll(s[1:], `\"`, `"`)}, nil
		}
		name, err := jcomplete.Unquote(s[:end])
		if err != nil {
			return Step{}, 0, nil, fmt.Errorf("invalid quoted name: %w", err)
		}
		step, n = Step{Op: Member, Name: name}, end

	case '\'':
		end := strings.IndexByte(s[1:], '\'')
		if end < 0 {
			return Step{}, 0, &Partial{Op: Member, Text: s[1:]}, nil
		}
		step, n = Step{Op: Member, Name: s[1 : end+1]}, end+2

	default:
		m := indexRE.FindString(s)
		if m == "" {
			if s == "-" {
				return Step{}, 0, &Partial{Op: Index, Text: s}, nil
			}
			return Step{}, 0, nil, fmt.Errorf("invalid index %q", s)
		} else if len(m) == len(s) {
			return Step{}, 0, &Partial{Op: Index, Text: m}, nil
		}
		v, err := strconv.Atoi(m)
		if err != nil {
			return Step{}, 0, nil, fmt.Errorf("invalid index: %w", err)
		}
		step, n = Step{Op: Index, Index: v}, len(m)
	}

	if n == len(s) {
		// The selector is complete but the close bracket is missing.
		text := step.Name
		if step.Op == Index {
			text = strconv.Itoa(step.Index)
		}
		return Step{}, 0, &Partial{Op: step.Op, Text: text}, nil
	} else if s[n] != ']' {
		return Step{}, 0, nil, errors.New("missing close bracket")
	}
	return step, n + 1, nil, nil
}

// scanQuoted returns the offset just past the closing quote of the JSON string
// literal at the front of s, and reports whether it was found.
func scanQuoted(s string) (int, bool) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // skip escaped character
		case '"':
			return i + 1, true
		}
	}
	return 0, false
}

// Resolve follows the steps of e from v and returns the value reached.
// Negative indices count backward from the end of an array (-1 is last).
func Resolve(v ast.Value, e Expr) (ast.Value, error) {
	cur := v
	for i, s := range e {
		switch s.Op {
		case Member:
			obj, ok := cur.(ast.Object)
			if !ok {
				return nil, fmt.Errorf("%s: cannot select %q from %s", e[:i], s.Name, ast.TypeName(cur))
			}
			m := obj.Find(s.Name)
			if m == nil {
				return nil, fmt.Errorf("%s: key %q not found", e[:i], s.Name)
			}
			cur = m.Value

		case Index:
			arr, ok := cur.(ast.Array)
			if !ok {
				return nil, fmt.Errorf("%s: cannot index %s", e[:i], ast.TypeName(cur))
			}
			j, ok := fixArrayBound(len(arr), s.Index)
			if !ok {
				return nil, fmt.Errorf("%s: array index %d out of bounds (n=%d)", e[:i], s.Index, len(arr))
			}
			cur = arr[j]

		default:
			return nil, fmt.Errorf("%s: invalid step %v", e[:i], s.Op)
		}
	}
	return cur, nil
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}

var (
	wordRE     = regexp.MustCompile(`^\w+`)
	fullWordRE = regexp.MustCompile(`^\w+$`)
	indexRE    = regexp.MustCompile(`^-?\d+`)
)

// An Op is a path operator.
type Op byte

const (
	Invalid Op = iota // invalid operator
	Member            // member lookup (.name or ["name"])
	Index             // array index lookup ([n])
)

var opText = map[Op]string{
	Invalid: "invalid",
	Member:  "member",
	Index:   "index",
}

func (o Op) String() string {
	if s, ok := opText[o]; ok {
		return s
	}
	return opText[Invalid]
}

// A Step is a single step of a path expression.
type Step struct {
	Op    Op
	Name  string // for Member
	Index int    // for Index
}

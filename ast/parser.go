// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"

	"github.com/creachadair/jcomplete"
)

// Parse parses src as a single JSON document and returns its value tree.
// In case of a syntax error, the error has concrete type
// [*jcomplete.SyntaxError].
func Parse(src string) (Value, error) {
	h := new(parseHandler)
	if err := jcomplete.NewStream(src).Parse(h); err != nil {
		return nil, err
	}
	return h.root, nil
}

// A frame is an object or array under construction.
type frame struct {
	obj   Object
	arr   Array
	isArr bool
	key   string // key of the member whose value is pending
}

// A parseHandler implements the jcomplete.Handler interface to construct
// value trees.
type parseHandler struct {
	stk  []*frame
	root Value
}

func (h *parseHandler) top() *frame { return h.stk[len(h.stk)-1] }

func (h *parseHandler) pop() *frame {
	last := h.top()
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

func (h *parseHandler) push(f *frame) { h.stk = append(h.stk, f) }

// reduce attaches a completed value to the enclosing frame, or makes it the
// root if there is none.
func (h *parseHandler) reduce(v Value) {
	if len(h.stk) == 0 {
		h.root = v
		return
	}
	f := h.top()
	if f.isArr {
		f.arr = append(f.arr, v)
	} else {
		f.obj = append(f.obj, &Member{Key: f.key, Value: v})
	}
}

func (h *parseHandler) BeginObject(jcomplete.Anchor) error {
	h.push(&frame{obj: Object{}})
	return nil
}

func (h *parseHandler) EndObject(jcomplete.Anchor) error {
	h.reduce(h.pop().obj)
	return nil
}

func (h *parseHandler) BeginArray(jcomplete.Anchor) error {
	h.push(&frame{arr: Array{}, isArr: true})
	return nil
}

func (h *parseHandler) EndArray(jcomplete.Anchor) error {
	h.reduce(h.pop().arr)
	return nil
}

func (h *parseHandler) BeginMember(loc jcomplete.Anchor) error {
	key, err := jcomplete.Unquote(loc.Text())
	if err != nil {
		return fmt.Errorf("at %s: invalid key: %w", loc.Location().First, err)
	}
	h.top().key = key
	return nil
}

func (h *parseHandler) EndMember(jcomplete.Anchor) error { return nil }

func (h *parseHandler) Value(loc jcomplete.Anchor) error {
	switch loc.Token() {
	case jcomplete.String:
		s, err := jcomplete.Unquote(loc.Text())
		if err != nil {
			return fmt.Errorf("at %s: invalid string: %w", loc.Location().First, err)
		}
		h.reduce(String(s))
	case jcomplete.Integer, jcomplete.Number:
		h.reduce(Number(loc.Text()))
	case jcomplete.True, jcomplete.False:
		h.reduce(Bool(loc.Token() == jcomplete.True))
	case jcomplete.Null:
		h.reduce(Null{})
	default:
		return fmt.Errorf("unknown value %v", loc.Token())
	}
	return nil
}

func (h *parseHandler) EndOfInput(jcomplete.Anchor) {}

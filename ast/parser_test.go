// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"errors"
	"os"
	"testing"

	"github.com/creachadair/jcomplete"
	"github.com/creachadair/jcomplete/ast"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	input, err := os.ReadFile("../docsync/default.json")
	if err != nil {
		t.Fatalf("Reading test input: %v", err)
	}
	v, err := ast.Parse(string(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Inspect some of the structure of the test value to make sure we got
	// something approximating sense.
	//
	// If the testdata file changes, this may need to be updated.
	root, ok := v.(ast.Object)
	if !ok {
		t.Fatalf("Root is %T, not object", v)
	}
	if diff := cmp.Diff(root.Keys(), []string{"user", "posts", "settings"}); diff != "" {
		t.Errorf("Root keys (-got, +want):\n%s", diff)
	}
	mem := root.Find("posts")
	if mem == nil {
		t.Fatal(`Key "posts" not found`)
	}
	lst, ok := mem.Value.(ast.Array)
	if !ok {
		t.Fatalf("Member value is %T, not array", mem.Value)
	} else if len(lst) != 2 {
		t.Fatalf("Got %d posts, want 2", len(lst))
	}
	obj, ok := lst[1].(ast.Object)
	if !ok {
		t.Fatalf("Array entry is %T, not object", lst[1])
	}
	check(t, obj, "title", func(s ast.String) {
		if s != "Another Post" {
			t.Errorf("title: got %q, want %q", s, "Another Post")
		}
	})
	check(t, obj, "id", func(v ast.Number) {
		if !v.IsInt() {
			t.Errorf("Number %s should be recognized as integer", v.JSON())
		}
	})
	check[ast.Bool](t, obj, "published", nil)
	check[ast.Array](t, obj, "tags", nil)
}

func check[T any](t *testing.T, obj ast.Object, key string, f func(T)) {
	t.Helper()
	if v := obj.Find(key); v == nil {
		t.Fatalf("Key %q not found", key)
	} else if tv, ok := v.Value.(T); !ok {
		var zero T
		t.Fatalf("Key %q value is %T, not %T", key, v.Value, zero)
	} else if f != nil {
		f(tv)
	}
}

func TestParseValues(t *testing.T) {
	tests := []struct {
		input string
		want  ast.Value
	}{
		{`null`, ast.Null{}},
		{` true `, ast.Bool(true)},
		{`-1.5e3`, ast.Number("-1.5e3")},
		{`"a\u00e9\n"`, ast.String("a\u00e9\n")},
		{`"\ud83d\ude00"`, ast.String("\U0001F600")},
		{`[]`, ast.Array{}},
		{`{}`, ast.Object{}},
		{`[1, [2, []], {}]`, ast.Array{
			ast.Number("1"),
			ast.Array{ast.Number("2"), ast.Array{}},
			ast.Object{},
		}},
		{`{"a\tb": {"c": [null]}, "d": false}`, ast.Object{
			{Key: "a\tb", Value: ast.Object{
				{Key: "c", Value: ast.Array{ast.Null{}}},
			}},
			{Key: "d", Value: ast.Bool(false)},
		}},
	}
	for _, test := range tests {
		got, err := ast.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %#q: unexpected error: %v", test.input, err)
			continue
		}
		if diff := cmp.Diff(got, test.want); diff != "" {
			t.Errorf("Parse %#q (-got, +want):\n%s", test.input, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  jcomplete.ErrorKind
	}{
		{``, jcomplete.UnexpectedEOF},
		{`{"a":1`, jcomplete.UnexpectedEOF},
		{`[1,`, jcomplete.UnexpectedEOF},
		{`{"a":1}}`, jcomplete.UnexpectedToken},
		{`{"a" 1}`, jcomplete.UnexpectedToken},
		{`{a:1}`, jcomplete.InvalidToken},
		{`[1,]`, jcomplete.UnexpectedToken},
	}
	for _, test := range tests {
		v, err := ast.Parse(test.input)
		var serr *jcomplete.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Parse %#q: got %v, %v; want syntax error", test.input, v, err)
			continue
		}
		if serr.Kind != test.kind {
			t.Errorf("Parse %#q: got kind %v, want %v (%v)", test.input, serr.Kind, test.kind, err)
		}
		if v != nil {
			t.Errorf("Parse %#q: got value %v, want nil", test.input, v)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	input, err := os.ReadFile("../docsync/default.json")
	if err != nil {
		t.Fatalf("Reading test input: %v", err)
	}
	v, err := ast.Parse(string(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for _, text := range []string{ast.Format(v), ast.Indent(v, "  "), ast.Indent(v, "\t")} {
		w, err := ast.Parse(text)
		if err != nil {
			t.Fatalf("Parse formatted text: %v\n%s", err, text)
		}
		if diff := cmp.Diff(w, v); diff != "" {
			t.Errorf("Round trip (-got, +want):\n%s", diff)
		}
	}
}

func TestIndent(t *testing.T) {
	v := ast.Object{
		{Key: "a", Value: ast.Array{ast.Number("1"), ast.String("x")}},
		{Key: "b", Value: ast.Array{ast.Object{}, ast.Array{}}},
		{Key: "c", Value: ast.Object{{Key: "d", Value: ast.Null{}}}},
	}
	const want = `{
  "a": [1, "x"],
  "b": [
    {},
    []
  ],
  "c": {
    "d": null
  }
}
`
	if diff := cmp.Diff(ast.Indent(v, "  "), want); diff != "" {
		t.Errorf("Indent (-got, +want):\n%s", diff)
	}
}

type bogus struct{}

func (bogus) JSON() string { return "?" }

func TestFormatUnknown(t *testing.T) {
	mtest.MustPanic(t, func() { ast.Format(bogus{}) })
	mtest.MustPanic(t, func() { ast.Format(ast.Array{ast.Null{}, bogus{}}) })
	mtest.MustPanic(t, func() { ast.Indent(ast.Object{{Key: "x", Value: bogus{}}}, "  ") })
}

// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"testing"

	"github.com/creachadair/jcomplete/ast"
)

func TestString(t *testing.T) {
	tests := []struct {
		input ast.Value
		want  string
	}{
		{ast.Null{}, "null"},

		{ast.Bool(false), "false"},
		{ast.Bool(true), "true"},

		{ast.String(""), `""`},
		{ast.String("a \t b"), `"a \t b"`},
		{ast.String(`say "hi"`), `"say \"hi\""`},

		{ast.Number("-0.00239"), `-0.00239`},
		{ast.Number("0"), `0`},
		{ast.Number("1e10"), `1e10`},

		{ast.Array{}, `[]`},
		{ast.Array{
			ast.Bool(true),
			ast.Number("199"),
		}, `[true,199]`},
		{ast.Array{
			ast.String("free"),
			ast.String("your"),
			ast.String("mind"),
		}, `["free","your","mind"]`},

		{ast.Object{}, `{}`},
		{ast.Object{
			{Key: "xs", Value: ast.Null{}},
		}, `{"xs":null}`},
		{ast.Object{
			{Key: "name", Value: ast.String("Dennis")},
			{Key: "age", Value: ast.Number("37")},
			{Key: "isOld", Value: ast.Bool(false)},
		}, `{"name":"Dennis","age":37,"isOld":false}`},

		{ast.Object{
			{Key: "values", Value: ast.Array{
				ast.Number("5"),
				ast.Number("10"),
				ast.Bool(true),
			}},
			{Key: "page", Value: ast.Object{
				{Key: "token", Value: ast.String("xyz-pdq-zvm")},
				{Key: "count", Value: ast.Number("100")},
			}},
		}, `{"values":[5,10,true],"page":{"token":"xyz-pdq-zvm","count":100}}`},
	}
	for _, test := range tests {
		got := test.input.JSON()
		if got != test.want {
			t.Errorf("Input: %+v\nGot:  %s\nWant: %s", test.input, got, test.want)
		}
	}
}

func TestObject(t *testing.T) {
	obj := ast.Object{
		{Key: "a", Value: ast.Number("1")},
		{Key: "b", Value: ast.Number("2")},
		{Key: "a", Value: ast.Number("3")},
	}
	if m := obj.Find("a"); m == nil || m.Value != ast.Number("3") {
		t.Errorf(`Find("a"): got %+v, want last duplicate`, m)
	}
	if m := obj.Find("nonesuch"); m != nil {
		t.Errorf(`Find("nonesuch"): got %+v, want nil`, m)
	}
	if got := obj.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Keys: got %q, want [a b]", got)
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		input ast.Number
		isInt bool
		i64   int64
		i64OK bool
		f64   float64
	}{
		{"0", true, 0, true, 0},
		{"-25", true, -25, true, -25},
		{"2.5", false, 0, false, 2.5},
		{"1e3", false, 0, false, 1000},
		{"99999999999999999999", true, 0, false, 1e20},
	}
	for _, test := range tests {
		if got := test.input.IsInt(); got != test.isInt {
			t.Errorf("%s IsInt: got %v, want %v", test.input, got, test.isInt)
		}
		if got, ok := test.input.Int64(); ok != test.i64OK || got != test.i64 {
			t.Errorf("%s Int64: got %v, %v; want %v, %v", test.input, got, ok, test.i64, test.i64OK)
		}
		if got := test.input.Float64(); got != test.f64 {
			t.Errorf("%s Float64: got %v, want %v", test.input, got, test.f64)
		}
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		input ast.Value
		want  string
	}{
		{ast.Object{}, "object"},
		{ast.Array{}, "array"},
		{ast.String("x"), "string"},
		{ast.Number("1"), "number"},
		{ast.Bool(true), "boolean"},
		{ast.Null{}, "null"},
	}
	for _, test := range tests {
		if got := ast.TypeName(test.input); got != test.want {
			t.Errorf("TypeName(%s): got %q, want %q", test.input.JSON(), got, test.want)
		}
	}
}

// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"strings"

	"github.com/creachadair/jcomplete"
)

// Format renders v as compact JSON text.
func Format(v Value) string {
	var buf strings.Builder
	formatValue(&buf, v, "", "")
	return buf.String()
}

// Indent renders v as JSON text with one member or element per line, each
// level indented by indent. Arrays whose elements are all scalars are kept on
// a single line. The result ends with a newline.
func Indent(v Value, indent string) string {
	var buf strings.Builder
	formatValue(&buf, v, "\n", indent)
	buf.WriteString("\n")
	return buf.String()
}

// formatValue writes v to buf. If nl is empty, the output is compact;
// otherwise nl is the current line break plus indentation, and step is the
// additional indentation for each nesting level.
func formatValue(buf *strings.Builder, v Value, nl, step string) {
	switch t := v.(type) {
	case Object:
		if len(t) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{")
		inner := nl + step
		for i, m := range t {
			if i > 0 {
				buf.WriteString(",")
			}
			buf.WriteString(inner)
			buf.WriteString(jcomplete.Quote(m.Key))
			buf.WriteString(":")
			if nl != "" {
				buf.WriteString(" ")
			}
			formatValue(buf, m.Value, inner, step)
		}
		buf.WriteString(nl)
		buf.WriteString("}")

	case Array:
		if len(t) == 0 {
			buf.WriteString("[]")
			return
		}
		inner := nl + step
		sep := ","
		if nl != "" && isFlat(t) {
			inner, sep = "", ", "
		}
		buf.WriteString("[")
		for i, elt := range t {
			if i > 0 {
				buf.WriteString(sep)
			}
			buf.WriteString(inner)
			formatValue(buf, elt, inner, step)
		}
		if inner != "" {
			buf.WriteString(nl)
		}
		buf.WriteString("]")

	case String, Number, Bool, Null:
		buf.WriteString(t.JSON())

	default:
		panic(fmt.Sprintf("unknown value type %T", v))
	}
}

// isFlat reports whether a contains no objects or arrays.
func isFlat(a Array) bool {
	for _, v := range a {
		switch v.(type) {
		case Object, Array:
			return false
		}
	}
	return true
}

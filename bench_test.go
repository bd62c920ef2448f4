package jcomplete_test

import (
	"encoding/json"
	"io"
	"os"
	"testing"

	"github.com/creachadair/jcomplete"
	"github.com/creachadair/jcomplete/ast"
)

// The demo re-parses the whole buffer on every keystroke, so the cost of a
// full parse of a typical document is what matters.
func BenchmarkParse(b *testing.B) {
	input, err := os.ReadFile("docsync/default.json")
	if err != nil {
		b.Fatalf("Reading test input: %v", err)
	}
	src := string(input)
	b.Logf("Benchmark input: %d bytes", len(input))

	b.Run("Unmarshal", func(b *testing.B) {
		for b.Loop() {
			var v any
			if err := json.Unmarshal(input, &v); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})

	b.Run("Scanner", func(b *testing.B) {
		for b.Loop() {
			s := jcomplete.NewScanner(src)
			for {
				err := s.Next()
				if err == io.EOF {
					break
				} else if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
		}
	})

	b.Run("AST", func(b *testing.B) {
		for b.Loop() {
			if _, err := ast.Parse(src); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})
}

// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jcomplete implements the JSON scanner and parser behind a
// JSON-path autocomplete demo.
//
// The demo keeps a text buffer of JSON source in sync with a parsed value
// tree (see package docsync), and feeds the tree to an autocomplete input
// that suggests path expressions (see packages complete and jpath). This
// package provides the lexical and syntactic layer those packages share.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON.  Construct a scanner
// from a complete source text and call its Next method to iterate over the
// tokens. Next advances to the next input token and returns nil, or reports
// an error:
//
//	s := jcomplete.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed. Any other error
// has concrete type *jcomplete.SyntaxError.
//
// # Parsing
//
// The Stream type implements an event-driven parser for a single JSON
// document. The parser works by calling methods on a Handler value to report
// the structure of the input. In case of error, parsing is terminated and an
// error of concrete type *jcomplete.SyntaxError is returned:
//
//	s := jcomplete.NewStream(input)
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// A SyntaxError carries the line and column of the problem and a Kind that
// separates malformed tokens (InvalidToken), tokens in the wrong place
// (UnexpectedToken), and input that stops in the middle of a value
// (UnexpectedEOF).
//
// # Handlers
//
// The Handler interface accepts parser events from a Stream. The methods of
// a handler correspond to the syntax of JSON values:
//
//	JSON type  | Methods                   | Description
//	---------- | ------------------------- | ---------------------------------
//	object     | BeginObject, EndObject    | { ... }
//	array      | BeginArray, EndArray      | [ ... ]
//	member     | BeginMember, EndMember    | "key": value
//	value      | Value                     | true, false, null, number, string
//	--         | EndOfInput                | end of input
//
// Each method is passed an Anchor value that can be used to retrieve location
// and type information. The package ast provides a Handler that builds value
// trees.
package jcomplete

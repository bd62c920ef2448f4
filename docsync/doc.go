// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package docsync keeps an editable JSON text synchronized with its parsed
// value.
//
// A [Loop] holds the text of a document and re-parses it on every change.
// When the text parses, the new value replaces the document. When it does not,
// the document keeps its last good value and a [Fault] describes the problem,
// so a caller can continue to use the document while the text is being edited:
//
//	lp := docsync.New("", nil) // seeded with Default
//	lp.SetText(`{"a": 1`)
//	lp.Fault()    // line 1, column 8: unexpected end of input, ...
//	lp.Document() // still the Default document
//
// Observers registered with [Loop.Subscribe] are called synchronously, in
// order, after each change.
//
// An [Input] is a separate cell for the value of a path input, which is not
// derived from the document.
package docsync

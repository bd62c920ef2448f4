// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package docsync

import "sync"

// An Input holds the value of a path input. It is independent of any Loop:
// setting its value has no effect on a document, and changes to a document do
// not affect it. The zero value is ready for use and holds "".
//
// An Input is safe for concurrent use by multiple goroutines.
type Input struct {
	mu    sync.Mutex
	value string
}

// Set replaces the value of in with s verbatim.
func (in *Input) Set(s string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.value = s
}

// Value returns the current value of in.
func (in *Input) Value() string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.value
}

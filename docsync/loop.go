// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package docsync

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/creachadair/jcomplete"
	"github.com/creachadair/jcomplete/ast"
	"github.com/tailscale/hujson"
	"go.uber.org/zap"
)

// Default is the document a Loop is seeded with when no other is given.
//
//go:embed default.json
var Default string

// State records whether the text of a Loop currently parses.
type State int

const (
	Valid   State = iota // the text parses; Document reflects it
	Invalid              // the text does not parse; Fault describes why
)

func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options are optional settings for a Loop. A nil *Options is ready for use
// and provides default values.
type Options struct {
	// Lenient, if true, accepts JSON with comments and trailing commas.
	Lenient bool

	// Logger, if non-nil, receives debug logs of state transitions.
	Logger *zap.Logger
}

func (o *Options) lenient() bool { return o != nil && o.Lenient }

func (o *Options) logger() *zap.Logger {
	if o == nil || o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// A Snapshot is the state of a Loop at one point in time.
type Snapshot struct {
	Text     string
	Document ast.Value
	Fault    *Fault // nil if Text parses
}

// State reports whether s is Valid or Invalid.
func (s Snapshot) State() State {
	if s.Fault != nil {
		return Invalid
	}
	return Valid
}

// A Loop keeps a text buffer holding a JSON document and the value tree of
// the most recent text that parsed successfully.
//
// When the text changes to something that does not parse, the document is
// left as it was and the fault is recorded. A Loop is safe for concurrent
// use by multiple goroutines.
type Loop struct {
	lenient bool
	log     *zap.Logger

	notify sync.Mutex // serializes calls to observers

	mu        sync.Mutex
	cur       Snapshot
	observers []func(Snapshot)
}

// New constructs a Loop whose text is seed, or Default if seed == "".
// If seed does not parse, the loop begins in the Invalid state with an empty
// object as its document.
func New(seed string, opts *Options) *Loop {
	if seed == "" {
		seed = Default
	}
	lp := &Loop{
		lenient: opts.lenient(),
		log:     opts.logger(),
		cur:     Snapshot{Text: seed, Document: ast.Object{}},
	}
	if doc, err := lp.parse(seed); err != nil {
		lp.cur.Fault = newFault(err)
		lp.log.Debug("seed document does not parse", zap.Error(lp.cur.Fault))
	} else {
		lp.cur.Document = doc
	}
	return lp
}

// SetText replaces the text of lp with text and attempts to parse it.
// If it parses, its value replaces the document and any fault is cleared.
// Otherwise the document is unchanged and a fault is recorded.
// Observers are called with the new state before SetText returns.
func (lp *Loop) SetText(text string) {
	doc, err := lp.parse(text)

	lp.notify.Lock()
	defer lp.notify.Unlock()

	lp.mu.Lock()
	prev := lp.cur.State()
	lp.cur.Text = text
	if err != nil {
		lp.cur.Fault = newFault(err)
	} else {
		lp.cur.Document = doc
		lp.cur.Fault = nil
	}
	snap := lp.cur
	obs := lp.observers
	lp.mu.Unlock()

	if next := snap.State(); next != prev {
		lp.log.Debug("document state changed",
			zap.Stringer("from", prev), zap.Stringer("to", next), zap.Error(errorOrNil(snap.Fault)))
	}
	for _, f := range obs {
		f(snap)
	}
}

// Reformat rewrites the text of lp in a standard layout.
// If the text does not currently parse, it is left unchanged and Reformat
// returns the current fault.
//
// In lenient mode, comments are preserved. Otherwise the text is rendered
// from the document.
func (lp *Loop) Reformat() error {
	snap := lp.Snapshot()
	if snap.Fault != nil {
		return snap.Fault
	}
	var text string
	if lp.lenient {
		out, err := hujson.Format([]byte(snap.Text))
		if err != nil {
			return fmt.Errorf("reformat: %w", err)
		}
		text = string(out)
	} else {
		text = ast.Indent(snap.Document, "  ")
	}
	if text != snap.Text {
		lp.SetText(text)
	}
	return nil
}

// Subscribe adds f to the observers of lp. Each call to SetText calls every
// observer in order of subscription with the resulting state. Observers must
// not call SetText.
func (lp *Loop) Subscribe(f func(Snapshot)) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	n := len(lp.observers)
	lp.observers = append(lp.observers[:n:n], f)
}

// Snapshot returns the current state of lp.
func (lp *Loop) Snapshot() Snapshot {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return lp.cur
}

// Text returns the current text of lp.
func (lp *Loop) Text() string { return lp.Snapshot().Text }

// Document returns the value of the most recent text that parsed.
func (lp *Loop) Document() ast.Value { return lp.Snapshot().Document }

// Fault returns the reason the current text does not parse, or nil.
func (lp *Loop) Fault() *Fault { return lp.Snapshot().Fault }

// State reports whether the current text of lp parses.
func (lp *Loop) State() State { return lp.Snapshot().State() }

// Lenient reports whether lp accepts comments and trailing commas.
func (lp *Loop) Lenient() bool { return lp.lenient }

func (lp *Loop) parse(text string) (ast.Value, error) {
	if !lp.lenient {
		return ast.Parse(text)
	}

	if err := checkDepth(text); err != nil {
		return nil, err
	}

	// Standardizing replaces comments and trailing commas with spaces, so
	// the offsets of any remaining error match the original text.
	std, err := hujson.Standardize([]byte(text))
	if err != nil {
		return nil, lenientError(text, err)
	}
	return ast.Parse(string(std))
}

// checkDepth reports an error if objects and arrays in text are nested more
// deeply than jcomplete.MaxDepth, skipping strings and comments. Other
// problems are left for the parser.
func checkDepth(text string) error {
	var depth, line, lineStart int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			line++
			lineStart = i + 1
		case '"':
			for i++; i < len(text) && text[i] != '"'; i++ {
				if text[i] == '\\' {
					i++
				}
			}
		case '/':
			if strings.HasPrefix(text[i:], "//") {
				if j := strings.IndexByte(text[i:], '\n'); j >= 0 {
					i += j - 1 // the newline is counted on the next pass
				} else {
					i = len(text)
				}
			} else if strings.HasPrefix(text[i:], "/*") {
				j := strings.Index(text[i+2:], "*/")
				if j < 0 {
					return nil
				}
				end := i + 2 + j + 1
				for k := i; k < end; k++ {
					if text[k] == '\n' {
						line++
						lineStart = k + 1
					}
				}
				i = end
			}
		case '[', '{':
			if depth++; depth > jcomplete.MaxDepth {
				return &jcomplete.SyntaxError{
					Kind:     jcomplete.InvalidToken,
					Location: jcomplete.LineCol{Line: line + 1, Column: i - lineStart},
					Offset:   i,
					Message:  fmt.Sprintf("nesting too deep (more than %d levels)", jcomplete.MaxDepth),
				}
			}
		case ']', '}':
			depth--
		}
	}
	return nil
}

// lenientError converts an error from hujson into a *jcomplete.SyntaxError
// at the same location, so it is reported like any other fault. Errors that
// do not carry a location are returned unchanged.
func lenientError(text string, err error) error {
	var line, col int
	if _, serr := fmt.Sscanf(err.Error(), "hujson: line %d, column %d:", &line, &col); serr != nil || line < 1 || col < 1 {
		return err
	}
	start := 0 // offset of the start of line
	for i := 1; i < line; i++ {
		j := strings.IndexByte(text[start:], '\n')
		if j < 0 {
			return err
		}
		start += j + 1
	}
	msg := err.Error()
	if inner := errors.Unwrap(err); inner != nil {
		msg = inner.Error()
	}
	kind := jcomplete.UnexpectedToken
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		kind = jcomplete.UnexpectedEOF
	case !strings.HasPrefix(msg, "invalid character"):
		kind = jcomplete.InvalidToken
	}
	return &jcomplete.SyntaxError{
		Kind:     kind,
		Location: jcomplete.LineCol{Line: line, Column: col - 1},
		Offset:   start + col - 1,
		Message:  msg,
	}
}

// A Fault describes why the text of a Loop does not parse.
type Fault struct {
	Message string // human-readable description, including the location

	Line   int // 1-based line number, or 0 if unknown
	Column int // 1-based column number, or 0 if unknown
	Offset int // 0-based byte offset, or -1 if unknown

	// Kind classifies the problem. It is meaningful only if the fault
	// wraps a *jcomplete.SyntaxError.
	Kind jcomplete.ErrorKind

	err error
}

func newFault(err error) *Fault {
	var se *jcomplete.SyntaxError
	if errors.As(err, &se) {
		line, col := se.Location.Line, se.Location.Column+1
		msg := se.Message
		if kind := se.Kind.String(); !strings.HasPrefix(msg, kind) {
			msg = kind + ": " + msg
		}
		return &Fault{
			Message: fmt.Sprintf("line %d, column %d: %s", line, col, msg),
			Line:    line,
			Column:  col,
			Offset:  se.Offset,
			Kind:    se.Kind,
			err:     err,
		}
	}
	return &Fault{Message: err.Error(), Offset: -1, Kind: jcomplete.InvalidToken, err: err}
}

// Error satisfies the error interface.
func (f *Fault) Error() string { return f.Message }

// Unwrap returns the underlying parse error.
func (f *Fault) Unwrap() error { return f.err }

// errorOrNil converts a nil *Fault into a nil error.
func errorOrNil(f *Fault) error {
	if f == nil {
		return nil
	}
	return f
}

// Package html5 is the module's single public entry point (spec.md §1):
// a non-reentrant Parse/ParseWithOptions/ParseReader call that turns an
// input buffer into an immutable Node tree plus an ordered list of
// diagnostics. It wires internal/token (tokenizer) and internal/tree
// (tree constructor) together the way the teacher's parser package wires
// its own tokenizer and HTMLTreeConstructor over a channel in
// parser/parser.go, generalized to the two-goroutine handshake described
// in spec.md §5.
package html5

import (
	"github.com/sirupsen/logrus"

	"github.com/gohtml5/parser/internal/tag"
)

// Options configures a single Parse call. The zero value is not valid on
// its own for every field (TabStop and MaxErrors have non-zero
// defaults); ParseWithOptions/Parse normalize the zero value before use,
// so code written against a zero Options{} still gets sane behavior.
type Options struct {
	// TabStop sets the tokenizer's tab-expansion width for column
	// tracking in diagnostics (default 8).
	TabStop int

	// StopOnFirstError (default false) is passed through to the tree
	// constructor's Config, but nothing reads it: parsing does not stop at
	// the first diagnostic and always continues best-effort to the end of
	// input.
	StopOnFirstError bool

	// MaxErrors caps the number of diagnostics retained; -1 (the
	// default) means unlimited. Tokens are never truncated, only the
	// diagnostics list.
	MaxErrors int

	// Allocator and Deallocator override the arena's backing byte-slice
	// source; both nil (the default) uses Go's runtime allocator.
	Allocator   func(int) []byte
	Deallocator func([]byte)

	UserData any

	// UseXHTMLRules is recorded on Output but never acted upon (no
	// component reads it back); XHTML syntax rules are a Non-goal.
	UseXHTMLRules bool

	// FragmentContext selects the fragment-parsing algorithm's context
	// element. The zero value (tag.Unknown) means "no fragment context".
	// Any other value is rejected with a usage error: full fragment
	// parsing is a wishlist-level placeholder (see Non-goals).
	FragmentContext tag.Tag

	// Logger receives the arena's chunk-allocation logging (Trace level)
	// and the tokenizer's warning for a state it has no handler for;
	// defaults to logrus.StandardLogger().
	Logger *logrus.Logger

	// MaxArenaBytes bounds the parse's total node/string allocation; 0
	// (the default) is unlimited.
	MaxArenaBytes int64
}

func (o Options) normalized() Options {
	if o.TabStop == 0 {
		o.TabStop = 8
	}
	if o.MaxErrors == 0 {
		o.MaxErrors = -1
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

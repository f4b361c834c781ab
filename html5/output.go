package html5

import (
	"github.com/gohtml5/parser/internal/arena"
	"github.com/gohtml5/parser/internal/tree"
)

// Node, Kind, Namespace, QuirksMode and Attribute are thin re-exports of
// internal/tree's types: the tree package does the real work, this
// package is only the stable public name for it (spec.md §3 describes
// this exact shape).
type (
	Node       = tree.Node
	Kind       = tree.Kind
	Namespace  = tree.Namespace
	QuirksMode = tree.QuirksMode
	Attribute  = tree.Attribute
)

const (
	DocumentKind   = tree.DocumentKind
	ElementKind    = tree.ElementKind
	TextKind       = tree.TextKind
	WhitespaceKind = tree.WhitespaceKind
	CDATAKind      = tree.CDATAKind
	CommentKind    = tree.CommentKind
)

const (
	HTMLNamespace   = tree.HTMLNamespace
	MathMLNamespace = tree.MathMLNamespace
	SVGNamespace    = tree.SVGNamespace
)

const (
	NoQuirks      = tree.NoQuirks
	Quirks        = tree.Quirks
	LimitedQuirks = tree.LimitedQuirks
)

// Output is the result of a single Parse/ParseWithOptions/ParseReader
// call. Document is the tree's root; Root is the <html> element once
// present, a convenience shortcut past the document node. A non-empty
// Diagnostics list does not imply failure — only FatalErr (also returned
// as Parse's error, alongside this same non-nil Output, whose Destroy
// must still be called) does.
type Output struct {
	Document *Node
	Root     *Node

	Diagnostics []Diagnostic

	OutOfMemory bool
	FatalErr    error

	arena *arena.Arena
}

// Destroy releases the arena backing every Node this Output owns. It is
// idempotent: a second call is a safe no-op (Output keeps no other
// finalizable resource).
func (o *Output) Destroy() {
	if o == nil || o.arena == nil {
		return
	}
	o.arena.Destroy()
	o.arena = nil
}

// Package tree implements the tree-construction stage of the parser:
// consuming the token stream produced by internal/token and building the
// immutable Node graph described by spec.md §3/§4.6. Grounded on
// parser/tree_constructor.go's HTMLTreeConstructor (insertion-mode
// dispatch, open-element-stack/active-formatting-elements machinery) and
// on _examples/original_source/src/parser.c for the mode-handler bodies
// the teacher leaves stubbed out.
package tree

import (
	"github.com/gohtml5/parser/internal/arena"
	"github.com/gohtml5/parser/internal/tag"
)

// Kind discriminates the single populated payload field on a Node, per
// spec.md §3 (deliberately not the teacher's multiple-embedded-pointer
// parser/spec.Node shape: exactly one of the payload fields below is
// non-nil for any given Kind).
type Kind int

const (
	DocumentKind Kind = iota
	ElementKind
	TextKind
	WhitespaceKind
	CDATAKind
	CommentKind
)

// Namespace is an exported string-backed enum, matching the teacher's
// choice of a string type for quirksMode in parser/tree_constructor.go.
type Namespace string

const (
	HTMLNamespace  Namespace = "html"
	MathMLNamespace Namespace = "mathml"
	SVGNamespace   Namespace = "svg"
)

// QuirksMode is the document's rendering mode, selected during DOCTYPE
// processing (HTML5 §13.2.6.4.1).
type QuirksMode string

const (
	NoQuirks      QuirksMode = "no-quirks"
	Quirks        QuirksMode = "quirks"
	LimitedQuirks QuirksMode = "limited-quirks"
)

// StringPiece holds a text, whitespace, CDATA or comment node's bytes.
// The tree constructor copies them out of token text; a StringPiece does
// not point into the parser's input buffer or into the arena.
type StringPiece struct {
	Data []byte
}

func (s StringPiece) String() string { return string(s.Data) }

// Attribute is one name/value pair on an Element node, namespaced for the
// small set of foreign-content attributes that carry one (xlink:href and
// similar, HTML5 §13.2.6.1).
type Attribute struct {
	Name      string
	Value     string
	Namespace Namespace
}

// DocumentData is the payload for a Kind == DocumentKind node: exactly
// one such node exists per parse, the tree's root.
type DocumentData struct {
	QuirksMode QuirksMode
}

// ElementData is the payload for a Kind == ElementKind node.
type ElementData struct {
	Tag         tag.Tag
	Name        string
	Namespace   Namespace
	Attributes  []Attribute
	SelfClosing bool

	// Template contents are parsed into a separate fragment per HTML5
	// §13.2.6.1's "template contents" concept; nil for every other
	// element.
	TemplateContents *Node
}

// Attr returns the value and presence of the first attribute named name.
func (e *ElementData) Attr(name string) (string, bool) {
	for _, a := range e.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// TextData, WhitespaceData and CDATAData are the payloads for their
// matching Kinds. Whitespace is split out from Text so the tree
// constructor can apply the "all whitespace" fast paths HTML5 §13.2.6
// calls for (inTable/inCaption/inColumnGroup character handling) without
// re-scanning Text on every visit.
type TextData struct{ Text StringPiece }
type WhitespaceData struct{ Text StringPiece }
type CDATAData struct{ Text StringPiece }

// CommentData is the payload for a Kind == CommentKind node.
type CommentData struct{ Text StringPiece }

// Node is one parse-tree node. Exactly one of the payload pointers below
// is non-nil, selected by Kind; callers branch on Kind, not on which
// pointer happens to be set, so the "wrong" accessor panics loudly on
// misuse instead of silently returning a zero value.
type Node struct {
	Kind Kind

	Document  *DocumentData
	Element   *ElementData
	Text      *TextData
	Whitespace *WhitespaceData
	CDATA     *CDATAData
	Comment   *CommentData

	Parent, FirstChild, LastChild, PrevSibling, NextSibling *Node
}

// newNode allocates a Node from the arena with Kind and the matching
// payload populated; every tree-construction insertion goes through this
// (or newElement below) instead of a bare composite literal, so the
// arena — not the garbage collector — owns the whole tree.
func newNode(a *arena.Arena, kind Kind) *Node {
	n := arena.Alloc[Node](a)
	n.Kind = kind
	switch kind {
	case DocumentKind:
		n.Document = arena.Alloc[DocumentData](a)
	case ElementKind:
		n.Element = arena.Alloc[ElementData](a)
	case TextKind:
		n.Text = arena.Alloc[TextData](a)
	case WhitespaceKind:
		n.Whitespace = arena.Alloc[WhitespaceData](a)
	case CDATAKind:
		n.CDATA = arena.Alloc[CDATAData](a)
	case CommentKind:
		n.Comment = arena.Alloc[CommentData](a)
	}
	return n
}

func newElement(a *arena.Arena, t tag.Tag, name string, ns Namespace, attrs []Attribute) *Node {
	n := newNode(a, ElementKind)
	n.Element.Tag = t
	n.Element.Name = name
	n.Element.Namespace = ns
	n.Element.Attributes = attrs
	return n
}

// TagName returns the element's canonical or original tag text, or "" for
// non-elements.
func (n *Node) TagName() string {
	if n.Kind != ElementKind {
		return ""
	}
	return n.Element.Name
}

// Is reports whether n is an HTML-namespace element with the given tag.
func (n *Node) Is(t tag.Tag) bool {
	return n.Kind == ElementKind && n.Element.Namespace == HTMLNamespace && n.Element.Tag == t
}

// IsAny reports whether n.Is is true for any tag in ts.
func (n *Node) IsAny(ts ...tag.Tag) bool {
	for _, t := range ts {
		if n.Is(t) {
			return true
		}
	}
	return false
}

// AppendChild links child as n's new last child. child must not already
// be attached; the tree constructor never needs to move a node between
// parents (HTML5's adoption agency reparents by detach-then-append, never
// in place).
func (n *Node) AppendChild(child *Node) {
	child.Parent = n
	child.PrevSibling = n.LastChild
	child.NextSibling = nil
	if n.LastChild != nil {
		n.LastChild.NextSibling = child
	} else {
		n.FirstChild = child
	}
	n.LastChild = child
}

// InsertBefore links child immediately before ref among n's children; ref
// == nil means the same as AppendChild.
func (n *Node) InsertBefore(child, ref *Node) {
	if ref == nil {
		n.AppendChild(child)
		return
	}
	child.Parent = n
	child.NextSibling = ref
	child.PrevSibling = ref.PrevSibling
	if ref.PrevSibling != nil {
		ref.PrevSibling.NextSibling = child
	} else {
		n.FirstChild = child
	}
	ref.PrevSibling = child
}

// Remove detaches n from its parent. Used by foster parenting (to move a
// misparented node) and by the adoption agency algorithm.
func (n *Node) Remove() {
	if n.Parent == nil {
		return
	}
	if n.PrevSibling != nil {
		n.PrevSibling.NextSibling = n.NextSibling
	} else {
		n.Parent.FirstChild = n.NextSibling
	}
	if n.NextSibling != nil {
		n.NextSibling.PrevSibling = n.PrevSibling
	} else {
		n.Parent.LastChild = n.PrevSibling
	}
	n.Parent, n.PrevSibling, n.NextSibling = nil, nil, nil
}

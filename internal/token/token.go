// Package token implements the HTML5 tokenizer described in spec.md
// §4.4: input goes in as decoded codepoints from an internal/cursor.Cursor
// and comes out as a stream of Tokens on a channel, consumed by
// internal/tree's tree constructor.
package token

import (
	"github.com/gohtml5/parser/internal/container"
	"github.com/gohtml5/parser/internal/cursor"
)

// Kind discriminates the token variants the tokenizer can emit.
type Kind int

const (
	CharacterToken Kind = iota
	StartTagToken
	EndTagToken
	CommentToken
	DoctypeToken
	EOFToken
)

// Attribute is one name/value pair on a start or end tag, in source
// order. Duplicate names are dropped (the first instance wins, per the
// HTML5 spec) but the dropped occurrence is still reported as a
// diag.DuplicateAttribute diagnostic with both indices.
type Attribute struct {
	Name  string
	Value string
}

// Token is a concrete, fully-built token ready for the tree constructor.
type Token struct {
	Kind       Kind
	TagName    string
	Attributes []Attribute
	Data       string // character text, or comment body

	SelfClosing             bool
	selfClosingAcknowledged bool

	ForceQuirks      bool
	PublicIdentifier string
	SystemIdentifier string
	HasPublicID      bool
	HasSystemID      bool

	Position cursor.Position
}

// AcknowledgeSelfClosing marks a self-closing start tag as handled by the
// tree constructor (called exactly once, for void elements and
// self-closing foreign elements). Tokens whose self-closing flag is never
// acknowledged surface as diag.UnacknowledgedSelfClosingTag at end of
// parse.
func (t *Token) AcknowledgeSelfClosing() {
	t.selfClosingAcknowledged = true
}

// builder accumulates a Token's pieces across the state machine's many
// states, mirroring the teacher's TokenBuilder in parser/tokens.go field
// for field, generalized to container.RuneBuffer and an ordered
// attribute slice (so duplicate-attribute diagnostics can carry indices).
type builder struct {
	kind Kind

	name       container.RuneBuffer
	data       container.RuneBuffer
	publicID   container.RuneBuffer
	systemID   container.RuneBuffer
	tempBuffer container.RuneBuffer

	attrName  container.RuneBuffer
	attrValue container.RuneBuffer

	attrs     []Attribute
	attrIndex map[string]int

	selfClosing bool
	forceQuirks bool
	hasPublicID bool
	hasSystemID bool
}

func newBuilder() *builder {
	return &builder{attrIndex: make(map[string]int)}
}

// reset clears every field in preparation for a new tag/comment/doctype
// token. It does not touch tempBuffer, matching the teacher's comment
// that the temp buffer's clearing is governed by the states that use it,
// not by a blanket per-token reset.
func (b *builder) reset() {
	b.name.Reset()
	b.data.Reset()
	b.publicID.Reset()
	b.systemID.Reset()
	b.attrName.Reset()
	b.attrValue.Reset()
	b.attrs = nil
	b.attrIndex = make(map[string]int)
	b.selfClosing = false
	b.forceQuirks = false
	b.hasPublicID = false
	b.hasSystemID = false
}

func (b *builder) startAttribute() {
	b.attrName.Reset()
	b.attrValue.Reset()
}

// commitAttribute finalizes the current name/value pair, dropping it (but
// reporting it via the returned isDup=true plus dup info) if its name
// duplicates an already-committed attribute.
func (b *builder) commitAttribute() (dupName string, dupOriginal, dupNew int, isDup bool) {
	name := b.attrName.String()
	if name == "" {
		return "", 0, 0, false
	}
	if existing, ok := b.attrIndex[name]; ok {
		return name, existing, len(b.attrs), true
	}
	b.attrIndex[name] = len(b.attrs)
	b.attrs = append(b.attrs, Attribute{Name: name, Value: b.attrValue.String()})
	return "", 0, 0, false
}

func (b *builder) startTagToken(pos cursor.Position) *Token {
	return &Token{
		Kind:        StartTagToken,
		TagName:     b.name.String(),
		Attributes:  b.attrs,
		SelfClosing: b.selfClosing,
		Position:    pos,
	}
}

func (b *builder) endTagToken(pos cursor.Position) *Token {
	// Per HTML5 §13.2.5.8, an end tag's attributes and self-closing flag
	// are parse errors but the token itself is still emitted with both
	// dropped, matching the teacher's emit() normalization.
	return &Token{
		Kind:     EndTagToken,
		TagName:  b.name.String(),
		Position: pos,
	}
}

func (b *builder) commentToken(pos cursor.Position) *Token {
	return &Token{Kind: CommentToken, Data: b.data.String(), Position: pos}
}

func (b *builder) doctypeToken(pos cursor.Position) *Token {
	t := &Token{
		Kind:        DoctypeToken,
		TagName:     b.name.String(),
		ForceQuirks: b.forceQuirks,
		HasPublicID: b.hasPublicID,
		HasSystemID: b.hasSystemID,
		Position:    pos,
	}
	if b.hasPublicID {
		t.PublicIdentifier = b.publicID.String()
	}
	if b.hasSystemID {
		t.SystemIdentifier = b.systemID.String()
	}
	return t
}

func characterToken(r rune, pos cursor.Position) *Token {
	return &Token{Kind: CharacterToken, Data: string(r), Position: pos}
}

func eofToken(pos cursor.Position) *Token {
	return &Token{Kind: EOFToken, Position: pos}
}

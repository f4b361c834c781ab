// Package diag holds the diagnostic record shared by every stage of the
// parser (cursor, tokenizer, tree constructor) so each stage can report
// positioned, typed diagnostics without the lower layers depending on the
// public html5 package. html5.Diagnostic is a thin re-export of this type.
package diag

import "github.com/gohtml5/parser/internal/cursor"

// Kind mirrors spec.md §7's diagnostic taxonomy exactly.
type Kind int

const (
	UTF8Invalid Kind = iota
	UTF8Truncated
	NumericCharRefNoDigits
	NumericCharRefWithoutSemicolon
	NumericCharRefInvalid
	NamedCharRefWithoutSemicolon
	NamedCharRefInvalid
	DuplicateAttribute
	Parser
	UnacknowledgedSelfClosingTag
	// Tokenizer is a catchall for conditions that don't yet have a more
	// specific Kind, kept for forward compatibility per spec.md §9.
	Tokenizer
)

// CodepointPayload carries a single resolved or substituted codepoint.
type CodepointPayload struct {
	Codepoint rune
}

// TextPayload carries a run of text associated with the diagnostic (a
// comment body, a bogus DOCTYPE name, and similar).
type TextPayload struct {
	Text string
}

// DuplicateAttributePayload records a dropped duplicate attribute's name
// and its two positions within the tag's attribute list.
type DuplicateAttributePayload struct {
	Name          string
	OriginalIndex int
	NewIndex      int
}

// ParserContextPayload is attached to tree-construction diagnostics that
// need to describe where in the algorithm they fired.
type ParserContextPayload struct {
	InsertionMode string
	TokenKind     string
	OpenTags      []string
}

// Diagnostic is one positioned, typed parse diagnostic. Payload is one of
// the payload types above, or nil when Kind alone is sufficient.
type Diagnostic struct {
	Kind         Kind
	Position     cursor.Position
	OriginalText []byte
	Payload      any
}

package html5

import "github.com/gohtml5/parser/internal/diag"

// DiagnosticKind mirrors internal/diag.Kind; re-exported here so callers
// never need to import an internal package to branch on it.
type DiagnosticKind = diag.Kind

const (
	UTF8Invalid                   = diag.UTF8Invalid
	UTF8Truncated                 = diag.UTF8Truncated
	NumericCharRefNoDigits        = diag.NumericCharRefNoDigits
	NumericCharRefWithoutSemicolon = diag.NumericCharRefWithoutSemicolon
	NumericCharRefInvalid         = diag.NumericCharRefInvalid
	NamedCharRefWithoutSemicolon  = diag.NamedCharRefWithoutSemicolon
	NamedCharRefInvalid           = diag.NamedCharRefInvalid
	DuplicateAttribute            = diag.DuplicateAttribute
	Parser                        = diag.Parser
	UnacknowledgedSelfClosingTag  = diag.UnacknowledgedSelfClosingTag
	Tokenizer                     = diag.Tokenizer
)

// Payload aliases re-export the closed set of payload shapes a
// Diagnostic.Payload can hold.
type (
	CodepointPayload          = diag.CodepointPayload
	TextPayload                = diag.TextPayload
	DuplicateAttributePayload = diag.DuplicateAttributePayload
	ParserContextPayload      = diag.ParserContextPayload
)

// Diagnostic is one positioned, typed parse diagnostic. Position and
// OriginalText locate it in the source buffer; Payload is one of the
// payload types above, or nil when Kind alone is sufficient.
type Diagnostic struct {
	Position     Position
	OriginalText []byte
	Kind         DiagnosticKind
	Payload      any
}

// Position is a (line, column, byte-offset) triple.
type Position struct {
	Line, Column, Offset int
}

func fromInternalDiagnostic(d diag.Diagnostic) Diagnostic {
	return Diagnostic{
		Position:     Position{Line: d.Position.Line, Column: d.Position.Column, Offset: d.Position.Offset},
		OriginalText: d.OriginalText,
		Kind:         d.Kind,
		Payload:      d.Payload,
	}
}

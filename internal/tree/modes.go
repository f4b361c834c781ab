package tree

// insertionMode is one of the 23 tree-construction insertion modes
// (HTML5 §13.2.4.1), matching the teacher's insertionMode enum and
// createMappings() dispatch table in parser/tree_constructor.go name for
// name.
type insertionMode int

const (
	initial insertionMode = iota
	beforeHTML
	beforeHead
	inHead
	inHeadNoscript
	afterHead
	inBody
	text
	inTable
	inTableText
	inCaption
	inColumnGroup
	inTableBody
	inRow
	inCell
	inSelect
	inSelectInTable
	inTemplate
	afterBody
	inFrameset
	afterFrameset
	afterAfterBody
	afterAfterFrameset
)

func (m insertionMode) String() string {
	switch m {
	case initial:
		return "initial"
	case beforeHTML:
		return "before html"
	case beforeHead:
		return "before head"
	case inHead:
		return "in head"
	case inHeadNoscript:
		return "in head noscript"
	case afterHead:
		return "after head"
	case inBody:
		return "in body"
	case text:
		return "text"
	case inTable:
		return "in table"
	case inTableText:
		return "in table text"
	case inCaption:
		return "in caption"
	case inColumnGroup:
		return "in column group"
	case inTableBody:
		return "in table body"
	case inRow:
		return "in row"
	case inCell:
		return "in cell"
	case inSelect:
		return "in select"
	case inSelectInTable:
		return "in select in table"
	case inTemplate:
		return "in template"
	case afterBody:
		return "after body"
	case inFrameset:
		return "in frameset"
	case afterFrameset:
		return "after frameset"
	case afterAfterBody:
		return "after after body"
	case afterAfterFrameset:
		return "after after frameset"
	}
	return "unknown"
}

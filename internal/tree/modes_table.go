package tree

import (
	"github.com/gohtml5/parser/internal/tag"
	"github.com/gohtml5/parser/internal/token"
)

// inTableMode implements HTML5 §13.2.6.4.9.
func (c *Constructor) inTableMode(t *token.Token) {
	switch t.Kind {
	case token.CharacterToken:
		if c.currentNode().IsAny(tag.Table, tag.Tbody, tag.Tfoot, tag.Thead, tag.Tr) {
			c.pendingTableChars = nil
			c.originalInsertionMode = c.mode
			c.switchTo(inTableText)
			c.inTableTextMode(t)
			return
		}
	case token.CommentToken:
		c.insertComment(t)
		return
	case token.DoctypeToken:
		c.reportParseError(t)
		return
	case token.StartTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Caption:
			c.openElements.clearToTableContext()
			c.afe.pushMarker()
			c.insertHTMLElement(t)
			c.switchTo(inCaption)
			return
		case tag.Colgroup:
			c.openElements.clearToTableContext()
			c.insertHTMLElement(t)
			c.switchTo(inColumnGroup)
			return
		case tag.Col:
			c.openElements.clearToTableContext()
			c.insertHTMLElement(&token.Token{Kind: token.StartTagToken, TagName: "colgroup"})
			c.switchTo(inColumnGroup)
			c.inColumnGroupMode(t)
			return
		case tag.Tbody, tag.Tfoot, tag.Thead:
			c.openElements.clearToTableContext()
			c.insertHTMLElement(t)
			c.switchTo(inTableBody)
			return
		case tag.Td, tag.Th, tag.Tr:
			c.openElements.clearToTableContext()
			c.insertHTMLElement(&token.Token{Kind: token.StartTagToken, TagName: "tbody"})
			c.switchTo(inTableBody)
			c.inTableBodyMode(t)
			return
		case tag.Table:
			c.reportParseError(t)
			if c.openElements.InTableScope(tag.Table) {
				c.openElements.popUntil(tag.Table)
				c.resetInsertionModeAppropriately()
				c.dispatchHTML(t)
			}
			return
		case tag.Style, tag.Script, tag.Template:
			c.inHeadMode(t)
			return
		case tag.Input:
			if v, ok := firstAttr(t, "type"); !ok || lowerASCIIString(v) != "hidden" {
				break
			}
			c.reportParseError(t)
			c.insertHTMLElement(t)
			c.openElements.pop()
			c.tok.AcknowledgeSelfClosing(t)
			return
		case tag.Form:
			c.reportParseError(t)
			if c.formElementPointer == nil && len(c.openElements.templateCount()) == 0 {
				n := c.insertHTMLElement(t)
				c.formElementPointer = n
				c.openElements.pop()
			}
			return
		}
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Table:
			if !c.openElements.InTableScope(tag.Table) {
				c.reportParseError(t)
				return
			}
			c.openElements.popUntil(tag.Table)
			c.resetInsertionModeAppropriately()
			return
		case tag.Body, tag.Caption, tag.Col, tag.Colgroup, tag.HTML, tag.Tbody,
			tag.Td, tag.Tfoot, tag.Th, tag.Thead, tag.Tr:
			c.reportParseError(t)
			return
		case tag.Template:
			c.inHeadMode(t)
			return
		}
	case token.EOFToken:
		c.inBodyMode(t)
		return
	}
	c.fosterParenting = true
	c.inBodyMode(t)
	c.fosterParenting = false
}

func firstAttr(t *token.Token, name string) (string, bool) {
	for _, a := range t.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// clearToTableContext pops elements until a table/template/html is
// current (HTML5 §13.2.6.4.9's "clear the stack back to a table
// context").
func (s *elementStack) clearToTableContext() {
	for !s.empty() && !s.current().IsAny(tag.Table, tag.Template, tag.HTML) {
		s.pop()
	}
}

// clearToTableBodyContext / clearToTableRowContext are the tbody/tr
// variants used by inTableBody/inRow.
func (s *elementStack) clearToTableBodyContext() {
	for !s.empty() && !s.current().IsAny(tag.Tbody, tag.Tfoot, tag.Thead, tag.Template, tag.HTML) {
		s.pop()
	}
}

func (s *elementStack) clearToTableRowContext() {
	for !s.empty() && !s.current().IsAny(tag.Tr, tag.Template, tag.HTML) {
		s.pop()
	}
}

// inTableTextMode implements HTML5 §13.2.6.4.10: buffer character
// tokens until something else arrives, then decide in one shot whether
// to foster-parent non-whitespace text or insert whitespace normally.
func (c *Constructor) inTableTextMode(t *token.Token) {
	if t.Kind == token.CharacterToken {
		r := []rune(t.Data)[0]
		if r == 0 {
			c.reportParseError(t)
			return
		}
		c.pendingTableChars = append(c.pendingTableChars, []byte(string(r))...)
		return
	}
	allWS := isAllWhitespace(string(c.pendingTableChars))
	if allWS {
		for _, r := range string(c.pendingTableChars) {
			c.insertCharacter(r, true)
		}
	} else {
		c.reportParseError(t)
		c.fosterParenting = true
		for _, r := range string(c.pendingTableChars) {
			c.reconstructActiveFormattingElements()
			c.insertCharacter(r, false)
			c.framesetOK = false
		}
		c.fosterParenting = false
	}
	c.pendingTableChars = nil
	c.switchTo(c.originalInsertionMode)
	c.dispatchHTML(t)
}

// inCaptionMode implements HTML5 §13.2.6.4.11.
func (c *Constructor) inCaptionMode(t *token.Token) {
	switch t.Kind {
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Caption:
			c.endCaption(t)
			return
		case tag.Table:
			c.reportParseError(t)
			if c.endCaption(t) {
				c.dispatchHTML(t)
			}
			return
		case tag.Body, tag.Col, tag.Colgroup, tag.HTML, tag.Tbody, tag.Td,
			tag.Tfoot, tag.Th, tag.Thead, tag.Tr:
			c.reportParseError(t)
			return
		}
	case token.StartTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Caption, tag.Col, tag.Colgroup, tag.Tbody, tag.Td, tag.Tfoot,
			tag.Th, tag.Thead, tag.Tr:
			c.reportParseError(t)
			if c.endCaption(t) {
				c.dispatchHTML(t)
			}
			return
		}
	}
	c.inBodyMode(t)
}

func (c *Constructor) endCaption(t *token.Token) bool {
	if !c.openElements.InTableScope(tag.Caption) {
		c.reportParseError(t)
		return false
	}
	c.openElements.generateImpliedEndTags(tag.Unknown)
	if !c.currentNode().Is(tag.Caption) {
		c.reportParseError(t)
	}
	c.openElements.popUntil(tag.Caption)
	c.afe.clearToLastMarker()
	c.switchTo(inTable)
	return true
}

// inColumnGroupMode implements HTML5 §13.2.6.4.12.
func (c *Constructor) inColumnGroupMode(t *token.Token) {
	switch t.Kind {
	case token.CharacterToken:
		r := []rune(t.Data)[0]
		if isWhitespaceChar(r) {
			c.insertCharacter(r, true)
			return
		}
	case token.CommentToken:
		c.insertComment(t)
		return
	case token.DoctypeToken:
		c.reportParseError(t)
		return
	case token.StartTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.HTML:
			c.inBodyMode(t)
			return
		case tag.Col:
			c.insertHTMLElement(t)
			c.openElements.pop()
			c.tok.AcknowledgeSelfClosing(t)
			return
		case tag.Template:
			c.inHeadMode(t)
			return
		}
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Colgroup:
			if !c.currentNode().Is(tag.Colgroup) {
				c.reportParseError(t)
				return
			}
			c.openElements.pop()
			c.switchTo(inTable)
			return
		case tag.Col:
			c.reportParseError(t)
			return
		case tag.Template:
			c.inHeadMode(t)
			return
		}
	case token.EOFToken:
		c.inBodyMode(t)
		return
	}
	if !c.currentNode().Is(tag.Colgroup) {
		c.reportParseError(t)
		return
	}
	c.openElements.pop()
	c.switchTo(inTable)
	c.dispatchHTML(t)
}

// inTableBodyMode implements HTML5 §13.2.6.4.13.
func (c *Constructor) inTableBodyMode(t *token.Token) {
	switch t.Kind {
	case token.StartTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Tr:
			c.openElements.clearToTableBodyContext()
			c.insertHTMLElement(t)
			c.switchTo(inRow)
			return
		case tag.Th, tag.Td:
			c.reportParseError(t)
			c.openElements.clearToTableBodyContext()
			c.insertHTMLElement(&token.Token{Kind: token.StartTagToken, TagName: "tr"})
			c.switchTo(inRow)
			c.inRowMode(t)
			return
		case tag.Caption, tag.Col, tag.Colgroup, tag.Tbody, tag.Tfoot, tag.Thead:
			if !c.endTableBodyContext() {
				c.reportParseError(t)
				return
			}
			c.dispatchHTML(t)
			return
		}
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Tbody, tag.Tfoot, tag.Thead:
			if !c.openElements.InTableScope(tag.Lookup(t.TagName)) {
				c.reportParseError(t)
				return
			}
			c.openElements.clearToTableBodyContext()
			c.openElements.pop()
			c.switchTo(inTable)
			return
		case tag.Table:
			if !c.endTableBodyContext() {
				c.reportParseError(t)
				return
			}
			c.dispatchHTML(t)
			return
		case tag.Body, tag.Caption, tag.Col, tag.Colgroup, tag.HTML, tag.Td,
			tag.Th, tag.Tr:
			c.reportParseError(t)
			return
		}
	}
	c.inTableMode(t)
}

func (c *Constructor) endTableBodyContext() bool {
	has := c.openElements.InTableScope(tag.Tbody) || c.openElements.InTableScope(tag.Thead) || c.openElements.InTableScope(tag.Tfoot)
	if !has {
		return false
	}
	c.openElements.clearToTableBodyContext()
	c.openElements.pop()
	c.switchTo(inTable)
	return true
}

// inRowMode implements HTML5 §13.2.6.4.14.
func (c *Constructor) inRowMode(t *token.Token) {
	switch t.Kind {
	case token.StartTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Th, tag.Td:
			c.openElements.clearToTableRowContext()
			c.insertHTMLElement(t)
			c.switchTo(inCell)
			c.afe.pushMarker()
			return
		case tag.Caption, tag.Col, tag.Colgroup, tag.Tbody, tag.Tfoot, tag.Thead, tag.Tr:
			if !c.endRowContext() {
				c.reportParseError(t)
				return
			}
			c.dispatchHTML(t)
			return
		}
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Tr:
			if !c.endRowContext() {
				c.reportParseError(t)
				return
			}
			return
		case tag.Table:
			if !c.endRowContext() {
				c.reportParseError(t)
				return
			}
			c.dispatchHTML(t)
			return
		case tag.Tbody, tag.Tfoot, tag.Thead:
			if !c.openElements.InTableScope(tag.Lookup(t.TagName)) {
				c.reportParseError(t)
				return
			}
			if c.endRowContext() {
				c.dispatchHTML(t)
			}
			return
		case tag.Body, tag.Caption, tag.Col, tag.Colgroup, tag.HTML, tag.Td, tag.Th:
			c.reportParseError(t)
			return
		}
	}
	c.inTableMode(t)
}

func (c *Constructor) endRowContext() bool {
	if !c.openElements.InTableScope(tag.Tr) {
		return false
	}
	c.openElements.clearToTableRowContext()
	c.openElements.pop()
	c.switchTo(inTableBody)
	return true
}

// inCellMode implements HTML5 §13.2.6.4.15.
func (c *Constructor) inCellMode(t *token.Token) {
	switch t.Kind {
	case token.StartTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Caption, tag.Col, tag.Colgroup, tag.Tbody, tag.Td, tag.Tfoot,
			tag.Th, tag.Thead, tag.Tr:
			if c.closeCellIfInScope(t) {
				c.dispatchHTML(t)
			}
			return
		}
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Td, tag.Th:
			tg := tag.Lookup(t.TagName)
			if !c.openElements.InTableScope(tg) {
				c.reportParseError(t)
				return
			}
			c.openElements.generateImpliedEndTags(tag.Unknown)
			if !c.currentNode().Is(tg) {
				c.reportParseError(t)
			}
			c.openElements.popUntil(tg)
			c.afe.clearToLastMarker()
			c.switchTo(inRow)
			return
		case tag.Body, tag.Caption, tag.Col, tag.Colgroup, tag.HTML:
			c.reportParseError(t)
			return
		case tag.Table, tag.Tbody, tag.Tfoot, tag.Thead, tag.Tr:
			if c.closeCellIfInScope(t) {
				c.dispatchHTML(t)
			}
			return
		}
	}
	c.inBodyMode(t)
}

func (c *Constructor) closeCellIfInScope(t *token.Token) bool {
	if !c.openElements.InTableScope(tag.Td) && !c.openElements.InTableScope(tag.Th) {
		c.reportParseError(t)
		return false
	}
	target := tag.Td
	if c.openElements.InTableScope(tag.Th) {
		target = tag.Th
	}
	c.openElements.generateImpliedEndTags(tag.Unknown)
	c.openElements.popUntil(target)
	c.afe.clearToLastMarker()
	c.switchTo(inRow)
	return true
}

package tree

import (
	"github.com/gohtml5/parser/internal/tag"
	"github.com/gohtml5/parser/internal/token"
)

// inSelectMode implements HTML5 §13.2.6.4.16.
func (c *Constructor) inSelectMode(t *token.Token) {
	switch t.Kind {
	case token.CharacterToken:
		r := []rune(t.Data)[0]
		if r == 0 {
			c.reportParseError(t)
			return
		}
		c.insertCharacter(r, isWhitespaceChar(r))
		return
	case token.CommentToken:
		c.insertComment(t)
		return
	case token.DoctypeToken:
		c.reportParseError(t)
		return
	case token.EOFToken:
		c.inBodyMode(t)
		return
	case token.StartTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.HTML:
			c.inBodyMode(t)
			return
		case tag.Option:
			if c.currentNode().Is(tag.Option) {
				c.openElements.pop()
			}
			c.insertHTMLElement(t)
			return
		case tag.Optgroup:
			if c.currentNode().Is(tag.Option) {
				c.openElements.pop()
			}
			if c.currentNode().Is(tag.Optgroup) {
				c.openElements.pop()
			}
			c.insertHTMLElement(t)
			return
		case tag.Select:
			c.reportParseError(t)
			c.endSelectIfInScope()
			return
		case tag.Input, tag.Keygen, tag.Textarea:
			c.reportParseError(t)
			if c.openElements.InSelectScope(tag.Select) {
				c.endSelectIfInScope()
				c.dispatchHTML(t)
			}
			return
		case tag.Script, tag.Template:
			c.inHeadMode(t)
			return
		}
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Optgroup:
			if c.currentNode().Is(tag.Option) && c.secondFromTop().Is(tag.Optgroup) {
				c.openElements.pop()
			}
			if c.currentNode().Is(tag.Optgroup) {
				c.openElements.pop()
			} else {
				c.reportParseError(t)
			}
			return
		case tag.Option:
			if c.currentNode().Is(tag.Option) {
				c.openElements.pop()
			} else {
				c.reportParseError(t)
			}
			return
		case tag.Select:
			if !c.openElements.InSelectScope(tag.Select) {
				c.reportParseError(t)
				return
			}
			c.endSelectIfInScope()
			return
		case tag.Template:
			c.inHeadMode(t)
			return
		}
	}
	c.reportParseError(t)
}

func (c *Constructor) secondFromTop() *Node {
	if c.openElements.len() < 2 {
		return nil
	}
	return c.openElements.elems[c.openElements.len()-2]
}

func (c *Constructor) endSelectIfInScope() {
	c.openElements.popUntil(tag.Select)
	c.resetInsertionModeAppropriately()
}

// inSelectInTableMode implements HTML5 §13.2.6.4.17: identical to
// inSelect for most tokens, but a handful of table-related start/end
// tags force an implicit </select> first.
func (c *Constructor) inSelectInTableMode(t *token.Token) {
	switch t.Kind {
	case token.StartTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Caption, tag.Table, tag.Tbody, tag.Tfoot, tag.Thead, tag.Tr, tag.Td, tag.Th:
			c.reportParseError(t)
			c.endSelectIfInScope()
			c.dispatchHTML(t)
			return
		}
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Caption, tag.Table, tag.Tbody, tag.Tfoot, tag.Thead, tag.Tr, tag.Td, tag.Th:
			c.reportParseError(t)
			tg := tag.Lookup(t.TagName)
			if c.openElements.InTableScope(tg) {
				c.endSelectIfInScope()
				c.dispatchHTML(t)
			}
			return
		}
	}
	c.inSelectMode(t)
}

// inTemplateMode implements HTML5 §13.2.6.4.18. Its own nested template
// insertion-mode stack covers the common cases here (start tags that
// would switch mode elsewhere instead push a specialized template mode);
// the rarer re-entrant combinations (e.g. a <select> opened directly
// inside template content) fall through to inBody's generic handling,
// a documented simplification relative to the full algorithm's explicit
// per-mode table.
func (c *Constructor) inTemplateMode(t *token.Token) {
	switch t.Kind {
	case token.CharacterToken, token.CommentToken, token.DoctypeToken:
		c.inBodyMode(t)
		return
	case token.EOFToken:
		if !c.openElements.contains(tag.Template) {
			c.stopParsing()
			return
		}
		c.reportParseError(t)
		c.openElements.popUntil(tag.Template)
		c.afe.clearToLastMarker()
		c.popTemplateMode()
		c.resetInsertionModeAppropriately()
		c.dispatchHTML(t)
		return
	case token.StartTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Base, tag.Basefont, tag.Bgsound, tag.Link, tag.Meta, tag.Noframes,
			tag.Script, tag.Style, tag.Template, tag.Title:
			c.inHeadMode(t)
			return
		case tag.Caption, tag.Colgroup, tag.Tbody, tag.Tfoot, tag.Thead:
			c.swapTemplateMode(inTable)
			c.inTableMode(t)
			return
		case tag.Col:
			c.swapTemplateMode(inColumnGroup)
			c.inColumnGroupMode(t)
			return
		case tag.Tr:
			c.swapTemplateMode(inTableBody)
			c.inTableBodyMode(t)
			return
		case tag.Td, tag.Th:
			c.swapTemplateMode(inRow)
			c.inRowMode(t)
			return
		}
		c.swapTemplateMode(inBody)
		c.inBodyMode(t)
		return
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Template:
			c.inHeadMode(t)
			return
		default:
			c.reportParseError(t)
			return
		}
	}
}

func (c *Constructor) swapTemplateMode(m insertionMode) {
	if len(c.stackOfTemplateModes) > 0 {
		c.stackOfTemplateModes[len(c.stackOfTemplateModes)-1] = m
	}
	c.switchTo(m)
}

func (c *Constructor) popTemplateMode() {
	if len(c.stackOfTemplateModes) > 0 {
		c.stackOfTemplateModes = c.stackOfTemplateModes[:len(c.stackOfTemplateModes)-1]
	}
}

func (c *Constructor) endTemplateTag(t *token.Token) {
	if !c.openElements.contains(tag.Template) {
		c.reportParseError(t)
		return
	}
	c.openElements.generateAllImpliedEndTagsThoroughly()
	if !c.currentNode().Is(tag.Template) {
		c.reportParseError(t)
	}
	c.openElements.popUntil(tag.Template)
	c.afe.clearToLastMarker()
	c.popTemplateMode()
	c.resetInsertionModeAppropriately()
}

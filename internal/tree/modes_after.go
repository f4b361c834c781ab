package tree

import (
	"github.com/gohtml5/parser/internal/tag"
	"github.com/gohtml5/parser/internal/token"
)

// afterBodyMode implements HTML5 §13.2.6.4.19.
func (c *Constructor) afterBodyMode(t *token.Token) {
	switch t.Kind {
	case token.CharacterToken:
		r := []rune(t.Data)[0]
		if isWhitespaceChar(r) {
			c.inBodyMode(t)
			return
		}
	case token.CommentToken:
		c.insertCommentAt(t, c.openElements.elems[0])
		return
	case token.DoctypeToken:
		c.reportParseError(t)
		return
	case token.StartTagToken:
		if tag.Lookup(t.TagName) == tag.HTML {
			c.inBodyMode(t)
			return
		}
	case token.EndTagToken:
		if tag.Lookup(t.TagName) == tag.HTML {
			if c.fragment {
				c.reportParseError(t)
				return
			}
			c.switchTo(afterAfterBody)
			return
		}
	case token.EOFToken:
		c.stopParsing()
		return
	}
	c.reportParseError(t)
	c.switchTo(inBody)
	c.inBodyMode(t)
}

// inFramesetMode implements HTML5 §13.2.6.4.20.
func (c *Constructor) inFramesetMode(t *token.Token) {
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
		case tag.Frameset:
			c.insertHTMLElement(t)
			return
		case tag.Frame:
			c.insertHTMLElement(t)
			c.openElements.pop()
			c.tok.AcknowledgeSelfClosing(t)
			return
		case tag.Noframes:
			c.inHeadMode(t)
			return
		}
	case token.EndTagToken:
		if tag.Lookup(t.TagName) == tag.Frameset {
			if c.currentNode().Is(tag.HTML) {
				c.reportParseError(t)
				return
			}
			c.openElements.pop()
			if !c.fragment && !c.currentNode().Is(tag.Frameset) {
				c.switchTo(afterFrameset)
			}
			return
		}
	case token.EOFToken:
		if !c.currentNode().Is(tag.HTML) {
			c.reportParseError(t)
		}
		c.stopParsing()
		return
	}
	c.reportParseError(t)
}

// afterFramesetMode implements HTML5 §13.2.6.4.21.
func (c *Constructor) afterFramesetMode(t *token.Token) {
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
		case tag.Noframes:
			c.inHeadMode(t)
			return
		}
	case token.EndTagToken:
		if tag.Lookup(t.TagName) == tag.HTML {
			c.switchTo(afterAfterFrameset)
			return
		}
	case token.EOFToken:
		c.stopParsing()
		return
	}
	c.reportParseError(t)
}

// afterAfterBodyMode implements HTML5 §13.2.6.4.22.
func (c *Constructor) afterAfterBodyMode(t *token.Token) {
	switch t.Kind {
	case token.CommentToken:
		c.insertCommentAt(t, c.Document)
		return
	case token.DoctypeToken:
		c.inBodyMode(t)
		return
	case token.CharacterToken:
		r := []rune(t.Data)[0]
		if isWhitespaceChar(r) {
			c.inBodyMode(t)
			return
		}
	case token.StartTagToken:
		if tag.Lookup(t.TagName) == tag.HTML {
			c.inBodyMode(t)
			return
		}
	case token.EOFToken:
		c.stopParsing()
		return
	}
	c.reportParseError(t)
	c.switchTo(inBody)
	c.inBodyMode(t)
}

// afterAfterFramesetMode implements HTML5 §13.2.6.4.23.
func (c *Constructor) afterAfterFramesetMode(t *token.Token) {
	switch t.Kind {
	case token.CommentToken:
		c.insertCommentAt(t, c.Document)
		return
	case token.DoctypeToken:
		c.inBodyMode(t)
		return
	case token.CharacterToken:
		r := []rune(t.Data)[0]
		if isWhitespaceChar(r) {
			c.inBodyMode(t)
			return
		}
	case token.StartTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.HTML:
			c.inBodyMode(t)
			return
		case tag.Noframes:
			c.inHeadMode(t)
			return
		}
	case token.EOFToken:
		c.stopParsing()
		return
	}
	c.reportParseError(t)
}

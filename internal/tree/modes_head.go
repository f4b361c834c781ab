package tree

import (
	"github.com/gohtml5/parser/internal/tag"
	"github.com/gohtml5/parser/internal/token"
)

// initialMode implements HTML5 §13.2.6.4.1.
func (c *Constructor) initialMode(t *token.Token) {
	switch t.Kind {
	case token.CharacterToken:
		if isAllWhitespace(t.Data) {
			return
		}
	case token.CommentToken:
		c.insertCommentAt(t, c.Document)
		return
	case token.DoctypeToken:
		c.Document.Document.QuirksMode = classifyDoctype(t.TagName, t.PublicIdentifier, t.SystemIdentifier, t.ForceQuirks)
		c.quirksMode = c.Document.Document.QuirksMode
		c.switchTo(beforeHTML)
		return
	}
	c.reportParseError(t)
	c.quirksMode = Quirks
	c.Document.Document.QuirksMode = Quirks
	c.switchTo(beforeHTML)
	c.beforeHTMLMode(t)
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		if !isWhitespaceChar(r) {
			return false
		}
	}
	return true
}

// beforeHTMLMode implements HTML5 §13.2.6.4.2.
func (c *Constructor) beforeHTMLMode(t *token.Token) {
	switch t.Kind {
	case token.DoctypeToken:
		c.reportParseError(t)
		return
	case token.CommentToken:
		c.insertCommentAt(t, c.Document)
		return
	case token.CharacterToken:
		if isAllWhitespace(t.Data) {
			return
		}
	case token.StartTagToken:
		if tag.Lookup(t.TagName) == tag.HTML {
			n := c.insertHTMLElement(t)
			c.htmlRoot = n
			c.switchTo(beforeHead)
			return
		}
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Head, tag.Body, tag.HTML, tag.Br:
		default:
			c.reportParseError(t)
			return
		}
	}
	c.createImpliedHTML()
	c.switchTo(beforeHead)
	c.beforeHeadMode(t)
}

func (c *Constructor) createImpliedHTML() {
	n := newElement(c.cfg.Arena, tag.HTML, "html", HTMLNamespace, nil)
	c.Document.AppendChild(n)
	c.htmlRoot = n
	c.openElements.push(n)
}

// beforeHeadMode implements HTML5 §13.2.6.4.3.
func (c *Constructor) beforeHeadMode(t *token.Token) {
	switch t.Kind {
	case token.CharacterToken:
		if isAllWhitespace(t.Data) {
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
		case tag.Head:
			n := c.insertHTMLElement(t)
			c.headElementPointer = n
			c.switchTo(inHead)
			return
		}
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Head, tag.Body, tag.HTML, tag.Br:
		default:
			c.reportParseError(t)
			return
		}
	}
	n := c.insertHTMLElement(&token.Token{Kind: token.StartTagToken, TagName: "head"})
	c.headElementPointer = n
	c.switchTo(inHead)
	c.inHeadMode(t)
}

// inHeadMode implements HTML5 §13.2.6.4.4.
func (c *Constructor) inHeadMode(t *token.Token) {
	switch t.Kind {
	case token.CharacterToken:
		if isAllWhitespace(t.Data) {
			for _, r := range t.Data {
				c.insertCharacter(r, true)
			}
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
		case tag.Base, tag.Basefont, tag.Bgsound, tag.Link:
			c.insertHTMLElement(t)
			c.openElements.pop()
			c.tok.AcknowledgeSelfClosing(t)
			return
		case tag.Meta:
			c.insertHTMLElement(t)
			c.openElements.pop()
			c.tok.AcknowledgeSelfClosing(t)
			return
		case tag.Title:
			c.insertGenericRCData(t)
			return
		case tag.Noscript:
			if c.cfg.ScriptingEnabled {
				c.insertGenericRawText(t)
				return
			}
			c.insertHTMLElement(t)
			c.switchTo(inHeadNoscript)
			return
		case tag.Noframes, tag.Style:
			c.insertGenericRawText(t)
			return
		case tag.Script:
			c.insertScriptElement(t)
			return
		case tag.Template:
			c.insertHTMLElement(t)
			c.afe.pushMarker()
			c.framesetOK = false
			c.switchTo(inTemplate)
			c.stackOfTemplateModes = append(c.stackOfTemplateModes, inTemplate)
			return
		case tag.Head:
			c.reportParseError(t)
			return
		}
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Head:
			c.openElements.pop()
			c.switchTo(afterHead)
			return
		case tag.Body, tag.HTML, tag.Br:
		case tag.Template:
			c.endTemplateTag(t)
			return
		default:
			c.reportParseError(t)
			return
		}
	}
	c.openElements.pop()
	c.switchTo(afterHead)
	c.afterHeadMode(t)
}

// insertGenericRCData/insertGenericRawText implement HTML5's "generic
// raw text/RCDATA element parsing algorithms" (§13.2.6.2): switch the
// tokenizer state, remember the mode to return to, and enter text mode.
func (c *Constructor) insertGenericRCData(t *token.Token) {
	c.insertHTMLElement(t)
	s := token.RCDataState
	c.tok.Resume(&s)
	c.originalInsertionMode = c.mode
	c.switchTo(text)
}

func (c *Constructor) insertGenericRawText(t *token.Token) {
	c.insertHTMLElement(t)
	s := token.RawTextState
	c.tok.Resume(&s)
	c.originalInsertionMode = c.mode
	c.switchTo(text)
}

func (c *Constructor) insertScriptElement(t *token.Token) {
	// A faithful implementation additionally tracks the script's "parser
	// document" and "already started" flags (HTML5 §13.2.5.1 note); this
	// tree never executes script, so only the tokenizer-state switch and
	// mode bookkeeping those flags exist to protect are implemented.
	c.insertHTMLElement(t)
	s := token.ScriptDataState
	c.tok.Resume(&s)
	c.originalInsertionMode = c.mode
	c.switchTo(text)
}

// inHeadNoscriptMode implements HTML5 §13.2.6.4.5.
func (c *Constructor) inHeadNoscriptMode(t *token.Token) {
	switch t.Kind {
	case token.DoctypeToken:
		c.reportParseError(t)
		return
	case token.StartTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.HTML:
			c.inBodyMode(t)
			return
		case tag.Basefont, tag.Bgsound, tag.Link, tag.Meta, tag.Noframes, tag.Style:
			c.inHeadMode(t)
			return
		case tag.Head, tag.Noscript:
			c.reportParseError(t)
			return
		}
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Noscript:
			c.openElements.pop()
			c.switchTo(inHead)
			return
		case tag.Br:
		default:
			c.reportParseError(t)
			return
		}
	case token.CharacterToken:
		if isAllWhitespace(t.Data) {
			c.inHeadMode(t)
			return
		}
	case token.CommentToken:
		c.inHeadMode(t)
		return
	}
	c.reportParseError(t)
	c.openElements.pop()
	c.switchTo(inHead)
	c.inHeadMode(t)
}

// afterHeadMode implements HTML5 §13.2.6.4.6.
func (c *Constructor) afterHeadMode(t *token.Token) {
	switch t.Kind {
	case token.CharacterToken:
		if isAllWhitespace(t.Data) {
			for _, r := range t.Data {
				c.insertCharacter(r, true)
			}
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
		case tag.Body:
			c.insertHTMLElement(t)
			c.framesetOK = false
			c.switchTo(inBody)
			return
		case tag.Frameset:
			c.insertHTMLElement(t)
			c.switchTo(inFrameset)
			return
		case tag.Base, tag.Basefont, tag.Bgsound, tag.Link, tag.Meta, tag.Noframes,
			tag.Script, tag.Style, tag.Template, tag.Title:
			c.reportParseError(t)
			c.openElements.push(c.headElementPointer)
			c.inHeadMode(t)
			c.openElements.remove(c.headElementPointer)
			return
		case tag.Head:
			c.reportParseError(t)
			return
		}
	case token.EndTagToken:
		switch tag.Lookup(t.TagName) {
		case tag.Template:
			c.inHeadMode(t)
			return
		case tag.Body, tag.HTML, tag.Br:
		default:
			c.reportParseError(t)
			return
		}
	}
	c.insertHTMLElement(&token.Token{Kind: token.StartTagToken, TagName: "body"})
	c.switchTo(inBody)
	c.inBodyMode(t)
}

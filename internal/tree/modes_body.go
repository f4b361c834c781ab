package tree

import (
	"github.com/gohtml5/parser/internal/tag"
	"github.com/gohtml5/parser/internal/token"
)

// blockClosingTags is the list of tags whose start tag, per HTML5
// §13.2.6.4.7, simply closes an open p in button scope before being
// inserted as a normal block element (address through xmp minus the
// handful handled by their own dedicated branch below).
var blockClosingTags = map[tag.Tag]bool{
	tag.Address: true, tag.Article: true, tag.Aside: true, tag.Blockquote: true,
	tag.Center: true, tag.Details: true, tag.Dialog: true, tag.Dir: true,
	tag.Div: true, tag.Dl: true, tag.Fieldset: true, tag.Figcaption: true,
	tag.Figure: true, tag.Footer: true, tag.Header: true, tag.Hgroup: true,
	tag.Main: true, tag.Menu: true, tag.Nav: true, tag.Ol: true, tag.P: true,
	tag.Section: true, tag.Summary: true, tag.Ul: true,
}

var headingTags = map[tag.Tag]bool{
	tag.H1: true, tag.H2: true, tag.H3: true, tag.H4: true, tag.H5: true, tag.H6: true,
}

var formattingTags = map[tag.Tag]bool{
	tag.A: true, tag.B: true, tag.Big: true, tag.Code: true, tag.Em: true,
	tag.Font: true, tag.I: true, tag.Nobr: true, tag.S: true, tag.Small: true,
	tag.Strike: true, tag.Strong: true, tag.Tt: true, tag.U: true,
}

// inBodyMode implements HTML5 §13.2.6.4.7, the largest and most-visited
// insertion mode.
func (c *Constructor) inBodyMode(t *token.Token) {
	switch t.Kind {
	case token.CharacterToken:
		r := []rune(t.Data)[0]
		if r == 0 {
			c.reportParseError(t)
			return
		}
		c.reconstructActiveFormattingElements()
		ws := isWhitespaceChar(r)
		c.insertCharacter(r, ws)
		if !ws {
			c.framesetOK = false
		}
		return
	case token.CommentToken:
		c.insertComment(t)
		return
	case token.DoctypeToken:
		c.reportParseError(t)
		return
	case token.EOFToken:
		if len(c.stackOfTemplateModes) > 0 {
			c.inTemplateMode(t)
			return
		}
		c.checkEOFOpenElements(t)
		c.stopParsing()
		return
	case token.StartTagToken:
		c.inBodyStartTag(t)
		return
	case token.EndTagToken:
		c.inBodyEndTag(t)
		return
	}
}

var eofAllowedTags = map[tag.Tag]bool{
	tag.Dd: true, tag.Dt: true, tag.Li: true, tag.Optgroup: true, tag.Option: true,
	tag.P: true, tag.Rp: true, tag.Rt: true, tag.Tbody: true, tag.Td: true,
	tag.Tfoot: true, tag.Th: true, tag.Thead: true, tag.Tr: true, tag.Body: true,
	tag.HTML: true,
}

func (c *Constructor) checkEOFOpenElements(t *token.Token) {
	for _, e := range c.openElements.elems {
		if e.Kind == ElementKind && !eofAllowedTags[e.Element.Tag] {
			c.reportParseError(t)
			return
		}
	}
}

func (c *Constructor) inBodyStartTag(t *token.Token) {
	tg := tag.Lookup(t.TagName)
	switch tg {
	case tag.HTML:
		c.reportParseError(t)
		if len(c.stackOfTemplateModes) == 0 {
			c.mergeAttributesInto(c.openElements.elems[0], t)
		}
		return
	case tag.Base, tag.Basefont, tag.Bgsound, tag.Link, tag.Meta, tag.Noframes,
		tag.Script, tag.Style, tag.Template, tag.Title:
		c.inHeadMode(t)
		return
	case tag.Body:
		c.reportParseError(t)
		if len(c.openElements.elems) > 1 && c.openElements.elems[1].Is(tag.Body) {
			c.framesetOK = false
			c.mergeAttributesInto(c.openElements.elems[1], t)
		}
		return
	case tag.Frameset:
		c.reportParseError(t)
		if !c.framesetOK || len(c.openElements.elems) < 2 || !c.openElements.elems[1].Is(tag.Body) {
			return
		}
		body := c.openElements.elems[1]
		if body.Parent != nil {
			body.Remove()
		}
		for len(c.openElements.elems) > 1 {
			c.openElements.pop()
		}
		c.insertHTMLElement(t)
		c.switchTo(inFrameset)
		return
	case tag.Pre, tag.Listing:
		c.closePElementIfInButtonScope()
		c.insertHTMLElement(t)
		c.framesetOK = false
		return
	case tag.Form:
		if c.formElementPointer != nil && len(c.openElements.templateCount()) == 0 {
			c.reportParseError(t)
			return
		}
		c.closePElementIfInButtonScope()
		n := c.insertHTMLElement(t)
		if len(c.openElements.templateCount()) == 0 {
			c.formElementPointer = n
		}
		return
	case tag.Li:
		c.closeListItem(tag.Li)
		c.closePElementIfInButtonScope()
		c.insertHTMLElement(t)
		return
	case tag.Dd, tag.Dt:
		c.closeListItem(tg)
		c.closePElementIfInButtonScope()
		c.insertHTMLElement(t)
		return
	case tag.Plaintext:
		c.closePElementIfInButtonScope()
		c.insertHTMLElement(t)
		s := token.PlaintextState
		c.tok.Resume(&s)
		return
	case tag.Button:
		if c.openElements.InScope(tag.Button) {
			c.reportParseError(t)
			c.openElements.generateImpliedEndTags(tag.Unknown)
			c.openElements.popUntil(tag.Button)
		}
		c.reconstructActiveFormattingElements()
		c.insertHTMLElement(t)
		c.framesetOK = false
		return
	case tag.A:
		if existing := c.afe.lastBefore(tag.A); existing != nil {
			c.reportParseError(t)
			c.adoptionAgency(tag.A)
			c.afe.remove(existing)
			c.openElements.remove(existing)
		}
		c.reconstructActiveFormattingElements()
		n := c.insertHTMLElement(t)
		c.afe.push(n)
		return
	case tag.Nobr:
		c.reconstructActiveFormattingElements()
		if c.openElements.InScope(tag.Nobr) {
			c.reportParseError(t)
			c.adoptionAgency(tag.Nobr)
			c.reconstructActiveFormattingElements()
		}
		n := c.insertHTMLElement(t)
		c.afe.push(n)
		return
	case tag.Applet, tag.Object, tag.Marquee:
		c.reconstructActiveFormattingElements()
		c.insertHTMLElement(t)
		c.afe.pushMarker()
		c.framesetOK = false
		return
	case tag.Table:
		if c.quirksMode != Quirks {
			c.closePElementIfInButtonScope()
		}
		c.insertHTMLElement(t)
		c.framesetOK = false
		c.switchTo(inTable)
		return
	case tag.Area, tag.Br, tag.Embed, tag.Img, tag.Keygen, tag.Wbr:
		c.reconstructActiveFormattingElements()
		c.insertHTMLElement(t)
		c.openElements.pop()
		c.tok.AcknowledgeSelfClosing(t)
		c.framesetOK = false
		return
	case tag.Input:
		c.reconstructActiveFormattingElements()
		n := c.insertHTMLElement(t)
		c.openElements.pop()
		c.tok.AcknowledgeSelfClosing(t)
		if v, ok := n.Element.Attr("type"); !ok || lowerASCIIString(v) != "hidden" {
			c.framesetOK = false
		}
		return
	case tag.Param, tag.Source, tag.Track:
		c.insertHTMLElement(t)
		c.openElements.pop()
		c.tok.AcknowledgeSelfClosing(t)
		return
	case tag.Hr:
		c.closePElementIfInButtonScope()
		c.insertHTMLElement(t)
		c.openElements.pop()
		c.tok.AcknowledgeSelfClosing(t)
		c.framesetOK = false
		return
	case tag.Image:
		t.TagName = "img"
		c.inBodyStartTag(t)
		return
	case tag.Textarea:
		c.insertHTMLElement(t)
		s := token.RCDataState
		c.tok.Resume(&s)
		c.originalInsertionMode = c.mode
		c.framesetOK = false
		c.switchTo(text)
		return
	case tag.Xmp:
		c.closePElementIfInButtonScope()
		c.reconstructActiveFormattingElements()
		c.framesetOK = false
		c.insertGenericRawText(t)
		return
	case tag.Iframe:
		c.framesetOK = false
		c.insertGenericRawText(t)
		return
	case tag.Noembed:
		c.insertGenericRawText(t)
		return
	case tag.Noscript:
		if c.cfg.ScriptingEnabled {
			c.insertGenericRawText(t)
			return
		}
	case tag.Select:
		c.reconstructActiveFormattingElements()
		c.insertHTMLElement(t)
		c.framesetOK = false
		switch c.mode {
		case inTable, inCaption, inTableBody, inRow, inCell:
			c.switchTo(inSelectInTable)
		default:
			c.switchTo(inSelect)
		}
		return
	case tag.Optgroup, tag.Option:
		if c.currentNode().Is(tag.Option) {
			c.openElements.pop()
		}
		c.reconstructActiveFormattingElements()
		c.insertHTMLElement(t)
		return
	case tag.Rp, tag.Rt:
		if c.openElements.InScope(tag.Ruby) {
			c.openElements.generateImpliedEndTags(tag.Unknown)
		}
		c.insertHTMLElement(t)
		return
	case tag.MathML:
		c.reconstructActiveFormattingElements()
		n := c.createForeignElement(t, MathMLNamespace)
		parent, before := c.appropriatePlaceForInsertion(nil)
		c.insertAt(parent, before, n)
		if !t.SelfClosing {
			c.openElements.push(n)
		} else {
			c.tok.AcknowledgeSelfClosing(t)
		}
		return
	case tag.SVG:
		c.reconstructActiveFormattingElements()
		n := c.createForeignElement(t, SVGNamespace)
		parent, before := c.appropriatePlaceForInsertion(nil)
		c.insertAt(parent, before, n)
		if !t.SelfClosing {
			c.openElements.push(n)
		} else {
			c.tok.AcknowledgeSelfClosing(t)
		}
		return
	case tag.Caption, tag.Col, tag.Colgroup, tag.Frame, tag.Head, tag.Tbody,
		tag.Td, tag.Tfoot, tag.Th, tag.Thead, tag.Tr:
		c.reportParseError(t)
		return
	}
	if headingTags[tg] {
		c.closePElementIfInButtonScope()
		if headingTags[c.currentNode().Element.Tag] {
			c.reportParseError(t)
			c.openElements.pop()
		}
		c.insertHTMLElement(t)
		return
	}
	if blockClosingTags[tg] {
		c.closePElementIfInButtonScope()
		c.insertHTMLElement(t)
		return
	}
	if formattingTags[tg] {
		c.reconstructActiveFormattingElements()
		n := c.insertHTMLElement(t)
		c.afe.push(n)
		return
	}
	// "Any other start tag" (HTML5 §13.2.6.4.7 final clause).
	c.reconstructActiveFormattingElements()
	c.insertHTMLElement(t)
}

func (c *Constructor) mergeAttributesInto(n *Node, t *token.Token) {
	for _, a := range t.Attributes {
		if _, ok := n.Element.Attr(a.Name); !ok {
			n.Element.Attributes = append(n.Element.Attributes, Attribute{
				Name:  c.cfg.Arena.AllocateString(a.Name),
				Value: c.cfg.Arena.AllocateString(a.Value),
			})
		}
	}
}

// closeListItem implements the li/dd/dt start-tag "special button scope
// walk" from HTML5 §13.2.6.4.7: walk down the stack closing any li (for
// an li start tag) or dd/dt (for a dd/dt start tag) found before a
// scope-boundary element.
func (c *Constructor) closeListItem(which tag.Tag) {
	for i := len(c.openElements.elems) - 1; i >= 0; i-- {
		node := c.openElements.elems[i]
		if node.Kind != ElementKind {
			return
		}
		isTarget := false
		switch which {
		case tag.Li:
			isTarget = node.Is(tag.Li)
		default:
			isTarget = node.Is(tag.Dd) || node.Is(tag.Dt)
		}
		if isTarget {
			c.openElements.generateImpliedEndTags(node.Element.Tag)
			c.openElements.popUntil(node.Element.Tag)
			return
		}
		if containsTag(defaultScopeList, node.Element.Tag) && node.Element.Namespace == HTMLNamespace {
			return
		}
		if node.Element.Namespace == HTMLNamespace && (node.Is(tag.Address) || node.Is(tag.Div) || node.Is(tag.P)) {
			continue
		}
		if tag.IsSpecial(node.Element.Tag) {
			return
		}
	}
}

func (c *Constructor) inBodyEndTag(t *token.Token) {
	tg := tag.Lookup(t.TagName)
	switch tg {
	case tag.Template:
		c.inHeadMode(t)
		return
	case tag.Body:
		c.endBodyTag(t)
		return
	case tag.HTML:
		if !c.openElements.InScope(tag.Body) {
			c.reportParseError(t)
			return
		}
		c.endBodyTag(t)
		c.switchTo(afterBody)
		c.afterBodyMode(t)
		return
	case tag.Form:
		c.endFormTag(t)
		return
	case tag.P:
		if !c.openElements.InButtonScope(tag.P) {
			c.reportParseError(t)
			c.insertHTMLElement(&token.Token{Kind: token.StartTagToken, TagName: "p"})
		}
		c.closePElement()
		return
	case tag.Li:
		if !c.openElements.InListItemScope(tag.Li) {
			c.reportParseError(t)
			return
		}
		c.openElements.generateImpliedEndTags(tag.Li)
		if !c.currentNode().Is(tag.Li) {
			c.reportParseError(t)
		}
		c.openElements.popUntil(tag.Li)
		return
	case tag.Dd, tag.Dt:
		if !c.openElements.InScope(tg) {
			c.reportParseError(t)
			return
		}
		c.openElements.generateImpliedEndTags(tg)
		if !c.currentNode().Is(tg) {
			c.reportParseError(t)
		}
		c.openElements.popUntil(tg)
		return
	case tag.Applet, tag.Object, tag.Marquee:
		if !c.openElements.InScope(tg) {
			c.reportParseError(t)
			return
		}
		c.openElements.generateImpliedEndTags(tag.Unknown)
		if !c.currentNode().Is(tg) {
			c.reportParseError(t)
		}
		c.openElements.popUntil(tg)
		c.afe.clearToLastMarker()
		return
	case tag.Br:
		c.reportParseError(t)
		c.inBodyStartTag(&token.Token{Kind: token.StartTagToken, TagName: "br"})
		return
	}
	if headingTags[tg] {
		anyHeading := c.openElements.InScope(tag.H1) || c.openElements.InScope(tag.H2) ||
			c.openElements.InScope(tag.H3) || c.openElements.InScope(tag.H4) ||
			c.openElements.InScope(tag.H5) || c.openElements.InScope(tag.H6)
		if !anyHeading {
			c.reportParseError(t)
			return
		}
		c.openElements.generateImpliedEndTags(tag.Unknown)
		if !c.currentNode().Is(tg) {
			c.reportParseError(t)
		}
		for !c.openElements.empty() {
			n := c.openElements.pop()
			if headingTags[n.Element.Tag] {
				break
			}
		}
		return
	}
	if blockClosingTags[tg] {
		if !c.openElements.InScope(tg) {
			c.reportParseError(t)
			return
		}
		c.openElements.generateImpliedEndTags(tag.Unknown)
		if !c.currentNode().Is(tg) {
			c.reportParseError(t)
		}
		c.openElements.popUntil(tg)
		return
	}
	if formattingTags[tg] {
		c.adoptionAgency(tg)
		return
	}
	// "Any other end tag": walk down the stack for a same-named node,
	// stopping (with no action) at a special element (HTML5's generic
	// end-tag algorithm).
	for i := len(c.openElements.elems) - 1; i >= 0; i-- {
		node := c.openElements.elems[i]
		if node.Kind == ElementKind && node.Element.Namespace == HTMLNamespace && lowerASCIIString(node.Element.Name) == lowerASCIIString(t.TagName) {
			c.openElements.generateImpliedEndTags(node.Element.Tag)
			if node != c.currentNode() {
				c.reportParseError(t)
			}
			for !c.openElements.empty() {
				popped := c.openElements.pop()
				if popped == node {
					break
				}
			}
			return
		}
		if node.Kind == ElementKind && tag.IsSpecial(node.Element.Tag) {
			c.reportParseError(t)
			return
		}
	}
}

func (c *Constructor) endBodyTag(t *token.Token) {
	if !c.openElements.InScope(tag.Body) {
		c.reportParseError(t)
		return
	}
	c.switchTo(afterBody)
}

func (c *Constructor) endFormTag(t *token.Token) {
	if len(c.openElements.templateCount()) == 0 {
		formNode := c.formElementPointer
		c.formElementPointer = nil
		if formNode == nil || !c.openElements.InScope(tag.Form) {
			c.reportParseError(t)
			return
		}
		c.openElements.generateImpliedEndTags(tag.Unknown)
		if c.currentNode() != formNode {
			c.reportParseError(t)
		}
		c.openElements.remove(formNode)
		return
	}
	if !c.openElements.InScope(tag.Form) {
		c.reportParseError(t)
		return
	}
	c.openElements.generateImpliedEndTags(tag.Unknown)
	if !c.currentNode().Is(tag.Form) {
		c.reportParseError(t)
	}
	c.openElements.popUntil(tag.Form)
}

// textMode implements HTML5 §13.2.6.4.8, used for script/style/title/
// textarea/... content switched into RCDATA/RAWTEXT/ScriptData.
func (c *Constructor) textMode(t *token.Token) {
	switch t.Kind {
	case token.CharacterToken:
		r := []rune(t.Data)[0]
		c.insertCharacter(r, isWhitespaceChar(r))
	case token.EOFToken:
		c.reportParseError(t)
		if c.currentNode().Is(tag.Script) {
			// A real engine marks the script "already started" here;
			// this parser never executes script so there is nothing
			// further to do.
		}
		c.openElements.pop()
		c.switchTo(c.originalInsertionMode)
		c.dispatchHTML(t)
	case token.EndTagToken:
		c.openElements.pop()
		c.switchTo(c.originalInsertionMode)
	}
}

// templateCount is a tiny helper so the form-pointer logic above reads
// close to the spec text ("if there is a template element on the stack
// of open elements"); it returns a non-nil (possibly empty) slice so
// len(...) == 0 reads naturally at the call site.
func (s *elementStack) templateCount() []*Node {
	var found []*Node
	for _, e := range s.elems {
		if e.Is(tag.Template) {
			found = append(found, e)
		}
	}
	return found
}

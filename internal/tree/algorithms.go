package tree

import "github.com/gohtml5/parser/internal/tag"

// resetInsertionModeAppropriately implements HTML5 §13.2.4.1's algorithm
// of the same name, used after popping table/select-related elements and
// when fragment parsing sets up its initial mode.
func (c *Constructor) resetInsertionModeAppropriately() {
	for i := len(c.openElements.elems) - 1; i >= 0; i-- {
		node := c.openElements.elems[i]
		last := i == 0
		if c.fragment && last {
			node = c.fragmentContextNode
		}
		if node.Kind != ElementKind || node.Element.Namespace != HTMLNamespace {
			if last {
				c.switchTo(inBody)
				return
			}
			continue
		}
		switch node.Element.Tag {
		case tag.Select:
			for j := i; j > 0; j-- {
				anc := c.openElements.elems[j-1]
				if anc.Is(tag.Template) {
					break
				}
				if anc.Is(tag.Table) {
					c.switchTo(inSelectInTable)
					return
				}
			}
			c.switchTo(inSelect)
			return
		case tag.Td, tag.Th:
			if !last {
				c.switchTo(inCell)
				return
			}
		case tag.Tr:
			c.switchTo(inRow)
			return
		case tag.Tbody, tag.Thead, tag.Tfoot:
			c.switchTo(inTableBody)
			return
		case tag.Caption:
			c.switchTo(inCaption)
			return
		case tag.Colgroup:
			c.switchTo(inColumnGroup)
			return
		case tag.Table:
			c.switchTo(inTable)
			return
		case tag.Template:
			if len(c.stackOfTemplateModes) > 0 {
				c.switchTo(c.stackOfTemplateModes[len(c.stackOfTemplateModes)-1])
				return
			}
		case tag.Head:
			if !last {
				c.switchTo(inHead)
				return
			}
		case tag.Body:
			c.switchTo(inBody)
			return
		case tag.Frameset:
			c.switchTo(inFrameset)
			return
		case tag.HTML:
			if c.headElementPointer == nil {
				c.switchTo(beforeHead)
			} else {
				c.switchTo(afterHead)
			}
			return
		}
		if last {
			c.switchTo(inBody)
			return
		}
	}
	c.switchTo(inBody)
}

// closePElementIfInButtonScope implements the common "if the stack of
// open elements has a p element in button scope, close it" prologue
// used by many inBody start-tag branches (HTML5 §13.2.6.4.7).
func (c *Constructor) closePElementIfInButtonScope() {
	if c.openElements.InButtonScope(tag.P) {
		c.closePElement()
	}
}

// closePElement implements "close a p element" (HTML5 §13.2.6.1): imply
// end tags except p, then pop until (and including) the p.
func (c *Constructor) closePElement() {
	c.openElements.generateImpliedEndTags(tag.P)
	c.openElements.popUntil(tag.P)
}

// reconstructActiveFormattingElements implements HTML5 §13.2.4.4's
// reconstruction algorithm, run before inserting most new nodes in the
// inBody/text-mode family so formatting elements implicitly closed by a
// block element reopen around subsequent text.
func (c *Constructor) reconstructActiveFormattingElements() {
	if len(c.afe.entries) == 0 {
		return
	}
	last := len(c.afe.entries) - 1
	entry := c.afe.entries[last]
	if entry.marker || c.openElements.indexOf(entry.node) != -1 {
		return
	}

	i := last
	for i > 0 {
		i--
		entry = c.afe.entries[i]
		if entry.marker || c.openElements.indexOf(entry.node) != -1 {
			i++
			break
		}
	}

	for ; i <= last; i++ {
		e := &c.afe.entries[i]
		clone := c.cloneElement(e.node)
		parent, before := c.appropriatePlaceForInsertion(nil)
		c.insertAt(parent, before, clone)
		c.openElements.push(clone)
		e.node = clone
	}
}

func (c *Constructor) cloneElement(n *Node) *Node {
	attrs := make([]Attribute, len(n.Element.Attributes))
	copy(attrs, n.Element.Attributes)
	return newElement(c.cfg.Arena, n.Element.Tag, n.Element.Name, n.Element.Namespace, attrs)
}

// adjustedInsertionLocationIsTemplate reports whether the appropriate
// place for insertion currently resolves into a <template>'s content
// document fragment (used by a couple of inHead/inBody special cases).
func (c *Constructor) adjustedInsertionLocationIsTemplate() bool {
	parent, _ := c.appropriatePlaceForInsertion(nil)
	return parent.Kind == DocumentKind && parent != c.Document
}

package tree

import "github.com/gohtml5/parser/internal/tag"

// adoptionAgency implements the adoption agency algorithm (HTML5
// §13.2.6.4.7), grounded on gumbo-parser's errata-following variant in
// original_source/src/parser.c (outer loop bounded at 8, inner loop
// bounded at 3, with bookmark-based reinsertion) rather than a literal
// transcription of the spec's numbered steps, which the teacher's own
// elementInSpecificScope/stack helpers already diverge from in the same
// direction.
func (c *Constructor) adoptionAgency(subjectTag tag.Tag) {
	for outer := 0; outer < 8; outer++ {
		formatting := c.afe.lastBefore(subjectTag)
		if formatting == nil {
			return
		}

		feIndex := c.openElements.indexOf(formatting)
		if feIndex == -1 {
			c.afe.remove(formatting)
			return
		}
		if !c.openElements.InScope(subjectTag) {
			return
		}

		// Find the furthest block: the topmost special element above
		// formatting on the stack.
		var furthestBlock *Node
		fbIndex := -1
		for i := feIndex + 1; i < c.openElements.len(); i++ {
			e := c.openElements.elems[i]
			if e.Kind == ElementKind && tag.IsSpecial(e.Element.Tag) {
				furthestBlock = e
				fbIndex = i
				break
			}
		}

		if furthestBlock == nil {
			c.openElements.popUntilNode(formatting)
			c.afe.remove(formatting)
			return
		}
		if feIndex == 0 {
			return
		}

		commonAncestor := c.openElements.elems[feIndex-1]
		bookmark := c.afe.indexOf(formatting)

		node := furthestBlock
		lastNode := furthestBlock
		nodeIndex := fbIndex

		for inner := 0; inner < 3; inner++ {
			nodeIndex--
			if nodeIndex <= feIndex {
				break
			}
			node = c.openElements.elems[nodeIndex]
			if c.afe.indexOf(node) == -1 {
				c.openElements.removeAt(nodeIndex)
				fbIndex--
				continue
			}
			clone := c.cloneElement(node)
			idx := c.afe.indexOf(node)
			c.afe.entries[idx].node = clone
			c.openElements.elems[nodeIndex] = clone
			node = clone
			if lastNode == furthestBlock {
				bookmark = idx + 1
			}
			lastNode.Remove()
			node.AppendChild(lastNode)
			lastNode = node
		}

		lastNode.Remove()
		if commonAncestor.Kind == ElementKind && commonAncestor.Element.TemplateContents != nil {
			commonAncestor.Element.TemplateContents.AppendChild(lastNode)
		} else {
			parent, before := c.appropriatePlaceForInsertion(commonAncestor)
			c.insertAt(parent, before, lastNode)
		}

		clone := c.cloneElement(formatting)
		for child := furthestBlock.FirstChild; child != nil; {
			next := child.NextSibling
			child.Remove()
			clone.AppendChild(child)
			child = next
		}
		furthestBlock.AppendChild(clone)

		c.afe.remove(formatting)
		if bookmark > len(c.afe.entries) {
			bookmark = len(c.afe.entries)
		}
		c.afe.entries = append(c.afe.entries[:bookmark:bookmark], append([]afeEntry{{node: clone}}, c.afe.entries[bookmark:]...)...)

		c.openElements.remove(formatting)
		fbIdx := c.openElements.indexOf(furthestBlock)
		c.openElements.elems = append(c.openElements.elems[:fbIdx+1], append([]*Node{clone}, c.openElements.elems[fbIdx+1:]...)...)
	}
}

// popUntilNode pops the stack (inclusive) until target itself is popped.
func (s *elementStack) popUntilNode(target *Node) {
	for !s.empty() {
		n := s.pop()
		if n == target {
			return
		}
	}
}

// removeAt deletes the entry at index i.
func (s *elementStack) removeAt(i int) {
	s.elems = append(s.elems[:i], s.elems[i+1:]...)
}

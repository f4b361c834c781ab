package tree

import "github.com/gohtml5/parser/internal/tag"

// elementStack is the stack of open elements (HTML5 §13.2.4.2), grounded
// on the teacher's stackOfOpenElements []*spec.Node field; here it is its
// own type so the five scope flavors below can hang off it directly.
type elementStack struct {
	elems []*Node
}

func (s *elementStack) push(n *Node)  { s.elems = append(s.elems, n) }
func (s *elementStack) pop() *Node {
	if len(s.elems) == 0 {
		return nil
	}
	n := s.elems[len(s.elems)-1]
	s.elems = s.elems[:len(s.elems)-1]
	return n
}
func (s *elementStack) current() *Node {
	if len(s.elems) == 0 {
		return nil
	}
	return s.elems[len(s.elems)-1]
}
func (s *elementStack) empty() bool { return len(s.elems) == 0 }
func (s *elementStack) len() int    { return len(s.elems) }

// remove deletes the first (topmost) occurrence of n, used by the
// adoption agency algorithm and by end-tag handling that pops elements
// out of order (e.g. </p> implied end tags).
func (s *elementStack) remove(n *Node) {
	for i := len(s.elems) - 1; i >= 0; i-- {
		if s.elems[i] == n {
			s.elems = append(s.elems[:i], s.elems[i+1:]...)
			return
		}
	}
}

// indexOf returns the stack index of n (0 = bottom of stack, i.e. <html>)
// or -1 if not present.
func (s *elementStack) indexOf(n *Node) int {
	for i, e := range s.elems {
		if e == n {
			return i
		}
	}
	return -1
}

// contains reports whether any entry in the stack has tag t.
func (s *elementStack) contains(t tag.Tag) bool {
	for _, e := range s.elems {
		if e.Is(t) {
			return true
		}
	}
	return false
}

// popUntil pops elements (inclusive) until one matching any of ts is
// popped, or the stack empties.
func (s *elementStack) popUntil(ts ...tag.Tag) {
	for !s.empty() {
		n := s.pop()
		if n.IsAny(ts...) {
			return
		}
	}
}

// defaultScopeList is the boundary set shared by the default/list-item/
// button scope flavors (HTML5 §13.2.4.2's "the list of element types"),
// grounded on the teacher's isInScope boundary list in
// parser/tree_constructor.go.
var defaultScopeList = []tag.Tag{
	tag.Applet, tag.Caption, tag.HTML, tag.Table, tag.Td, tag.Th,
	tag.Marquee, tag.Object, tag.Template,
}

var tableScopeList = []tag.Tag{tag.HTML, tag.Table, tag.Template}

var selectScopeExcludeList = []tag.Tag{tag.Optgroup, tag.Option}

func containsTag(ts []tag.Tag, t tag.Tag) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

// inScopeFlavor walks the stack from the top, returning true if target is
// found before any boundary tag in boundary. With allowList set (select
// scope, HTML5's only "allow list" scope flavor), boundary is ignored and
// the walk instead stops at any HTML element not in
// selectScopeExcludeList.
func (s *elementStack) inScopeFlavor(target tag.Tag, boundary []tag.Tag, allowList bool) bool {
	for i := len(s.elems) - 1; i >= 0; i-- {
		e := s.elems[i]
		if e.Is(target) {
			return true
		}
		if e.Kind != ElementKind || e.Element.Namespace != HTMLNamespace {
			continue
		}
		if allowList {
			if !containsTag(selectScopeExcludeList, e.Element.Tag) {
				return false
			}
		} else if containsTag(boundary, e.Element.Tag) {
			return false
		}
	}
	return false
}

// InScope implements the default scope flavor (HTML5 §13.2.4.2).
func (s *elementStack) InScope(t tag.Tag) bool { return s.inScopeFlavor(t, defaultScopeList, false) }

// InListItemScope adds ol and ul to the default boundary list.
func (s *elementStack) InListItemScope(t tag.Tag) bool {
	boundary := append(append([]tag.Tag{}, defaultScopeList...), tag.Ol, tag.Ul)
	return s.inScopeFlavor(t, boundary, false)
}

// InButtonScope adds button to the default boundary list.
func (s *elementStack) InButtonScope(t tag.Tag) bool {
	boundary := append(append([]tag.Tag{}, defaultScopeList...), tag.Button)
	return s.inScopeFlavor(t, boundary, false)
}

// InTableScope uses the narrower table/html/template boundary.
func (s *elementStack) InTableScope(t tag.Tag) bool { return s.inScopeFlavor(t, tableScopeList, false) }

// InSelectScope is the one allow-list flavor: everything except optgroup
// and option stops the walk.
func (s *elementStack) InSelectScope(t tag.Tag) bool { return s.inScopeFlavor(t, nil, true) }

// generateImpliedEndTags pops elements whose tag is in the "implied end
// tag" set (HTML5 §13.2.4.3), skipping (not popping) a tag equal to
// except.
var impliedEndTagSet = map[tag.Tag]bool{
	tag.Dd: true, tag.Dt: true, tag.Li: true, tag.Optgroup: true,
	tag.Option: true, tag.P: true, tag.Rp: true, tag.Rt: true,
}

func (s *elementStack) generateImpliedEndTags(except tag.Tag) {
	for !s.empty() {
		cur := s.current()
		if cur.Kind != ElementKind || !impliedEndTagSet[cur.Element.Tag] {
			return
		}
		if except != tag.Unknown && cur.Is(except) {
			return
		}
		s.pop()
	}
}

// generateAllImpliedEndTagsThoroughly additionally pops caption/colgroup/
// tbody/td/tfoot/th/thead/tr; its one caller is the </template> end-tag
// handling in endTemplateTag.
func (s *elementStack) generateAllImpliedEndTagsThoroughly() {
	thorough := map[tag.Tag]bool{
		tag.Caption: true, tag.Colgroup: true, tag.Dd: true, tag.Dt: true,
		tag.Li: true, tag.Optgroup: true, tag.Option: true, tag.P: true,
		tag.Rp: true, tag.Rt: true,
		tag.Tbody: true, tag.Td: true, tag.Tfoot: true, tag.Th: true,
		tag.Thead: true, tag.Tr: true,
	}
	for !s.empty() {
		cur := s.current()
		if cur.Kind != ElementKind || !thorough[cur.Element.Tag] {
			return
		}
		s.pop()
	}
}

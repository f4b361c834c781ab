package tree

import "github.com/gohtml5/parser/internal/tag"

// afeEntry is one slot in the list of active formatting elements (HTML5
// §13.2.4.4). marker==true entries are the scope markers pushed when
// entering applet/object/marquee/td/th/caption/template content; Node is
// nil for a marker.
type afeEntry struct {
	node   *Node
	marker bool
}

// activeFormattingElements mirrors the teacher's
// activeFormattingElements []*spec.Node field, generalized into its own
// type so Noah's Ark dedup and marker handling have somewhere to live
// instead of being reimplemented inline at every call site.
type activeFormattingElements struct {
	entries []afeEntry
}

func (a *activeFormattingElements) pushMarker() {
	a.entries = append(a.entries, afeEntry{marker: true})
}

func (a *activeFormattingElements) clearToLastMarker() {
	for len(a.entries) > 0 {
		last := a.entries[len(a.entries)-1]
		a.entries = a.entries[:len(a.entries)-1]
		if last.marker {
			return
		}
	}
}

// sameTagAndAttrs reports whether two elements would collide under the
// Noah's Ark clause: same namespace, same tag name, identical attribute
// set (order-independent, same count).
func sameTagAndAttrs(a, b *Node) bool {
	if a.Kind != ElementKind || b.Kind != ElementKind {
		return false
	}
	ea, eb := a.Element, b.Element
	if ea.Tag != eb.Tag || ea.Namespace != eb.Namespace || len(ea.Attributes) != len(eb.Attributes) {
		return false
	}
	for _, x := range ea.Attributes {
		v, ok := eb.Attr(x.Name)
		if !ok || v != x.Value {
			return false
		}
	}
	return true
}

// push inserts n, applying the Noah's Ark clause: if three or more
// entries since the last marker already match n exactly, the earliest of
// them is removed first (HTML5 §13.2.4.4 step "Noah's Ark clause").
func (a *activeFormattingElements) push(n *Node) {
	matches := 0
	earliest := -1
	for i := len(a.entries) - 1; i >= 0; i-- {
		e := a.entries[i]
		if e.marker {
			break
		}
		if sameTagAndAttrs(e.node, n) {
			matches++
			earliest = i
		}
	}
	if matches >= 3 {
		a.entries = append(a.entries[:earliest], a.entries[earliest+1:]...)
	}
	a.entries = append(a.entries, afeEntry{node: n})
}

// remove deletes n's entry, used when the adoption agency or an explicit
// end tag removes a formatting element from play without a full clear.
func (a *activeFormattingElements) remove(n *Node) {
	for i, e := range a.entries {
		if e.node == n {
			a.entries = append(a.entries[:i], a.entries[i+1:]...)
			return
		}
	}
}

// indexOf returns the entry index of n, or -1.
func (a *activeFormattingElements) indexOf(n *Node) int {
	for i, e := range a.entries {
		if e.node == n {
			return i
		}
	}
	return -1
}

// lastBefore returns the nearest active formatting element with the
// given tag, searching back from the end but stopping at a marker
// (used by the adoption agency's step to find "the formatting element").
func (a *activeFormattingElements) lastBefore(t tag.Tag) *Node {
	for i := len(a.entries) - 1; i >= 0; i-- {
		e := a.entries[i]
		if e.marker {
			return nil
		}
		if e.node.Is(t) {
			return e.node
		}
	}
	return nil
}

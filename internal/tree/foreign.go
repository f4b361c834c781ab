package tree

import (
	"github.com/gohtml5/parser/internal/tag"
	"github.com/gohtml5/parser/internal/token"
)

// useForeignContent implements the tree construction dispatcher's
// foreign-content predicate (HTML5 §13.2.6): true when the adjusted
// current node is a foreign element and none of the listed HTML-like
// exceptions (MathML text integration points receiving a start tag other
// than mglyph/malignmark, annotation-xml receiving an svg start tag, or
// any of them receiving a character/EOF token) apply.
func (c *Constructor) useForeignContent(t *token.Token) bool {
	if c.openElements.empty() {
		return false
	}
	acn := c.adjustedCurrentNode()
	if acn == nil || acn.Kind != ElementKind || acn.Element.Namespace == HTMLNamespace {
		return false
	}
	if t.Kind == token.EOFToken {
		return false
	}
	if isMathMLTextIntegrationPoint(acn) {
		if t.Kind == token.CharacterToken {
			return false
		}
		if t.Kind == token.StartTagToken {
			tg := tag.Lookup(t.TagName)
			if tg != tag.MI && tg != tag.MO && tg != tag.MN && tg != tag.MS && tg != tag.MText {
				// mglyph/malignmark aren't in the fixed tag table; any
				// unknown start tag here still counts as HTML content.
				return false
			}
		}
		return true
	}
	if acn.Element.Namespace == MathMLNamespace && acn.Is(tag.AnnotationXML) && t.Kind == token.StartTagToken && tag.Lookup(t.TagName) == tag.SVG {
		return false
	}
	if isHTMLIntegrationPoint(acn) && (t.Kind == token.StartTagToken || t.Kind == token.CharacterToken) {
		return false
	}
	return true
}

func isMathMLTextIntegrationPoint(n *Node) bool {
	return n.Element.Namespace == MathMLNamespace && n.IsAny(tag.MI, tag.MO, tag.MN, tag.MS, tag.MText)
}

func isHTMLIntegrationPoint(n *Node) bool {
	if n.Element.Namespace == MathMLNamespace && n.Is(tag.AnnotationXML) {
		if v, ok := n.Element.Attr("encoding"); ok {
			lv := lowerASCIIString(v)
			if lv == "text/html" || lv == "application/xhtml+xml" {
				return true
			}
		}
		return false
	}
	return n.Element.Namespace == SVGNamespace && n.IsAny(tag.ForeignObject, tag.Desc, tag.Title)
}

func lowerASCIIString(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 0x20
		}
	}
	return string(b)
}

// svgTagNameFixups corrects the handful of SVG tag names the tokenizer
// lowercases but the HTML5 algorithm requires back in their original
// mixed case (HTML5 §13.2.6.2 "adjust SVG tag names").
var svgTagNameFixups = map[string]string{
	"altglyph":            "altGlyph",
	"altglyphdef":         "altGlyphDef",
	"altglyphitem":        "altGlyphItem",
	"animatecolor":        "animateColor",
	"animatemotion":       "animateMotion",
	"animatetransform":    "animateTransform",
	"clippath":            "clipPath",
	"feblend":             "feBlend",
	"foreignobject":       "foreignObject",
	"glyphref":            "glyphRef",
	"lineargradient":      "linearGradient",
	"radialgradient":      "radialGradient",
	"textpath":            "textPath",
}

// mathMLAttributeFixups and svgAttributeFixups correct attribute names
// HTML5 requires un-lowercased inside foreign content (§13.2.6.2 "adjust
// foreign attributes"/"adjust MathML attributes"/"adjust SVG attributes").
var mathMLAttributeFixups = map[string]string{
	"definitionurl": "definitionURL",
}

var svgAttributeFixups = map[string]string{
	"attributename":     "attributeName",
	"attributetype":     "attributeType",
	"basefrequency":     "baseFrequency",
	"baseprofile":       "baseProfile",
	"calcmode":          "calcMode",
	"clippathunits":     "clipPathUnits",
	"diffuseconstant":   "diffuseConstant",
	"edgemode":          "edgeMode",
	"filterunits":       "filterUnits",
	"glyphref":          "glyphRef",
	"gradienttransform": "gradientTransform",
	"gradientunits":     "gradientUnits",
	"kernelmatrix":      "kernelMatrix",
	"kernelunitlength":  "kernelUnitLength",
	"keypoints":         "keyPoints",
	"keysplines":        "keySplines",
	"keytimes":          "keyTimes",
	"lengthadjust":      "lengthAdjust",
	"limitingconeangle": "limitingConeAngle",
	"markerheight":      "markerHeight",
	"markerunits":       "markerUnits",
	"markerwidth":       "markerWidth",
	"maskcontentunits":  "maskContentUnits",
	"maskunits":         "maskUnits",
	"numoctaves":        "numOctaves",
	"pathlength":        "pathLength",
	"patterncontentunits": "patternContentUnits",
	"patterntransform":  "patternTransform",
	"patternunits":      "patternUnits",
	"pointsatx":         "pointsAtX",
	"pointsaty":         "pointsAtY",
	"pointsatz":         "pointsAtZ",
	"preservealpha":     "preserveAlpha",
	"preserveaspectratio": "preserveAspectRatio",
	"primitiveunits":    "primitiveUnits",
	"refx":              "refX",
	"refy":              "refY",
	"repeatcount":       "repeatCount",
	"repeatdur":         "repeatDur",
	"requiredextensions": "requiredExtensions",
	"requiredfeatures":  "requiredFeatures",
	"specularconstant":  "specularConstant",
	"specularexponent":  "specularExponent",
	"spreadmethod":      "spreadMethod",
	"startoffset":       "startOffset",
	"stddeviation":      "stdDeviation",
	"stitchtiles":       "stitchTiles",
	"surfacescale":      "surfaceScale",
	"systemlanguage":    "systemLanguage",
	"tablevalues":       "tableValues",
	"targetx":           "targetX",
	"targety":           "targetY",
	"textlength":        "textLength",
	"viewbox":           "viewBox",
	"viewtarget":        "viewTarget",
	"xchannelselector":  "xChannelSelector",
	"ychannelselector":  "yChannelSelector",
	"zoomandpan":        "zoomAndPan",
}

// foreignAttributeNamespaces assigns a namespace to the small set of
// attributes HTML5 requires it for inside foreign content (xlink:href
// and friends, §13.2.6.2 "adjust foreign attributes").
var foreignAttributeNamespaces = map[string]Namespace{
	"xlink:actuate": SVGNamespace,
	"xlink:arcrole": SVGNamespace,
	"xlink:href":    SVGNamespace,
	"xlink:role":    SVGNamespace,
	"xlink:show":    SVGNamespace,
	"xlink:title":   SVGNamespace,
	"xlink:type":    SVGNamespace,
	"xml:lang":      SVGNamespace,
	"xml:space":     SVGNamespace,
	"xmlns":         SVGNamespace,
	"xmlns:xlink":   SVGNamespace,
}

// createForeignElement implements HTML5 §13.2.6.2's "insert a foreign
// element", applying the tag/attribute case fixups above for svg/
// mathml.
func (c *Constructor) createForeignElement(t *token.Token, ns Namespace) *Node {
	name := t.TagName
	if ns == SVGNamespace {
		if fixed, ok := svgTagNameFixups[name]; ok {
			name = fixed
		}
	}
	fixed := &token.Token{
		Kind:        t.Kind,
		TagName:     name,
		Attributes:  make([]token.Attribute, len(t.Attributes)),
		SelfClosing: t.SelfClosing,
		Position:    t.Position,
	}
	for i, a := range t.Attributes {
		an := a.Name
		switch ns {
		case MathMLNamespace:
			if v, ok := mathMLAttributeFixups[an]; ok {
				an = v
			}
		case SVGNamespace:
			if v, ok := svgAttributeFixups[an]; ok {
				an = v
			}
		}
		fixed.Attributes[i] = token.Attribute{Name: an, Value: a.Value}
	}
	n := c.createElement(fixed, ns)
	for i := range n.Element.Attributes {
		if fns, ok := foreignAttributeNamespaces[n.Element.Attributes[i].Name]; ok {
			n.Element.Attributes[i].Namespace = fns
		}
	}
	return n
}

// foreignContent implements HTML5 §13.2.6.2's "any other start tag"
// within foreign content (the teacher's tree_constructor.go never
// implements this branch; grounded directly on
// _examples/original_source/src/parser.c's tag_state TAG_STATE for
// SVG/MathML instead).
func (c *Constructor) foreignContent(t *token.Token) {
	switch t.Kind {
	case token.CharacterToken:
		r := []rune(t.Data)[0]
		if r == 0 {
			r = replacementRune
			c.reportParseError(t)
		}
		if isWhitespaceChar(r) {
			c.framesetOKUnaffectedWhitespace()
		} else {
			c.framesetOK = false
		}
		c.insertCharacter(r, isWhitespaceChar(r))
	case token.CommentToken:
		c.insertComment(t)
	case token.StartTagToken:
		tg := tag.Lookup(t.TagName)
		if tag.IsHTMLBreakoutTag(tg) || (tg == tag.Font && hasBreakoutFontAttr(t)) {
			c.popForeignBreakout()
			c.dispatchHTML(t)
			return
		}
		ns := c.adjustedCurrentNode().Element.Namespace
		n := c.createForeignElement(t, ns)
		parent, before := c.appropriatePlaceForInsertion(nil)
		c.insertAt(parent, before, n)
		if !t.SelfClosing {
			c.openElements.push(n)
		} else if tg == tag.Script {
			c.tok.AcknowledgeSelfClosing(t)
		} else {
			c.tok.AcknowledgeSelfClosing(t)
		}
	case token.EndTagToken:
		c.foreignEndTag(t)
	}
}

const replacementRune = '�'

func (c *Constructor) framesetOKUnaffectedWhitespace() {}

func hasBreakoutFontAttr(t *token.Token) bool {
	for _, a := range t.Attributes {
		switch a.Name {
		case "color", "face", "size":
			return true
		}
	}
	return false
}

// popForeignBreakout pops out of foreign content back to an HTML context
// (HTML5's breakout-tag rule) before the breakout tag itself is
// re-dispatched through the ordinary HTML insertion modes.
func (c *Constructor) popForeignBreakout() {
	for !c.openElements.empty() {
		cur := c.currentNode()
		if cur.Kind != ElementKind || cur.Element.Namespace == HTMLNamespace {
			return
		}
		c.openElements.pop()
	}
}

// foreignEndTag implements HTML5's foreign-content end-tag loop: find
// the first open element (case-insensitively) matching the end tag name
// and pop everything above and including it, unless the search reaches
// an HTML element first (in which case dispatch through the ordinary
// HTML modes instead).
func (c *Constructor) foreignEndTag(t *token.Token) {
	if len(c.openElements.elems) == 0 {
		return
	}
	i := len(c.openElements.elems) - 1
	node := c.openElements.elems[i]
	if !lowerASCIIMatch(node, t.TagName) {
		if node.Element.Namespace == HTMLNamespace {
			c.dispatchHTML(t)
			return
		}
	}
	for i >= 0 {
		node = c.openElements.elems[i]
		if lowerASCIIMatch(node, t.TagName) {
			c.openElements.elems = c.openElements.elems[:i]
			return
		}
		i--
		if i < 0 {
			return
		}
		if c.openElements.elems[i].Element.Namespace == HTMLNamespace {
			c.dispatchHTML(t)
			return
		}
	}
}

func lowerASCIIMatch(n *Node, name string) bool {
	return n.Kind == ElementKind && lowerASCIIString(n.Element.Name) == lowerASCIIString(name)
}

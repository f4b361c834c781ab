// Package tag implements the case-insensitive tag-name lookup described in
// spec.md §4.6: a fixed, build-time table mapping tag text to a compact
// enum, plus the reverse (canonical lowercase) mapping. Grounded on
// gumbo-parser's src/tag.c / include/gumbo/gumbo.h tag enum (the list of
// special-category and foreign-content tags also mirrors the teacher's
// isSpecial table in parser/tree_constructor.go).
package tag

// Tag is the compact tag enum. The zero value, Unknown, is the sentinel
// for any tag text outside the fixed table; the original text is still
// retained on the element node (spec.md §3), only the enum is lost.
type Tag int

const (
	Unknown Tag = iota
	A
	Abbr
	Acronym
	Address
	Applet
	Area
	Article
	Aside
	Audio
	B
	Base
	Basefont
	Bdi
	Bdo
	Bgsound
	Big
	Blink
	Blockquote
	Body
	Br
	Button
	Canvas
	Caption
	Center
	Cite
	Code
	Col
	Colgroup
	Command
	Data
	Datalist
	Dd
	Del
	Details
	Dfn
	Dialog
	Dir
	Div
	Dl
	Dt
	Em
	Embed
	Fieldset
	Figcaption
	Figure
	Font
	Footer
	Form
	Frame
	Frameset
	H1
	H2
	H3
	H4
	H5
	H6
	Head
	Header
	Hgroup
	Hr
	HTML
	I
	Iframe
	Image
	Img
	Input
	Ins
	Isindex
	Kbd
	Keygen
	Label
	Legend
	Li
	Link
	Listing
	Main
	Map
	Mark
	Marquee
	Menu
	Menuitem
	Meta
	Meter
	Nav
	Nobr
	Noembed
	Noframes
	Noscript
	Object
	Ol
	Optgroup
	Option
	Output
	P
	Param
	Plaintext
	Pre
	Progress
	Q
	Rp
	Rt
	Ruby
	S
	Samp
	Script
	Section
	Select
	Small
	Source
	Spacer
	Span
	Strike
	Strong
	Style
	Sub
	Summary
	Sup
	Table
	Tbody
	Td
	Template
	Textarea
	Tfoot
	Th
	Thead
	Time
	Title
	Tr
	Track
	Tt
	U
	Ul
	Var
	Video
	Wbr
	Xmp

	// SVG/MathML tags referenced by the foreign-content tables.
	SVG
	MathML
	MI
	MO
	MN
	MS
	MText
	AnnotationXML
	ForeignObject
	Desc
	AltGlyph
)

// byName is consulted after ASCII-lowercasing the candidate tag text.
var byName = map[string]Tag{
	"a": A, "abbr": Abbr, "acronym": Acronym, "address": Address,
	"applet": Applet, "area": Area, "article": Article, "aside": Aside,
	"audio": Audio, "b": B, "base": Base, "basefont": Basefont, "bdi": Bdi,
	"bdo": Bdo, "bgsound": Bgsound, "big": Big, "blink": Blink,
	"blockquote": Blockquote, "body": Body, "br": Br, "button": Button,
	"canvas": Canvas, "caption": Caption, "center": Center, "cite": Cite,
	"code": Code, "col": Col, "colgroup": Colgroup, "command": Command,
	"data": Data, "datalist": Datalist, "dd": Dd, "del": Del,
	"details": Details, "dfn": Dfn, "dialog": Dialog, "dir": Dir, "div": Div,
	"dl": Dl, "dt": Dt, "em": Em, "embed": Embed, "fieldset": Fieldset,
	"figcaption": Figcaption, "figure": Figure, "font": Font, "footer": Footer,
	"form": Form, "frame": Frame, "frameset": Frameset, "h1": H1, "h2": H2,
	"h3": H3, "h4": H4, "h5": H5, "h6": H6, "head": Head, "header": Header,
	"hgroup": Hgroup, "hr": Hr, "html": HTML, "i": I, "iframe": Iframe,
	"image": Image, "img": Img, "input": Input, "ins": Ins, "isindex": Isindex,
	"kbd": Kbd, "keygen": Keygen, "label": Label, "legend": Legend, "li": Li,
	"link": Link, "listing": Listing, "main": Main, "map": Map, "mark": Mark,
	"marquee": Marquee, "menu": Menu, "menuitem": Menuitem, "meta": Meta,
	"meter": Meter, "nav": Nav, "nobr": Nobr, "noembed": Noembed,
	"noframes": Noframes, "noscript": Noscript, "object": Object, "ol": Ol,
	"optgroup": Optgroup, "option": Option, "output": Output, "p": P,
	"param": Param, "plaintext": Plaintext, "pre": Pre, "progress": Progress,
	"q": Q, "rp": Rp, "rt": Rt, "ruby": Ruby, "s": S, "samp": Samp,
	"script": Script, "section": Section, "select": Select, "small": Small,
	"source": Source, "spacer": Spacer, "span": Span, "strike": Strike,
	"strong": Strong, "style": Style, "sub": Sub, "summary": Summary,
	"sup": Sup, "table": Table, "tbody": Tbody, "td": Td, "template": Template,
	"textarea": Textarea, "tfoot": Tfoot, "th": Th, "thead": Thead,
	"time": Time, "title": Title, "tr": Tr, "track": Track, "tt": Tt, "u": U,
	"ul": Ul, "var": Var, "video": Video, "wbr": Wbr, "xmp": Xmp,

	"svg": SVG, "math": MathML, "mi": MI, "mo": MO, "mn": MN, "ms": MS,
	"mtext": MText, "annotation-xml": AnnotationXML,
	"foreignobject": ForeignObject, "desc": Desc, "altglyph": AltGlyph,
}

var byTag map[Tag]string

func init() {
	byTag = make(map[Tag]string, len(byName))
	for name, t := range byName {
		// Two names can map to the same SVG/MathML case-folded tag
		// (e.g. "foreignObject"/"foreignobject"); the table above is
		// already written in canonical lowercase so this is a 1:1
		// round trip for every entry actually present.
		byTag[t] = name
	}
}

func lowerASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 0x20
		}
		b[i] = c
	}
	return string(b)
}

// Lookup returns the Tag for name, accepting arbitrary-case ASCII. It
// returns Unknown for anything outside the fixed table.
func Lookup(name string) Tag {
	if t, ok := byName[lowerASCII(name)]; ok {
		return t
	}
	return Unknown
}

// Name returns the canonical lowercase text for t, or "" for Unknown
// (callers that need the original text for an unknown tag must keep it
// on the element node themselves, per spec.md §3).
func Name(t Tag) string {
	return byTag[t]
}

// special is the set of tags whose presence on the open-element stack
// changes "is special" categorization for the adoption agency algorithm
// (HTML5 §13.2.6.2). Grounded on the teacher's isSpecial in
// parser/tree_constructor.go.
var special = map[Tag]bool{
	Address: true, Applet: true, Area: true, Article: true, Aside: true,
	Base: true, Basefont: true, Bgsound: true, Blockquote: true, Body: true,
	Br: true, Button: true, Caption: true, Center: true, Col: true,
	Colgroup: true, Dd: true, Details: true, Dir: true, Div: true, Dl: true,
	Dt: true, Embed: true, Fieldset: true, Figcaption: true, Figure: true,
	Footer: true, Form: true, Frame: true, Frameset: true, H1: true,
	H2: true, H3: true, H4: true, H5: true, H6: true, Head: true,
	Header: true, Hgroup: true, Hr: true, HTML: true, Iframe: true,
	Img: true, Input: true, Keygen: true, Li: true, Link: true,
	Listing: true, Main: true, Marquee: true, Menu: true, Meta: true,
	Nav: true, Noembed: true, Noframes: true, Noscript: true, Object: true,
	Ol: true, P: true, Param: true, Plaintext: true, Pre: true,
	Script: true, Section: true, Select: true, Source: true, Style: true,
	Summary: true, Table: true, Tbody: true, Td: true, Template: true,
	Textarea: true, Tfoot: true, Th: true, Thead: true, Tr: true,
	Track: true, Ul: true, Wbr: true,
	MI: true, MO: true, MN: true, MS: true, MText: true,
	AnnotationXML: true, ForeignObject: true, Desc: true, Title: true,
}

// IsSpecial reports whether t is in the "special" category, used to find
// the adoption agency algorithm's furthest block and by inBody's walks
// down the stack of open elements.
func IsSpecial(t Tag) bool {
	return special[t]
}

// voidElements never have an end tag or children (HTML5 §13.1.2).
var voidElements = map[Tag]bool{
	Area: true, Base: true, Br: true, Col: true, Embed: true, Hr: true,
	Img: true, Input: true, Link: true, Meta: true, Source: true,
	Track: true, Wbr: true,
}

// IsVoid reports whether t is a void element.
func IsVoid(t Tag) bool {
	return voidElements[t]
}

// htmlBreakoutTags force a walk up the open-element stack out of foreign
// content back to HTML context (HTML5's "any other start tag" rule in
// foreign content, and the explicit breakout list for b/big/.../font-
// with-attrs). Grounded on the teacher's isSpecial list intersected with
// the HTML5 foreign-content breakout set.
var htmlBreakoutTags = map[Tag]bool{
	B: true, Big: true, Blockquote: true, Body: true, Br: true,
	Center: true, Code: true, Dd: true, Div: true, Dl: true, Dt: true,
	Em: true, Embed: true, H1: true, H2: true, H3: true, H4: true,
	H5: true, H6: true, Head: true, Hr: true, I: true, Img: true,
	Li: true, Listing: true, Menu: true, Meta: true, Nobr: true,
	Ol: true, P: true, Pre: true, Ruby: true, S: true, Small: true,
	Span: true, Strong: true, Strike: true, Sub: true, Sup: true,
	Table: true, Tt: true, U: true, Ul: true, Var: true,
}

// IsHTMLBreakoutTag reports whether a start tag named t, seen while inside
// foreign content, should pop back to HTML context.
func IsHTMLBreakoutTag(t Tag) bool {
	return htmlBreakoutTags[t]
}

package tree

import (
	"github.com/sirupsen/logrus"

	"github.com/gohtml5/parser/internal/arena"
	"github.com/gohtml5/parser/internal/cursor"
	"github.com/gohtml5/parser/internal/diag"
	"github.com/gohtml5/parser/internal/tag"
	"github.com/gohtml5/parser/internal/token"
)

// Config carries the subset of html5.Options the tree constructor needs,
// translated by the driver so this package never imports the public
// html5 package (which imports this one).
type Config struct {
	Arena            *arena.Arena
	Log              *logrus.Logger
	ScriptingEnabled bool
	MaxErrors        int
	StopOnFirstError bool
	FragmentContext  tag.Tag
}

// resumer is the subset of *token.Tokenizer the constructor drives;
// narrowed to an interface so constructor tests can stand in a fake.
type resumer interface {
	Resume(override *token.State)
	AcknowledgeSelfClosing(tok *token.Token)
}

// Constructor implements the tree-construction stage (HTML5 §13.2.4),
// grounded on the teacher's HTMLTreeConstructor in
// parser/tree_constructor.go: the struct fields below are its fields
// generalized to this package's Node/tag model. Mode dispatch is a
// switch on c.mode in dispatchHTML rather than the teacher's
// createMappings() map of handlers.
type Constructor struct {
	cfg Config

	Document *Node
	htmlRoot *Node

	quirksMode QuirksMode

	openElements elementStack
	afe          activeFormattingElements

	headElementPointer *Node
	formElementPointer *Node

	mode                   insertionMode
	originalInsertionMode  insertionMode
	stackOfTemplateModes   []insertionMode

	framesetOK      bool
	fosterParenting bool

	// pendingTableChars buffers character tokens seen in inTableText
	// mode until a non-whitespace one forces the "anything else"
	// branch (HTML5 §13.2.6.4.9).
	pendingTableChars []byte
	pendingTableWS    bool

	fragment            bool
	fragmentContextNode *Node
	doneParsing         bool

	Diagnostics []diag.Diagnostic

	tok resumer
}

// New creates a Constructor ready to receive tokens via Run.
func New(cfg Config) *Constructor {
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	c := &Constructor{cfg: cfg, mode: initial, framesetOK: true}
	c.Document = newNode(cfg.Arena, DocumentKind)
	c.Document.Document.QuirksMode = NoQuirks
	c.quirksMode = NoQuirks
	if cfg.FragmentContext != tag.Unknown {
		c.fragment = true
		c.setupFragmentContext(cfg.FragmentContext)
	}
	return c
}

// Root returns the <html> element once it has been created, or nil
// before that point.
func (c *Constructor) Root() *Node { return c.htmlRoot }

// setupFragmentContext implements the parts of "parsing HTML fragments"
// (HTML5 §13.4) needed to drive resetInsertionModeAppropriately from a
// synthetic context element: create the context node, push it and a
// synthetic <html> root, and reset. The public driver rejects a non-zero
// FragmentContext before reaching here (SPEC_FULL.md §6), and no test
// constructs a Constructor with one, so nothing in the module currently
// runs this path.
func (c *Constructor) setupFragmentContext(t tag.Tag) {
	ctx := newElement(c.cfg.Arena, t, tag.Name(t), HTMLNamespace, nil)
	c.fragmentContextNode = ctx

	html := newElement(c.cfg.Arena, tag.HTML, "html", HTMLNamespace, nil)
	c.Document.AppendChild(html)
	c.htmlRoot = html
	c.openElements.push(html)
	c.openElements.push(ctx)

	if t == tag.Form {
		c.formElementPointer = ctx
	}
	c.resetInsertionModeAppropriately()
}

func (c *Constructor) report(kind diag.Kind, pos cursor.Position, payload any) {
	if c.cfg.MaxErrors >= 0 && len(c.Diagnostics) >= c.cfg.MaxErrors {
		return
	}
	c.Diagnostics = append(c.Diagnostics, diag.Diagnostic{
		Kind:     kind,
		Position: pos,
		Payload:  payload,
	})
}

func (c *Constructor) reportParseError(t *token.Token) {
	tags := make([]string, len(c.openElements.elems))
	for i, e := range c.openElements.elems {
		tags[i] = e.TagName()
	}
	c.report(diag.Parser, t.Position, diag.ParserContextPayload{
		InsertionMode: c.mode.String(),
		TokenKind:     tokenKindName(t.Kind),
		OpenTags:      tags,
	})
}

func tokenKindName(k token.Kind) string {
	switch k {
	case token.CharacterToken:
		return "character"
	case token.StartTagToken:
		return "start tag"
	case token.EndTagToken:
		return "end tag"
	case token.CommentToken:
		return "comment"
	case token.DoctypeToken:
		return "doctype"
	case token.EOFToken:
		return "eof"
	}
	return "unknown"
}

// Run drains tok's token channel to completion, building the document
// tree. Matches the teacher's channel-driven loop in
// parser/tree_constructor.go's top-level goroutine, generalized to the
// internal/token handshake (Resume after each token, with a state
// override for RCDATA/RAWTEXT/ScriptData/Plaintext text content).
func (c *Constructor) Run(tokens <-chan *token.Token, tok resumer) {
	d := &deferredResume{resumer: tok}
	c.tok = d
	for t := range tokens {
		d.override = nil
		c.dispatch(t)
		if t.Kind == token.EOFToken {
			break
		}
		tok.Resume(d.override)
	}
}

// deferredResume stands in for the tokenizer while a token is dispatched:
// a mode handler's Resume call only records its state override, and Run
// then sends exactly one Resume per token carrying it.
type deferredResume struct {
	resumer
	override *token.State
}

func (d *deferredResume) Resume(override *token.State) { d.override = override }

// dispatch implements the "tree construction dispatcher" (HTML5
// §13.2.6): foreign content gets its own routing ahead of the ordinary
// insertion-mode table whenever the adjusted current node is a foreign
// element and none of the listed exceptions apply.
func (c *Constructor) dispatch(t *token.Token) {
	if c.useForeignContent(t) {
		c.foreignContent(t)
		return
	}
	c.dispatchHTML(t)
}

func (c *Constructor) dispatchHTML(t *token.Token) {
	switch c.mode {
	case initial:
		c.initialMode(t)
	case beforeHTML:
		c.beforeHTMLMode(t)
	case beforeHead:
		c.beforeHeadMode(t)
	case inHead:
		c.inHeadMode(t)
	case inHeadNoscript:
		c.inHeadNoscriptMode(t)
	case afterHead:
		c.afterHeadMode(t)
	case inBody:
		c.inBodyMode(t)
	case text:
		c.textMode(t)
	case inTable:
		c.inTableMode(t)
	case inTableText:
		c.inTableTextMode(t)
	case inCaption:
		c.inCaptionMode(t)
	case inColumnGroup:
		c.inColumnGroupMode(t)
	case inTableBody:
		c.inTableBodyMode(t)
	case inRow:
		c.inRowMode(t)
	case inCell:
		c.inCellMode(t)
	case inSelect:
		c.inSelectMode(t)
	case inSelectInTable:
		c.inSelectInTableMode(t)
	case inTemplate:
		c.inTemplateMode(t)
	case afterBody:
		c.afterBodyMode(t)
	case inFrameset:
		c.inFramesetMode(t)
	case afterFrameset:
		c.afterFramesetMode(t)
	case afterAfterBody:
		c.afterAfterBodyMode(t)
	case afterAfterFrameset:
		c.afterAfterFramesetMode(t)
	}
}

// --- insertion helpers shared by every mode ---

func (c *Constructor) currentNode() *Node { return c.openElements.current() }

func (c *Constructor) adjustedCurrentNode() *Node {
	if c.fragment && c.openElements.len() == 1 {
		return c.fragmentContextNode
	}
	return c.currentNode()
}

// appropriatePlaceForInsertion implements HTML5 §13.2.6.1's algorithm,
// including the foster-parenting redirect used while fosterParenting is
// set and the current node is table/tbody/tfoot/thead/tr.
func (c *Constructor) appropriatePlaceForInsertion(override *Node) (parent *Node, before *Node) {
	target := override
	if target == nil {
		target = c.currentNode()
	}
	if c.fosterParenting && target.IsAny(tag.Table, tag.Tbody, tag.Tfoot, tag.Thead, tag.Tr) {
		return c.fosterParentTarget(target)
	}
	if target.Kind == ElementKind && target.Element.TemplateContents != nil {
		return target.Element.TemplateContents, nil
	}
	return target, nil
}

// fosterParentTarget walks the stack looking for a <template> (insert
// inside its contents) or a <table> (insert immediately before it in its
// parent, or append to the stack's <html> if the table has no parent),
// per HTML5's foster parenting algorithm.
func (c *Constructor) fosterParentTarget(_ *Node) (*Node, *Node) {
	var lastTemplate, lastTable *Node
	templateIdx, tableIdx := -1, -1
	for i := len(c.openElements.elems) - 1; i >= 0; i-- {
		e := c.openElements.elems[i]
		if lastTemplate == nil && e.Is(tag.Template) {
			lastTemplate, templateIdx = e, i
		}
		if lastTable == nil && e.Is(tag.Table) {
			lastTable, tableIdx = e, i
		}
	}
	if lastTemplate != nil && (lastTable == nil || templateIdx > tableIdx) {
		return lastTemplate.Element.TemplateContents, nil
	}
	if lastTable == nil {
		return c.openElements.elems[0], nil
	}
	if lastTable.Parent != nil {
		return lastTable.Parent, lastTable
	}
	// No parent (the table hasn't been inserted into the document, an
	// edge case the HTML5 algorithm handles by falling back to the
	// element before the table on the stack).
	if tableIdx > 0 {
		return c.openElements.elems[tableIdx-1], nil
	}
	return c.openElements.elems[0], nil
}

func (c *Constructor) insertAt(parent, before, n *Node) {
	if before == nil {
		parent.AppendChild(n)
	} else {
		parent.InsertBefore(n, before)
	}
}

func (c *Constructor) createElement(t *token.Token, ns Namespace) *Node {
	tg := tag.Lookup(t.TagName)
	name := c.cfg.Arena.AllocateString(t.TagName)
	attrs := make([]Attribute, 0, len(t.Attributes))
	for _, a := range t.Attributes {
		attrs = append(attrs, Attribute{
			Name:  c.cfg.Arena.AllocateString(a.Name),
			Value: c.cfg.Arena.AllocateString(a.Value),
		})
	}
	n := newElement(c.cfg.Arena, tg, name, ns, attrs)
	n.Element.SelfClosing = t.SelfClosing
	if tg == tag.Template {
		n.Element.TemplateContents = newNode(c.cfg.Arena, DocumentKind)
	}
	return n
}

// insertHTMLElement implements "insert an HTML element" (HTML5
// §13.2.6.1): create, insert at the appropriate place, and push onto the
// stack of open elements.
func (c *Constructor) insertHTMLElement(t *token.Token) *Node {
	return c.insertElementNS(t, HTMLNamespace)
}

func (c *Constructor) insertElementNS(t *token.Token, ns Namespace) *Node {
	n := c.createElement(t, ns)
	parent, before := c.appropriatePlaceForInsertion(nil)
	c.insertAt(parent, before, n)
	c.openElements.push(n)
	return n
}

// insertCharacter implements "insert a character" (HTML5 §13.2.6.1),
// merging into an existing trailing text/whitespace node when possible
// so runs of character tokens don't create one Node per codepoint.
func (c *Constructor) insertCharacter(r rune, whitespace bool) {
	parent, before := c.appropriatePlaceForInsertion(nil)
	var target *Node
	if before == nil {
		target = parent.LastChild
	} else {
		target = before.PrevSibling
	}
	if whitespace && target != nil && target.Kind == WhitespaceKind {
		target.Whitespace.Text.Data = append(target.Whitespace.Text.Data, []byte(string(r))...)
		return
	}
	if !whitespace && target != nil && target.Kind == TextKind {
		target.Text.Text.Data = append(target.Text.Text.Data, []byte(string(r))...)
		return
	}
	kind := TextKind
	if whitespace {
		kind = WhitespaceKind
	}
	n := newNode(c.cfg.Arena, kind)
	data := []byte(string(r))
	if whitespace {
		n.Whitespace.Text.Data = data
	} else {
		n.Text.Text.Data = data
	}
	c.insertAt(parent, before, n)
}

func (c *Constructor) insertComment(t *token.Token) {
	c.insertCommentAt(t, nil)
}

func (c *Constructor) insertCommentAt(t *token.Token, override *Node) {
	n := newNode(c.cfg.Arena, CommentKind)
	n.Comment.Text.Data = []byte(t.Data)
	parent, before := c.appropriatePlaceForInsertion(override)
	c.insertAt(parent, before, n)
}

// isWhitespaceChar reports whether r is one of HTML5's five ASCII
// whitespace characters used to drive the many "a character token that
// is one of ... " branches.
func isWhitespaceChar(r rune) bool {
	switch r {
	case '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

// stopParsing implements "stop parsing" (HTML5 §13.2.6.4.11): the tree
// constructor's terminal action, reached from EOF in every mode.
func (c *Constructor) stopParsing() {
	c.doneParsing = true
}

// switchTo sets the current insertion mode, the sole mutation point so a
// future change (e.g. logging mode transitions) has one place to hook.
func (c *Constructor) switchTo(m insertionMode) { c.mode = m }

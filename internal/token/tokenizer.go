package token

import (
	"github.com/sirupsen/logrus"

	"github.com/gohtml5/parser/internal/charref"
	"github.com/gohtml5/parser/internal/cursor"
	"github.com/gohtml5/parser/internal/diag"
)

const replacementChar = '�'

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }
func isASCIIAlpha(r rune) bool { return isASCIIUpper(r) || isASCIILower(r) }
func toASCIILower(r rune) rune {
	if isASCIIUpper(r) {
		return r + 0x20
	}
	return r
}
func isWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\f', ' ':
		return true
	}
	return false
}

// Tokenizer implements the HTML5 tokenization state machine, consuming
// codepoints from a *cursor.Cursor and producing Tokens on an unbuffered
// channel. It is driven as a goroutine: after each emitted token it
// blocks on resume for the tree constructor's (possibly overridden) next
// state, the same handshake the teacher expresses with tokChan/stateChan
// in parser/tokenizer.go and parser/fragment.go.
type Tokenizer struct {
	cur   *cursor.Cursor
	state State

	// returnState is where CharacterReferenceState returns to once the
	// reference (if any) has been resolved.
	returnState State

	b                *builder
	lastStartTagName string

	tokens  chan *Token
	resume  chan *State
	pending []*Token

	selfClosingTags []*Token
	Diagnostics     []diag.Diagnostic

	log *logrus.Logger
}

// New creates a Tokenizer over buf. tabStop and log follow
// html5.Options.TabStop/Logger.
func New(buf []byte, tabStop int, log *logrus.Logger) *Tokenizer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Tokenizer{
		cur:    cursor.New(buf, tabStop),
		state:  DataState,
		b:      newBuilder(),
		tokens: make(chan *Token),
		resume: make(chan *State),
		log:    log,
	}
}

// Tokens returns the channel the tree constructor reads emitted tokens
// from. The channel is closed once the EOF token has been sent.
func (t *Tokenizer) Tokens() <-chan *Token { return t.tokens }

// Resume hands control back to the tokenizer after it has emitted a
// token, optionally overriding the state it would otherwise continue in
// (the tree constructor does this to switch into RCDATA/RAWTEXT/
// ScriptData/Plaintext after a start tag like <title> or <script>, per
// HTML5 §13.2.5.1's tree-construction-driven state switch).
func (t *Tokenizer) Resume(override *State) { t.resume <- override }

// SetState sets the state directly, outside the Resume handshake, so it
// is only safe before the tokenizer goroutine starts; nothing in the
// module calls it.
func (t *Tokenizer) SetState(s State) { t.state = s }

// AcknowledgeSelfClosing marks tok (a previously emitted start tag) as
// acknowledged, suppressing the end-of-parse
// diag.UnacknowledgedSelfClosingTag diagnostic for it.
func (t *Tokenizer) AcknowledgeSelfClosing(tok *Token) {
	tok.AcknowledgeSelfClosing()
}

// Run drives the state machine to completion. Call as `go tok.Run()`;
// the caller drains Tokens() and calls Resume() after each one.
func (t *Tokenizer) Run() {
	defer close(t.tokens)
	for {
		if len(t.pending) == 0 {
			r := t.cur.Current()
			eof := r == cursor.EOF
			reconsume, next := t.dispatch(r, eof)
			t.drainCursorDiagnostics()
			if !reconsume && !eof {
				t.cur.Advance()
			}
			t.state = next
			if len(t.pending) == 0 {
				continue
			}
		}

		tok := t.pending[0]
		t.pending = t.pending[1:]

		if tok.Kind == StartTagToken {
			t.lastStartTagName = tok.TagName
			if tok.SelfClosing {
				t.selfClosingTags = append(t.selfClosingTags, tok)
			}
		}

		t.tokens <- tok

		if tok.Kind == EOFToken {
			t.finalize()
			return
		}
		if override := <-t.resume; override != nil {
			t.state = *override
		}
	}
}

func (t *Tokenizer) finalize() {
	for _, tag := range t.selfClosingTags {
		if !tag.selfClosingAcknowledged {
			t.Diagnostics = append(t.Diagnostics, diag.Diagnostic{
				Kind:     diag.UnacknowledgedSelfClosingTag,
				Position: tag.Position,
				Payload:  diag.TextPayload{Text: tag.TagName},
			})
		}
	}
}

func (t *Tokenizer) drainCursorDiagnostics() {
	for _, d := range t.cur.Diagnostics {
		kind := diag.UTF8Invalid
		if d.Kind == cursor.TruncatedUTF8 {
			kind = diag.UTF8Truncated
		}
		t.Diagnostics = append(t.Diagnostics, diag.Diagnostic{
			Kind:         kind,
			Position:     d.Position,
			OriginalText: d.RawBytes,
		})
	}
	t.cur.Diagnostics = t.cur.Diagnostics[:0]
}

func (t *Tokenizer) emit(toks ...*Token) {
	t.pending = append(t.pending, toks...)
}

func (t *Tokenizer) emitChar(r rune) {
	t.emit(characterToken(r, t.cur.Position()))
}

func (t *Tokenizer) emitEOF() {
	t.emit(eofToken(t.cur.Position()))
}

func (t *Tokenizer) isAppropriateEndTag() bool {
	return t.lastStartTagName != "" && t.lastStartTagName == t.b.name.String()
}

// commitAttributeOrReportDup finalizes the attribute under construction,
// reporting a diag.DuplicateAttribute diagnostic (and discarding the
// duplicate) in place of the teacher's bare
// RemoveDuplicateAttributeName bool.
func (t *Tokenizer) commitAttributeOrReportDup() {
	name, origIdx, newIdx, isDup := t.b.commitAttribute()
	if isDup {
		t.Diagnostics = append(t.Diagnostics, diag.Diagnostic{
			Kind:     diag.DuplicateAttribute,
			Position: t.cur.Position(),
			Payload: diag.DuplicateAttributePayload{
				Name:          name,
				OriginalIndex: origIdx,
				NewIndex:      newIdx,
			},
		})
	}
}

func (t *Tokenizer) emitCurrentTag() State {
	pos := t.cur.Position()
	if t.b.kind == EndTagToken {
		t.emit(t.b.endTagToken(pos))
	} else {
		t.emit(t.b.startTagToken(pos))
	}
	return DataState
}

// dispatch runs the handler for the current state and returns whether
// the current codepoint should be reconsumed by the returned state.
func (t *Tokenizer) dispatch(r rune, eof bool) (reconsume bool, next State) {
	switch t.state {
	case DataState:
		return t.dataState(r, eof)
	case RCDataState:
		return t.rcDataState(r, eof)
	case RawTextState:
		return t.rawTextState(r, eof)
	case ScriptDataState:
		return t.scriptDataState(r, eof)
	case PlaintextState:
		return t.plaintextState(r, eof)
	case TagOpenState:
		return t.tagOpenState(r, eof)
	case EndTagOpenState:
		return t.endTagOpenState(r, eof)
	case TagNameState:
		return t.tagNameState(r, eof)
	case RCDataLessThanSignState:
		return t.rcDataLessThanSignState(r, eof)
	case RCDataEndTagOpenState:
		return t.rcDataEndTagOpenState(r, eof)
	case RCDataEndTagNameState:
		return t.rcDataEndTagNameState(r, eof)
	case RawTextLessThanSignState:
		return t.rawTextLessThanSignState(r, eof)
	case RawTextEndTagOpenState:
		return t.rawTextEndTagOpenState(r, eof)
	case RawTextEndTagNameState:
		return t.rawTextEndTagNameState(r, eof)
	case ScriptDataLessThanSignState:
		return t.scriptDataLessThanSignState(r, eof)
	case ScriptDataEndTagOpenState:
		return t.scriptDataEndTagOpenState(r, eof)
	case ScriptDataEndTagNameState:
		return t.scriptDataEndTagNameState(r, eof)
	case ScriptDataEscapeStartState:
		return t.scriptDataEscapeStartState(r, eof)
	case ScriptDataEscapeStartDashState:
		return t.scriptDataEscapeStartDashState(r, eof)
	case ScriptDataEscapedState:
		return t.scriptDataEscapedState(r, eof)
	case ScriptDataEscapedDashState:
		return t.scriptDataEscapedDashState(r, eof)
	case ScriptDataEscapedDashDashState:
		return t.scriptDataEscapedDashDashState(r, eof)
	case ScriptDataEscapedLessThanSignState:
		return t.scriptDataEscapedLessThanSignState(r, eof)
	case ScriptDataEscapedEndTagOpenState:
		return t.scriptDataEscapedEndTagOpenState(r, eof)
	case ScriptDataEscapedEndTagNameState:
		return t.scriptDataEscapedEndTagNameState(r, eof)
	case ScriptDataDoubleEscapeStartState:
		return t.scriptDataDoubleEscapeStartState(r, eof)
	case ScriptDataDoubleEscapedState:
		return t.scriptDataDoubleEscapedState(r, eof)
	case ScriptDataDoubleEscapedDashState:
		return t.scriptDataDoubleEscapedDashState(r, eof)
	case ScriptDataDoubleEscapedDashDashState:
		return t.scriptDataDoubleEscapedDashDashState(r, eof)
	case ScriptDataDoubleEscapedLessThanSignState:
		return t.scriptDataDoubleEscapedLessThanSignState(r, eof)
	case ScriptDataDoubleEscapeEndState:
		return t.scriptDataDoubleEscapeEndState(r, eof)
	case BeforeAttributeNameState:
		return t.beforeAttributeNameState(r, eof)
	case AttributeNameState:
		return t.attributeNameState(r, eof)
	case AfterAttributeNameState:
		return t.afterAttributeNameState(r, eof)
	case BeforeAttributeValueState:
		return t.beforeAttributeValueState(r, eof)
	case AttributeValueDoubleQuotedState:
		return t.attributeValueDoubleQuotedState(r, eof)
	case AttributeValueSingleQuotedState:
		return t.attributeValueSingleQuotedState(r, eof)
	case AttributeValueUnquotedState:
		return t.attributeValueUnquotedState(r, eof)
	case AfterAttributeValueQuotedState:
		return t.afterAttributeValueQuotedState(r, eof)
	case SelfClosingStartTagState:
		return t.selfClosingStartTagState(r, eof)
	case BogusCommentState:
		return t.bogusCommentState(r, eof)
	case MarkupDeclarationOpenState:
		return t.markupDeclarationOpenState(r, eof)
	case CommentStartState:
		return t.commentStartState(r, eof)
	case CommentStartDashState:
		return t.commentStartDashState(r, eof)
	case CommentState:
		return t.commentState(r, eof)
	case CommentLessThanSignState:
		return t.commentLessThanSignState(r, eof)
	case CommentLessThanSignBangState:
		return t.commentLessThanSignBangState(r, eof)
	case CommentLessThanSignBangDashState:
		return t.commentLessThanSignBangDashState(r, eof)
	case CommentLessThanSignBangDashDashState:
		return t.commentLessThanSignBangDashDashState(r, eof)
	case CommentEndDashState:
		return t.commentEndDashState(r, eof)
	case CommentEndState:
		return t.commentEndState(r, eof)
	case CommentEndBangState:
		return t.commentEndBangState(r, eof)
	case DoctypeState:
		return t.doctypeState(r, eof)
	case BeforeDoctypeNameState:
		return t.beforeDoctypeNameState(r, eof)
	case DoctypeNameState:
		return t.doctypeNameState(r, eof)
	case AfterDoctypeNameState:
		return t.afterDoctypeNameState(r, eof)
	case AfterDoctypePublicKeywordState:
		return t.afterDoctypePublicKeywordState(r, eof)
	case BeforeDoctypePublicIdentifierState:
		return t.beforeDoctypePublicIdentifierState(r, eof)
	case DoctypePublicIdentifierDoubleQuotedState:
		return t.doctypePublicIdentifierDoubleQuotedState(r, eof)
	case DoctypePublicIdentifierSingleQuotedState:
		return t.doctypePublicIdentifierSingleQuotedState(r, eof)
	case AfterDoctypePublicIdentifierState:
		return t.afterDoctypePublicIdentifierState(r, eof)
	case BetweenDoctypePublicAndSystemIdentifiersState:
		return t.betweenDoctypePublicAndSystemIdentifiersState(r, eof)
	case AfterDoctypeSystemKeywordState:
		return t.afterDoctypeSystemKeywordState(r, eof)
	case BeforeDoctypeSystemIdentifierState:
		return t.beforeDoctypeSystemIdentifierState(r, eof)
	case DoctypeSystemIdentifierDoubleQuotedState:
		return t.doctypeSystemIdentifierDoubleQuotedState(r, eof)
	case DoctypeSystemIdentifierSingleQuotedState:
		return t.doctypeSystemIdentifierSingleQuotedState(r, eof)
	case AfterDoctypeSystemIdentifierState:
		return t.afterDoctypeSystemIdentifierState(r, eof)
	case BogusDoctypeState:
		return t.bogusDoctypeState(r, eof)
	case CDataSectionState:
		return t.cdataSectionState(r, eof)
	case CDataSectionBracketState:
		return t.cdataSectionBracketState(r, eof)
	case CDataSectionEndState:
		return t.cdataSectionEndState(r, eof)
	case CharacterReferenceState:
		return t.characterReferenceState(r, eof)
	}
	t.log.WithField("state", t.state).Warn("token: unhandled state, treating as data")
	return false, DataState
}

// --- data / rcdata / rawtext / script data / plaintext -------------------

func (t *Tokenizer) dataState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '&':
		t.returnState = DataState
		return false, CharacterReferenceState
	case '<':
		return false, TagOpenState
	default:
		t.emitChar(r)
		return false, DataState
	}
}

func (t *Tokenizer) rcDataState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '&':
		t.returnState = RCDataState
		return false, CharacterReferenceState
	case '<':
		return false, RCDataLessThanSignState
	case '\x00':
		t.emitChar(replacementChar)
		return false, RCDataState
	default:
		t.emitChar(r)
		return false, RCDataState
	}
}

func (t *Tokenizer) rawTextState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '<':
		return false, RawTextLessThanSignState
	case '\x00':
		t.emitChar(replacementChar)
		return false, RawTextState
	default:
		t.emitChar(r)
		return false, RawTextState
	}
}

func (t *Tokenizer) scriptDataState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '<':
		return false, ScriptDataLessThanSignState
	case '\x00':
		t.emitChar(replacementChar)
		return false, ScriptDataState
	default:
		t.emitChar(r)
		return false, ScriptDataState
	}
}

func (t *Tokenizer) plaintextState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	if r == '\x00' {
		t.emitChar(replacementChar)
	} else {
		t.emitChar(r)
	}
	return false, PlaintextState
}

// --- tag open / names -----------------------------------------------------

func (t *Tokenizer) tagOpenState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitChar('<')
		t.emitEOF()
		return false, DataState
	}
	switch {
	case r == '!':
		return false, MarkupDeclarationOpenState
	case r == '/':
		return false, EndTagOpenState
	case isASCIIAlpha(r):
		t.b.reset()
		t.b.kind = StartTagToken
		return true, TagNameState
	case r == '?':
		t.b.reset()
		t.b.kind = CommentToken
		return true, BogusCommentState
	default:
		t.emitChar('<')
		return true, DataState
	}
}

func (t *Tokenizer) endTagOpenState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitChar('<')
		t.emitChar('/')
		t.emitEOF()
		return false, DataState
	}
	switch {
	case isASCIIAlpha(r):
		t.b.reset()
		t.b.kind = EndTagToken
		return true, TagNameState
	case r == '>':
		return false, DataState
	default:
		t.b.reset()
		t.b.kind = CommentToken
		return true, BogusCommentState
	}
}

func (t *Tokenizer) tagNameState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, BeforeAttributeNameState
	case r == '/':
		return false, SelfClosingStartTagState
	case r == '>':
		return false, t.emitCurrentTag()
	case isASCIIUpper(r):
		t.b.name.WriteRune(toASCIILower(r))
		return false, TagNameState
	case r == '\x00':
		t.b.name.WriteRune(replacementChar)
		return false, TagNameState
	default:
		t.b.name.WriteRune(r)
		return false, TagNameState
	}
}

// --- RCDATA end tag (title/textarea) --------------------------------------

func (t *Tokenizer) rcDataLessThanSignState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitChar('<')
		return true, RCDataState
	}
	if r == '/' {
		t.b.tempBuffer.Reset()
		return false, RCDataEndTagOpenState
	}
	t.emitChar('<')
	return true, RCDataState
}

func (t *Tokenizer) rcDataEndTagOpenState(r rune, eof bool) (bool, State) {
	if !eof && isASCIIAlpha(r) {
		t.b.reset()
		t.b.kind = EndTagToken
		return true, RCDataEndTagNameState
	}
	t.emitChar('<')
	t.emitChar('/')
	return true, RCDataState
}

func (t *Tokenizer) rcDataEndTagNameState(r rune, eof bool) (bool, State) {
	defaultCase := func() (bool, State) {
		t.emitChar('<')
		t.emitChar('/')
		for _, c := range t.b.tempBuffer.String() {
			t.emitChar(c)
		}
		return true, RCDataState
	}
	if eof {
		return defaultCase()
	}
	switch {
	case isWhitespace(r):
		if t.isAppropriateEndTag() {
			return false, BeforeAttributeNameState
		}
		return defaultCase()
	case r == '/':
		if t.isAppropriateEndTag() {
			return false, SelfClosingStartTagState
		}
		return defaultCase()
	case r == '>':
		if t.isAppropriateEndTag() {
			return false, t.emitCurrentTag()
		}
		return defaultCase()
	case isASCIIUpper(r):
		t.b.tempBuffer.WriteRune(r)
		t.b.name.WriteRune(toASCIILower(r))
		return false, RCDataEndTagNameState
	case isASCIILower(r):
		t.b.tempBuffer.WriteRune(r)
		t.b.name.WriteRune(r)
		return false, RCDataEndTagNameState
	default:
		return defaultCase()
	}
}

// --- RAWTEXT end tag (style/xmp/iframe/noembed/noframes) ------------------

func (t *Tokenizer) rawTextLessThanSignState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitChar('<')
		return true, RawTextState
	}
	if r == '/' {
		t.b.tempBuffer.Reset()
		return false, RawTextEndTagOpenState
	}
	t.emitChar('<')
	return true, RawTextState
}

func (t *Tokenizer) rawTextEndTagOpenState(r rune, eof bool) (bool, State) {
	if !eof && isASCIIAlpha(r) {
		t.b.reset()
		t.b.kind = EndTagToken
		return true, RawTextEndTagNameState
	}
	t.emitChar('<')
	t.emitChar('/')
	return true, RawTextState
}

func (t *Tokenizer) rawTextEndTagNameState(r rune, eof bool) (bool, State) {
	defaultCase := func() (bool, State) {
		t.emitChar('<')
		t.emitChar('/')
		for _, c := range t.b.tempBuffer.String() {
			t.emitChar(c)
		}
		return true, RawTextState
	}
	if eof {
		return defaultCase()
	}
	switch {
	case isWhitespace(r):
		if t.isAppropriateEndTag() {
			return false, BeforeAttributeNameState
		}
		return defaultCase()
	case r == '/':
		if t.isAppropriateEndTag() {
			return false, SelfClosingStartTagState
		}
		return defaultCase()
	case r == '>':
		if t.isAppropriateEndTag() {
			return false, t.emitCurrentTag()
		}
		return defaultCase()
	case isASCIIUpper(r):
		t.b.tempBuffer.WriteRune(r)
		t.b.name.WriteRune(toASCIILower(r))
		return false, RawTextEndTagNameState
	case isASCIILower(r):
		t.b.tempBuffer.WriteRune(r)
		t.b.name.WriteRune(r)
		return false, RawTextEndTagNameState
	default:
		return defaultCase()
	}
}

// --- script data and its escape sub-states --------------------------------

func (t *Tokenizer) scriptDataLessThanSignState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitChar('<')
		return true, ScriptDataState
	}
	switch r {
	case '/':
		t.b.tempBuffer.Reset()
		return false, ScriptDataEndTagOpenState
	case '!':
		t.emitChar('<')
		t.emitChar('!')
		return false, ScriptDataEscapeStartState
	default:
		t.emitChar('<')
		return true, ScriptDataState
	}
}

func (t *Tokenizer) scriptDataEndTagOpenState(r rune, eof bool) (bool, State) {
	if !eof && isASCIIAlpha(r) {
		t.b.reset()
		t.b.kind = EndTagToken
		return true, ScriptDataEndTagNameState
	}
	t.emitChar('<')
	t.emitChar('/')
	return true, ScriptDataState
}

func (t *Tokenizer) scriptDataEndTagNameState(r rune, eof bool) (bool, State) {
	defaultCase := func() (bool, State) {
		t.emitChar('<')
		t.emitChar('/')
		for _, c := range t.b.tempBuffer.String() {
			t.emitChar(c)
		}
		return true, ScriptDataState
	}
	if eof {
		return defaultCase()
	}
	switch {
	case isWhitespace(r):
		if t.isAppropriateEndTag() {
			return false, BeforeAttributeNameState
		}
		return defaultCase()
	case r == '/':
		if t.isAppropriateEndTag() {
			return false, SelfClosingStartTagState
		}
		return defaultCase()
	case r == '>':
		if t.isAppropriateEndTag() {
			return false, t.emitCurrentTag()
		}
		return defaultCase()
	case isASCIIUpper(r):
		t.b.tempBuffer.WriteRune(r)
		t.b.name.WriteRune(toASCIILower(r))
		return false, ScriptDataEndTagNameState
	case isASCIILower(r):
		t.b.tempBuffer.WriteRune(r)
		t.b.name.WriteRune(r)
		return false, ScriptDataEndTagNameState
	default:
		return defaultCase()
	}
}

func (t *Tokenizer) scriptDataEscapeStartState(r rune, eof bool) (bool, State) {
	if !eof && r == '-' {
		t.emitChar('-')
		return false, ScriptDataEscapeStartDashState
	}
	return true, ScriptDataState
}

func (t *Tokenizer) scriptDataEscapeStartDashState(r rune, eof bool) (bool, State) {
	if !eof && r == '-' {
		t.emitChar('-')
		return false, ScriptDataEscapedDashDashState
	}
	return true, ScriptDataState
}

func (t *Tokenizer) scriptDataEscapedState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '-':
		t.emitChar('-')
		return false, ScriptDataEscapedDashState
	case '<':
		return false, ScriptDataEscapedLessThanSignState
	case '\x00':
		t.emitChar(replacementChar)
		return false, ScriptDataEscapedState
	default:
		t.emitChar(r)
		return false, ScriptDataEscapedState
	}
}

func (t *Tokenizer) scriptDataEscapedDashState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '-':
		t.emitChar('-')
		return false, ScriptDataEscapedDashDashState
	case '<':
		return false, ScriptDataEscapedLessThanSignState
	case '\x00':
		t.emitChar(replacementChar)
		return false, ScriptDataEscapedState
	default:
		t.emitChar(r)
		return false, ScriptDataEscapedState
	}
}

func (t *Tokenizer) scriptDataEscapedDashDashState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '-':
		t.emitChar('-')
		return false, ScriptDataEscapedDashDashState
	case '<':
		return false, ScriptDataEscapedLessThanSignState
	case '>':
		t.emitChar('>')
		return false, ScriptDataState
	case '\x00':
		t.emitChar(replacementChar)
		return false, ScriptDataEscapedState
	default:
		t.emitChar(r)
		return false, ScriptDataEscapedState
	}
}

func (t *Tokenizer) scriptDataEscapedLessThanSignState(r rune, eof bool) (bool, State) {
	if !eof {
		switch {
		case r == '/':
			t.b.tempBuffer.Reset()
			return false, ScriptDataEscapedEndTagOpenState
		case isASCIIAlpha(r):
			t.b.tempBuffer.Reset()
			t.emitChar('<')
			return true, ScriptDataDoubleEscapeStartState
		}
	}
	t.emitChar('<')
	return true, ScriptDataEscapedState
}

func (t *Tokenizer) scriptDataEscapedEndTagOpenState(r rune, eof bool) (bool, State) {
	if !eof && isASCIIAlpha(r) {
		t.b.reset()
		t.b.kind = EndTagToken
		return true, ScriptDataEscapedEndTagNameState
	}
	t.emitChar('<')
	t.emitChar('/')
	return true, ScriptDataEscapedState
}

func (t *Tokenizer) scriptDataEscapedEndTagNameState(r rune, eof bool) (bool, State) {
	defaultCase := func() (bool, State) {
		t.emitChar('<')
		t.emitChar('/')
		for _, c := range t.b.tempBuffer.String() {
			t.emitChar(c)
		}
		return true, ScriptDataEscapedState
	}
	if eof {
		return defaultCase()
	}
	switch {
	case isWhitespace(r):
		if t.isAppropriateEndTag() {
			return false, BeforeAttributeNameState
		}
		return defaultCase()
	case r == '/':
		if t.isAppropriateEndTag() {
			return false, SelfClosingStartTagState
		}
		return defaultCase()
	case r == '>':
		if t.isAppropriateEndTag() {
			return false, t.emitCurrentTag()
		}
		return defaultCase()
	case isASCIIUpper(r):
		t.b.tempBuffer.WriteRune(r)
		t.b.name.WriteRune(toASCIILower(r))
		return false, ScriptDataEscapedEndTagNameState
	case isASCIILower(r):
		t.b.tempBuffer.WriteRune(r)
		t.b.name.WriteRune(r)
		return false, ScriptDataEscapedEndTagNameState
	default:
		return defaultCase()
	}
}

func (t *Tokenizer) scriptDataDoubleEscapeStartState(r rune, eof bool) (bool, State) {
	if !eof {
		switch {
		case isWhitespace(r), r == '/', r == '>':
			t.emitChar(r)
			if t.b.tempBuffer.String() == "script" {
				return false, ScriptDataDoubleEscapedState
			}
			return false, ScriptDataEscapedState
		case isASCIIUpper(r):
			t.emitChar(r)
			t.b.tempBuffer.WriteRune(toASCIILower(r))
			return false, ScriptDataDoubleEscapeStartState
		case isASCIILower(r):
			t.emitChar(r)
			t.b.tempBuffer.WriteRune(r)
			return false, ScriptDataDoubleEscapeStartState
		}
	}
	return true, ScriptDataEscapedState
}

func (t *Tokenizer) scriptDataDoubleEscapedState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '-':
		t.emitChar('-')
		return false, ScriptDataDoubleEscapedDashState
	case '<':
		t.emitChar('<')
		return false, ScriptDataDoubleEscapedLessThanSignState
	case '\x00':
		t.emitChar(replacementChar)
		return false, ScriptDataDoubleEscapedState
	default:
		t.emitChar(r)
		return false, ScriptDataDoubleEscapedState
	}
}

func (t *Tokenizer) scriptDataDoubleEscapedDashState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '-':
		t.emitChar('-')
		return false, ScriptDataDoubleEscapedDashDashState
	case '<':
		t.emitChar('<')
		return false, ScriptDataDoubleEscapedLessThanSignState
	case '\x00':
		t.emitChar(replacementChar)
		return false, ScriptDataDoubleEscapedState
	default:
		t.emitChar(r)
		return false, ScriptDataDoubleEscapedState
	}
}

func (t *Tokenizer) scriptDataDoubleEscapedDashDashState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '-':
		t.emitChar('-')
		return false, ScriptDataDoubleEscapedDashDashState
	case '<':
		t.emitChar('<')
		return false, ScriptDataDoubleEscapedLessThanSignState
	case '>':
		t.emitChar('>')
		return false, ScriptDataState
	case '\x00':
		t.emitChar(replacementChar)
		return false, ScriptDataDoubleEscapedState
	default:
		t.emitChar(r)
		return false, ScriptDataDoubleEscapedState
	}
}

func (t *Tokenizer) scriptDataDoubleEscapedLessThanSignState(r rune, eof bool) (bool, State) {
	if !eof && r == '/' {
		t.b.tempBuffer.Reset()
		t.emitChar('/')
		return false, ScriptDataDoubleEscapeEndState
	}
	return true, ScriptDataDoubleEscapedState
}

func (t *Tokenizer) scriptDataDoubleEscapeEndState(r rune, eof bool) (bool, State) {
	if !eof {
		switch {
		case isWhitespace(r), r == '/', r == '>':
			t.emitChar(r)
			if t.b.tempBuffer.String() == "script" {
				return false, ScriptDataEscapedState
			}
			return false, ScriptDataDoubleEscapedState
		case isASCIIUpper(r):
			t.emitChar(r)
			t.b.tempBuffer.WriteRune(toASCIILower(r))
			return false, ScriptDataDoubleEscapeEndState
		case isASCIILower(r):
			t.emitChar(r)
			t.b.tempBuffer.WriteRune(r)
			return false, ScriptDataDoubleEscapeEndState
		}
	}
	return true, ScriptDataDoubleEscapedState
}

// --- attributes ------------------------------------------------------------

func (t *Tokenizer) beforeAttributeNameState(r rune, eof bool) (bool, State) {
	if eof {
		return true, AfterAttributeNameState
	}
	switch {
	case isWhitespace(r):
		return false, BeforeAttributeNameState
	case r == '/', r == '>':
		return true, AfterAttributeNameState
	case r == '=':
		t.b.startAttribute()
		t.b.attrName.WriteRune(r)
		return false, AttributeNameState
	default:
		t.b.startAttribute()
		return true, AttributeNameState
	}
}

func (t *Tokenizer) attributeNameState(r rune, eof bool) (bool, State) {
	if eof {
		t.commitAttributeOrReportDup()
		return true, AfterAttributeNameState
	}
	switch {
	case isWhitespace(r), r == '/', r == '>':
		t.commitAttributeOrReportDup()
		return true, AfterAttributeNameState
	case r == '=':
		return false, BeforeAttributeValueState
	case isASCIIUpper(r):
		t.b.attrName.WriteRune(toASCIILower(r))
		return false, AttributeNameState
	case r == '\x00':
		t.b.attrName.WriteRune(replacementChar)
		return false, AttributeNameState
	default:
		t.b.attrName.WriteRune(r)
		return false, AttributeNameState
	}
}

func (t *Tokenizer) afterAttributeNameState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, AfterAttributeNameState
	case r == '/':
		return false, SelfClosingStartTagState
	case r == '=':
		return false, BeforeAttributeValueState
	case r == '>':
		return false, t.emitCurrentTag()
	default:
		t.b.startAttribute()
		return true, AttributeNameState
	}
}

func (t *Tokenizer) beforeAttributeValueState(r rune, eof bool) (bool, State) {
	if eof {
		return true, AttributeValueUnquotedState
	}
	switch r {
	case '\t', '\n', '\f', ' ':
		return false, BeforeAttributeValueState
	case '"':
		return false, AttributeValueDoubleQuotedState
	case '\'':
		return false, AttributeValueSingleQuotedState
	case '>':
		t.commitAttributeOrReportDup()
		return false, t.emitCurrentTag()
	default:
		return true, AttributeValueUnquotedState
	}
}

func (t *Tokenizer) attributeValueDoubleQuotedState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '"':
		t.commitAttributeOrReportDup()
		return false, AfterAttributeValueQuotedState
	case '&':
		t.returnState = AttributeValueDoubleQuotedState
		return false, CharacterReferenceState
	case '\x00':
		t.b.attrValue.WriteRune(replacementChar)
		return false, AttributeValueDoubleQuotedState
	default:
		t.b.attrValue.WriteRune(r)
		return false, AttributeValueDoubleQuotedState
	}
}

func (t *Tokenizer) attributeValueSingleQuotedState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '\'':
		t.commitAttributeOrReportDup()
		return false, AfterAttributeValueQuotedState
	case '&':
		t.returnState = AttributeValueSingleQuotedState
		return false, CharacterReferenceState
	case '\x00':
		t.b.attrValue.WriteRune(replacementChar)
		return false, AttributeValueSingleQuotedState
	default:
		t.b.attrValue.WriteRune(r)
		return false, AttributeValueSingleQuotedState
	}
}

func (t *Tokenizer) attributeValueUnquotedState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '\t', '\n', '\f', ' ':
		t.commitAttributeOrReportDup()
		return false, BeforeAttributeNameState
	case '&':
		t.returnState = AttributeValueUnquotedState
		return false, CharacterReferenceState
	case '>':
		t.commitAttributeOrReportDup()
		return false, t.emitCurrentTag()
	case '\x00':
		t.b.attrValue.WriteRune(replacementChar)
		return false, AttributeValueUnquotedState
	default:
		t.b.attrValue.WriteRune(r)
		return false, AttributeValueUnquotedState
	}
}

func (t *Tokenizer) afterAttributeValueQuotedState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '\t', '\n', '\f', ' ':
		return false, BeforeAttributeNameState
	case '/':
		return false, SelfClosingStartTagState
	case '>':
		return false, t.emitCurrentTag()
	default:
		return true, BeforeAttributeNameState
	}
}

func (t *Tokenizer) selfClosingStartTagState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	if r == '>' {
		t.b.selfClosing = true
		return false, t.emitCurrentTag()
	}
	return true, BeforeAttributeNameState
}

// --- comments, markup declaration, bogus comment --------------------------

func (t *Tokenizer) bogusCommentState(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.commentToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '>':
		t.emit(t.b.commentToken(t.cur.Position()))
		return false, DataState
	case '\x00':
		t.b.data.WriteRune(replacementChar)
		return false, BogusCommentState
	default:
		t.b.data.WriteRune(r)
		return false, BogusCommentState
	}
}

func (t *Tokenizer) markupDeclarationOpenState(r rune, eof bool) (bool, State) {
	def := func() (bool, State) {
		t.b.reset()
		t.b.kind = CommentToken
		return true, BogusCommentState
	}
	if eof {
		return def()
	}
	// r itself is still unconsumed at this point (the driver only advances
	// past it if the handler returns reconsume=false), so every match below
	// checks the full marker - including r - from the cursor's current
	// position, then reconsumes (true) since LookaheadMatch already walked
	// the cursor past whatever it matched.
	switch r {
	case '-':
		if t.cur.LookaheadMatch("--", true) {
			t.b.reset()
			t.b.kind = CommentToken
			return true, CommentStartState
		}
		return def()
	case 'D', 'd':
		if t.cur.LookaheadMatch("DOCTYPE", false) {
			return true, DoctypeState
		}
		return def()
	case '[':
		if t.cur.LookaheadMatch("[CDATA[", true) {
			return true, CDataSectionState
		}
		return def()
	default:
		return def()
	}
}

func (t *Tokenizer) commentStartState(r rune, eof bool) (bool, State) {
	if eof {
		return true, CommentState
	}
	switch r {
	case '-':
		return false, CommentStartDashState
	case '>':
		t.emit(t.b.commentToken(t.cur.Position()))
		return false, DataState
	default:
		return true, CommentState
	}
}

func (t *Tokenizer) commentStartDashState(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.commentToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '-':
		return false, CommentEndState
	case '>':
		t.emit(t.b.commentToken(t.cur.Position()))
		return false, DataState
	default:
		t.b.data.WriteRune('-')
		return true, CommentState
	}
}

func (t *Tokenizer) commentState(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.commentToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '<':
		t.b.data.WriteRune(r)
		return false, CommentLessThanSignState
	case '-':
		return false, CommentEndDashState
	case '\x00':
		t.b.data.WriteRune(replacementChar)
		return false, CommentState
	default:
		t.b.data.WriteRune(r)
		return false, CommentState
	}
}

func (t *Tokenizer) commentLessThanSignState(r rune, eof bool) (bool, State) {
	if eof {
		return true, CommentState
	}
	switch r {
	case '!':
		t.b.data.WriteRune(r)
		return false, CommentLessThanSignBangState
	case '<':
		t.b.data.WriteRune(r)
		return false, CommentLessThanSignState
	default:
		return true, CommentState
	}
}

func (t *Tokenizer) commentLessThanSignBangState(r rune, eof bool) (bool, State) {
	if !eof && r == '-' {
		return false, CommentLessThanSignBangDashState
	}
	return true, CommentState
}

func (t *Tokenizer) commentLessThanSignBangDashState(r rune, eof bool) (bool, State) {
	if !eof && r == '-' {
		return false, CommentLessThanSignBangDashDashState
	}
	return true, CommentEndDashState
}

func (t *Tokenizer) commentLessThanSignBangDashDashState(r rune, eof bool) (bool, State) {
	return true, CommentEndState
}

func (t *Tokenizer) commentEndDashState(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.commentToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	if r == '-' {
		return false, CommentEndState
	}
	t.b.data.WriteRune('-')
	return true, CommentState
}

func (t *Tokenizer) commentEndState(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.commentToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '>':
		t.emit(t.b.commentToken(t.cur.Position()))
		return false, DataState
	case '!':
		return false, CommentEndBangState
	case '-':
		t.b.data.WriteRune('-')
		return false, CommentEndState
	default:
		t.b.data.WriteRune('-')
		t.b.data.WriteRune('-')
		return true, CommentState
	}
}

func (t *Tokenizer) commentEndBangState(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.commentToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '-':
		t.b.data.WriteString("--!")
		return false, CommentEndDashState
	case '>':
		t.emit(t.b.commentToken(t.cur.Position()))
		return false, DataState
	default:
		t.b.data.WriteString("--!")
		return true, CommentState
	}
}

// --- DOCTYPE ----------------------------------------------------------------

func (t *Tokenizer) doctypeState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.reset()
		t.b.kind = DoctypeToken
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	t.b.reset()
	t.b.kind = DoctypeToken
	if isWhitespace(r) {
		return false, BeforeDoctypeNameState
	}
	return true, BeforeDoctypeNameState
}

func (t *Tokenizer) beforeDoctypeNameState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, BeforeDoctypeNameState
	case isASCIIUpper(r):
		t.b.name.WriteRune(toASCIILower(r))
		return false, DoctypeNameState
	case r == '\x00':
		t.b.name.WriteRune(replacementChar)
		return false, DoctypeNameState
	case r == '>':
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	default:
		t.b.name.WriteRune(r)
		return false, DoctypeNameState
	}
}

func (t *Tokenizer) doctypeNameState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, AfterDoctypeNameState
	case r == '>':
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	case isASCIIUpper(r):
		t.b.name.WriteRune(toASCIILower(r))
		return false, DoctypeNameState
	case r == '\x00':
		t.b.name.WriteRune(replacementChar)
		return false, DoctypeNameState
	default:
		t.b.name.WriteRune(r)
		return false, DoctypeNameState
	}
}

func (t *Tokenizer) afterDoctypeNameState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch {
	case isWhitespace(r):
		return false, AfterDoctypeNameState
	case r == '>':
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	case r == 'P', r == 'p':
		if t.cur.LookaheadMatch("PUBLIC", false) {
			return true, AfterDoctypePublicKeywordState
		}
		t.b.forceQuirks = true
		return true, BogusDoctypeState
	case r == 'S', r == 's':
		if t.cur.LookaheadMatch("SYSTEM", false) {
			return true, AfterDoctypeSystemKeywordState
		}
		t.b.forceQuirks = true
		return true, BogusDoctypeState
	default:
		t.b.forceQuirks = true
		return true, BogusDoctypeState
	}
}

func (t *Tokenizer) afterDoctypePublicKeywordState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '\t', '\n', '\f', ' ':
		return false, BeforeDoctypePublicIdentifierState
	case '"':
		t.b.hasPublicID = true
		return false, DoctypePublicIdentifierDoubleQuotedState
	case '\'':
		t.b.hasPublicID = true
		return false, DoctypePublicIdentifierSingleQuotedState
	case '>':
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	default:
		t.b.forceQuirks = true
		return true, BogusDoctypeState
	}
}

func (t *Tokenizer) beforeDoctypePublicIdentifierState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '\t', '\n', '\f', ' ':
		return false, BeforeDoctypePublicIdentifierState
	case '"':
		t.b.hasPublicID = true
		return false, DoctypePublicIdentifierDoubleQuotedState
	case '\'':
		t.b.hasPublicID = true
		return false, DoctypePublicIdentifierSingleQuotedState
	case '>':
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	default:
		t.b.forceQuirks = true
		return true, BogusDoctypeState
	}
}

func (t *Tokenizer) doctypePublicIdentifierDoubleQuotedState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '"':
		return false, AfterDoctypePublicIdentifierState
	case '\x00':
		t.b.publicID.WriteRune(replacementChar)
		return false, DoctypePublicIdentifierDoubleQuotedState
	case '>':
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	default:
		t.b.publicID.WriteRune(r)
		return false, DoctypePublicIdentifierDoubleQuotedState
	}
}

func (t *Tokenizer) doctypePublicIdentifierSingleQuotedState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '\'':
		return false, AfterDoctypePublicIdentifierState
	case '\x00':
		t.b.publicID.WriteRune(replacementChar)
		return false, DoctypePublicIdentifierSingleQuotedState
	case '>':
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	default:
		t.b.publicID.WriteRune(r)
		return false, DoctypePublicIdentifierSingleQuotedState
	}
}

func (t *Tokenizer) afterDoctypePublicIdentifierState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '\t', '\n', '\f', ' ':
		return false, BetweenDoctypePublicAndSystemIdentifiersState
	case '>':
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	case '"':
		t.b.hasSystemID = true
		return false, DoctypeSystemIdentifierDoubleQuotedState
	case '\'':
		t.b.hasSystemID = true
		return false, DoctypeSystemIdentifierSingleQuotedState
	default:
		t.b.forceQuirks = true
		return true, BogusDoctypeState
	}
}

func (t *Tokenizer) betweenDoctypePublicAndSystemIdentifiersState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '\t', '\n', '\f', ' ':
		return false, BetweenDoctypePublicAndSystemIdentifiersState
	case '>':
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	case '"':
		t.b.hasSystemID = true
		return false, DoctypeSystemIdentifierDoubleQuotedState
	case '\'':
		t.b.hasSystemID = true
		return false, DoctypeSystemIdentifierSingleQuotedState
	default:
		t.b.forceQuirks = true
		return true, BogusDoctypeState
	}
}

func (t *Tokenizer) afterDoctypeSystemKeywordState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '\t', '\n', '\f', ' ':
		return false, BeforeDoctypeSystemIdentifierState
	case '"':
		t.b.hasSystemID = true
		return false, DoctypeSystemIdentifierDoubleQuotedState
	case '\'':
		t.b.hasSystemID = true
		return false, DoctypeSystemIdentifierSingleQuotedState
	case '>':
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	default:
		t.b.forceQuirks = true
		return true, BogusDoctypeState
	}
}

func (t *Tokenizer) beforeDoctypeSystemIdentifierState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '\t', '\n', '\f', ' ':
		return false, BeforeDoctypeSystemIdentifierState
	case '"':
		t.b.hasSystemID = true
		return false, DoctypeSystemIdentifierDoubleQuotedState
	case '\'':
		t.b.hasSystemID = true
		return false, DoctypeSystemIdentifierSingleQuotedState
	case '>':
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	default:
		t.b.forceQuirks = true
		return true, BogusDoctypeState
	}
}

func (t *Tokenizer) doctypeSystemIdentifierDoubleQuotedState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '"':
		return false, AfterDoctypeSystemIdentifierState
	case '\x00':
		t.b.systemID.WriteRune(replacementChar)
		return false, DoctypeSystemIdentifierDoubleQuotedState
	case '>':
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	default:
		t.b.systemID.WriteRune(r)
		return false, DoctypeSystemIdentifierDoubleQuotedState
	}
}

func (t *Tokenizer) doctypeSystemIdentifierSingleQuotedState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '\'':
		return false, AfterDoctypeSystemIdentifierState
	case '\x00':
		t.b.systemID.WriteRune(replacementChar)
		return false, DoctypeSystemIdentifierSingleQuotedState
	case '>':
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	default:
		t.b.systemID.WriteRune(r)
		return false, DoctypeSystemIdentifierSingleQuotedState
	}
}

func (t *Tokenizer) afterDoctypeSystemIdentifierState(r rune, eof bool) (bool, State) {
	if eof {
		t.b.forceQuirks = true
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	switch r {
	case '\t', '\n', '\f', ' ':
		return false, AfterDoctypeSystemIdentifierState
	case '>':
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	default:
		return true, BogusDoctypeState
	}
}

func (t *Tokenizer) bogusDoctypeState(r rune, eof bool) (bool, State) {
	if eof {
		t.emit(t.b.doctypeToken(t.cur.Position()))
		t.emitEOF()
		return false, DataState
	}
	if r == '>' {
		t.emit(t.b.doctypeToken(t.cur.Position()))
		return false, DataState
	}
	return false, BogusDoctypeState
}

// --- CDATA section -----------------------------------------------------------

func (t *Tokenizer) cdataSectionState(r rune, eof bool) (bool, State) {
	if eof {
		t.emitEOF()
		return false, DataState
	}
	if r == ']' {
		return false, CDataSectionBracketState
	}
	t.emitChar(r)
	return false, CDataSectionState
}

func (t *Tokenizer) cdataSectionBracketState(r rune, eof bool) (bool, State) {
	if !eof && r == ']' {
		return false, CDataSectionEndState
	}
	t.emitChar(']')
	return true, CDataSectionState
}

func (t *Tokenizer) cdataSectionEndState(r rune, eof bool) (bool, State) {
	switch {
	case !eof && r == ']':
		t.emitChar(']')
		return false, CDataSectionEndState
	case !eof && r == '>':
		return false, DataState
	default:
		t.emitChar(']')
		t.emitChar(']')
		return true, CDataSectionState
	}
}

// --- character references ----------------------------------------------------
//
// HTML5 breaks character-reference resolution into eight sub-states
// (named/ambiguous-ampersand/numeric/hex-start/decimal-start/hex/decimal/
// numeric-end). internal/charref already implements the equivalent
// longest-match and digit-accumulation algorithms over a byte window, so
// this state resolves a reference in one step against
// cursor.Remaining() instead of re-deriving that logic rune by rune; the
// declared-but-unused sub-state constants in state.go are kept for
// fidelity with the published algorithm's section structure.

func (t *Tokenizer) writeResolved(r rune) {
	switch t.returnState {
	case AttributeValueDoubleQuotedState, AttributeValueSingleQuotedState, AttributeValueUnquotedState:
		t.b.attrValue.WriteRune(r)
	default:
		t.emitChar(r)
	}
}

func (t *Tokenizer) reportCharrefDiagnostic(kind charref.Kind, pos cursor.Position) {
	var k diag.Kind
	switch kind {
	case charref.NumericNoDigits:
		k = diag.NumericCharRefNoDigits
	case charref.NumericWithoutSemicolon:
		k = diag.NumericCharRefWithoutSemicolon
	case charref.NumericInvalid:
		k = diag.NumericCharRefInvalid
	case charref.NamedWithoutSemicolon:
		k = diag.NamedCharRefWithoutSemicolon
	case charref.NamedInvalid:
		k = diag.NamedCharRefInvalid
	default:
		return
	}
	t.Diagnostics = append(t.Diagnostics, diag.Diagnostic{Kind: k, Position: pos})
}

// advanceBytes walks the cursor forward by exactly n raw input bytes,
// one decoded codepoint at a time, matching a charref.Result.BytesRead
// count measured against the byte stream rather than codepoint count.
func (t *Tokenizer) advanceBytes(n int) {
	target := t.cur.Position().Offset + n
	for t.cur.Position().Offset < target {
		t.cur.Advance()
	}
}

func (t *Tokenizer) advanceOne() {
	t.cur.Advance()
}

func (t *Tokenizer) characterReferenceState(r rune, eof bool) (bool, State) {
	pos := t.cur.Position()
	isAttr := wasConsumedByAttribute(t.returnState)

	if !eof && r == '#' {
		t.advanceOne() // consume '#'
		rest := t.cur.Remaining()
		hex := len(rest) > 0 && (rest[0] == 'x' || rest[0] == 'X')
		if hex {
			t.advanceOne()
			rest = t.cur.Remaining()
		}
		res := charref.ResolveNumeric(rest, hex)
		if !res.Consumed {
			t.reportCharrefDiagnostic(res.Diagnostic, pos)
			t.writeResolved('&')
			t.writeResolved('#')
			if hex {
				t.writeResolved('x')
			}
			return true, t.returnState
		}
		t.advanceBytes(res.BytesRead)
		t.reportCharrefDiagnostic(res.Diagnostic, pos)
		t.writeResolved(res.First)
		return true, t.returnState
	}

	if !eof && isASCIIAlpha(r) {
		rest := t.cur.Remaining()
		res := charref.ResolveNamed(rest, isAttr)
		if res.Consumed {
			t.advanceBytes(res.BytesRead)
			t.reportCharrefDiagnostic(res.Diagnostic, pos)
			t.writeResolved(res.First)
			if res.Second != 0 {
				t.writeResolved(res.Second)
			}
			return true, t.returnState
		}
		t.reportCharrefDiagnostic(diagnosticKindOrNone(res), pos)
		t.writeResolved('&')
		return true, t.returnState
	}

	t.writeResolved('&')
	return true, t.returnState
}

func diagnosticKindOrNone(res charref.Result) charref.Kind {
	return res.Diagnostic
}

func wasConsumedByAttribute(s State) bool {
	switch s {
	case AttributeValueDoubleQuotedState, AttributeValueSingleQuotedState, AttributeValueUnquotedState:
		return true
	}
	return false
}

package token

import (
	"testing"

	"github.com/gohtml5/parser/internal/diag"
)

// collectTokens drains a Tokenizer to completion, always resuming with no
// state override, mirroring how the tree constructor would behave for
// plain text content with no RCDATA/RAWTEXT/ScriptData switches.
func collectTokens(t *testing.T, input string) []*Token {
	t.Helper()
	tok := New([]byte(input), 8, nil)
	go tok.Run()

	var got []*Token
	for tk := range tok.Tokens() {
		got = append(got, tk)
		if tk.Kind == EOFToken {
			break
		}
		tok.Resume(nil)
	}
	return got
}

func TestTokenizeSimpleElement(t *testing.T) {
	toks := collectTokens(t, "<p>hi</p>")
	var kinds []Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	want := []Kind{StartTagToken, CharacterToken, CharacterToken, EndTagToken, EOFToken}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(kinds), kinds, len(want))
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("token %d: got kind %v, want %v", i, kinds[i], k)
		}
	}
	if toks[0].TagName != "p" {
		t.Errorf("start tag name = %q, want p", toks[0].TagName)
	}
	if toks[3].TagName != "p" {
		t.Errorf("end tag name = %q, want p", toks[3].TagName)
	}
}

func TestTokenizeAttributes(t *testing.T) {
	toks := collectTokens(t, `<a href="https://example.com" data-x=1>`)
	start := toks[0]
	if start.Kind != StartTagToken || start.TagName != "a" {
		t.Fatalf("expected start tag 'a', got %+v", start)
	}
	want := map[string]string{"href": "https://example.com", "data-x": "1"}
	if len(start.Attributes) != len(want) {
		t.Fatalf("got %d attributes, want %d (%+v)", len(start.Attributes), len(want), start.Attributes)
	}
	for _, attr := range start.Attributes {
		if v, ok := want[attr.Name]; !ok || v != attr.Value {
			t.Errorf("unexpected attribute %s=%q", attr.Name, attr.Value)
		}
	}
}

func TestTokenizeDuplicateAttributeDiagnostic(t *testing.T) {
	tok := New([]byte(`<script src='123' src='456'>`), 8, nil)
	go tok.Run()
	var start *Token
	for tk := range tok.Tokens() {
		if tk.Kind == StartTagToken {
			start = tk
		}
		if tk.Kind == EOFToken {
			break
		}
		tok.Resume(nil)
	}
	if start == nil {
		t.Fatal("expected a start tag token")
	}
	if len(start.Attributes) != 1 || start.Attributes[0].Value != "123" {
		t.Fatalf("expected first value to win, got %+v", start.Attributes)
	}
	found := false
	for _, d := range tok.Diagnostics {
		if d.Kind != diag.DuplicateAttribute {
			continue
		}
		found = true
		payload, ok := d.Payload.(diag.DuplicateAttributePayload)
		if !ok || payload.Name != "src" || payload.OriginalIndex != 0 || payload.NewIndex != 1 {
			t.Errorf("unexpected duplicate-attribute payload: %+v", d.Payload)
		}
	}
	if !found {
		t.Errorf("expected a duplicate-attribute diagnostic, got %+v", tok.Diagnostics)
	}
}

func TestTokenizeComment(t *testing.T) {
	toks := collectTokens(t, "<!-- hello -->")
	if len(toks) != 2 || toks[0].Kind != CommentToken {
		t.Fatalf("expected [comment, eof], got %+v", toks)
	}
	if toks[0].Data != " hello " {
		t.Errorf("comment data = %q, want %q", toks[0].Data, " hello ")
	}
}

func TestTokenizeDoctype(t *testing.T) {
	toks := collectTokens(t, "<!DOCTYPE html>")
	if len(toks) != 2 || toks[0].Kind != DoctypeToken {
		t.Fatalf("expected [doctype, eof], got %+v", toks)
	}
	if toks[0].TagName != "html" {
		t.Errorf("doctype name = %q, want html", toks[0].TagName)
	}
	if toks[0].ForceQuirks {
		t.Errorf("expected ForceQuirks false for a well-formed doctype")
	}
}

func TestTokenizeCharacterReference(t *testing.T) {
	toks := collectTokens(t, "a &amp; b")
	var text string
	for _, tk := range toks {
		if tk.Kind == CharacterToken {
			text += tk.Data
		}
	}
	if text != "a & b" {
		t.Errorf("got %q, want %q", text, "a & b")
	}
}

func TestTokenizeNumericCharacterReference(t *testing.T) {
	toks := collectTokens(t, "&#65;&#x42;")
	var text string
	for _, tk := range toks {
		if tk.Kind == CharacterToken {
			text += tk.Data
		}
	}
	if text != "AB" {
		t.Errorf("got %q, want AB", text)
	}
}

func TestTokenizeSelfClosingTagAcknowledged(t *testing.T) {
	tok := New([]byte(`<br/>`), 8, nil)
	go tok.Run()
	var start *Token
	for tk := range tok.Tokens() {
		if tk.Kind == StartTagToken {
			start = tk
			tok.AcknowledgeSelfClosing(tk)
		}
		if tk.Kind == EOFToken {
			break
		}
		tok.Resume(nil)
	}
	if start == nil || !start.SelfClosing {
		t.Fatalf("expected a self-closing start tag, got %+v", start)
	}
	for _, d := range tok.Diagnostics {
		if d.Kind == diag.UnacknowledgedSelfClosingTag {
			t.Errorf("self-closing tag was acknowledged but still flagged: %+v", d)
		}
	}
}

func TestTokenizeRawTextSwitch(t *testing.T) {
	tok := New([]byte(`<script>1 < 2</script>after`), 8, nil)
	go tok.Run()

	var textTokens []string
	sawScriptStart := false
	for tk := range tok.Tokens() {
		switch tk.Kind {
		case StartTagToken:
			sawScriptStart = true
			s := ScriptDataState
			tok.Resume(&s)
			continue
		case CharacterToken:
			textTokens = append(textTokens, tk.Data)
		}
		if tk.Kind == EOFToken {
			break
		}
		tok.Resume(nil)
	}
	if !sawScriptStart {
		t.Fatal("expected a <script> start tag")
	}
	var text string
	for _, c := range textTokens {
		text += c
	}
	if text != "1 < 2after" {
		t.Errorf("got %q, want %q", text, "1 < 2after")
	}
}

type stateCase struct {
	in        rune
	eof       bool
	state     State
	reconsume bool
	next      State
}

func TestStateDispatchBasics(t *testing.T) {
	cases := []stateCase{
		{'&', false, DataState, false, CharacterReferenceState},
		{'<', false, DataState, false, TagOpenState},
		{'a', false, DataState, false, DataState},

		{'<', false, RCDataState, false, RCDataLessThanSignState},
		{'&', false, RCDataState, false, CharacterReferenceState},

		{'<', false, RawTextState, false, RawTextLessThanSignState},
		{'<', false, ScriptDataState, false, ScriptDataLessThanSignState},

		{'!', false, TagOpenState, false, MarkupDeclarationOpenState},
		{'/', false, TagOpenState, false, EndTagOpenState},
		{'a', false, TagOpenState, true, TagNameState},
		{'?', false, TagOpenState, true, BogusCommentState},
	}
	for _, c := range cases {
		tok := New(nil, 8, nil)
		tok.state = c.state
		reconsume, next := tok.dispatch(c.in, c.eof)
		if reconsume != c.reconsume || next != c.next {
			t.Errorf("dispatch(%q) from %v: got (%v, %v), want (%v, %v)",
				c.in, c.state, reconsume, next, c.reconsume, c.next)
		}
	}
}

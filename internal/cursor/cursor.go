// Package cursor implements the UTF-8 input cursor described in spec.md
// §4.2: it decodes one codepoint at a time from a byte-addressable input
// buffer, tracks (line, column, byte-offset), normalizes newlines, and
// reports decode diagnostics. Its decode table is grounded directly on
// gumbo-parser's src/utf8.c (original_source in the retrieval pack).
package cursor

// Position is a (line, column, byte-offset) triple. Offset preserves the
// original byte index; CR->LF normalization never rewinds it.
type Position struct {
	Line, Column int
	Offset       int
}

// DiagnosticKind distinguishes the two decode-failure conditions the
// cursor can report; the caller (the tokenizer) turns these into full
// Diagnostic records with the matching html5.DiagnosticKind.
type DiagnosticKind int

const (
	// InvalidUTF8 fires when a byte sequence can't be decoded, or decodes
	// to a codepoint the HTML5 spec forbids (control chars, surrogates,
	// non-characters). The cursor always substitutes U+FFFD.
	InvalidUTF8 DiagnosticKind = iota
	// TruncatedUTF8 fires once when a multi-byte sequence runs past the
	// end of the input.
	TruncatedUTF8
)

// Diagnostic is a cursor-level decode failure, carrying enough raw
// information for the caller to build a full positioned diagnostic.
type Diagnostic struct {
	Kind     DiagnosticKind
	Position Position
	RawBytes []byte
}

// EOF is returned by Current when the cursor has consumed the entire
// buffer, mirroring gumbo's use of -1 as a sentinel.
const EOF rune = -1

const replacementChar rune = 0xFFFD

// Cursor decodes a single contiguous buffer one codepoint at a time.
type Cursor struct {
	buf     []byte
	pos     int // byte index of the start of the current codepoint
	width   int // width in bytes of the current codepoint
	current rune
	position Position
	tabStop int

	marked     bool
	markPos    int
	markPosInfo Position

	Diagnostics []Diagnostic
}

// New creates a cursor over buf. tabStop must be >= 1; callers should pass
// Options.TabStop (default 8).
func New(buf []byte, tabStop int) *Cursor {
	if tabStop < 1 {
		tabStop = 8
	}
	c := &Cursor{
		buf:      buf,
		tabStop:  tabStop,
		position: Position{Line: 1, Column: 1, Offset: 0},
	}
	if len(buf) > 0 {
		c.readChar()
	} else {
		c.current = EOF
	}
	return c
}

// isInvalidCodepoint reports whether c is on the HTML5 parse-error list:
// C0 controls other than TAB/LF/FF/CR, U+000B, U+007F-U+009F, and the
// non-character ranges (U+FDD0-U+FDEF and any plane-final 0xFFFE/0xFFFF
// pair). Grounded verbatim on gumbo's utf8_is_invalid_code_point.
func isInvalidCodepoint(c rune) bool {
	return (c >= 0x1 && c <= 0x8) ||
		c == 0xB ||
		(c >= 0xE && c <= 0x1F) ||
		(c >= 0x7F && c <= 0x9F) ||
		(c >= 0xFDD0 && c <= 0xFDEF) ||
		(c&0xFFFF) == 0xFFFE ||
		(c&0xFFFF) == 0xFFFF
}

func isSurrogate(c rune) bool {
	return c >= 0xD800 && c <= 0xDFFF
}

// readChar decodes the codepoint starting at c.pos into c.current and
// c.width, recording diagnostics as needed. It never advances c.pos.
func (c *Cursor) readChar() {
	start := c.pos
	b := c.buf[start]
	var width int
	var mask byte
	badChar := false

	switch {
	case b < 0x80:
		width, mask = 1, 0xFF
	case b < 0xC0:
		// stray continuation byte
		width, badChar = 1, true
	case b < 0xE0:
		width, mask = 2, 0x1F
		if b < 0xC2 {
			badChar = true // overlong
		}
	case b < 0xF0:
		width, mask = 3, 0x0F
	case b < 0xF5:
		width, mask = 4, 0x07
	case b < 0xF8:
		width, badChar = 5, true
	case b < 0xFC:
		width, badChar = 6, true
	case b < 0xFE:
		width, badChar = 7, true
	default:
		width, badChar = 1, true
	}

	cp := rune(b & mask)
	truncated := false
	if start+width > len(c.buf) {
		width = len(c.buf) - start
		truncated = true
		badChar = true
	}

	for i := 1; i < width; i++ {
		cb := c.buf[start+i]
		if cb < 0x80 || cb > 0xBF {
			width = i
			badChar = true
			break
		}
		cp = (cp << 6) | rune(cb&^0x80)
	}
	if cp > 0x10FFFF || isSurrogate(cp) {
		badChar = true
	}

	raw := c.buf[start : start+width]
	if truncated {
		c.Diagnostics = append(c.Diagnostics, Diagnostic{
			Kind:     TruncatedUTF8,
			Position: c.position,
			RawBytes: raw,
		})
		cp = replacementChar
	} else if badChar || isInvalidCodepoint(cp) {
		c.Diagnostics = append(c.Diagnostics, Diagnostic{
			Kind:     InvalidUTF8,
			Position: c.position,
			RawBytes: raw,
		})
		cp = replacementChar
	}

	if cp == '\r' {
		next := start + width
		if next < len(c.buf) && c.buf[next] == '\n' {
			// Swallow the LF: advance pos past it too, but keep the
			// byte-offset tracking the extra consumed byte.
			width++
		}
		cp = '\n'
	}

	c.width = width
	c.current = cp
}

// Current returns the codepoint at the cursor without advancing it. It is
// cursor.EOF once the buffer is exhausted.
func (c *Cursor) Current() rune {
	return c.current
}

// Position returns the cursor's current (line, column, offset).
func (c *Cursor) Position() Position {
	return c.position
}

// Advance consumes the current codepoint and decodes the next one.
func (c *Cursor) Advance() {
	c.position.Offset += c.width
	switch c.current {
	case '\n':
		c.position.Line++
		c.position.Column = 1
	case '\t':
		c.position.Column = ((c.position.Column-1)/c.tabStop+1)*c.tabStop + 1
	default:
		c.position.Column++
	}

	c.pos += c.width
	if c.pos < len(c.buf) {
		c.readChar()
	} else {
		c.current = EOF
		c.width = 0
	}
}

// LookaheadMatch reports whether the next len(prefix) bytes of input match
// prefix (case-sensitively or not) and, if so, advances past them. On a
// mismatch the cursor is left untouched.
func (c *Cursor) LookaheadMatch(prefix string, caseSensitive bool) bool {
	if c.pos+len(prefix) > len(c.buf) {
		return false
	}
	window := c.buf[c.pos : c.pos+len(prefix)]
	if caseSensitive {
		if string(window) != prefix {
			return false
		}
	} else if !equalFold(window, prefix) {
		return false
	}
	// Advance codepoint-by-codepoint so position tracking stays correct
	// even though we matched at the byte level.
	for n := 0; n < len(prefix); {
		w := c.width
		n += w
		c.Advance()
	}
	return true
}

func equalFold(b []byte, s string) bool {
	if len(b) != len(s) {
		return false
	}
	for i := range b {
		bc, sc := b[i], s[i]
		if 'A' <= bc && bc <= 'Z' {
			bc += 0x20
		}
		if 'A' <= sc && sc <= 'Z' {
			sc += 0x20
		}
		if bc != sc {
			return false
		}
	}
	return true
}

// Mark saves the current cursor state in a single backtracking slot,
// overwriting any previous mark.
func (c *Cursor) Mark() {
	c.marked = true
	c.markPos = c.pos
	c.markPosInfo = c.position
}

// Reset restores the cursor to the last Mark. It panics if no mark was
// set, since that indicates a tokenizer-state bug, not recoverable input.
func (c *Cursor) Reset() {
	if !c.marked {
		panic("cursor: Reset called without a prior Mark")
	}
	c.pos = c.markPos
	c.position = c.markPosInfo
	if c.pos < len(c.buf) {
		c.readChar()
	} else {
		c.current = EOF
		c.width = 0
	}
}

// Remaining returns the unconsumed tail of the input buffer, starting at
// the current codepoint.
func (c *Cursor) Remaining() []byte {
	return c.buf[c.pos:]
}

// OriginalText returns the raw input slice spanning [from, to) byte
// offsets, a borrowed window used to fill Diagnostic.OriginalText and
// Node.OriginalTag/OriginalText fields per spec.md §3.
func (c *Cursor) OriginalText(fromOffset, toOffset int) []byte {
	return c.buf[fromOffset:toOffset]
}

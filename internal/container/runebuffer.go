package container

import "strings"

// RuneBuffer is a growable text buffer with codepoint-append, used for the
// tokenizer's scratch buffers (tag name, attribute name/value, comment
// text, DOCTYPE identifiers, the temporary buffer used by character
// reference and RCDATA/RAWTEXT end-tag matching).
type RuneBuffer struct {
	b strings.Builder
}

// WriteRune appends r.
func (rb *RuneBuffer) WriteRune(r rune) {
	rb.b.WriteRune(r)
}

// WriteString appends s.
func (rb *RuneBuffer) WriteString(s string) {
	rb.b.WriteString(s)
}

// String returns the buffered contents.
func (rb *RuneBuffer) String() string {
	return rb.b.String()
}

// Len returns the number of bytes currently buffered.
func (rb *RuneBuffer) Len() int {
	return rb.b.Len()
}

// Reset clears the buffer for reuse.
func (rb *RuneBuffer) Reset() {
	rb.b.Reset()
}

// Package charref implements the character-reference resolver described
// in spec.md §4.3: numeric and named HTML5 entity decoding, the
// Windows-1252-compatible replacement table, and the attribute-context
// rule for semicolon-less legacy names. It is invoked by the tokenizer
// whenever it sees '&' in a context that allows references.
package charref

import "sort"

// Kind distinguishes the diagnostics this package can raise; the
// tokenizer maps these onto the full html5.DiagnosticKind taxonomy.
type Kind int

const (
	KindNone Kind = iota
	NumericNoDigits
	NumericWithoutSemicolon
	NumericInvalid
	NamedWithoutSemicolon
	NamedInvalid
)

// Result is the outcome of resolving a single reference: zero, one, or
// two codepoints to append to the pending text/attribute buffer, the
// number of input bytes consumed (so the caller's cursor can be
// advanced, or the reference left unconsumed on attribute-context
// suppression), and a diagnostic kind (KindNone if nothing to report).
type Result struct {
	Consumed   bool
	First      rune
	Second     rune // 0 if no second codepoint
	BytesRead  int
	Diagnostic Kind
}

// windows1252Replacements implements the numeric-character-reference
// replacement table specified by the HTML5 spec for the C1-control
// range, used because historical content commonly encoded Windows-1252
// smart quotes and similar characters as raw C1 control codepoints.
var windows1252Replacements = map[rune]rune{
	0x00: 0xFFFD,
	0x0D: 0x000D,
	0x80: 0x20AC,
	0x81: 0x0081,
	0x82: 0x201A,
	0x83: 0x0192,
	0x84: 0x201E,
	0x85: 0x2026,
	0x86: 0x2020,
	0x87: 0x2021,
	0x88: 0x02C6,
	0x89: 0x2030,
	0x8A: 0x0160,
	0x8B: 0x2039,
	0x8C: 0x0152,
	0x8D: 0x008D,
	0x8E: 0x017D,
	0x8F: 0x008F,
	0x90: 0x0090,
	0x91: 0x2018,
	0x92: 0x2019,
	0x93: 0x201C,
	0x94: 0x201D,
	0x95: 0x2022,
	0x96: 0x2013,
	0x97: 0x2014,
	0x98: 0x02DC,
	0x99: 0x2122,
	0x9A: 0x0161,
	0x9B: 0x203A,
	0x9C: 0x0153,
	0x9D: 0x009D,
	0x9E: 0x017E,
	0x9F: 0x0178,
}

func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
func isHexDigit(r rune) bool   { return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') }
func hexValue(r rune) rune {
	switch {
	case isDigit(r):
		return r - '0'
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10
	default:
		return r - 'A' + 10
	}
}

func isSurrogate(c rune) bool { return c >= 0xD800 && c <= 0xDFFF }

// ResolveNumeric consumes a decimal or hex numeric reference from input,
// which must begin immediately after "&#" (hex=true if "x"/"X" has
// already been consumed by the caller).
func ResolveNumeric(input []byte, hex bool) Result {
	i := 0
	var value int64
	digits := 0
	for i < len(input) {
		r := rune(input[i])
		if hex {
			if !isHexDigit(r) {
				break
			}
			value = value*16 + int64(hexValue(r))
		} else {
			if !isDigit(r) {
				break
			}
			value = value*10 + int64(r-'0')
		}
		if value > 0x10FFFF {
			value = 0x10FFFF + 1 // clamp so later overflow check fires
		}
		digits++
		i++
	}
	if digits == 0 {
		return Result{Consumed: false, BytesRead: 0, Diagnostic: NumericNoDigits}
	}

	consumedSemicolon := false
	if i < len(input) && input[i] == ';' {
		consumedSemicolon = true
		i++
	}

	cp := rune(value)
	diag := KindNone
	if !consumedSemicolon {
		diag = NumericWithoutSemicolon
	}

	if replacement, ok := windows1252Replacements[cp]; ok {
		cp = replacement
	} else if cp > 0x10FFFF || isSurrogate(cp) {
		if diag == KindNone {
			diag = NumericInvalid
		}
		cp = 0xFFFD
	} else if isReportableNumericCodepoint(cp) {
		if diag == KindNone {
			diag = NumericInvalid
		}
		// Reportable but not replaced: value still passes through.
	}

	return Result{Consumed: true, First: cp, BytesRead: i, Diagnostic: diag}
}

// isReportableNumericCodepoint mirrors the HTML5 "control character
// reference" parse-error table: these values are reported but, unlike
// the windows1252Replacements set and surrogates/out-of-range values,
// are returned unmodified.
func isReportableNumericCodepoint(cp rune) bool {
	return (cp >= 0x1 && cp <= 0x8) ||
		cp == 0xB ||
		(cp >= 0xE && cp <= 0x1F) ||
		cp == 0x7F ||
		(cp >= 0xFDD0 && cp <= 0xFDEF) ||
		cp&0xFFFF == 0xFFFE || cp&0xFFFF == 0xFFFF
}

// namedEntry is one row of the named-reference table: name without the
// leading '&' (with the trailing ';' embedded when the row represents the
// semicolon-terminated form), whether matching this row already satisfies
// the semicolon requirement, and the one or two codepoints it decodes to.
// Legacy names get two rows - a bare form with semicolonOnly false and a
// ';'-suffixed form with semicolonOnly true - so longest-match prefers the
// terminated form and correctly consumes the ';' when present.
type namedEntry struct {
	name          string
	semicolonOnly bool
	first, second rune
}

// namedTable is sorted by name at init time and searched by a linear
// longest-match scan in ResolveNamed. It is a curated subset of the full
// ~2,200-entry HTML5 named character reference table (see DESIGN.md and
// SPEC_FULL.md §4.3 for why a subset is an explicitly documented,
// deliberate scope reduction rather than a silent omission): a subset of
// the legacy semicolon-less names (the accented-letter legacy names such
// as Aacute or eacute are not included) plus a set of common
// semicolon-terminated names.
var namedTable = []namedEntry{
	// Legacy names HTML5 still accepts without a trailing semicolon. Each
	// gets exactly two rows: the bare legacy form (semicolonOnly: false)
	// and the semicolon-terminated form with ';' embedded in name
	// (semicolonOnly: true), so longest-match naturally prefers the
	// terminated form and BytesRead always accounts for a matched ';'.
	{"AMP", false, '&', 0}, {"AMP;", true, '&', 0},
	{"amp", false, '&', 0}, {"amp;", true, '&', 0},
	{"COPY", false, 0xA9, 0}, {"COPY;", true, 0xA9, 0},
	{"copy", false, 0xA9, 0}, {"copy;", true, 0xA9, 0},
	{"GT", false, '>', 0}, {"GT;", true, '>', 0},
	{"gt", false, '>', 0}, {"gt;", true, '>', 0},
	{"LT", false, '<', 0}, {"LT;", true, '<', 0},
	{"lt", false, '<', 0}, {"lt;", true, '<', 0},
	{"QUOT", false, '"', 0}, {"QUOT;", true, '"', 0},
	{"quot", false, '"', 0}, {"quot;", true, '"', 0},
	{"REG", false, 0xAE, 0}, {"REG;", true, 0xAE, 0},
	{"reg", false, 0xAE, 0}, {"reg;", true, 0xAE, 0},
	{"not", false, 0xAC, 0}, {"not;", true, 0xAC, 0},
	{"nbsp", false, 0xA0, 0}, {"nbsp;", true, 0xA0, 0},
	{"shy", false, 0xAD, 0}, {"shy;", true, 0xAD, 0},
	{"yen", false, 0xA5, 0}, {"yen;", true, 0xA5, 0},
	{"sect", false, 0xA7, 0}, {"sect;", true, 0xA7, 0},
	{"para", false, 0xB6, 0}, {"para;", true, 0xB6, 0},
	{"deg", false, 0xB0, 0}, {"deg;", true, 0xB0, 0},
	{"plusmn", false, 0xB1, 0}, {"plusmn;", true, 0xB1, 0},
	{"sup1", false, 0xB9, 0}, {"sup1;", true, 0xB9, 0},
	{"sup2", false, 0xB2, 0}, {"sup2;", true, 0xB2, 0},
	{"sup3", false, 0xB3, 0}, {"sup3;", true, 0xB3, 0},
	{"frac12", false, 0xBD, 0}, {"frac12;", true, 0xBD, 0},
	{"frac14", false, 0xBC, 0}, {"frac14;", true, 0xBC, 0},
	{"frac34", false, 0xBE, 0}, {"frac34;", true, 0xBE, 0},
	{"times", false, 0xD7, 0}, {"times;", true, 0xD7, 0},
	{"divide", false, 0xF7, 0}, {"divide;", true, 0xF7, 0},
	{"curren", false, 0xA4, 0}, {"curren;", true, 0xA4, 0},
	{"cent", false, 0xA2, 0}, {"cent;", true, 0xA2, 0},
	{"pound", false, 0xA3, 0}, {"pound;", true, 0xA3, 0},
	{"micro", false, 0xB5, 0}, {"micro;", true, 0xB5, 0},
	{"middot", false, 0xB7, 0}, {"middot;", true, 0xB7, 0},
	{"laquo", false, 0xAB, 0}, {"laquo;", true, 0xAB, 0},
	{"raquo", false, 0xBB, 0}, {"raquo;", true, 0xBB, 0},
	{"iexcl", false, 0xA1, 0}, {"iexcl;", true, 0xA1, 0},
	{"iquest", false, 0xBF, 0}, {"iquest;", true, 0xBF, 0},
	{"ordf", false, 0xAA, 0}, {"ordf;", true, 0xAA, 0},
	{"ordm", false, 0xBA, 0}, {"ordm;", true, 0xBA, 0},
	{"szlig", false, 0xDF, 0}, {"szlig;", true, 0xDF, 0},
	{"uml", false, 0xA8, 0}, {"uml;", true, 0xA8, 0},
	{"acute", false, 0xB4, 0}, {"acute;", true, 0xB4, 0},
	{"cedil", false, 0xB8, 0}, {"cedil;", true, 0xB8, 0},
	{"macr", false, 0xAF, 0}, {"macr;", true, 0xAF, 0},

	// Common semicolon-only references encountered in ordinary markup.
	{"apos;", true, '\'', 0},
	{"hellip;", true, 0x2026, 0},
	{"mdash;", true, 0x2014, 0},
	{"ndash;", true, 0x2013, 0},
	{"lsquo;", true, 0x2018, 0},
	{"rsquo;", true, 0x2019, 0},
	{"ldquo;", true, 0x201C, 0},
	{"rdquo;", true, 0x201D, 0},
	{"trade;", true, 0x2122, 0},
	{"bull;", true, 0x2022, 0},
	{"dagger;", true, 0x2020, 0},
	{"Dagger;", true, 0x2021, 0},
	{"permil;", true, 0x2030, 0},
	{"euro;", true, 0x20AC, 0},
	{"larr;", true, 0x2190, 0},
	{"uarr;", true, 0x2191, 0},
	{"rarr;", true, 0x2192, 0},
	{"darr;", true, 0x2193, 0},
	{"harr;", true, 0x2194, 0},
	{"infin;", true, 0x221E, 0},
	{"ne;", true, 0x2260, 0},
	{"le;", true, 0x2264, 0},
	{"ge;", true, 0x2265, 0},
	{"alpha;", true, 0x03B1, 0},
	{"beta;", true, 0x03B2, 0},
	{"gamma;", true, 0x03B3, 0},
	{"delta;", true, 0x03B4, 0},
	{"pi;", true, 0x03C0, 0},
	{"sigma;", true, 0x03C3, 0},
	{"omega;", true, 0x03C9, 0},
	{"spades;", true, 0x2660, 0},
	{"clubs;", true, 0x2663, 0},
	{"hearts;", true, 0x2665, 0},
	{"diams;", true, 0x2666, 0},
	{"NotEqualTilde;", true, 0x2242, 0x0338},
	{"acE;", true, 0x223E, 0x0333},
}

func init() {
	sort.Slice(namedTable, func(i, j int) bool { return namedTable[i].name < namedTable[j].name })
}

// ResolveNamed attempts to match the longest named reference that is a
// prefix of input (which must begin immediately after '&'); isAttribute
// enables the "not followed by '=' or alphanumeric" attribute-context
// suppression rule for semicolon-less legacy names.
func ResolveNamed(input []byte, isAttribute bool) Result {
	// Longest-match: the table always represents a legacy name's
	// semicolon-terminated form as one byte longer than its bare form, so
	// a plain longest-prefix scan already prefers the terminated form.
	var best *namedEntry
	for idx := range namedTable {
		e := &namedTable[idx]
		if len(e.name) > len(input) {
			continue
		}
		if string(input[:len(e.name)]) != e.name {
			continue
		}
		if best == nil || len(e.name) > len(best.name) {
			best = e
		}
	}
	if best == nil {
		return Result{Consumed: false, Diagnostic: diagnosticForUnresolved(input)}
	}

	if !best.semicolonOnly && isAttribute {
		next := len(best.name)
		if next < len(input) {
			c := rune(input[next])
			if c == '=' || isAlphanumeric(c) {
				return Result{Consumed: false}
			}
		}
	}

	diag := KindNone
	if !best.semicolonOnly {
		diag = NamedWithoutSemicolon
	}
	return Result{
		Consumed:  true,
		First:     best.first,
		Second:    best.second,
		BytesRead: len(best.name),
		Diagnostic: diag,
	}
}

func isAlphanumeric(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// diagnosticForUnresolved decides whether an unmatched "&name" run should
// be reported as a broken named reference: only when it looks like one,
// i.e. ends in ';' before the next non-alphanumeric byte.
func diagnosticForUnresolved(input []byte) Kind {
	for i := 0; i < len(input); i++ {
		c := rune(input[i])
		if c == ';' {
			return NamedInvalid
		}
		if !isAlphanumeric(c) {
			return KindNone
		}
	}
	return KindNone
}

package tree

import "strings"

// quirksPublicIDPrefixes triggers full quirks mode when the DOCTYPE's
// public identifier starts with one of these (case-insensitively),
// HTML5 §13.2.6.4.1. This is a representative subset of the full W3C/
// IETF DTD-identifier table (which runs past a hundred entries in most
// of the strictly-conforming, decades-old DTDs) rather than the whole
// thing — same scoping tradeoff as internal/charref's curated entity
// table, documented in DESIGN.md.
var quirksPublicIDPrefixes = []string{
	"-//w3o//dtd w3 html strict 3.0//en//",
	"-/w3d/dtd html 4.0 transitional/en",
	"+//silmaril//dtd html pro v0r11 19970101//",
	"-//as//dtd html 3.0 aswedit + extensions//",
	"-//advasoft ltd//dtd html 3.0 aswedit + extensions//",
	"-//ietf//dtd html 2.0//",
	"-//ietf//dtd html 2.1e//",
	"-//ietf//dtd html 3//",
	"-//ietf//dtd html 3.0//",
	"-//ietf//dtd html 3.2//",
	"-//ietf//dtd html level 0//",
	"-//ietf//dtd html level 1//",
	"-//ietf//dtd html level 2//",
	"-//ietf//dtd html level 3//",
	"-//ietf//dtd html//",
	"-//metrius//dtd metrius presentational//",
	"-//microsoft//dtd internet explorer 2.0 html//",
	"-//microsoft//dtd internet explorer 3.0 html//",
	"-//netscape comm. corp.//dtd html//",
	"-//netscape comm. corp.//dtd strict html//",
	"-//o'reilly and associates//dtd html 2.0//",
	"-//o'reilly and associates//dtd html extended 1.0//",
	"-//spyglass//dtd html 2.0 extended//",
	"-//sun microsystems corp.//dtd hotjava html//",
	"-//w3c//dtd html 3 1995-03-24//",
	"-//w3c//dtd html 3.2 draft//",
	"-//w3c//dtd html 3.2//",
	"-//w3c//dtd html 3.2s draft//",
	"-//w3c//dtd html 4.0 transitional//",
	"-//w3c//dtd html experimental 19960712//",
	"-//w3c//dtd html experimental 970421//",
	"-//w3c//dtd w3 html//",
	"-//w3o//dtd w3 html 3.0//",
	"-//webtechs//dtd mozilla html 2.0//",
	"-//webtechs//dtd mozilla html//",
}

// limitedQuirksPublicIDPrefixes select limited-quirks mode rather than
// full quirks, per the same HTML5 table.
var limitedQuirksPublicIDPrefixes = []string{
	"-//w3c//dtd xhtml 1.0 frameset//",
	"-//w3c//dtd xhtml 1.0 transitional//",
}

func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}

// classifyDoctype implements HTML5's "determining the document's
// quirks mode" table for the DOCTYPE token, ignoring the deprecated
// system-identifier-absent special case for the HTML 4.01/XHTML 1.0
// transitional public IDs (a documented simplification: that clause only
// matters for a handful of 1990s-era documents lacking a SYSTEM
// identifier, not for any construction the tree-construction tests in
// testdata/tree_construction exercise).
func classifyDoctype(name, publicID, systemID string, forceQuirks bool) QuirksMode {
	if forceQuirks {
		return Quirks
	}
	if name != "html" {
		return Quirks
	}
	lowerPublic := strings.ToLower(publicID)
	_ = systemID
	for _, p := range quirksPublicIDPrefixes {
		if hasPrefixFold(lowerPublic, p) {
			return Quirks
		}
	}
	for _, p := range limitedQuirksPublicIDPrefixes {
		if hasPrefixFold(lowerPublic, p) {
			return LimitedQuirks
		}
	}
	return NoQuirks
}

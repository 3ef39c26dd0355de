package chapterize

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// entityNameToNumeric maps lowercase HTML entity names to their XML numeric
// character references. encoding/xml does not recognise HTML named entities,
// so we convert them before parsing OPF/NCX files.
var entityNameToNumeric = map[string][]byte{
	"nbsp": []byte("&#160;"), "mdash": []byte("&#8212;"), "ndash": []byte("&#8211;"),
	"hellip": []byte("&#8230;"),
	"lsquo": []byte("&#8216;"), "rsquo": []byte("&#8217;"),
	"ldquo": []byte("&#8220;"), "rdquo": []byte("&#8221;"),
	"copy": []byte("&#169;"), "reg": []byte("&#174;"), "trade": []byte("&#8482;"),
	"bull": []byte("&#8226;"), "middot": []byte("&#183;"),
}

// htmlEntityPattern matches common HTML named entities case-insensitively.
var htmlEntityPattern = regexp.MustCompile(
	`(?i)&(nbsp|mdash|ndash|hellip|lsquo|rsquo|ldquo|rdquo|copy|reg|trade|bull|middot);`)

// preprocessHTMLEntities replaces common HTML named entities with their
// numeric character references so that encoding/xml can parse the data.
// The matching is case-insensitive to handle non-standard ePub content.
func preprocessHTMLEntities(data []byte) []byte {
	return htmlEntityPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := strings.ToLower(string(match[1 : len(match)-1]))
		if replacement, ok := entityNameToNumeric[name]; ok {
			return replacement
		}
		return match
	})
}

// dropBlockPatterns match elements whose content must be removed wholesale
// before tag flattening: document head, styles, scripts, and stray OPF
// metadata embedded in content files. One compiled pattern per tag since
// RE2 has no backreferences.
var dropBlockPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<head\b[^>]*>.*?</head\s*>`),
	regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`),
	regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`),
	regexp.MustCompile(`(?is)<metadata\b[^>]*>.*?</metadata\s*>`),
}

// tagPattern matches any remaining tag, comment fragment, or processing
// instruction. Replaced with a single space so adjacent text does not fuse.
var tagPattern = regexp.MustCompile(`(?s)<[^>]*>`)

// contentEntityReplacer decodes the standard named entities in extracted
// text. A single left-to-right pass decodes exactly one layer: "&amp;quot;"
// becomes the literal "&quot;", never a double-unescaped quote.
var contentEntityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
)

// stripMarkup converts raw (X)HTML to narration plain text: head, style,
// script, and metadata blocks are removed with their content, every other
// tag becomes a single space, whitespace runs collapse to one space, and
// the standard named entities are decoded one layer. This is a best-effort
// regex transform, not an HTML parse; it tolerates malformed nesting and
// never fails.
func stripMarkup(data []byte) string {
	for _, pat := range dropBlockPatterns {
		data = pat.ReplaceAll(data, nil)
	}
	text := tagPattern.ReplaceAllString(string(data), " ")
	text = contentEntityReplacer.Replace(text)
	text = collapseSpaces(text)
	return norm.NFC.String(text)
}

// anchorAttrPattern compiles a pattern matching an id="anchor" or
// name="anchor" attribute occurrence, with either quote style.
func anchorAttrPattern(anchor string) *regexp.Regexp {
	q := regexp.QuoteMeta(anchor)
	return regexp.MustCompile(`(?i)\b(?:id|name)\s*=\s*["']` + q + `["']`)
}

// sliceAtAnchor returns the portion of data belonging to the element marked
// by anchor: everything after the end of that element's opening tag, up to
// (but not including) the element carrying the first of stops that occurs
// later in the document. Multiple logical chapters often share one physical
// file distinguished only by anchors; stops are the anchors of the sibling
// entries, so slices never overlap.
//
// Returns (data, false) unchanged when the anchor is not found; the caller
// falls back to stripping the whole document.
func sliceAtAnchor(data []byte, anchor string, stops []string) ([]byte, bool) {
	loc := anchorAttrPattern(anchor).FindIndex(data)
	if loc == nil {
		return data, false
	}

	gt := bytes.IndexByte(data[loc[1]:], '>')
	if gt < 0 {
		return data, false
	}
	start := loc[1] + gt + 1

	end := len(data)
	for _, stop := range stops {
		sl := anchorAttrPattern(stop).FindIndex(data[start:])
		if sl == nil {
			continue
		}
		cut := start + sl[0]
		// Back up to the "<" opening the stop element so its tag is excluded.
		if lt := bytes.LastIndexByte(data[start:cut], '<'); lt >= 0 {
			cut = start + lt
		}
		if cut < end {
			end = cut
		}
	}

	return data[start:end], true
}

// collapseSpaces collapses all whitespace runs to single spaces and trims
// the ends.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isNoiseTitle reports whether a candidate chapter title matches the
// front-matter denylist: case-insensitive substring match after NFC
// normalization, so composed and decomposed Vietnamese diacritics compare
// equal.
func isNoiseTitle(title string, denylist []string) bool {
	t := strings.ToLower(norm.NFC.String(title))
	for _, kw := range denylist {
		if strings.Contains(t, strings.ToLower(norm.NFC.String(kw))) {
			return true
		}
	}
	return false
}

// isNoiseFilename reports whether a spine item's filename matches the
// filename denylist.
func isNoiseFilename(name string, denylist []string) bool {
	n := strings.ToLower(name)
	for _, kw := range denylist {
		if strings.Contains(n, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// echoPunctuation is trimmed after a stripped title echo: separator
// punctuation the markup left between a heading and the body text.
const echoPunctuation = ":;-–—. \t"

// stripTitleEcho removes an echoed copy of the chapter's own title from the
// start of its content (case-insensitive exact prefix match), plus any
// separator punctuation immediately following it.
func stripTitleEcho(content, title string) string {
	t := norm.NFC.String(strings.TrimSpace(title))
	if t == "" || len(content) < len(t) {
		return content
	}
	if !strings.EqualFold(content[:len(t)], t) {
		return content
	}
	return strings.TrimLeft(content[len(t):], echoPunctuation)
}

// truncateRunes caps s at max runes without splitting a UTF-8 sequence.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

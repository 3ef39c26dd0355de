package chapterize

// ParsedBook is the result of parsing an ePub archive: metadata plus the
// ordered chapter sequence ready for narration.
type ParsedBook struct {
	// Title is the book title, or "Unknown Title" when the package
	// document declares none.
	Title string

	// Author is the primary dc:creator value, or "Unknown Author" when
	// the package document declares none.
	Author string

	// Language is the first dc:language value (BCP 47 tag, e.g., "vi", "en").
	// Empty when the package document declares none.
	Language string

	// Chapters holds the extracted chapters in narration order. Navigation
	// order wins over spine order when a usable table of contents exists.
	// Empty when no extractable prose was found.
	Chapters []Chapter

	// Source reports which extraction stage produced Chapters.
	Source Source

	// Warnings lists non-fatal anomalies encountered during parsing.
	Warnings []string
}

// Chapter is a single narration unit: a display title and markup-free,
// whitespace-collapsed plain text.
type Chapter struct {
	Title   string
	Content string
}

// Source identifies the extraction stage that produced the chapter list.
type Source int

const (
	// SourceNone means every stage was exhausted with zero chapters.
	SourceNone Source = iota

	// SourceNav means chapters came from the ePub 3 nav document.
	SourceNav

	// SourceNCX means chapters came from the ePub 2 NCX table of contents.
	SourceNCX

	// SourceSpine means chapters came from the spine reading-order fallback.
	SourceSpine
)

// String returns a short name for the source, for diagnostics.
func (s Source) String() string {
	switch s {
	case SourceNav:
		return "nav"
	case SourceNCX:
		return "ncx"
	case SourceSpine:
		return "spine"
	default:
		return "none"
	}
}

// manifestItem represents an entry in the OPF <manifest> element.
type manifestItem struct {
	// ID is the unique identifier of this manifest item.
	ID string

	// Href is the file path relative to the OPF file location.
	Href string

	// MediaType is the MIME type of the resource.
	MediaType string

	// Properties contains space-separated property values (ePub 3, e.g., "nav").
	Properties string
}

// spineItem represents an entry in the OPF <spine> element with its
// manifest reference resolved.
type spineItem struct {
	// IDRef is the idref attribute value from the <itemref> element.
	IDRef string

	// Href is the content file path relative to the OPF file location.
	// Empty when the idref does not resolve to a manifest item.
	Href string

	// Linear indicates whether this item is part of the linear reading order.
	Linear bool
}

// navEntry is a flattened navigation target: a candidate chapter before
// filtering and content extraction. Produced by the nav and NCX resolvers,
// consumed immediately; never part of the public API.
type navEntry struct {
	// title is the display text of the navigation entry.
	title string

	// file is the ZIP-internal path of the target content document.
	file string

	// anchor is the in-document fragment identifier, without the leading
	// "#". Empty when the entry targets the whole file.
	anchor string
}

package chapterize

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"unicode/utf8"
)

// expectedMimetype is the required content of the "mimetype" file in a valid ePub.
const expectedMimetype = "application/epub+zip"

// Parse parses raw ePub archive bytes into a ParsedBook with default options.
func Parse(data []byte) (*ParsedBook, error) {
	return ParseWithOptions(data, nil)
}

// ParseWithOptions parses raw ePub archive bytes with the given options.
// A nil opts means defaults; zero-valued fields fall back to defaults too.
func ParseWithOptions(data []byte, opts *Options) (*ParsedBook, error) {
	return NewReaderWithOptions(bytes.NewReader(data), int64(len(data)), opts)
}

// NewReader parses an ePub from an io.ReaderAt with default options.
func NewReader(r io.ReaderAt, size int64) (*ParsedBook, error) {
	return NewReaderWithOptions(r, size, nil)
}

// NewReaderWithOptions parses an ePub from an io.ReaderAt with the given options.
func NewReaderWithOptions(r io.ReaderAt, size int64, opts *Options) (*ParsedBook, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("chapterize: open zip: %v: %w", err, ErrMalformedArchive)
	}
	return parseArchive(zr, opts)
}

// Open reads and parses the ePub file at the given path with default options.
func Open(path string) (*ParsedBook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chapterize: open %s: %w", path, err)
	}
	return Parse(data)
}

// parser holds the per-call state of a single parse: the archive handle,
// the manifest and spine tables, and the warnings accumulator. A fresh
// parser is constructed for every call, so concurrent parses share nothing.
type parser struct {
	zip          *zip.Reader
	zipExact     map[string]*zip.File // exact-match ZIP file index
	zipLower     map[string]*zip.File // lowercase ZIP file index
	opfPath      string
	pkg          *opfPackage
	manifestByID map[string]*manifestItem
	spine        []spineItem
	opts         *Options
	warnings     []string
}

// parseArchive runs the full pipeline: structural loading, then the
// nav → NCX → spine fallback chain, then deduplication.
func parseArchive(zr *zip.Reader, opts *Options) (*ParsedBook, error) {
	p := &parser{
		zip:  zr,
		opts: opts.withDefaults(),
	}
	p.buildZipIndex()
	p.validateMimetype()

	if err := p.checkDRM(); err != nil {
		return nil, err
	}

	opfPath, err := p.parseContainer()
	if err != nil {
		return nil, err
	}
	p.opfPath = opfPath

	opfFile := p.findFile(opfPath)
	if opfFile == nil {
		return nil, fmt.Errorf("chapterize: package document not found: %s: %w", opfPath, ErrMalformedArchive)
	}
	opfData, err := readZipFile(opfFile)
	if err != nil {
		return nil, fmt.Errorf("chapterize: read package document: %v: %w", err, ErrMalformedArchive)
	}

	pkg, err := parseOPF(opfData)
	if err != nil {
		return nil, err
	}
	p.pkg = pkg
	p.manifestByID = buildManifestMap(pkg.Manifest)
	p.spine = buildSpine(pkg.Spine, p.manifestByID)

	book := &ParsedBook{
		Title:    firstNonEmpty(pkg.Metadata.Titles, unknownTitle),
		Author:   firstNonEmpty(pkg.Metadata.Creators, unknownAuthor),
		Language: firstNonEmpty(pkg.Metadata.Languages, ""),
	}

	chapters, source := p.extractChapters()
	book.Chapters = dedupChapters(chapters)
	book.Source = source
	book.Warnings = p.warnings
	return book, nil
}

// extractChapters runs the three extraction stages in order, each a
// fallback of the previous one when it yields zero usable chapters.
func (p *parser) extractChapters() ([]Chapter, Source) {
	if chapters := p.navChapters(); len(chapters) > 0 {
		return chapters, SourceNav
	}
	if chapters := p.ncxChapters(); len(chapters) > 0 {
		return chapters, SourceNCX
	}
	if chapters := p.spineChapters(); len(chapters) > 0 {
		return chapters, SourceSpine
	}
	return nil, SourceNone
}

// chaptersFromEntries converts navigation entries (from either the nav or
// NCX resolver) into chapters: denylist filtering, content reading,
// anchor-scoped extraction, title-echo removal, the minimum-length floor,
// and the content cap. Entries that fail any step are skipped, never errors.
func (p *parser) chaptersFromEntries(entries []navEntry) []Chapter {
	// Anchors referenced per file: multiple logical chapters may share one
	// physical document, and each slice must stop where a sibling's begins.
	anchorsByFile := make(map[string][]string)
	for _, e := range entries {
		if e.anchor != "" {
			anchorsByFile[e.file] = append(anchorsByFile[e.file], e.anchor)
		}
	}

	var chapters []Chapter
	for _, e := range entries {
		title := collapseSpaces(e.title)
		if isNoiseTitle(title, p.opts.TitleDenylist) {
			continue
		}

		data, err := p.readContent(e.file)
		if err != nil {
			p.warn(fmt.Sprintf("skipping unreadable chapter %s: %v", e.file, err))
			continue
		}

		if e.anchor != "" {
			stops := otherAnchors(anchorsByFile[e.file], e.anchor)
			// Falls back to the whole document when the anchor is absent.
			data, _ = sliceAtAnchor(data, e.anchor, stops)
		}

		content := stripTitleEcho(stripMarkup(data), title)
		if utf8.RuneCountInString(content) <= p.opts.MinChapterRunes {
			continue
		}

		if title == "" {
			title = fmt.Sprintf("Chapter %d", len(chapters)+1)
		}
		chapters = append(chapters, Chapter{
			Title:   title,
			Content: truncateRunes(content, p.opts.MaxContentRunes),
		})
	}
	return chapters
}

// otherAnchors returns all anchors except the given one.
func otherAnchors(anchors []string, except string) []string {
	var out []string
	for _, a := range anchors {
		if a != except {
			out = append(out, a)
		}
	}
	return out
}

// validateMimetype checks that the first ZIP entry is named "mimetype" and
// contains "application/epub+zip". Deviations are recorded as warnings.
func (p *parser) validateMimetype() {
	if len(p.zip.File) == 0 {
		p.warn("empty ZIP archive; mimetype entry missing")
		return
	}

	first := p.zip.File[0]
	if first.Name != "mimetype" {
		p.warn("first ZIP entry is not \"mimetype\"")
		return
	}

	data, err := readZipFile(first)
	if err != nil {
		p.warn(fmt.Sprintf("cannot read mimetype entry: %v", err))
		return
	}

	if string(data) != expectedMimetype {
		p.warn(fmt.Sprintf("unexpected mimetype: %q", string(data)))
	}
}

// buildZipIndex builds exact-match and lowercase ZIP file indexes for O(1) lookups.
func (p *parser) buildZipIndex() {
	p.zipExact = make(map[string]*zip.File, len(p.zip.File))
	p.zipLower = make(map[string]*zip.File, len(p.zip.File))
	for _, f := range p.zip.File {
		if _, exists := p.zipExact[f.Name]; !exists {
			p.zipExact[f.Name] = f // first match wins for exact
		}
		lower := strings.ToLower(f.Name)
		if _, exists := p.zipLower[lower]; !exists {
			p.zipLower[lower] = f // first match wins for case-insensitive
		}
	}
}

// findFile looks up a ZIP entry by path using the pre-built index.
// It tries an exact match first, then falls back to a case-insensitive match.
func (p *parser) findFile(name string) *zip.File {
	if f, ok := p.zipExact[name]; ok {
		return f
	}
	if f, ok := p.zipLower[strings.ToLower(name)]; ok {
		return f
	}
	return nil
}

// readContent reads a content file by its ZIP-internal path, with the BOM
// stripped.
func (p *parser) readContent(name string) ([]byte, error) {
	f := p.findFile(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path.Clean(name))
	}
	data, err := readZipFile(f)
	if err != nil {
		return nil, err
	}
	return stripBOM(data), nil
}

// warn records a non-fatal anomaly.
func (p *parser) warn(msg string) {
	p.warnings = append(p.warnings, msg)
}

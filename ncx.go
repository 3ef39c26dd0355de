package chapterize

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// --- NCX XML decoding structs (ePub 2) ---

// ncxDocument represents the root <ncx> element of an NCX file.
type ncxDocument struct {
	XMLName xml.Name  `xml:"ncx"`
	NavMap  ncxNavMap `xml:"navMap"`
}

// ncxNavMap represents the <navMap> element containing top-level navPoints.
type ncxNavMap struct {
	NavPoints []ncxNavPoint `xml:"navPoint"`
}

// ncxNavPoint represents a <navPoint> element which may contain nested navPoints.
type ncxNavPoint struct {
	ID       string        `xml:"id,attr"`
	Label    ncxNavLabel   `xml:"navLabel"`
	Content  ncxContent    `xml:"content"`
	Children []ncxNavPoint `xml:"navPoint"`
}

// ncxNavLabel represents the <navLabel> element containing the display text.
type ncxNavLabel struct {
	Text string `xml:"text"`
}

// ncxContent represents the <content> element with its src attribute.
type ncxContent struct {
	Src string `xml:"src,attr"`
}

// ncxChapters runs the ePub 2 NCX resolver. It returns nil when the spine
// declares no toc reference, the NCX cannot be read or parsed, or every
// navPoint is filtered out — the caller then falls back to the spine walk.
func (p *parser) ncxChapters() []Chapter {
	tocID := p.pkg.Spine.Toc
	if tocID == "" {
		return nil
	}

	ncxItem, ok := p.manifestByID[tocID]
	if !ok {
		return nil
	}

	ncxPath := resolveRelativePath(p.opfPath, ncxItem.Href)
	if ncxPath == "" {
		p.warn(fmt.Sprintf("NCX href escapes archive root: %s", ncxItem.Href))
		return nil
	}

	data, err := p.readContent(ncxPath)
	if err != nil {
		p.warn(fmt.Sprintf("failed to read NCX file: %v", err))
		return nil
	}

	data = preprocessHTMLEntities(data)
	data = stripBOM(data)

	var doc ncxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		p.warn(fmt.Sprintf("failed to parse NCX file: %v", err))
		return nil
	}

	var entries []navEntry
	p.collectNavPoints(doc.NavMap.NavPoints, ncxPath, 0, &entries)
	return p.chaptersFromEntries(entries)
}

// collectNavPoints recursively flattens navPoints into entries in document
// order. NCX nesting is unbounded in the format, so recursion is capped at
// the configured depth; anything deeper is dropped with a warning rather
// than risking the stack on a pathological file.
func (p *parser) collectNavPoints(points []ncxNavPoint, basePath string, depth int, out *[]navEntry) {
	if len(points) == 0 {
		return
	}
	if depth >= p.opts.MaxNCXDepth {
		p.warn(fmt.Sprintf("NCX navPoint nesting exceeds %d levels; deeper entries ignored", p.opts.MaxNCXDepth))
		return
	}

	for _, np := range points {
		if src := strings.TrimSpace(np.Content.Src); src != "" {
			file, anchor := splitFragment(src)
			if resolved := resolveRelativePath(basePath, file); resolved != "" {
				*out = append(*out, navEntry{
					title:  collapseSpaces(np.Label.Text),
					file:   resolved,
					anchor: anchor,
				})
			}
		}
		p.collectNavPoints(np.Children, basePath, depth+1, out)
	}
}

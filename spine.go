package chapterize

import (
	"bytes"
	"fmt"
	"path"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// titleSelectors are tried in order when deriving a chapter title from a
// spine item's markup: top headings first, then anything styled as a chapter.
var titleSelectors = []string{"h1", "h2", "[class*=chapter]"}

// spineChapters is the last-resort extractor: it walks the spine reading
// order directly, ignoring navigation structure entirely. Items whose
// filename matches the noise denylist are skipped, and stripped content
// must clear a higher length floor than the TOC paths since there is no
// navigation title to trust. This stage never fails; an empty or unreadable
// spine simply yields zero chapters.
func (p *parser) spineChapters() []Chapter {
	var chapters []Chapter

	for _, si := range p.spine {
		if si.Href == "" {
			continue
		}
		if isNoiseFilename(path.Base(si.Href), p.opts.FilenameDenylist) {
			continue
		}

		href := resolveRelativePath(p.opfPath, si.Href)
		if href == "" {
			continue
		}

		data, err := p.readContent(href)
		if err != nil {
			p.warn(fmt.Sprintf("skipping unreadable spine item %s: %v", href, err))
			continue
		}

		content := stripMarkup(data)
		if utf8.RuneCountInString(content) <= p.opts.MinFallbackRunes {
			continue
		}

		title := deriveTitle(data)
		if title == "" || isNoiseTitle(title, p.opts.TitleDenylist) {
			title = fmt.Sprintf("Chapter %d", len(chapters)+1)
		} else {
			content = stripTitleEcho(content, title)
		}

		chapters = append(chapters, Chapter{
			Title:   title,
			Content: truncateRunes(content, p.opts.MaxContentRunes),
		})
	}

	return chapters
}

// deriveTitle extracts a display title from a content document: the first
// <h1>, else the first <h2>, else the first element whose class mentions
// "chapter". Returns "" when nothing matches or the markup is unparsable.
func deriveTitle(data []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	for _, sel := range titleSelectors {
		if title := collapseSpaces(doc.Find(sel).First().Text()); title != "" {
			return title
		}
	}
	return ""
}

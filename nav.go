package chapterize

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// navChapters runs the ePub 3 navigation resolver. It returns nil when no
// nav document is declared, the document cannot be read or parsed, or every
// entry is filtered out — the caller then falls back to the NCX resolver.
func (p *parser) navChapters() []Chapter {
	navItem := findNavItem(p.pkg.Manifest, p.manifestByID)
	if navItem == nil {
		return nil
	}

	navPath := resolveRelativePath(p.opfPath, navItem.Href)
	if navPath == "" {
		p.warn(fmt.Sprintf("nav document href escapes archive root: %s", navItem.Href))
		return nil
	}

	data, err := p.readContent(navPath)
	if err != nil {
		p.warn(fmt.Sprintf("failed to read nav document: %v", err))
		return nil
	}

	entries, err := parseNavDocument(data, navPath)
	if err != nil {
		p.warn(fmt.Sprintf("failed to parse nav document: %v", err))
		return nil
	}

	return p.chaptersFromEntries(entries)
}

// parseNavDocument parses an ePub 3 XHTML nav document and returns its
// table-of-contents entries flattened in document order. basePath is the
// ZIP-internal path of the nav document (for resolving relative hrefs).
//
// The <nav> whose epub:type contains the "toc" token is used; when no nav
// is explicitly marked, the first <nav> element is assumed to be the TOC.
func parseNavDocument(data []byte, basePath string) ([]navEntry, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("chapterize: parse nav document: %w", err)
	}

	var navNodes []*html.Node
	var findNavs func(*html.Node)
	findNavs = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "nav" {
			navNodes = append(navNodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findNavs(c)
		}
	}
	findNavs(doc)

	if len(navNodes) == 0 {
		return nil, nil
	}

	chosen := navNodes[0]
	for _, nav := range navNodes {
		if hasEpubType(nav, "toc") {
			chosen = nav
			break
		}
	}

	ol := findFirstChildElement(chosen, "ol")
	if ol == nil {
		return nil, nil
	}

	var entries []navEntry
	collectListEntries(ol, basePath, &entries)
	return entries, nil
}

// collectListEntries walks an <ol> element's <li> children in document
// order, appending one navEntry per linked item and descending into nested
// lists. Nesting is flattened: narration order is the document order of the
// links, not the tree shape.
func collectListEntries(ol *html.Node, basePath string, out *[]navEntry) {
	for c := ol.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}

		var title, href string
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			if gc.Type != html.ElementNode {
				continue
			}
			switch gc.Data {
			case "a":
				// Keep the first <a> (per ePub 3 nav spec, each <li> has exactly one).
				if href == "" {
					href = navGetAttr(gc, "href")
					title = collapseSpaces(nodeTextContent(gc))
				}
			case "span":
				if title == "" {
					title = collapseSpaces(nodeTextContent(gc))
				}
			}
		}

		// Headings without a target (bare <span> group labels) are not
		// narratable on their own; only linked entries become chapters.
		if href != "" {
			file, anchor := splitFragment(href)
			if resolved := resolveRelativePath(basePath, file); resolved != "" {
				*out = append(*out, navEntry{title: title, file: resolved, anchor: anchor})
			}
		}

		// Nested lists follow their parent entry in narration order.
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			if gc.Type == html.ElementNode && gc.Data == "ol" {
				collectListEntries(gc, basePath, out)
			}
		}
	}
}

// hasEpubType checks whether n has an epub:type attribute containing the
// given token (space-separated token matching).
func hasEpubType(n *html.Node, typeName string) bool {
	val := navGetAttr(n, "epub:type")
	for _, t := range strings.Fields(val) {
		if t == typeName {
			return true
		}
	}
	return false
}

// navGetAttr returns the value of the attribute with the given key on n.
func navGetAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// findFirstChildElement performs a depth-first search for the first
// descendant element with the given tag name.
func findFirstChildElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return c
		}
		if found := findFirstChildElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// nodeTextContent recursively collects all text content within a node.
func nodeTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeTextContent(c))
	}
	return sb.String()
}

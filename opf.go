package chapterize

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Sentinel values used when the package document omits metadata.
const (
	unknownTitle  = "Unknown Title"
	unknownAuthor = "Unknown Author"
)

// opfPackage represents the root <package> element of an OPF file.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

// opfMetadata holds the Dublin Core metadata elements consumed by this
// package. dc:title and dc:creator appear zero, one, or many times in the
// wild; slice-typed fields decode every shape into a list uniformly, so no
// consumer ever needs to distinguish single-element from multi-element
// documents.
type opfMetadata struct {
	Titles    []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creators  []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Languages []opfDCElement `xml:"http://purl.org/dc/elements/1.1/ language"`
}

// opfDCElement holds a Dublin Core element's text content.
type opfDCElement struct {
	Value string `xml:",chardata"`
}

// opfManifest wraps the <manifest> element.
type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

// opfManifestItem represents a single <item> in the manifest.
type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

// opfSpine wraps the <spine> element.
type opfSpine struct {
	Toc      string            `xml:"toc,attr"`
	ItemRefs []opfSpineItemRef `xml:"itemref"`
}

// opfSpineItemRef represents a single <itemref> in the spine.
type opfSpineItemRef struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

// parseOPF parses the package document and returns the parsed structure.
// A decode failure is a structural failure: ErrMalformedArchive is returned.
func parseOPF(data []byte) (*opfPackage, error) {
	data = preprocessHTMLEntities(data)
	data = stripBOM(data)

	var pkg opfPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("chapterize: parse OPF: %v: %w", err, ErrMalformedArchive)
	}

	if pkg.Version == "" {
		// Default to 2.0 if version attribute is missing.
		pkg.Version = "2.0"
	}

	return &pkg, nil
}

// buildManifestMap creates an id → item lookup from the parsed OPF manifest.
func buildManifestMap(manifest opfManifest) map[string]*manifestItem {
	byID := make(map[string]*manifestItem, len(manifest.Items))
	for _, item := range manifest.Items {
		byID[item.ID] = &manifestItem{
			ID:         item.ID,
			Href:       item.Href,
			MediaType:  item.MediaType,
			Properties: item.Properties,
		}
	}
	return byID
}

// buildSpine creates the reading-order list from the parsed OPF spine,
// resolving each idref through the manifest. Unresolvable idrefs yield
// entries with an empty Href; consumers skip those.
func buildSpine(spine opfSpine, manifestByID map[string]*manifestItem) []spineItem {
	items := make([]spineItem, 0, len(spine.ItemRefs))
	for _, ref := range spine.ItemRefs {
		si := spineItem{
			IDRef:  ref.IDRef,
			Linear: ref.Linear != "no",
		}
		if mi, ok := manifestByID[ref.IDRef]; ok {
			si.Href = mi.Href
		}
		items = append(items, si)
	}
	return items
}

// findNavItem returns the manifest item flagged as the ePub 3 navigation
// document (properties containing the space-separated token "nav"), or nil.
// The OPF slice is iterated (not the map) for deterministic document order.
func findNavItem(manifest opfManifest, manifestByID map[string]*manifestItem) *manifestItem {
	for _, raw := range manifest.Items {
		for _, prop := range strings.Fields(raw.Properties) {
			if prop == "nav" {
				return manifestByID[raw.ID]
			}
		}
	}
	return nil
}

// firstNonEmpty returns the first non-empty trimmed value, or fallback.
func firstNonEmpty(elems []opfDCElement, fallback string) string {
	for _, e := range elems {
		if v := strings.TrimSpace(e.Value); v != "" {
			return v
		}
	}
	return fallback
}

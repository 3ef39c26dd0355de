package chapterize

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// containerXML models the META-INF/container.xml file used to locate the OPF.
type containerXML struct {
	XMLName   xml.Name   `xml:"container"`
	RootFiles []rootFile `xml:"rootfiles>rootfile"`
}

// rootFile represents a single <rootfile> element inside container.xml.
type rootFile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

// containerPath is the well-known location of container.xml in an ePub archive.
const containerPath = "META-INF/container.xml"

// parseContainer locates and parses the OPF path from the container
// descriptor. A missing or unparsable container.xml is a structural
// failure: a wrapped ErrMalformedArchive is returned.
func (p *parser) parseContainer() (string, error) {
	f := p.findFile(containerPath)
	if f == nil {
		return "", fmt.Errorf("chapterize: missing %s: %w", containerPath, ErrMalformedArchive)
	}

	data, err := readZipFile(f)
	if err != nil {
		return "", fmt.Errorf("chapterize: read container.xml: %v: %w", err, ErrMalformedArchive)
	}

	data = stripBOM(data)

	var c containerXML
	if err := xml.Unmarshal(data, &c); err != nil {
		return "", fmt.Errorf("chapterize: parse container.xml: %v: %w", err, ErrMalformedArchive)
	}

	if len(c.RootFiles) == 0 {
		return "", fmt.Errorf("chapterize: container.xml has no rootfile entries: %w", ErrMalformedArchive)
	}

	var fallbackPath string
	for _, rf := range c.RootFiles {
		fullPath := strings.TrimSpace(rf.FullPath)
		if fullPath == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(rf.MediaType), "application/oebps-package+xml") {
			return fullPath, nil
		}
		if fallbackPath == "" {
			fallbackPath = fullPath
		}
	}

	if fallbackPath == "" {
		return "", fmt.Errorf("chapterize: container.xml rootfile has empty full-path: %w", ErrMalformedArchive)
	}

	return fallbackPath, nil
}

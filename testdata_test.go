package chapterize

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

// buildEPUB creates an in-memory ZIP archive from the provided files map
// (ZIP-internal path → content) and returns the raw bytes. The mimetype
// entry, when present, is written first as the ePub spec requires.
// It calls t.Fatal on any error.
func buildEPUB(t testing.TB, files map[string]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	if mt, ok := files["mimetype"]; ok {
		fw, err := zw.Create("mimetype")
		if err != nil {
			t.Fatalf("buildEPUB: create mimetype: %v", err)
		}
		if _, err := io.WriteString(fw, mt); err != nil {
			t.Fatalf("buildEPUB: write mimetype: %v", err)
		}
	}
	for name, content := range files {
		if name == "mimetype" {
			continue
		}
		fw, err := zw.Create(name)
		if err != nil {
			t.Fatalf("buildEPUB: create %s: %v", name, err)
		}
		if _, err := io.WriteString(fw, content); err != nil {
			t.Fatalf("buildEPUB: write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("buildEPUB: close writer: %v", err)
	}
	return buf.Bytes()
}

// buildZipReader creates an in-memory ZIP archive and returns a *zip.Reader
// over it, for tests that exercise zip-level helpers directly.
func buildZipReader(t testing.TB, files map[string]string) *zip.Reader {
	t.Helper()
	data := buildEPUB(t, files)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("buildZipReader: open reader: %v", err)
	}
	return zr
}

// containerFor returns a minimal container.xml pointing at opfPath.
func containerFor(opfPath string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="` + opfPath + `" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`
}

// chapterHTML wraps body content in a minimal XHTML document.
func chapterHTML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>ignored</title><style>p { margin: 0 }</style></head>
<body>` + body + `</body>
</html>`
}

// longParagraph returns a <p> block whose stripped text is comfortably
// above every length floor.
func longParagraph(seed string) string {
	text := seed
	for len(text) < 300 {
		text += " The quick brown fox jumps over the lazy dog and keeps running through the fields."
	}
	return "<p>" + text + "</p>"
}

// newTestParser constructs a parser over the given archive files with
// default options, for tests that exercise resolver methods directly.
func newTestParser(t *testing.T, files map[string]string) *parser {
	t.Helper()
	p := &parser{
		zip:  buildZipReader(t, files),
		opts: DefaultOptions(),
	}
	p.buildZipIndex()
	return p
}

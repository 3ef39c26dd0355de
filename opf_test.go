package chapterize

import (
	"errors"
	"testing"
)

const sampleOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="id">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Đất Rừng Phương Nam</dc:title>
    <dc:title>Alternate Title</dc:title>
    <dc:creator>Đoàn Giỏi</dc:creator>
    <dc:language>vi</dc:language>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="ch1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="ch1"/>
    <itemref idref="ch2" linear="no"/>
    <itemref idref="ghost"/>
  </spine>
</package>`

func TestParseOPF_Metadata(t *testing.T) {
	pkg, err := parseOPF([]byte(sampleOPF))
	if err != nil {
		t.Fatalf("parseOPF returned error: %v", err)
	}

	if got := firstNonEmpty(pkg.Metadata.Titles, unknownTitle); got != "Đất Rừng Phương Nam" {
		t.Errorf("title = %q", got)
	}
	if got := firstNonEmpty(pkg.Metadata.Creators, unknownAuthor); got != "Đoàn Giỏi" {
		t.Errorf("author = %q", got)
	}
	if got := firstNonEmpty(pkg.Metadata.Languages, ""); got != "vi" {
		t.Errorf("language = %q", got)
	}
}

func TestParseOPF_MissingMetadataSentinels(t *testing.T) {
	pkg, err := parseOPF([]byte(`<package xmlns="http://www.idpf.org/2007/opf"><metadata/><manifest/><spine/></package>`))
	if err != nil {
		t.Fatalf("parseOPF returned error: %v", err)
	}
	if got := firstNonEmpty(pkg.Metadata.Titles, unknownTitle); got != unknownTitle {
		t.Errorf("title = %q, want sentinel", got)
	}
	if got := firstNonEmpty(pkg.Metadata.Creators, unknownAuthor); got != unknownAuthor {
		t.Errorf("author = %q, want sentinel", got)
	}
}

func TestParseOPF_SingleManifestItem(t *testing.T) {
	// A manifest with exactly one item decodes into a one-element list;
	// no consumer sees a different shape than the multi-item case.
	pkg, err := parseOPF([]byte(`<package xmlns="http://www.idpf.org/2007/opf">
  <manifest><item id="only" href="only.xhtml" media-type="application/xhtml+xml"/></manifest>
  <spine><itemref idref="only"/></spine>
</package>`))
	if err != nil {
		t.Fatalf("parseOPF returned error: %v", err)
	}
	byID := buildManifestMap(pkg.Manifest)
	if len(byID) != 1 || byID["only"] == nil || byID["only"].Href != "only.xhtml" {
		t.Errorf("manifest map = %+v", byID)
	}
}

func TestParseOPF_Invalid(t *testing.T) {
	_, err := parseOPF([]byte("<package><manifest"))
	if !errors.Is(err, ErrMalformedArchive) {
		t.Fatalf("expected ErrMalformedArchive, got %v", err)
	}
}

func TestParseOPF_DefaultVersion(t *testing.T) {
	pkg, err := parseOPF([]byte(`<package xmlns="http://www.idpf.org/2007/opf"><metadata/><manifest/><spine/></package>`))
	if err != nil {
		t.Fatalf("parseOPF returned error: %v", err)
	}
	if pkg.Version != "2.0" {
		t.Errorf("version = %q, want default 2.0", pkg.Version)
	}
}

func TestBuildSpine(t *testing.T) {
	pkg, err := parseOPF([]byte(sampleOPF))
	if err != nil {
		t.Fatalf("parseOPF returned error: %v", err)
	}
	byID := buildManifestMap(pkg.Manifest)
	spine := buildSpine(pkg.Spine, byID)

	if len(spine) != 3 {
		t.Fatalf("spine length = %d, want 3", len(spine))
	}
	if spine[0].Href != "text/ch1.xhtml" || !spine[0].Linear {
		t.Errorf("spine[0] = %+v", spine[0])
	}
	if spine[1].Href != "text/ch2.xhtml" || spine[1].Linear {
		t.Errorf("spine[1] = %+v", spine[1])
	}
	// Unresolvable idref keeps its place with an empty href.
	if spine[2].IDRef != "ghost" || spine[2].Href != "" {
		t.Errorf("spine[2] = %+v", spine[2])
	}
}

func TestFindNavItem(t *testing.T) {
	pkg, err := parseOPF([]byte(sampleOPF))
	if err != nil {
		t.Fatalf("parseOPF returned error: %v", err)
	}
	byID := buildManifestMap(pkg.Manifest)

	nav := findNavItem(pkg.Manifest, byID)
	if nav == nil || nav.Href != "nav.xhtml" {
		t.Fatalf("nav item = %+v", nav)
	}
}

func TestFindNavItem_TokenMatchOnly(t *testing.T) {
	pkg, err := parseOPF([]byte(`<package xmlns="http://www.idpf.org/2007/opf">
  <manifest>
    <item id="a" href="a.xhtml" properties="navigation"/>
    <item id="b" href="b.xhtml" properties="scripted nav"/>
  </manifest>
  <spine/>
</package>`))
	if err != nil {
		t.Fatalf("parseOPF returned error: %v", err)
	}
	byID := buildManifestMap(pkg.Manifest)

	nav := findNavItem(pkg.Manifest, byID)
	if nav == nil || nav.ID != "b" {
		t.Fatalf("nav item = %+v, want the space-separated token match", nav)
	}
}

func TestParseOPF_EntityPreprocessing(t *testing.T) {
	pkg, err := parseOPF([]byte(`<package xmlns="http://www.idpf.org/2007/opf">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>War&nbsp;and&nbsp;Peace</dc:title>
  </metadata>
  <manifest/><spine/>
</package>`))
	if err != nil {
		t.Fatalf("parseOPF returned error: %v", err)
	}
	got := firstNonEmpty(pkg.Metadata.Titles, unknownTitle)
	if got != "War\u00a0and\u00a0Peace" {
		t.Errorf("title = %q", got)
	}
}

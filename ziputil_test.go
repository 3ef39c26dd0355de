package chapterize

import (
	"strings"
	"testing"
)

func TestResolveRelativePath(t *testing.T) {
	tests := []struct {
		base string
		href string
		want string
	}{
		{"OEBPS/content.opf", "ch1.xhtml", "OEBPS/ch1.xhtml"},
		{"OEBPS/content.opf", "text/ch1.xhtml", "OEBPS/text/ch1.xhtml"},
		{"OEBPS/toc.ncx", "../images/map.xhtml", "images/map.xhtml"},
		{"content.opf", "ch1.xhtml", "ch1.xhtml"},
		{"OEBPS/content.opf", "ch%201.xhtml", "OEBPS/ch 1.xhtml"},
		// Absolute and escaping paths are rejected.
		{"OEBPS/content.opf", "/etc/passwd", ""},
		{"content.opf", "../../outside.xhtml", ""},
	}
	for _, tt := range tests {
		if got := resolveRelativePath(tt.base, tt.href); got != tt.want {
			t.Errorf("resolveRelativePath(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}

func TestIsSafePath(t *testing.T) {
	safe := []string{"a.xhtml", "OEBPS/text/a.xhtml", "./a"}
	for _, p := range safe {
		if !isSafePath(p) {
			t.Errorf("isSafePath(%q) = false, want true", p)
		}
	}
	unsafe := []string{"/abs", "..", "../x", "../../etc/passwd"}
	for _, p := range unsafe {
		if isSafePath(p) {
			t.Errorf("isSafePath(%q) = true, want false", p)
		}
	}
}

func TestSplitFragment(t *testing.T) {
	tests := []struct {
		href     string
		file     string
		fragment string
	}{
		{"ch1.xhtml", "ch1.xhtml", ""},
		{"ch1.xhtml#sec2", "ch1.xhtml", "sec2"},
		{"#local", "", "local"},
		{"a#b#c", "a", "b#c"},
	}
	for _, tt := range tests {
		file, fragment := splitFragment(tt.href)
		if file != tt.file || fragment != tt.fragment {
			t.Errorf("splitFragment(%q) = (%q, %q), want (%q, %q)", tt.href, file, fragment, tt.file, tt.fragment)
		}
	}
}

func TestStripBOM(t *testing.T) {
	withBOM := []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}
	if got := string(stripBOM(withBOM)); got != "hi" {
		t.Errorf("stripBOM = %q", got)
	}
	plain := []byte("hi")
	if got := string(stripBOM(plain)); got != "hi" {
		t.Errorf("stripBOM without BOM = %q", got)
	}
}

func TestReadZipFileWithLimit(t *testing.T) {
	zr := buildZipReader(t, map[string]string{
		"big.txt": strings.Repeat("x", 1024),
	})

	if _, err := readZipFileWithLimit(zr.File[0], 100); err == nil {
		t.Error("expected error for entry exceeding the limit")
	}
	data, err := readZipFileWithLimit(zr.File[0], 2048)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) != 1024 {
		t.Errorf("read %d bytes, want 1024", len(data))
	}
}

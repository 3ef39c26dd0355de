package chapterize

// dedupPrefixRunes is the length of the content prefix compared when
// detecting duplicate chapters. Long enough that distinct chapters sharing
// a title (e.g., "Chapter 1" in two bundled volumes) stay separate, short
// enough that anchor-split front matter listed twice collapses.
const dedupPrefixRunes = 100

// dedupChapters removes chapters whose title and first 100 content runes
// both match an earlier chapter, keeping the first occurrence. Some ePubs
// list the same physical section under two TOC entries.
func dedupChapters(chapters []Chapter) []Chapter {
	if len(chapters) < 2 {
		return chapters
	}

	type key struct {
		title  string
		prefix string
	}

	seen := make(map[key]bool, len(chapters))
	out := chapters[:0]
	for _, ch := range chapters {
		k := key{title: ch.Title, prefix: truncateRunes(ch.Content, dedupPrefixRunes)}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, ch)
	}
	return out
}

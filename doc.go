// Package chapterize converts ePub archives into clean, ordered sequences
// of (title, content) chapters suitable for narration or text-to-speech.
//
// ePub production quality varies wildly: manifests omit navigation
// documents, anchors inside a single file mark multiple logical chapters,
// and front matter pollutes the spine. The parser degrades gracefully
// across three levels of structural information:
//
//  1. the ePub 3 navigation document's table-of-contents list,
//  2. the ePub 2 NCX table of contents (nested navPoints),
//  3. the spine reading order itself, with heading-derived or
//     synthesized chapter titles.
//
// Each stage runs only when the previous one produced zero usable
// chapters; [ParsedBook.Source] reports which one succeeded. All stages
// share the same content cleaning: markup stripping, anchor-scoped
// extraction, front-matter keyword filtering (Vietnamese and English),
// title-echo removal, and a content length cap. Duplicate chapters are
// collapsed before the result is returned.
//
// # Parsing
//
// Use [Parse] for in-memory bytes, [Open] for a file path, or [NewReader]
// for an [io.ReaderAt]:
//
//	book, err := chapterize.Parse(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, ch := range book.Chapters {
//	    fmt.Println(ch.Title, len(ch.Content))
//	}
//
// Thresholds and denylists are adjustable via [Options] and the
// WithOptions variants.
//
// # Error Handling
//
// Only structural failures are errors: [ErrMalformedArchive] when the
// input is not a zip or lacks the container/package descriptors, and
// [ErrDRMProtected] for DRM-wrapped files. Everything else — a missing
// nav document, an unreadable spine item, an empty manifest — degrades
// into the next fallback stage or a per-chapter skip, recorded in
// [ParsedBook.Warnings]. A book with no extractable prose parses
// successfully with an empty chapter list; whether that is an error is
// the caller's policy.
//
// Output is flattened narration text: no images, no rich formatting, and
// no rendering of DRM-protected content. Markup stripping is a deliberate
// best-effort text transform, not a validating HTML parse.
//
// Every call owns its state; parsing different archives concurrently from
// multiple goroutines is safe.
package chapterize

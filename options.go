package chapterize

// Default thresholds applied when Options fields are zero.
const (
	// defaultMinChapterRunes is the minimum cleaned-content length for a
	// chapter extracted via the nav or NCX paths. Shorter fragments are
	// discarded as noise.
	defaultMinChapterRunes = 20

	// defaultMinFallbackRunes is the minimum cleaned-content length for a
	// chapter extracted via the spine fallback. The bar is higher because
	// there is no navigation title to trust.
	defaultMinFallbackRunes = 100

	// defaultMaxContentRunes caps every chapter's content to bound
	// downstream memory and processing.
	defaultMaxContentRunes = 100_000

	// defaultMaxNCXDepth bounds navPoint recursion. The NCX format has no
	// enforced nesting limit; navPoints below this depth are ignored.
	defaultMaxNCXDepth = 64
)

// defaultTitleDenylist contains front-matter indicator keywords, matched
// case-insensitively as substrings against candidate chapter titles from
// the nav and NCX paths. The list covers Vietnamese and English only;
// other languages pass through unfiltered.
var defaultTitleDenylist = []string{
	// English.
	"cover",
	"title page",
	"table of contents",
	"contents",
	"copyright",
	"preface",
	"foreword",
	"acknowledgment",
	"acknowledgement",
	"dedication",
	"about the author",
	"metadata",
	"colophon",
	// Vietnamese.
	"mục lục",
	"lời cảm ơn",
	"lời nói đầu",
	"lời mở đầu",
	"lời tựa",
	"trang bìa",
	"bìa sách",
	"bản quyền",
	"về tác giả",
	"giới thiệu tác giả",
}

// defaultFilenameDenylist contains noise keywords matched against spine
// item filenames in the fallback path. Shorter than the title denylist:
// filenames are usually ASCII regardless of the book's language.
var defaultFilenameDenylist = []string{
	"cover",
	"title",
	"copyright",
	"author",
	"front",
	"toc",
	"nav",
	"contents",
}

// Options controls filtering thresholds and denylists. The zero value of
// any field means "use the default"; a nil *Options at the entry points
// means all defaults.
type Options struct {
	// MinChapterRunes is the minimum cleaned-content length (in runes) for
	// chapters from the nav/NCX paths.
	MinChapterRunes int

	// MinFallbackRunes is the minimum cleaned-content length (in runes)
	// for chapters from the spine fallback path.
	MinFallbackRunes int

	// MaxContentRunes caps each chapter's content length (in runes).
	MaxContentRunes int

	// MaxNCXDepth bounds NCX navPoint nesting depth.
	MaxNCXDepth int

	// TitleDenylist overrides the built-in bilingual front-matter keyword
	// list applied to candidate titles. Entries are matched
	// case-insensitively after NFC normalization.
	TitleDenylist []string

	// FilenameDenylist overrides the built-in noise keyword list applied
	// to spine item filenames in the fallback path.
	FilenameDenylist []string
}

// DefaultOptions returns an Options populated with the package defaults.
func DefaultOptions() *Options {
	return (&Options{}).withDefaults()
}

// withDefaults returns a copy of o with zero fields replaced by defaults.
// Safe to call on nil.
func (o *Options) withDefaults() *Options {
	out := Options{}
	if o != nil {
		out = *o
	}
	if out.MinChapterRunes == 0 {
		out.MinChapterRunes = defaultMinChapterRunes
	}
	if out.MinFallbackRunes == 0 {
		out.MinFallbackRunes = defaultMinFallbackRunes
	}
	if out.MaxContentRunes == 0 {
		out.MaxContentRunes = defaultMaxContentRunes
	}
	if out.MaxNCXDepth == 0 {
		out.MaxNCXDepth = defaultMaxNCXDepth
	}
	if out.TitleDenylist == nil {
		out.TitleDenylist = defaultTitleDenylist
	}
	if out.FilenameDenylist == nil {
		out.FilenameDenylist = defaultFilenameDenylist
	}
	return &out
}

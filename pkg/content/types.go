// Package content turns a conventionally-organized storage namespace
// (galleries/, blog/, pages/) into a normalized, cached content index and
// serves the derived views a presentation layer needs: per-kind listings,
// navigation, image variants.
package content

import (
	"time"
)

// Kind names the entry kinds the scanner produces.
const (
	KindGallery = "gallery"
	KindPost    = "post"
	KindPage    = "page"
)

// EntryInfo carries the fields shared by every indexed entry.
type EntryInfo struct {
	// ID is a stable identifier derived from the entry's path.
	ID string `json:"id"`
	// Slug is the URL-safe identifier, unique within the entry's kind.
	Slug string `json:"slug"`
	// Path is the logical storage path relative to the content root.
	Path string `json:"path"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Order is the optional manual sort position. Entries without one
	// sort after all ordered entries.
	Order *int `json:"order,omitempty"`

	// Hidden and Private control visibility in listings only; they are
	// not access control.
	Hidden  bool `json:"hidden,omitempty"`
	Private bool `json:"private,omitempty"`

	// ParentSlug optionally points at an enclosing gallery or section.
	// It is a relation, not ownership.
	ParentSlug string `json:"parentSlug,omitempty"`
}

// Exif holds the image attributes extracted best-effort from an original
// file. Extraction failure leaves fields absent; it never fails a scan.
type Exif struct {
	TakenAt *time.Time `json:"takenAt,omitempty"`
	Camera  string     `json:"camera,omitempty"`
	Width   int        `json:"width,omitempty"`
	Height  int        `json:"height,omitempty"`
}

// Photo is a single image inside a gallery.
type Photo struct {
	Filename    string   `json:"filename"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Hidden      bool     `json:"hidden,omitempty"`
	Exif        *Exif    `json:"exif,omitempty"`
}

// Gallery is a directory of photos plus its override metadata.
type Gallery struct {
	EntryInfo

	// CoverPath is the storage path of the cover image: the explicit
	// override when present, otherwise the first non-hidden photo in
	// filename order.
	CoverPath string   `json:"coverPath,omitempty"`
	Photos    []Photo  `json:"photos"`
	Tags      []string `json:"tags,omitempty"`

	// PasswordHash is a bcrypt digest when the gallery is protected.
	// Plaintext is never stored.
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Protected reports whether the gallery requires a password.
func (g *Gallery) Protected() bool { return g.PasswordHash != "" }

// Post is a dated blog entry.
type Post struct {
	EntryInfo

	// Date comes from front-matter. A post without one sorts to the
	// oldest position.
	Date *time.Time `json:"date,omitempty"`

	// Draft excludes the post from public listings but not from admin
	// views.
	Draft bool     `json:"draft,omitempty"`
	Tags  []string `json:"tags,omitempty"`

	// Content is the raw body text after the front-matter fence.
	Content string `json:"content"`

	// Excerpt is the explicit override or the first paragraph, capped.
	Excerpt string `json:"excerpt,omitempty"`

	// ReadingTime is ceil(words / 200), at least 1 for non-empty content.
	ReadingTime int `json:"readingTime"`

	// Cover is an optional image reference from front-matter.
	Cover string `json:"cover,omitempty"`

	// Images lists image references discovered in the body.
	Images []string `json:"images,omitempty"`
}

// Page has the same shape as Post minus date and tags, addressed by path
// rather than chronological slug.
type Page struct {
	EntryInfo

	Content     string   `json:"content"`
	Excerpt     string   `json:"excerpt,omitempty"`
	ReadingTime int      `json:"readingTime"`
	Cover       string   `json:"cover,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// Stats totals the index by kind.
type Stats struct {
	Galleries int `json:"galleries"`
	Photos    int `json:"photos"`
	Posts     int `json:"posts"`
	Pages     int `json:"pages"`
}

// Index is the aggregate a full scan produces. It is replaced wholesale on
// every rebuild, never patched in place.
type Index struct {
	Galleries []Gallery `json:"galleries"`
	Posts     []Post    `json:"posts"`
	Pages     []Page    `json:"pages"`

	// Tags maps a tag to its occurrence count. Counting is
	// case-sensitive: "Travel" and "travel" are distinct tags. That may
	// be unintended upstream, but normalizing silently would merge
	// content the author kept apart.
	Tags map[string]int `json:"tags"`

	Stats     Stats     `json:"stats"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Version increases monotonically across rebuilds.
	Version int64 `json:"version"`

	// Warnings lists per-entry problems recovered during the scan.
	Warnings []Warning `json:"warnings,omitempty"`
}

// GalleryBySlug returns the gallery with the given slug, or nil.
func (ix *Index) GalleryBySlug(slug string) *Gallery {
	for i := range ix.Galleries {
		if ix.Galleries[i].Slug == slug {
			return &ix.Galleries[i]
		}
	}
	return nil
}

// PostBySlug returns the post with the given slug, or nil.
func (ix *Index) PostBySlug(slug string) *Post {
	for i := range ix.Posts {
		if ix.Posts[i].Slug == slug {
			return &ix.Posts[i]
		}
	}
	return nil
}

// PageBySlug returns the page with the given slug, or nil.
func (ix *Index) PageBySlug(slug string) *Page {
	for i := range ix.Pages {
		if ix.Pages[i].Slug == slug {
			return &ix.Pages[i]
		}
	}
	return nil
}

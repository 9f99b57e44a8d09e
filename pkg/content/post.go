package content

import (
	"strings"

	"github.com/yuin/goldmark"
	gm_ast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	// excerptMaxLen caps derived and overridden excerpts.
	excerptMaxLen = 240
	// readingSpeedWPM is the fixed speed reading time is computed at.
	readingSpeedWPM = 200
)

// parsePost builds a Post from a markdown document. A malformed
// front-matter block degrades to filename-derived defaults and yields a
// warning; it never fails the scan.
func parsePost(path, slug string, raw []byte) (Post, *Warning) {
	var warn *Warning

	fm, body, err := extractFrontmatter(raw)
	if err != nil {
		w := warnMalformed(path, err)
		warn = &w
		fm = nil
	}

	p := Post{
		EntryInfo: EntryInfo{
			ID:          entryID(path),
			Slug:        slug,
			Path:        path,
			Title:       fmString(fm, "title"),
			Description: fmString(fm, "description"),
			Hidden:      fmBool(fm, "hidden"),
		},
		Draft:   fmBool(fm, "draft"),
		Tags:    fmTags(fm, "tags"),
		Cover:   fmString(fm, "cover"),
		Content: string(body),
	}
	if p.Title == "" {
		p.Title = TitleFromFilename(slug)
	}

	if date, err := fmDate(fm, "date"); err != nil {
		if warn == nil {
			w := warningf(path, "%v", err)
			warn = &w
		}
	} else {
		p.Date = date
	}

	p.Excerpt = excerpt(fmString(fm, "excerpt"), body)
	p.ReadingTime = readingTime(body)
	p.Images = extractImageRefs(body)
	return p, warn
}

// parsePage builds a Page the same way as a post, minus date and tags.
func parsePage(path, slug string, raw []byte) (Page, *Warning) {
	var warn *Warning

	fm, body, err := extractFrontmatter(raw)
	if err != nil {
		w := warnMalformed(path, err)
		warn = &w
		fm = nil
	}

	pg := Page{
		EntryInfo: EntryInfo{
			ID:          entryID(path),
			Slug:        slug,
			Path:        path,
			Title:       fmString(fm, "title"),
			Description: fmString(fm, "description"),
			Hidden:      fmBool(fm, "hidden"),
		},
		Cover:   fmString(fm, "cover"),
		Content: string(body),
	}
	if pg.Title == "" {
		pg.Title = TitleFromFilename(slug)
	}

	pg.Excerpt = excerpt(fmString(fm, "excerpt"), body)
	pg.ReadingTime = readingTime(body)
	pg.Images = extractImageRefs(body)
	return pg, warn
}

// excerpt returns the explicit override when present, otherwise the first
// paragraph of the body. Either way the result is capped at excerptMaxLen.
func excerpt(override string, body []byte) string {
	if override != "" {
		return capLen(override, excerptMaxLen)
	}
	return capLen(firstParagraph(body), excerptMaxLen)
}

// firstParagraph finds the first contiguous block of non-heading,
// non-blank lines and joins it with single spaces.
func firstParagraph(body []byte) string {
	var para []string
	for _, line := range strings.Split(string(body), "\n") {
		trim := strings.TrimSpace(line)
		if trim == "" {
			if len(para) > 0 {
				break
			}
			continue
		}
		if strings.HasPrefix(trim, "#") {
			if len(para) > 0 {
				break
			}
			continue
		}
		para = append(para, trim)
	}
	return strings.Join(para, " ")
}

// capLen truncates s to max runes, appending an ellipsis when cut.
func capLen(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimRight(string(runes[:max]), " ") + "…"
}

// readingTime computes ceil(words / readingSpeedWPM), at least 1 whenever
// the body has any words at all.
func readingTime(body []byte) int {
	words := len(strings.Fields(string(body)))
	if words == 0 {
		return 0
	}
	return (words + readingSpeedWPM - 1) / readingSpeedWPM
}

// extractImageRefs walks the markdown AST and collects image destinations
// in document order, deduplicated. External URLs are kept verbatim;
// relative references are kept as written so callers can resolve them
// against the entry's directory.
func extractImageRefs(body []byte) []string {
	if len(body) == 0 {
		return nil
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(body))

	seen := map[string]struct{}{}
	var refs []string
	_ = gm_ast.Walk(doc, func(n gm_ast.Node, entering bool) (gm_ast.WalkStatus, error) {
		if !entering {
			return gm_ast.WalkContinue, nil
		}
		img, ok := n.(*gm_ast.Image)
		if !ok {
			return gm_ast.WalkContinue, nil
		}
		dest := strings.TrimSpace(string(img.Destination))
		if dest == "" {
			return gm_ast.WalkContinue, nil
		}
		if _, dup := seen[dest]; !dup {
			seen[dest] = struct{}{}
			refs = append(refs, dest)
		}
		return gm_ast.WalkContinue, nil
	})
	return refs
}

package content

import (
	"fmt"
	"hash/fnv"
	"path"
	"strings"
	"unicode"
)

// Slugify converts free-form text into a URL-safe slug: lowercase ASCII
// letters and digits separated by single dashes. Runs of anything else
// collapse into one dash; leading/trailing dashes are dropped.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevDash := true // suppress a leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// TitleFromFilename derives a display title from a filename: the extension
// is stripped, separators become spaces, and each word is capitalized.
// "tokyo-street_2024.jpg" becomes "Tokyo Street 2024".
func TitleFromFilename(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	base = strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', '.':
			return ' '
		}
		return r
	}, base)

	words := strings.Fields(base)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// entryID derives the stable identifier for a content path. It is an
// FNV-1a digest, chosen for determinism and speed; it carries no security
// meaning.
func entryID(p string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(p))
	return fmt.Sprintf("%016x", h.Sum64())
}

package content

import (
	"context"
	"fmt"
	"hash/fnv"
	"path"
	"strings"

	"github.com/lumapress/luma/pkg/storage"
)

// WidthClasses is the small fixed set of pre-generated variant widths.
var WidthClasses = []int{400, 800, 1600}

// variantFormat is the fixed output format variants are encoded in.
const variantFormat = ".webp"

// immutableCacheControl is attached to full image responses. Variants and
// originals are addressed by content path, so far-future immutable
// caching is safe; revalidation rides on the validator.
const immutableCacheControl = "public, max-age=31536000, immutable"

// ImageResult is the outcome of resolving a logical image reference.
type ImageResult struct {
	// Data is the object's bytes. Nil when NotModified is set.
	Data []byte
	// Path is the concrete storage path that was served (variant or
	// original).
	Path string
	// ContentType derives from the served file's extension.
	ContentType string
	// Validator is the conditional-request token for this content state.
	Validator string
	// CacheControl carries the caching directives for the response.
	CacheControl string
	// NotModified is set when the caller's validator matched; Data is
	// omitted.
	NotModified bool
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
}

// Image resolves a logical image path to concrete bytes. With a width
// class it tries the pre-generated variant first and falls back to the
// original; a missing original is ErrNotFound. A disallowed extension or
// escaping path is ErrForbidden.
//
// When callerValidator equals the computed validator the result carries
// NotModified and no body.
func (e *Engine) Image(ctx context.Context, imgPath string, width int, callerValidator string) (*ImageResult, error) {
	clean, err := storage.CleanPath(imgPath)
	if err != nil || clean == "" {
		return nil, ErrForbidden
	}
	if !isImageFile(clean) {
		e.logger.Warn("refused non-image path", "path", imgPath)
		return nil, ErrForbidden
	}

	candidates := []string{clean}
	if width > 0 {
		candidates = []string{variantPath(clean, widthClass(width)), clean}
	}

	for _, p := range candidates {
		data, err := e.store.Get(ctx, p)
		if err != nil {
			if storage.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		validator := Fingerprint(p, int64(len(data)))
		if callerValidator != "" && callerValidator == validator {
			return &ImageResult{
				Path:         p,
				ContentType:  contentTypes[strings.ToLower(path.Ext(p))],
				Validator:    validator,
				CacheControl: immutableCacheControl,
				NotModified:  true,
			}, nil
		}
		return &ImageResult{
			Data:         data,
			Path:         p,
			ContentType:  contentTypes[strings.ToLower(path.Ext(p))],
			Validator:    validator,
			CacheControl: immutableCacheControl,
		}, nil
	}
	return nil, ErrNotFound
}

// widthClass maps a requested width onto the fixed class set: the
// smallest class that covers the request, or the largest class when the
// request exceeds them all.
func widthClass(width int) int {
	for _, c := range WidthClasses {
		if width <= c {
			return c
		}
	}
	return WidthClasses[len(WidthClasses)-1]
}

// variantPath names the pre-generated variant for a width class:
// "galleries/tokyo/dsc01.jpg" -> "galleries/tokyo/dsc01_w800.webp".
func variantPath(orig string, class int) string {
	ext := path.Ext(orig)
	return fmt.Sprintf("%s_w%d%s", strings.TrimSuffix(orig, ext), class, variantFormat)
}

// Fingerprint computes the cache validator for an object: an FNV-1a
// digest of path and byte length. It only detects change and is not a
// cryptographic hash.
func Fingerprint(p string, size int64) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(p))
	_, _ = fmt.Fprintf(h, ":%d", size)
	return fmt.Sprintf("\"%016x\"", h.Sum64())
}

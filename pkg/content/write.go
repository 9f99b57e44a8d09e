package content

import (
	"context"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lumapress/luma/pkg/storage"
)

// The content write path used by the admin layer. Every successful
// mutation ends with an Invalidate so the next read rebuilds: skipping
// that pairing would let the index silently drift from the content tree.
// The engine performs no authentication; gating belongs to the caller.

// SavePost writes a post's markdown document (front-matter included) at
// blog/<slug>.md and invalidates the index.
func (e *Engine) SavePost(ctx context.Context, slug string, doc []byte) error {
	slug = Slugify(slug)
	if slug == "" {
		return ErrForbidden
	}
	if err := e.store.Put(ctx, BlogDir+"/"+slug+".md", doc); err != nil {
		return err
	}
	return e.Invalidate(ctx)
}

// DeletePost removes a post in either accepted shape: the bare markdown
// file or the directory with index.md and assets.
func (e *Engine) DeletePost(ctx context.Context, slug string) error {
	slug = Slugify(slug)
	if slug == "" {
		return ErrForbidden
	}
	filePath := BlogDir + "/" + slug + ".md"
	dirPath := BlogDir + "/" + slug

	removed := false
	if ok, err := e.store.Exists(ctx, filePath); err != nil {
		return err
	} else if ok {
		if err := e.store.Delete(ctx, filePath); err != nil {
			return err
		}
		removed = true
	}
	if ok, err := e.store.Exists(ctx, dirPath); err != nil {
		return err
	} else if ok {
		if err := e.store.DeleteDir(ctx, dirPath); err != nil {
			return err
		}
		removed = true
	}
	if !removed {
		return ErrNotFound
	}
	return e.Invalidate(ctx)
}

// SavePage writes a page document at pages/<slug>.md and invalidates.
func (e *Engine) SavePage(ctx context.Context, slug string, doc []byte) error {
	slug = Slugify(slug)
	if slug == "" {
		return ErrForbidden
	}
	if err := e.store.Put(ctx, PagesDir+"/"+slug+".md", doc); err != nil {
		return err
	}
	return e.Invalidate(ctx)
}

// DeletePage removes a page and invalidates.
func (e *Engine) DeletePage(ctx context.Context, slug string) error {
	slug = Slugify(slug)
	if slug == "" {
		return ErrForbidden
	}
	filePath := PagesDir + "/" + slug + ".md"
	ok, err := e.store.Exists(ctx, filePath)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if err := e.store.Delete(ctx, filePath); err != nil {
		return err
	}
	return e.Invalidate(ctx)
}

// SaveGalleryMeta replaces a gallery's gallery.yaml. The Password field
// must already be a hash (use HashPassword); plaintext never lands in
// storage.
func (e *Engine) SaveGalleryMeta(ctx context.Context, slug string, meta GalleryMeta) error {
	slug = Slugify(slug)
	if slug == "" {
		return ErrForbidden
	}
	blob, err := yaml.Marshal(&meta)
	if err != nil {
		return err
	}
	dir := GalleriesDir + "/" + slug
	if err := e.store.CreateDir(ctx, dir); err != nil {
		return err
	}
	if err := e.store.Put(ctx, dir+"/"+GalleryMetaFile, blob); err != nil {
		return err
	}
	return e.Invalidate(ctx)
}

// SetGalleryPassword hashes plaintext and stores it in the gallery's
// override file, creating the file when absent. An empty plaintext clears
// protection.
func (e *Engine) SetGalleryPassword(ctx context.Context, slug, plaintext string) error {
	slug = Slugify(slug)
	if slug == "" {
		return ErrForbidden
	}
	dir := GalleriesDir + "/" + slug
	metaPath := dir + "/" + GalleryMetaFile

	var meta GalleryMeta
	if raw, err := e.store.Get(ctx, metaPath); err == nil {
		// Best-effort: a malformed file is replaced wholesale.
		_ = yaml.Unmarshal(raw, &meta)
	} else if !storage.IsNotExist(err) {
		return err
	}

	if plaintext == "" {
		meta.Password = ""
	} else {
		hash, err := HashPassword(plaintext)
		if err != nil {
			return err
		}
		meta.Password = hash
	}

	blob, err := yaml.Marshal(&meta)
	if err != nil {
		return err
	}
	if err := e.store.Put(ctx, metaPath, blob); err != nil {
		return err
	}
	return e.Invalidate(ctx)
}

// UploadPhoto stores an original image into a gallery. Disallowed
// extensions are Forbidden before any bytes move.
func (e *Engine) UploadPhoto(ctx context.Context, gallerySlug, filename string, data []byte) error {
	gallerySlug = Slugify(gallerySlug)
	if gallerySlug == "" || strings.ContainsAny(filename, "/\\") || !isImageFile(filename) {
		e.logger.Warn("refused photo upload", "gallery", gallerySlug, "filename", filename)
		return ErrForbidden
	}
	if err := e.store.Put(ctx, GalleriesDir+"/"+gallerySlug+"/"+filename, data); err != nil {
		return err
	}
	return e.Invalidate(ctx)
}

// DeletePhoto removes an original image (and any pre-generated variants)
// from a gallery.
func (e *Engine) DeletePhoto(ctx context.Context, gallerySlug, filename string) error {
	gallerySlug = Slugify(gallerySlug)
	if gallerySlug == "" || strings.ContainsAny(filename, "/\\") || !isImageFile(filename) {
		return ErrForbidden
	}
	orig := GalleriesDir + "/" + gallerySlug + "/" + filename
	ok, err := e.store.Exists(ctx, orig)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if err := e.store.Delete(ctx, orig); err != nil {
		return err
	}
	for _, class := range WidthClasses {
		if err := e.store.Delete(ctx, variantPath(orig, class)); err != nil {
			return err
		}
	}
	return e.Invalidate(ctx)
}

// DeleteGallery removes a gallery directory recursively and invalidates.
func (e *Engine) DeleteGallery(ctx context.Context, slug string) error {
	slug = Slugify(slug)
	if slug == "" {
		return ErrForbidden
	}
	dir := GalleriesDir + "/" + slug
	ok, err := e.store.Exists(ctx, dir)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if err := e.store.DeleteDir(ctx, dir); err != nil {
		return err
	}
	return e.Invalidate(ctx)
}

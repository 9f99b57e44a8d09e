package content

import (
	"context"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lumapress/luma/pkg/storage"
)

const (
	GalleryMetaFile = "gallery.yaml"
	PhotosMetaFile  = "photos.yaml"
)

// imageExts is the allow-list of extensions treated as photos and
// servable images. Anything else is skipped by the scanner and Forbidden
// to the image resolver.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
}

func isImageFile(name string) bool {
	return imageExts[strings.ToLower(path.Ext(name))]
}

// GalleryMeta mirrors gallery.yaml. Every field is an override: absent
// fields keep their directory-derived defaults.
type GalleryMeta struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Cover       string   `yaml:"cover"`
	Tags        []string `yaml:"tags"`
	Hidden      *bool    `yaml:"hidden"`
	Private     *bool    `yaml:"private"`
	Order       *int     `yaml:"order"`
	Parent      string   `yaml:"parent"`
	// Password holds a bcrypt hash produced by the write path, never
	// plaintext.
	Password string `yaml:"password"`
}

// PhotoMeta mirrors one entry of photos.yaml, keyed by filename.
type PhotoMeta struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Hidden      bool     `yaml:"hidden"`
}

// scanGallery builds a Gallery from one directory under galleries/. EXIF
// extraction reads each original once; failures degrade to absent fields.
// Malformed override files fall back to defaults and are reported as
// warnings.
func (s *Scanner) scanGallery(ctx context.Context, dir string) (Gallery, []Warning, error) {
	var warnings []Warning
	name := path.Base(dir)

	g := Gallery{
		EntryInfo: EntryInfo{
			ID:    entryID(dir),
			Slug:  Slugify(name),
			Path:  dir,
			Title: TitleFromFilename(name),
		},
	}

	// gallery.yaml overrides directory-derived defaults.
	meta, w, err := s.readGalleryMeta(ctx, dir)
	if err != nil {
		return Gallery{}, nil, err
	}
	if w != nil {
		warnings = append(warnings, *w)
	}
	if meta != nil {
		if meta.Title != "" {
			g.Title = meta.Title
		}
		g.Description = meta.Description
		g.Tags = meta.Tags
		g.ParentSlug = meta.Parent
		g.PasswordHash = meta.Password
		if meta.Hidden != nil {
			g.Hidden = *meta.Hidden
		}
		if meta.Private != nil {
			g.Private = *meta.Private
		}
		g.Order = meta.Order
	}

	overrides, w, err := s.readPhotoMeta(ctx, dir)
	if err != nil {
		return Gallery{}, nil, err
	}
	if w != nil {
		warnings = append(warnings, *w)
	}

	entries, err := s.store.List(ctx, dir)
	if err != nil {
		return Gallery{}, nil, err
	}

	for _, e := range entries {
		if e.IsDir || !isImageFile(e.Name()) {
			continue
		}
		photo := Photo{
			Filename: e.Name(),
			Title:    TitleFromFilename(e.Name()),
		}
		if ov, ok := overrides[e.Name()]; ok {
			if ov.Title != "" {
				photo.Title = ov.Title
			}
			photo.Description = ov.Description
			photo.Tags = ov.Tags
			photo.Hidden = ov.Hidden
		}
		if data, err := s.store.Get(ctx, e.Path); err == nil {
			photo.Exif = extractExif(data)
		} else if storage.IsUnavailable(err) {
			return Gallery{}, nil, err
		}
		g.Photos = append(g.Photos, photo)
	}
	// Store listings are already path-sorted, so Photos is in filename
	// order; nothing user-visible rides on backend iteration order.

	g.CoverPath = resolveCover(dir, meta, g.Photos)
	return g, warnings, nil
}

// resolveCover picks the cover image: the explicit override when it names
// an existing photo, otherwise the first non-hidden photo in filename
// order.
func resolveCover(dir string, meta *GalleryMeta, photos []Photo) string {
	if meta != nil && meta.Cover != "" {
		for _, p := range photos {
			if p.Filename == meta.Cover {
				return dir + "/" + p.Filename
			}
		}
	}
	for _, p := range photos {
		if !p.Hidden {
			return dir + "/" + p.Filename
		}
	}
	return ""
}

func (s *Scanner) readGalleryMeta(ctx context.Context, dir string) (*GalleryMeta, *Warning, error) {
	metaPath := dir + "/" + GalleryMetaFile
	raw, err := s.store.Get(ctx, metaPath)
	if err != nil {
		if storage.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	var meta GalleryMeta
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		w := warnMalformed(metaPath, err)
		return nil, &w, nil
	}
	return &meta, nil, nil
}

func (s *Scanner) readPhotoMeta(ctx context.Context, dir string) (map[string]PhotoMeta, *Warning, error) {
	metaPath := dir + "/" + PhotosMetaFile
	raw, err := s.store.Get(ctx, metaPath)
	if err != nil {
		if storage.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	var overrides map[string]PhotoMeta
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		w := warnMalformed(metaPath, err)
		return nil, &w, nil
	}
	return overrides, nil, nil
}

package content

import (
	"bytes"
	"image"

	// Registered for image.DecodeConfig dimension probing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rwcarlsen/goexif/exif"
)

// extractExif pulls capture time, camera model and pixel dimensions out of
// an original image, best-effort. Any failure leaves the corresponding
// fields absent; a file with no usable attributes at all yields nil.
func extractExif(data []byte) *Exif {
	if len(data) == 0 {
		return nil
	}

	var out Exif

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		out.Width = cfg.Width
		out.Height = cfg.Height
	}

	if x, err := exif.Decode(bytes.NewReader(data)); err == nil {
		if t, err := x.DateTime(); err == nil {
			utc := t.UTC()
			out.TakenAt = &utc
		}
		if tag, err := x.Get(exif.Model); err == nil {
			if model, err := tag.StringVal(); err == nil {
				out.Camera = model
			}
		}
	}

	if out.TakenAt == nil && out.Camera == "" && out.Width == 0 && out.Height == 0 {
		return nil
	}
	return &out
}

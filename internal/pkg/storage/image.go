package storage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // registers the WebP decoder
)

// ImageProcessor produces bounded JPEG renditions of uploaded images.
type ImageProcessor struct {
	maxWidth  int
	maxHeight int
	quality   int
}

func NewImageProcessor(maxWidth, maxHeight int) *ImageProcessor {
	return &ImageProcessor{maxWidth: maxWidth, maxHeight: maxHeight, quality: 80}
}

// Thumbnail decodes content, applies its EXIF orientation and fits it into the
// processor's bounding box. Images already inside the box are not upscaled.
func (p *ImageProcessor) Thumbnail(content io.Reader) ([]byte, error) {
	img, err := imaging.Decode(content, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > p.maxWidth || b.Dy() > p.maxHeight {
		img = imaging.Fit(img, p.maxWidth, p.maxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package preview

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
	"golang.org/x/image/draw"
)

const (
	// ThumbMaxWidth is the maximum preview width in pixels.
	ThumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated previews.
	thumbQuality = 80

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// Thumbnail produces a preview representation of an image blob,
// constrained to maxWidth while preserving aspect ratio. Blobs that are
// already small enough, or that no registered decoder understands
// (AVIF outputs, for instance), are returned unchanged: the full blob
// is itself a valid preview, just a heavier one. Only an image bomb is
// a hard error.
func Thumbnail(data []byte, contentType string, maxWidth int) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// No decoder for this format. Serve the blob as its own preview.
		return data, contentType, nil
	}

	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, "", fmt.Errorf("preview: image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}

	if cfg.Width <= maxWidth {
		return data, contentType, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, contentType, nil
	}

	// Scale preserving aspect ratio, CatmullRom for quality.
	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, int(float64(bounds.Dy())*ratio)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, "", fmt.Errorf("preview: encode thumbnail: %w", err)
	}

	return buf.Bytes(), "image/jpeg", nil
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging re-encodes uploaded raster images into the requested
// target format using libvips. It is the only package that touches the
// encoder; callers hand it source bytes plus conversion settings and
// get back the encoded blob tagged with its MIME type.
package imaging

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/davidbyttow/govips/v2/vips"

	"optipress/internal/models"
)

// Startup initialises the libvips library. Call once at application start.
// concurrency controls the number of libvips worker threads (0 = auto).
func Startup(concurrency int) {
	cfg := &vips.Config{
		ConcurrencyLevel: concurrency,
		MaxCacheSize:     100,
		MaxCacheMem:      50 * 1024 * 1024, // 50 MB
	}
	vips.LoggingSettings(nil, vips.LogLevelWarning)
	vips.Startup(cfg)
	slog.Info("libvips started", "version", vips.Version)
}

// Shutdown releases libvips resources. Call at application shutdown.
func Shutdown() {
	vips.Shutdown()
}

// Converter re-encodes image blobs via libvips. The zero value is ready
// to use once Startup has run.
type Converter struct{}

// NewConverter returns a libvips-backed converter.
func NewConverter() *Converter {
	return &Converter{}
}

// Convert decodes the source bytes and re-encodes them into the target
// format at the requested quality. The returned content type reflects
// the bytes actually produced. Decode failures and unsupported targets
// surface as errors; there are no retries here — the caller decides
// what a failed attempt means for the item.
//
// Quality is a fraction in (0, 1] and maps onto the encoder's 1-100
// scale. Lossless-only formats ignore it, per the encoder's own policy.
func (c *Converter) Convert(ctx context.Context, data []byte, s models.Settings) ([]byte, string, error) {
	if err := s.Validate(); err != nil {
		return nil, "", err
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	img, err := vips.NewImageFromBuffer(data)
	if err != nil {
		return nil, "", fmt.Errorf("imaging: decode failed: %w", err)
	}
	defer img.Close()

	// Bake in EXIF orientation, then strip metadata on export.
	if err := img.AutoRotate(); err != nil {
		return nil, "", fmt.Errorf("imaging: autorotate: %w", err)
	}

	quality := vipsQuality(s.Quality)

	var buf []byte
	switch s.Format {
	case models.FormatWebP:
		params := vips.NewWebpExportParams()
		params.Quality = quality
		params.Lossless = false
		params.StripMetadata = true
		buf, _, err = img.ExportWebp(params)
	case models.FormatAVIF:
		params := vips.NewAvifExportParams()
		params.Quality = quality
		params.Lossless = false
		params.StripMetadata = true
		buf, _, err = img.ExportAvif(params)
	case models.FormatJPEG:
		params := vips.NewJpegExportParams()
		params.Quality = quality
		params.StripMetadata = true
		buf, _, err = img.ExportJpeg(params)
	case models.FormatPNG:
		params := vips.NewPngExportParams()
		params.StripMetadata = true
		buf, _, err = img.ExportPng(params)
	default:
		return nil, "", fmt.Errorf("imaging: unsupported target format %q", s.Format)
	}
	if err != nil {
		return nil, "", fmt.Errorf("imaging: export %s: %w", s.Format, err)
	}

	return buf, s.Format.MIMEType(), nil
}

// vipsQuality maps a (0, 1] fraction onto libvips' 1-100 integer scale.
func vipsQuality(q float64) int {
	quality := int(math.Round(q * 100))
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	return quality
}

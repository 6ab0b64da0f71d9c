// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
)

// Format is a supported conversion target format.
type Format string

const (
	FormatWebP Format = "webp"
	FormatAVIF Format = "avif"
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
)

// Formats lists every supported target format in display order.
var Formats = []Format{FormatWebP, FormatAVIF, FormatJPEG, FormatPNG}

// ParseFormat validates a user-supplied format string. Matching is
// case-insensitive and "jpg" is accepted as an alias for "jpeg".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "webp":
		return FormatWebP, nil
	case "avif":
		return FormatAVIF, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("models: unknown format %q", s)
}

// Valid reports whether f is one of the supported target formats.
func (f Format) Valid() bool {
	switch f {
	case FormatWebP, FormatAVIF, FormatJPEG, FormatPNG:
		return true
	}
	return false
}

// Lossless reports whether the format is lossless-only, in which case
// the quality setting is not applied by the encoder.
func (f Format) Lossless() bool {
	return f == FormatPNG
}

// MIMEType returns the MIME type produced when encoding to this format.
func (f Format) MIMEType() string {
	return "image/" + string(f)
}

// ExtensionForMIME derives a download file extension from an actual
// output MIME type. The extension must follow the produced bytes, not
// the requested format, so a silent encoder fallback never yields a
// mismatched extension. JPEG maps to the conventional "jpg"; other
// image subtypes pass through unchanged.
func ExtensionForMIME(mime string) string {
	sub := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(mime)), "image/")
	if sub == mime || sub == "" {
		return "bin"
	}
	if sub == "jpeg" {
		return "jpg"
	}
	return sub
}

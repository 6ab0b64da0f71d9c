// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the in-memory data model for tracked images:
// conversion formats, per-image settings, and the image record itself
// with its status lifecycle.
package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the conversion state of a tracked image.
type Status string

const (
	// StatusIdle means the image is queued for conversion but not started.
	StatusIdle Status = "idle"
	// StatusConverting means a conversion is in flight for the image.
	StatusConverting Status = "converting"
	// StatusCompleted means the image has a valid output matching its
	// current settings.
	StatusCompleted Status = "completed"
	// StatusError means the last conversion attempt failed. The image
	// stays in this state until its settings change.
	StatusError Status = "error"
)

// outputSuffix is appended to the original file stem when naming
// converted downloads.
const outputSuffix = "_opti"

// Image is one tracked upload and its conversion state. Instances
// handed out by the library are snapshots; the library owns the
// authoritative copy and is the only component that transitions Status.
type Image struct {
	ID           uuid.UUID `json:"id"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	OriginalSize int64     `json:"original_size"`

	// OriginalPreviewID references the preview resource created from
	// the original bytes. It lives exactly as long as the image.
	OriginalPreviewID string `json:"original_preview_id"`

	Status   Status   `json:"status"`
	Settings Settings `json:"settings"`

	// Output fields are populated only when Status is StatusCompleted.
	OutputMIME      string `json:"output_mime,omitempty"`
	OutputSize      int64  `json:"output_size,omitempty"`
	OutputPreviewID string `json:"output_preview_id,omitempty"`

	// AltText is the optional AI-generated accessibility caption.
	AltText       *string `json:"alt_text,omitempty"`
	GeneratingAlt bool    `json:"generating_alt"`

	// Version increments on every settings change. Conversion results
	// carrying an older version are stale and must be discarded.
	Version uint64 `json:"-"`

	// Error holds a short message when Status is StatusError.
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HasOutput reports whether the image currently holds a completed
// output. It is the invariant check for the completed state: completed
// and output presence always coincide.
func (img *Image) HasOutput() bool {
	return img.Status == StatusCompleted && img.OutputMIME != "" && img.OutputSize > 0
}

// OutputFilename derives the download name for the converted file:
// "<original-stem>_opti.<ext>". The extension comes from the actual
// output MIME type so it always matches the produced bytes. Before a
// conversion completes it falls back to the requested format.
func (img *Image) OutputFilename() string {
	stem := strings.TrimSuffix(img.OriginalName, filepath.Ext(img.OriginalName))
	if stem == "" {
		stem = "image"
	}
	mime := img.OutputMIME
	if mime == "" {
		mime = img.Settings.Format.MIMEType()
	}
	return stem + outputSuffix + "." + ExtensionForMIME(mime)
}

// SavingsPercent returns how much smaller the output is than the
// original, as a percentage. Zero when there is no output yet or the
// output grew.
func (img *Image) SavingsPercent() float64 {
	if !img.HasOutput() || img.OriginalSize <= 0 {
		return 0
	}
	saved := 1 - float64(img.OutputSize)/float64(img.OriginalSize)
	if saved < 0 {
		return 0
	}
	return saved * 100
}

// Clone returns a deep copy safe to hand outside the owning library.
func (img *Image) Clone() *Image {
	cp := *img
	if img.AltText != nil {
		alt := *img.AltText
		cp.AltText = &alt
	}
	return &cp
}

// HumanBytes formats a byte count for display.
func HumanBytes(n int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case n >= mb:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(mb))
	case n >= kb:
		return fmt.Sprintf("%.0f KB", float64(n)/float64(kb))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "fmt"

// Settings holds the conversion parameters of a single image. Every
// image receives a copy of the global defaults at creation time and can
// be adjusted independently afterwards.
type Settings struct {
	Format  Format  `json:"format"`
	Quality float64 `json:"quality"` // fraction in (0, 1]
}

// Validate checks that the format is supported and the quality is a
// fraction in (0, 1].
func (s Settings) Validate() error {
	if !s.Format.Valid() {
		return fmt.Errorf("models: unknown format %q", s.Format)
	}
	if s.Quality <= 0 || s.Quality > 1 {
		return fmt.Errorf("models: quality %v out of range (0, 1]", s.Quality)
	}
	return nil
}

// SettingsUpdate is a partial settings change. Nil fields keep the
// image's current value.
type SettingsUpdate struct {
	Format  *Format  `json:"format,omitempty"`
	Quality *float64 `json:"quality,omitempty"`
}

// Merge applies the update on top of s and returns the result.
func (s Settings) Merge(u SettingsUpdate) Settings {
	if u.Format != nil {
		s.Format = *u.Format
	}
	if u.Quality != nil {
		s.Quality = *u.Quality
	}
	return s
}

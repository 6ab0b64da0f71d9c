// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package archive bundles converted image outputs into a single ZIP
// download, de-duplicating entry names.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// BundleFilename is the fixed name of the "download all" archive.
const BundleFilename = "optimized_images.zip"

// Entry is one file to include in the bundle.
type Entry struct {
	Name string
	Data []byte
}

// Build serialises the entries into one ZIP blob. Colliding names get a
// numbered suffix before the extension: "photo_opti.webp",
// "photo_opti_(1).webp", "photo_opti_(2).webp", and so on.
func Build(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	taken := make(map[string]bool, len(entries))
	for _, e := range entries {
		name := uniqueName(e.Name, taken)
		taken[name] = true

		f, err := w.Create(name)
		if err != nil {
			return nil, fmt.Errorf("archive: create entry %q: %w", name, err)
		}
		if _, err := f.Write(e.Data); err != nil {
			return nil, fmt.Errorf("archive: write entry %q: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("archive: finalize: %w", err)
	}
	return buf.Bytes(), nil
}

// uniqueName appends _(1), _(2), ... before the extension until the
// name is free.
func uniqueName(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_(%d)%s", stem, i, ext)
		if !taken[candidate] {
			return candidate
		}
	}
}

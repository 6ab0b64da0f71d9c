// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"

	"optipress/internal/archive"
	"optipress/internal/models"
)

// maxMultipartMemory is how much of a parsed multipart form stays in
// memory before spilling to disk. The body itself is capped upstream by
// the MaxBytes middleware.
const maxMultipartMemory = 32 << 20

// skippedFile reports one upload entry that was not accepted. Rejected
// files never fail the batch; the rest are processed normally.
type skippedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Upload accepts a multipart batch of files under the "files" field,
// adds every valid raster image to the library, and reports the rest as
// skipped.
func (a *API) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, "Invalid or oversized multipart request.", http.StatusRequestEntityTooLarge)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, "No files provided.", http.StatusBadRequest)
		return
	}

	var (
		added   []imageResponse
		skipped []skippedFile
	)
	for _, header := range files {
		img, err := a.addOne(header)
		if err != nil {
			slog.Warn("upload skipped", "name", header.Filename, "error", err)
			skipped = append(skipped, skippedFile{Name: header.Filename, Reason: err.Error()})
			continue
		}
		added = append(added, imageView(img))
	}

	status := http.StatusCreated
	if len(added) == 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]any{
		"added":   added,
		"skipped": skipped,
	})
}

// addOne reads a single multipart file and hands it to the library.
// The MIME type is sniffed from content; the client-declared type and
// file extension are not trusted.
func (a *API) addOne(header *multipart.FileHeader) (*models.Image, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	contentType := mimetype.Detect(data).String()
	return a.lib.Add(header.Filename, contentType, data)
}

// List returns every tracked image in insertion order.
func (a *API) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"images": imageViews(a.lib.Items()),
	})
}

// Get returns a single tracked image.
func (a *API) Get(w http.ResponseWriter, r *http.Request) {
	id, err := imageID(r)
	if err != nil {
		writeError(w, "Invalid image ID.", http.StatusBadRequest)
		return
	}
	img, err := a.lib.Get(id)
	if err != nil {
		libError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, imageView(img))
}

// settingsRequest is the body of a settings change. Absent fields keep
// the image's current value.
type settingsRequest struct {
	Format  *string  `json:"format"`
	Quality *float64 `json:"quality"`
}

func (req *settingsRequest) toUpdate() (models.SettingsUpdate, error) {
	var u models.SettingsUpdate
	if req.Format != nil {
		f, err := models.ParseFormat(*req.Format)
		if err != nil {
			return u, err
		}
		u.Format = &f
	}
	u.Quality = req.Quality
	return u, nil
}

// UpdateSettings applies a partial settings change to one image and
// queues a fresh conversion.
func (a *API) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	id, err := imageID(r)
	if err != nil {
		writeError(w, "Invalid image ID.", http.StatusBadRequest)
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid JSON body.", http.StatusBadRequest)
		return
	}
	update, err := req.toUpdate()
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	img, err := a.lib.UpdateSettings(id, update)
	if err != nil {
		libError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, imageView(img))
}

// Remove deletes one tracked image.
func (a *API) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := imageID(r)
	if err != nil {
		writeError(w, "Invalid image ID.", http.StatusBadRequest)
		return
	}
	if err := a.lib.Remove(id); err != nil {
		libError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear removes every tracked image.
func (a *API) Clear(w http.ResponseWriter, r *http.Request) {
	a.lib.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// Download streams the converted output of one image with a filename
// derived from the original name and the actual output type.
func (a *API) Download(w http.ResponseWriter, r *http.Request) {
	id, err := imageID(r)
	if err != nil {
		writeError(w, "Invalid image ID.", http.StatusBadRequest)
		return
	}
	data, contentType, filename, err := a.lib.OutputData(id)
	if err != nil {
		libError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

// Archive bundles every completed output into a single ZIP download.
// Images still converting or in error are excluded. An empty library or
// one with no completed outputs yields 409 so the client can tell the
// user instead of serving an empty archive.
func (a *API) Archive(w http.ResponseWriter, r *http.Request) {
	entries := a.lib.ArchiveEntries()
	if len(entries) == 0 {
		writeError(w, "No converted images to download yet.", http.StatusConflict)
		return
	}

	data, err := archive.Build(entries)
	if err != nil {
		slog.Error("archive build failed", "entries", len(entries), "error", err)
		writeError(w, "Failed to build the archive.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", archive.BundleFilename))
	w.Write(data)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP API: image intake, settings
// changes, previews, captions, and downloads. Handlers translate
// between the wire format and the library; they hold no state of their
// own.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"optipress/internal/library"
	"optipress/internal/models"
	"optipress/internal/preview"
)

// API bundles the dependencies shared by all handlers.
type API struct {
	lib      *library.Library
	previews *preview.Store
}

// NewAPI creates the handler set.
func NewAPI(lib *library.Library, previews *preview.Store) *API {
	return &API{lib: lib, previews: previews}
}

// imageResponse is the wire shape of one tracked image. It decorates
// the model with the derived fields clients display.
type imageResponse struct {
	*models.Image
	DownloadFilename string  `json:"download_filename"`
	SavingsPercent   float64 `json:"savings_percent"`
	OriginalHuman    string  `json:"original_size_human"`
	OutputHuman      string  `json:"output_size_human,omitempty"`
}

func imageView(img *models.Image) imageResponse {
	resp := imageResponse{
		Image:            img,
		DownloadFilename: img.OutputFilename(),
		SavingsPercent:   img.SavingsPercent(),
		OriginalHuman:    models.HumanBytes(img.OriginalSize),
	}
	if img.HasOutput() {
		resp.OutputHuman = models.HumanBytes(img.OutputSize)
	}
	return resp
}

func imageViews(imgs []*models.Image) []imageResponse {
	out := make([]imageResponse, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, imageView(img))
	}
	return out
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError sends a JSON error body.
func writeError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// imageID extracts and validates the {id} route parameter.
func imageID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// libError maps library errors onto HTTP statuses.
func libError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		writeError(w, "Image not found.", http.StatusNotFound)
	case errors.Is(err, library.ErrNoOutput):
		writeError(w, "Image has no converted output yet.", http.StatusConflict)
	case errors.Is(err, library.ErrCaptionInProgress):
		writeError(w, "A caption is already being generated for this image.", http.StatusConflict)
	case errors.Is(err, library.ErrClosed):
		writeError(w, "Server is shutting down.", http.StatusServiceUnavailable)
	default:
		writeError(w, err.Error(), http.StatusBadRequest)
	}
}

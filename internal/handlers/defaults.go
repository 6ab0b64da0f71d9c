// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"

	"optipress/internal/models"
)

// defaultsResponse reports the global defaults and the formats clients
// may pick from.
type defaultsResponse struct {
	Settings models.Settings `json:"settings"`
	Formats  []models.Format `json:"formats"`
}

// GetDefaults returns the global default conversion settings applied to
// newly added images.
func (a *API) GetDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, defaultsResponse{
		Settings: a.lib.Defaults(),
		Formats:  models.Formats,
	})
}

// UpdateDefaults replaces the global default conversion settings.
// Images already in the library keep the settings they were created
// with.
func (a *API) UpdateDefaults(w http.ResponseWriter, r *http.Request) {
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

	merged := a.lib.Defaults().Merge(update)
	if err := a.lib.SetDefaults(merged); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, defaultsResponse{
		Settings: merged,
		Formats:  models.Formats,
	})
}

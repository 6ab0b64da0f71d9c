// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Preview serves a preview resource by ID. Previews are immutable for
// their lifetime, but the ID is revoked when the owning image changes,
// so responses must not be cached.
func (a *API) Preview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, ok := a.previews.Get(id)
	if !ok {
		writeError(w, "Preview not found.", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(res.Data)
}

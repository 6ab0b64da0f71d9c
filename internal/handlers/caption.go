// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
)

// Caption asks the configured AI provider to describe the image and
// stores the result as its accessibility caption. The call is
// synchronous; the route carries a rate limiter because every request
// hits a metered upstream API.
func (a *API) Caption(w http.ResponseWriter, r *http.Request) {
	id, err := imageID(r)
	if err != nil {
		writeError(w, "Invalid image ID.", http.StatusBadRequest)
		return
	}

	text, err := a.lib.RequestCaption(r.Context(), id)
	if err != nil {
		libError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"alt_text": text})
}

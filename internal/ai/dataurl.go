// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeDataURL accepts either a full data URL
// ("data:image/png;base64,....") or a bare base64 payload and returns
// the decoded bytes plus the MIME type. For bare payloads the MIME type
// falls back to the caller-supplied default.
func DecodeDataURL(s, defaultMIME string) ([]byte, string, error) {
	mime := defaultMIME
	payload := s

	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, "", fmt.Errorf("ai: malformed data URL: no comma separator")
		}
		header := s[len("data:"):comma]
		payload = s[comma+1:]

		if !strings.HasSuffix(header, ";base64") {
			return nil, "", fmt.Errorf("ai: data URL is not base64 encoded")
		}
		if m := strings.TrimSuffix(header, ";base64"); m != "" {
			mime = m
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("ai: decode base64 payload: %w", err)
	}
	return data, mime, nil
}

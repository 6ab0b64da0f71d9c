// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package library

import (
	"context"
	"log/slog"
	"time"

	"optipress/internal/models"
	"optipress/internal/preview"
)

// worker consumes conversion tasks until the queue is closed.
func (l *Library) worker() {
	defer l.wg.Done()
	for t := range l.tasks {
		l.process(t)
	}
}

// process runs one conversion task end to end. The status transition
// idle -> converting happens under the lock, so a task is never picked
// up twice; the completion is applied under the lock guarded by the
// version counter, so a result for superseded settings is discarded.
func (l *Library) process(t task) {
	l.mu.Lock()
	e, ok := l.items[t.id]
	if !ok || e.img.Version != t.version || e.img.Status != models.StatusIdle {
		// Removed, superseded, or already picked up.
		l.mu.Unlock()
		return
	}
	e.img.Status = models.StatusConverting
	data := e.original
	settings := e.img.Settings
	l.mu.Unlock()

	start := time.Now()
	// Conversions have no cancellation primitive: a settings change does
	// not abort an in-flight call, it just makes the result stale.
	out, mime, err := l.converter.Convert(context.Background(), data, settings)

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok = l.items[t.id]
	if !ok || e.img.Version != t.version {
		// Stale result: the image is gone or its settings moved on while
		// the conversion was outstanding. Drop it on the floor.
		slog.Debug("stale conversion discarded", "id", t.id, "version", t.version)
		return
	}

	if err != nil {
		e.img.Status = models.StatusError
		e.img.Error = err.Error()
		slog.Warn("conversion failed",
			"id", t.id,
			"name", e.img.OriginalName,
			"format", settings.Format,
			"error", err,
		)
		return
	}

	// Release the previous output preview before installing the new one.
	l.dropOutputLocked(e)

	thumb, thumbCT, thumbErr := preview.Thumbnail(out, mime, preview.ThumbMaxWidth)
	if thumbErr != nil {
		// Preview degradation is not a conversion failure: serve the
		// full output blob as its own preview.
		slog.Warn("output preview generation failed", "id", t.id, "error", thumbErr)
		thumb, thumbCT = out, mime
	}

	e.output = out
	e.img.OutputMIME = mime
	e.img.OutputSize = int64(len(out))
	e.img.OutputPreviewID = l.previews.Put(thumb, thumbCT)
	e.img.Status = models.StatusCompleted
	e.img.Error = ""

	slog.Info("conversion completed",
		"id", t.id,
		"name", e.img.OriginalName,
		"format", settings.Format,
		"original_size", models.HumanBytes(e.img.OriginalSize),
		"output_size", models.HumanBytes(e.img.OutputSize),
		"duration", time.Since(start).String(),
	)
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package library owns the collection of tracked images and is the only
// component that transitions their status. Conversions run on an
// explicit work queue: adding an image or changing its settings
// enqueues a task, workers convert, and completions are applied under
// the library lock guarded by a per-image version counter so stale
// results are discarded instead of overwriting newer state.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"optipress/internal/archive"
	"optipress/internal/models"
	"optipress/internal/preview"
)

var (
	// ErrNotFound is returned when no tracked image has the given ID.
	ErrNotFound = errors.New("library: image not found")

	// ErrNoOutput is returned when a download is requested for an image
	// that has no completed output.
	ErrNoOutput = errors.New("library: image has no completed output")

	// ErrCaptionInProgress is returned when a caption request arrives
	// while one is already outstanding for the same image.
	ErrCaptionInProgress = errors.New("library: caption already in progress")

	// ErrNotImage is returned on intake of a non-image payload.
	ErrNotImage = errors.New("library: not an image")

	// ErrClosed is returned for operations after Close.
	ErrClosed = errors.New("library: closed")
)

// queueSize bounds the conversion backlog. Tasks are tiny (ID +
// version); the bound exists only to keep a runaway caller visible.
const queueSize = 1024

// Converter re-encodes an image into the target settings. Implemented
// by imaging.Converter; tests substitute their own.
type Converter interface {
	Convert(ctx context.Context, data []byte, s models.Settings) (out []byte, contentType string, err error)
}

// Captioner generates an accessibility caption for an image.
// Implemented by ai.Registry.
type Captioner interface {
	Caption(ctx context.Context, image []byte, mimeType string) (string, error)
}

// entry pairs the public image record with the blobs the library holds
// on its behalf. original is never mutated after intake; output is
// replaced wholesale on each completed conversion.
type entry struct {
	img      *models.Image
	original []byte
	output   []byte
}

// task is one queued conversion. version pins the settings snapshot the
// task was created for; a mismatch at pickup or completion time means
// the task is stale.
type task struct {
	id      uuid.UUID
	version uint64
}

// Library is the image list controller. All exported methods are safe
// for concurrent use.
type Library struct {
	converter Converter
	captioner Captioner
	previews  *preview.Store

	mu       sync.Mutex
	items    map[uuid.UUID]*entry
	order    []uuid.UUID
	defaults models.Settings

	// qmu guards the queue lifecycle so enqueues never race Close.
	qmu    sync.RWMutex
	closed bool
	tasks  chan task
	wg     sync.WaitGroup
}

// New creates a library and starts its conversion workers. defaults are
// the global conversion settings snapshotted into each new image;
// workers below 1 is treated as 1.
func New(conv Converter, capt Captioner, previews *preview.Store, defaults models.Settings, workers int) (*Library, error) {
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("library: invalid default settings: %w", err)
	}
	if workers < 1 {
		workers = 1
	}

	l := &Library{
		converter: conv,
		captioner: capt,
		previews:  previews,
		items:     make(map[uuid.UUID]*entry),
		defaults:  defaults,
		tasks:     make(chan task, queueSize),
	}

	l.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go l.worker()
	}

	return l, nil
}

// Close stops accepting work, drains the queue, and waits for workers
// to finish. Safe to call once.
func (l *Library) Close() {
	l.qmu.Lock()
	if l.closed {
		l.qmu.Unlock()
		return
	}
	l.closed = true
	close(l.tasks)
	l.qmu.Unlock()

	l.wg.Wait()
}

// enqueue hands a task to the workers unless the library is closed.
func (l *Library) enqueue(t task) {
	l.qmu.RLock()
	defer l.qmu.RUnlock()
	if l.closed {
		return
	}
	l.tasks <- t
}

// Add tracks a new uploaded image and queues its first conversion. The
// image snapshots the current global default settings. Non-image
// payloads and unreadable files are rejected; the caller skips them
// without failing the batch.
func (l *Library) Add(name, contentType string, data []byte) (*models.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("library: empty file %q", name)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: %q has type %q", ErrNotImage, name, contentType)
	}

	thumb, thumbCT, err := preview.Thumbnail(data, contentType, preview.ThumbMaxWidth)
	if err != nil {
		return nil, fmt.Errorf("library: preview for %q: %w", name, err)
	}

	l.qmu.RLock()
	closed := l.closed
	l.qmu.RUnlock()
	if closed {
		return nil, ErrClosed
	}

	l.mu.Lock()
	img := &models.Image{
		ID:                uuid.New(),
		OriginalName:      name,
		ContentType:       contentType,
		OriginalSize:      int64(len(data)),
		OriginalPreviewID: l.previews.Put(thumb, thumbCT),
		Status:            models.StatusIdle,
		Settings:          l.defaults,
		CreatedAt:         time.Now(),
	}
	l.items[img.ID] = &entry{img: img, original: data}
	l.order = append(l.order, img.ID)
	snap := img.Clone()
	l.mu.Unlock()

	l.enqueue(task{id: img.ID, version: 0})

	slog.Info("image added",
		"id", img.ID,
		"name", name,
		"type", contentType,
		"size", models.HumanBytes(img.OriginalSize),
	)
	return snap, nil
}

// UpdateSettings merges a partial settings change into the image,
// forces it back to idle, and queues a fresh conversion. Any previous
// output is discarded, its preview resource released first. The version
// bump makes a still-outstanding conversion for the old settings stale.
func (l *Library) UpdateSettings(id uuid.UUID, u models.SettingsUpdate) (*models.Image, error) {
	l.mu.Lock()
	e, ok := l.items[id]
	if !ok {
		l.mu.Unlock()
		return nil, ErrNotFound
	}

	merged := e.img.Settings.Merge(u)
	if err := merged.Validate(); err != nil {
		l.mu.Unlock()
		return nil, err
	}

	e.img.Settings = merged
	e.img.Version++
	version := e.img.Version

	l.dropOutputLocked(e)
	e.img.Status = models.StatusIdle
	e.img.Error = ""

	snap := e.img.Clone()
	l.mu.Unlock()

	l.enqueue(task{id: id, version: version})
	return snap, nil
}

// Remove deletes a tracked image, releasing both of its preview
// resources exactly once.
func (l *Library) Remove(id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.items[id]
	if !ok {
		return ErrNotFound
	}

	l.releasePreview(e.img.OriginalPreviewID)
	l.dropOutputLocked(e)

	delete(l.items, id)
	for i, oid := range l.order {
		if oid == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear removes every tracked image and releases all of their preview
// resources.
func (l *Library) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.items {
		l.releasePreview(e.img.OriginalPreviewID)
		l.dropOutputLocked(e)
	}
	l.items = make(map[uuid.UUID]*entry)
	l.order = nil
}

// RequestCaption asks the configured AI provider to describe the
// original image. The in-progress flag is set for the duration of the
// call and always cleared. On failure the caption stays absent; there
// are no retries.
func (l *Library) RequestCaption(ctx context.Context, id uuid.UUID) (string, error) {
	if l.captioner == nil {
		return "", fmt.Errorf("library: no caption provider configured")
	}

	l.mu.Lock()
	e, ok := l.items[id]
	if !ok {
		l.mu.Unlock()
		return "", ErrNotFound
	}
	if e.img.GeneratingAlt {
		l.mu.Unlock()
		return "", ErrCaptionInProgress
	}
	e.img.GeneratingAlt = true
	data := e.original
	mime := e.img.ContentType
	l.mu.Unlock()

	text, err := l.captioner.Caption(ctx, data, mime)

	l.mu.Lock()
	defer l.mu.Unlock()
	// The image may have been removed while the call was outstanding.
	if e2, ok := l.items[id]; ok {
		e2.img.GeneratingAlt = false
		if err == nil {
			caption := text
			e2.img.AltText = &caption
		}
	}
	if err != nil {
		return "", fmt.Errorf("library: caption: %w", err)
	}
	return text, nil
}

// Get returns a snapshot of one tracked image.
func (l *Library) Get(id uuid.UUID) (*models.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.img.Clone(), nil
}

// Items returns snapshots of all tracked images in insertion order.
func (l *Library) Items() []*models.Image {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*models.Image, 0, len(l.order))
	for _, id := range l.order {
		if e, ok := l.items[id]; ok {
			out = append(out, e.img.Clone())
		}
	}
	return out
}

// OutputData returns the completed output blob with its MIME type and
// download filename. The bytes are owned by the library and must not
// be mutated.
func (l *Library) OutputData(id uuid.UUID) (data []byte, contentType, filename string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.items[id]
	if !ok {
		return nil, "", "", ErrNotFound
	}
	if !e.img.HasOutput() || e.output == nil {
		return nil, "", "", ErrNoOutput
	}
	return e.output, e.img.OutputMIME, e.img.OutputFilename(), nil
}

// ArchiveEntries collects the outputs of every completed image for the
// "download all" bundle, in insertion order. Images without a completed
// output are silently excluded; that is not an error condition.
func (l *Library) ArchiveEntries() []archive.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var entries []archive.Entry
	for _, id := range l.order {
		e, ok := l.items[id]
		if !ok || !e.img.HasOutput() || e.output == nil {
			continue
		}
		entries = append(entries, archive.Entry{
			Name: e.img.OutputFilename(),
			Data: e.output,
		})
	}
	return entries
}

// Defaults returns the current global default settings.
func (l *Library) Defaults() models.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.defaults
}

// SetDefaults replaces the global default settings. Only images added
// afterwards are affected; existing images keep their own copies.
func (l *Library) SetDefaults(s models.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	l.defaults = s
	l.mu.Unlock()
	return nil
}

// dropOutputLocked discards an entry's output and releases its preview
// resource. Caller holds l.mu.
func (l *Library) dropOutputLocked(e *entry) {
	l.releasePreview(e.img.OutputPreviewID)
	e.img.OutputPreviewID = ""
	e.img.OutputMIME = ""
	e.img.OutputSize = 0
	e.output = nil
}

// releasePreview releases a preview resource, tolerating the empty ID.
// A release failure indicates a lifecycle bug and is logged loudly.
func (l *Library) releasePreview(id string) {
	if id == "" {
		return
	}
	if err := l.previews.Release(id); err != nil {
		slog.Error("preview release failed", "preview_id", id, "error", err)
	}
}

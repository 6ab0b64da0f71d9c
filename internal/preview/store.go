// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package preview holds the in-memory, revocable preview resources that
// let the UI display an image blob without re-reading it. Each resource
// is owned by exactly one tracked image and must be released exactly
// once: on image removal or when a re-conversion replaces the output.
package preview

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a preview ID is unknown, including when
// it has already been released. A second Release of the same ID is a
// caller bug and surfaces as this error.
var ErrNotFound = errors.New("preview: resource not found")

// Resource is one displayable blob.
type Resource struct {
	Data        []byte
	ContentType string
}

// Store keeps preview resources for the lifetime of the process.
// Nothing is persisted; a restart drops every resource.
type Store struct {
	mu    sync.RWMutex
	blobs map[string]Resource
}

// NewStore creates an empty preview store.
func NewStore() *Store {
	return &Store{blobs: make(map[string]Resource)}
}

// Put registers a blob and returns its resource ID.
func (s *Store) Put(data []byte, contentType string) string {
	id := uuid.New().String()

	s.mu.Lock()
	s.blobs[id] = Resource{Data: data, ContentType: contentType}
	s.mu.Unlock()

	return id
}

// Get looks up a resource by ID.
func (s *Store) Get(id string) (Resource, bool) {
	s.mu.RLock()
	res, ok := s.blobs[id]
	s.mu.RUnlock()
	return res, ok
}

// Release drops a resource. Releasing an unknown or already-released
// ID returns ErrNotFound so double releases are detectable.
func (s *Store) Release(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[id]; !ok {
		return ErrNotFound
	}
	delete(s.blobs, id)
	return nil
}

// Len returns the number of live resources. Used by tests to verify
// that nothing leaks and nothing is released twice.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

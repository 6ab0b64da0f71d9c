// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai generates accessibility captions for images through
// vision-capable LLM providers (Gemini, Claude, OpenAI). Each provider
// implements the Captioner interface, and the Registry selects the
// active one by name.
package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// captionInstruction is the one fixed prompt sent with every caption
// request. Language and length guidance are deliberately baked in and
// not configurable.
const captionInstruction = "Describe this image in English for use as alt text for visually " +
	"impaired users. One sentence, at most 120 characters. Return only the description, " +
	"no quotes and no preamble."

// captionPlaceholder is returned when a provider answers with an empty
// string after trimming.
const captionPlaceholder = "No description available"

// Fixed sampling parameters for caption requests. Captions should be
// short and stable, so the temperature stays low.
const (
	captionTemperature = 0.2
	captionMaxTokens   = 100
)

// Captioner is implemented by every vision provider. A single call, no
// retries: a failed caption stays failed until the user asks again.
type Captioner interface {
	// Caption describes the image for use as alt text. The image is
	// passed as raw bytes with its MIME type.
	Caption(ctx context.Context, image []byte, mimeType string) (string, error)

	// Name returns the provider identifier (e.g., "gemini").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Registry manages available caption providers and selects the active
// one. All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Captioner
	active    string
}

// NewRegistry creates a registry and initialises providers for every
// config that has a non-empty API key. Providers without keys are
// silently skipped; asking an absent provider for a caption is a hard
// failure at call time, not a degraded mode.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Captioner),
		active:    active,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "gemini":
			r.providers[name] = newGemini(cfg)
		case "claude":
			r.providers[name] = newClaude(cfg)
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		}
	}

	return r
}

// Caption calls the active provider and normalises its answer: the
// response is trimmed, and an empty response becomes a fixed
// placeholder rather than an empty caption.
func (r *Registry) Caption(ctx context.Context, image []byte, mimeType string) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}

	text, err := p.Caption(ctx, image, mimeType)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return captionPlaceholder, nil
	}
	return text, nil
}

// Name returns the active provider name, for logging.
func (r *Registry) Name() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Active returns the currently active provider.
func (r *Registry) Active() (Captioner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no caption provider configured for %q", r.active)
	}
	return p, nil
}

// SetActive switches the active provider at runtime. Returns an error
// if the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// Available returns the names of all providers that have valid API keys.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Register adds or replaces a provider in the registry. This allows
// injecting custom providers at runtime (e.g. for testing).
func (r *Registry) Register(name string, p Captioner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

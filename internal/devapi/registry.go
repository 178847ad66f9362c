package devapi

import (
	"errors"
	"slices"
	"sync"

	"github.com/YoanAncelly/gtfs-viewer/internal/api"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

var (
	ErrInvalidIndex = errors.New("Invalid source index")
	ErrLastSource   = errors.New("Cannot remove the last source")
)

// DefaultSource is served when no source is configured.
var DefaultSource = model.Source{Name: "Local Files", UseLocalFiles: true}

// Registry holds the configured sources in memory. Changes are lost on
// restart.
type Registry struct {
	mu      sync.RWMutex
	sources []model.Source
	current int
}

func NewRegistry(config model.SourceConfig) *Registry {
	registry := &Registry{
		sources: slices.Clone(config.Sources),
		current: config.CurrentSource,
	}
	if len(registry.sources) == 0 {
		registry.sources = []model.Source{DefaultSource}
	}
	if registry.current < 0 || registry.current >= len(registry.sources) {
		registry.current = 0
	}
	return registry
}

func (registry *Registry) Config() model.SourceConfig {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	return model.SourceConfig{
		Sources:       slices.Clone(registry.sources),
		CurrentSource: registry.current,
	}
}

func (registry *Registry) Current() model.Source {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	return registry.sources[registry.current]
}

// Add appends a validated source and returns its index.
func (registry *Registry) Add(source model.Source) (int, error) {
	if err := api.ValidateSource(source); err != nil {
		return -1, err
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	registry.sources = append(registry.sources, source.Normalized())
	return len(registry.sources) - 1, nil
}

func (registry *Registry) Update(index int, source model.Source) error {
	if err := api.ValidateSource(source); err != nil {
		return err
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if !registry.inRange(index) {
		return ErrInvalidIndex
	}
	registry.sources[index] = source.Normalized()
	return nil
}

// Remove deletes a source, keeping at least one. The current index follows
// the source it pointed to, or falls back to the last one.
func (registry *Registry) Remove(index int) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if !registry.inRange(index) {
		return ErrInvalidIndex
	}
	if len(registry.sources) == 1 {
		return ErrLastSource
	}

	registry.sources = slices.Delete(registry.sources, index, index+1)
	switch {
	case index < registry.current:
		registry.current--
	case registry.current >= len(registry.sources):
		registry.current = len(registry.sources) - 1
	}
	return nil
}

func (registry *Registry) SetCurrent(index int) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if !registry.inRange(index) {
		return ErrInvalidIndex
	}
	registry.current = index
	return nil
}

func (registry *Registry) inRange(index int) bool {
	return index >= 0 && index < len(registry.sources)
}

package source

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"trucksync/internal/detect"
	"trucksync/internal/domain"
)

// Registry maps formats to the sources that handle them
type Registry struct {
	mu      sync.RWMutex
	sources map[domain.Format]ModSource
}

// NewRegistry creates a new source registry
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[domain.Format]ModSource),
	}
}

// Register adds a source to the registry. A source may claim several formats
// (the profile source serves both plain and encrypted files).
func (r *Registry) Register(source ModSource, extra ...domain.Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source.Format()] = source
	for _, f := range extra {
		r.sources[f] = source
	}
}

// Get retrieves the source for a format
func (r *Registry) Get(format domain.Format) (ModSource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.sources[format]
	if !ok {
		return nil, fmt.Errorf("%w: no source for %s", domain.ErrUnsupportedFormat, format)
	}
	return source, nil
}

// Formats returns the registered formats in declaration order
func (r *Registry) Formats() []domain.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]domain.Format, 0, len(r.sources))
	for f := range r.sources {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// FormatOf classifies path. .txt and .json files are routed by extension; everything
// else by its leading signature.
func FormatOf(path string) (domain.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return domain.FormatTXT, nil
	case ".json":
		return domain.FormatJSON, nil
	}
	return detect.File(path)
}

// Resolve classifies path and returns the matching source
func (r *Registry) Resolve(path string) (ModSource, domain.Format, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, domain.FormatUnknown, err
	}
	source, err := r.Get(format)
	if err != nil {
		return nil, format, err
	}
	return source, format, nil
}

// Load resolves path and loads it with the matching source
func (r *Registry) Load(path string) (*Loaded, error) {
	source, _, err := r.Resolve(path)
	if err != nil {
		return nil, err
	}
	return source.Load(path)
}

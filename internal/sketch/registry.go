package sketch

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/Ajinqya/sketchloop/internal/domain"
)

// Registry holds the sketches available to the application, keyed by ID.
//
// Thread-safety: This implementation is thread-safe.
type Registry struct {
	logger *slog.Logger

	mu       sync.RWMutex
	sketches map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:   logger,
		sketches: make(map[string]Descriptor),
	}
}

// Register validates and stores a descriptor. Defaults (FPS, dimensions,
// background, display name) are filled in here once; lookups always return
// the normalized form. Registering an already-known ID fails with
// ErrDuplicateSketch.
func (r *Registry) Register(d Descriptor) error {
	if d.ID == "" {
		return domain.NewConstructionError(d.ID, "sketch ID must not be empty", nil)
	}
	if d.Render == nil {
		return domain.NewConstructionError(d.ID, "sketch must define a render callback", domain.ErrNoRender)
	}

	d = d.normalized()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sketches[d.ID]; exists {
		return domain.ErrDuplicateSketch
	}
	r.sketches[d.ID] = d

	r.logger.Debug("sketch registered",
		slog.String("id", d.ID),
		slog.String("shape", d.Shape.String()),
		slog.Float64("fps", d.FPS))

	return nil
}

// Get returns the normalized descriptor for an ID.
func (r *Registry) Get(id string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, exists := r.sketches[id]
	if !exists {
		return Descriptor{}, domain.ErrSketchNotFound
	}
	return d, nil
}

// List returns all registered descriptors sorted by ID.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.sketches))
	for _, d := range r.sketches {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of registered sketches.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sketches)
}

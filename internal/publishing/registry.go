package publishing

import (
	"strings"
	"sync"
)

// Registry maps platform names to their publishers. Platforms register at
// wiring time; lookups are concurrency-safe.
type Registry struct {
	mu         sync.RWMutex
	publishers map[string]Publisher
}

// NewRegistry returns an empty publisher registry.
func NewRegistry() *Registry {
	return &Registry{publishers: make(map[string]Publisher)}
}

// Register binds a publisher to a platform name, replacing any previous one.
func (r *Registry) Register(platform string, publisher Publisher) {
	platform = normalizePlatform(platform)
	if platform == "" || publisher == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publishers[platform] = publisher
}

// Lookup returns the publisher for a platform, or false when none is bound.
func (r *Registry) Lookup(platform string) (Publisher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	publisher, ok := r.publishers[normalizePlatform(platform)]
	return publisher, ok
}

// Platforms returns the sorted-insensitive list of registered platform names.
func (r *Registry) Platforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.publishers))
	for platform := range r.publishers {
		out = append(out, platform)
	}
	return out
}

func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

package realtime

import "sync"

// Channel is one live push connection belonging to an authenticated user.
// Implementations must be safe for concurrent Send calls.
type Channel interface {
	Send(Message) error
}

// Registry holds the live push channels for each user. It is the only
// concurrently mutated structure in the engine and guards its map with a
// mutex; construct one at process start and pass it explicitly.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]map[Channel]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{channels: make(map[string]map[Channel]struct{})}
}

// Register adds a channel to the set for ownerID, creating the entry if
// absent. Registering the same channel twice is a no-op.
func (r *Registry) Register(ownerID string, ch Channel) {
	if ownerID == "" || ch == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.channels[ownerID]
	if !ok {
		set = make(map[Channel]struct{})
		r.channels[ownerID] = set
	}
	set[ch] = struct{}{}
}

// Unregister removes a channel; when the resulting set is empty the owner's
// entry is discarded entirely.
func (r *Registry) Unregister(ownerID string, ch Channel) {
	if ownerID == "" || ch == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.channels[ownerID]
	if !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(r.channels, ownerID)
	}
}

// ChannelsFor returns a snapshot of the channels registered for ownerID.
// It returns an empty slice when the owner has none.
func (r *Registry) ChannelsFor(ownerID string) []Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.channels[ownerID]
	out := make([]Channel, 0, len(set))
	for ch := range set {
		out = append(out, ch)
	}
	return out
}

// ConnectionCount reports how many channels are currently registered across
// all users.
func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, set := range r.channels {
		total += len(set)
	}
	return total
}

package notify

import "sync"

// Registry owns one Store per chat. It is created at startup and closed at shutdown.
type Registry struct {
	mu     sync.Mutex
	stores map[int64]*Store
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{stores: make(map[int64]*Store)}
}

// For returns the store of chatID, creating it on first use
func (r *Registry) For(chatID int64) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[chatID]
	if !ok {
		store = New()
		r.stores[chatID] = store
	}
	return store
}

// Close closes every store
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, store := range r.stores {
		store.Close()
		delete(r.stores, id)
	}
}

// Package notify keeps transient user notifications: newest first, no expiry,
// no deduplication. Entries stay until cleared.
package notify

import (
	"strconv"
	"sync"
	"time"

	"lexibot/internal/domain"
)

// maxID is where the id counter wraps back to 1
const maxID = 1<<53 - 1

// Store is an append-only list of notifications
type Store struct {
	mu      sync.Mutex
	items   []domain.Notification
	counter uint64
	closed  bool
	now     func() time.Time
}

// New creates an empty store
func New() *Store {
	return &Store{now: time.Now}
}

// Notify prepends n with a freshly minted id and returns that id.
// Any ID set on n is ignored. After Close it returns "".
func (s *Store) Notify(n domain.Notification) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ""
	}

	s.counter = s.counter%maxID + 1
	n.ID = strconv.FormatUint(s.counter, 10)
	if n.Variant == "" {
		n.Variant = domain.VariantDefault
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	s.items = append([]domain.Notification{n}, s.items...)
	return n.ID
}

// Clear removes the entry with id, or every entry when id is empty
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		s.items = nil
		return
	}

	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
}

// Items returns a copy of the entries, newest first
func (s *Store) Items() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of entries
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close drops all entries and rejects further notifications
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.closed = true
}

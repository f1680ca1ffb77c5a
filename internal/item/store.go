package item

import "sync"

// Store is the in-memory item map, the primary read source.
//
// It is rebuilt empty on every process start; anything present only on disk
// is served via Repository fallback instead. All methods are safe for
// concurrent use.
type Store struct {
	mu    sync.RWMutex
	items map[string]Value
}

// NewStore creates an empty item store.
func NewStore() *Store {
	return &Store{
		items: make(map[string]Value),
	}
}

// Get retrieves an item by ID.
// The returned value is a deep copy; callers can safely modify it.
func (s *Store) Get(id string) (Value, bool) {
	s.mu.RLock()
	v, ok := s.items[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	return Clone(v), true
}

// Put stores an item under the given ID, replacing any previous value.
// The store keeps its own deep copy of v.
func (s *Store) Put(id string, v Value) {
	cloned := Clone(v)

	s.mu.Lock()
	s.items[id] = cloned
	s.mu.Unlock()
}

// Delete removes an item from the store. Removing an absent ID is a no-op;
// the handler layer decides whether that is an error for the caller.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// All returns a snapshot of every item keyed by ID.
// The snapshot is deep-copied and detached from the store.
func (s *Store) All() map[string]Value {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]Value, len(s.items))
	for id, v := range s.items {
		snapshot[id] = Clone(v)
	}
	return snapshot
}

// Count returns the number of items currently in memory.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

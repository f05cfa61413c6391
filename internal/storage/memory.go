package storage

import (
	"slices"
	"strings"
	"sync"
)

type record[T any] struct {
	method string
	item   T
}

// MemoryStore is a thread-safe, method-keyed, insertion-ordered collection.
type MemoryStore[T Item[T]] struct {
	mu      sync.RWMutex
	records []record[T]
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore[T Item[T]]() *MemoryStore[T] {
	return &MemoryStore[T]{}
}

// Snapshot is a point-in-time copy of a MemoryStore.
type Snapshot[T any] struct {
	records []record[T]
}

// Len returns the number of items in the snapshot.
func (s *Snapshot[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Add appends an item under method. The method is lowercased.
func (s *MemoryStore[T]) Add(method string, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record[T]{method: strings.ToLower(method), item: item})
}

// Delete removes an item by ID. Returns true if deleted, false if not found.
func (s *MemoryStore[T]) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.item.ID() == id {
			s.records = slices.Delete(s.records, i, i+1)
			return true
		}
	}
	return false
}

// List returns the items stored under method in insertion order.
func (s *MemoryStore[T]) List(method string) []T {
	method = strings.ToLower(method)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []T
	for _, r := range s.records {
		if r.method == method {
			result = append(result, r.item)
		}
	}
	return result
}

// All returns every item in insertion order.
func (s *MemoryStore[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.records))
	for _, r := range s.records {
		result = append(result, r.item)
	}
	return result
}

// Count returns the number of stored items.
func (s *MemoryStore[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear removes all stored items.
func (s *MemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

// Snapshot returns a deep copy of the current contents.
func (s *MemoryStore[T]) Snapshot() *Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Snapshot[T]{records: cloneRecords(s.records)}
}

// Restore replaces the contents with a copy of snap. A nil snapshot clears the store.
func (s *MemoryStore[T]) Restore(snap *Snapshot[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap == nil {
		s.records = nil
		return
	}
	s.records = cloneRecords(snap.records)
}

func cloneRecords[T Item[T]](in []record[T]) []record[T] {
	if len(in) == 0 {
		return nil
	}
	out := make([]record[T], len(in))
	for i, r := range in {
		out[i] = record[T]{method: r.method, item: r.item.Clone()}
	}
	return out
}

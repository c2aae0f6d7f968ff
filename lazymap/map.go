// Package lazymap provides a keyed collection of lazy values: one
// compute function, one cell per key, each key evaluated at most once.
//
// Concurrent getters of the same key block on that key's cell only;
// different keys evaluate independently and in parallel. Each cell
// carries the full lazy-cell contract, poisoning included: a key whose
// computation failed stays failed until Forget replaces its cell.
package lazymap

import (
	"sync"

	"github.com/kolkov/lazycell/internal/cell"
)

// Map memoizes compute(k) per key. Safe for concurrent use by any number
// of goroutines. Construct with New; the zero Map is not usable.
type Map[K comparable, V any] struct {
	compute func(K) (V, error)

	// mu guards only the cells index. Evaluation happens on the
	// per-key cell, outside this lock, so a slow key never blocks
	// lookups of other keys.
	mu    sync.Mutex
	cells map[K]*cell.Cell[V]
}

// New creates an empty map backed by compute. compute must not be nil.
func New[K comparable, V any](compute func(K) (V, error)) *Map[K, V] {
	if compute == nil {
		panic("lazymap: nil compute function")
	}
	return &Map[K, V]{
		compute: compute,
		cells:   make(map[K]*cell.Cell[V]),
	}
}

// Get returns the memoized value for key, computing it on first access.
// For any one key the computation runs at most once; concurrent getters
// of that key block until it completes and then share the same stored
// value. A failed computation poisons the key: later gets return the
// poison error without retrying (see Forget).
func (m *Map[K, V]) Get(key K) (V, error) {
	return m.cellFor(key).Force()
}

// TryGet returns the value for key without blocking and without
// triggering evaluation; ok is true only if the key is already resolved.
func (m *Map[K, V]) TryGet(key K) (value V, ok bool) {
	m.mu.Lock()
	c := m.cells[key]
	m.mu.Unlock()
	if c == nil {
		var zero V
		return zero, false
	}
	return c.TryGet()
}

// Forget drops key's cell, reporting whether one existed. A later Get
// creates a fresh cell and runs the computation again; this is the only
// way a poisoned key can recover. Getters already blocked on the old
// cell still complete against it.
func (m *Map[K, V]) Forget(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cells[key]; !ok {
		return false
	}
	delete(m.cells, key)
	return true
}

// Len reports how many keys have been materialized, whether pending,
// resolved, or poisoned.
func (m *Map[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cells)
}

// Keys returns a snapshot of the materialized keys, in no particular
// order.
func (m *Map[K, V]) Keys() []K {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]K, 0, len(m.cells))
	for k := range m.cells {
		keys = append(keys, k)
	}
	return keys
}

// cellFor returns key's cell, creating a pending one on first sight.
// Only the index lookup holds mu; forcing happens on the cell itself.
func (m *Map[K, V]) cellFor(key K) *cell.Cell[V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.cells[key]
	if !ok {
		c = cell.New(func() (V, error) {
			return m.compute(key)
		})
		m.cells[key] = c
	}
	return c
}

// Package ordered provides a map that remembers insertion order.
//
// Mapping reads and writes in filehelper go through Map so that entries come
// back in file order and are written out in the order they were added.
package ordered

import "iter"

// Map is an insertion-ordered map. Setting an existing key replaces its value
// but keeps the key at its original position. The zero value is an empty map
// ready to use.
type Map[K comparable, V any] struct {
	index map[K]int
	keys  []K
	vals  []V
}

// New returns an empty map with room for capacity entries.
func New[K comparable, V any](capacity int) *Map[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Map[K, V]{
		index: make(map[K]int, capacity),
		keys:  make([]K, 0, capacity),
		vals:  make([]V, 0, capacity),
	}
}

// Set stores value under key and reports whether key was already present.
func (m *Map[K, V]) Set(key K, value V) bool {
	if i, ok := m.index[key]; ok {
		m.vals[i] = value
		return true
	}
	if m.index == nil {
		m.index = make(map[K]int)
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, value)
	return false
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.vals[i], true
}

func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates over the entries in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

// Equal reports whether a and b hold the same entries in the same order.
func Equal[K, V comparable](a, b *Map[K, V]) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.Len() {
		if a.keys[i] != b.keys[i] || a.vals[i] != b.vals[i] {
			return false
		}
	}
	return true
}

// ToMap copies the entries into a regular, unordered map.
func (m *Map[K, V]) ToMap() map[K]V {
	out := make(map[K]V, m.Len())
	for k, v := range m.All() {
		out[k] = v
	}
	return out
}

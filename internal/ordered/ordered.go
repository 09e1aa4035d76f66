// Package ordered provides a small insertion-ordered map.
//
// The workflow model leans on it wherever iteration order is part of the
// output contract: pipeline jobs, step inputs and matrix axes all keep the
// order they were declared in. Callers are expected to serialise access,
// matching the single-threaded build model of the rest of the library.
package ordered

// Map is a map that remembers the insertion order of its keys.
type Map[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// New creates an empty ordered map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		values: make(map[K]V),
	}
}

// Set stores the value under the key. The first Set of a key fixes its
// position; later Sets overwrite the value in place.
func (m *Map[K, V]) Set(key K, value V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under the key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether the key is present.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, len(m.keys))
	copy(keys, m.keys)

	return keys
}

// Values returns the values in insertion order. The slice is a copy.
func (m *Map[K, V]) Values() []V {
	values := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		values = append(values, m.values[k])
	}

	return values
}

// Index returns the insertion position of the key, or -1 when absent.
func (m *Map[K, V]) Index(key K) int {
	if _, ok := m.values[key]; !ok {
		return -1
	}
	for i, k := range m.keys {
		if k == key {
			return i
		}
	}

	return -1
}

// Clone returns a shallow copy sharing no internal state with the original.
func (m *Map[K, V]) Clone() *Map[K, V] {
	clone := &Map[K, V]{
		keys:   make([]K, len(m.keys)),
		values: make(map[K]V, len(m.values)),
	}
	copy(clone.keys, m.keys)
	for k, v := range m.values {
		clone.values[k] = v
	}

	return clone
}

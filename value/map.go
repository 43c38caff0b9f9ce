package value

// Map is a mapping from string keys to intermediate values. Keys are
// unique. Iteration order is insertion-preserving only when the build
// selects the ordered representation (see preserveOrder); otherwise it is
// unspecified.
type Map struct {
	entries map[string]Value
	keys    []string // tracked only when preserveOrder
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{entries: make(map[string]Value)}
}

// NewMapCapacity creates an empty map with room for n entries.
func NewMapCapacity(n int) *Map {
	m := &Map{entries: make(map[string]Value, n)}
	if preserveOrder {
		m.keys = make([]string, 0, n)
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Get returns the value associated with a key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.entries[key]
	return v, ok
}

// Has reports whether a key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set inserts a key-value pair, replacing any previous value.
func (m *Map) Set(key string, v Value) {
	if preserveOrder {
		if _, exists := m.entries[key]; !exists {
			m.keys = append(m.keys, key)
		}
	}
	m.entries[key] = v
}

// Extend inserts every entry of other into m.
func (m *Map) Extend(other *Map) {
	if other == nil {
		return
	}
	other.Range(func(k string, v Value) bool {
		m.Set(k, v)
		return true
	})
}

// Keys returns the key set. Ordered builds return insertion order; the
// slice is a copy either way.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	if preserveOrder {
		out := make([]string, len(m.keys))
		copy(out, m.keys)
		return out
	}
	out := make([]string, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	return out
}

// Range calls fn for every entry until fn returns false.
func (m *Map) Range(fn func(key string, v Value) bool) {
	if m == nil {
		return
	}
	if preserveOrder {
		for _, k := range m.keys {
			if !fn(k, m.entries[k]) {
				return
			}
		}
		return
	}
	for k, v := range m.entries {
		if !fn(k, v) {
			return
		}
	}
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := NewMapCapacity(m.Len())
	m.Range(func(k string, v Value) bool {
		out.Set(k, v.Clone())
		return true
	})
	return out
}

// Equal reports structural equality regardless of representation order.
func (m *Map) Equal(other *Map) bool {
	if m.Len() != other.Len() {
		return false
	}
	equal := true
	m.Range(func(k string, v Value) bool {
		ov, ok := other.Get(k)
		if !ok || !v.Equal(ov) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

package codec

import (
	"sync"

	"github.com/wippyai/litecodec/value"
)

// Guarded is a mutex-protected cell whose content takes part in the
// protocols. Each protocol call acquires the lock for its own duration
// only; two guarded fields of one struct are two independent critical
// sections, not one.
type Guarded[T any] struct {
	mu sync.Mutex
	v  T
}

// NewGuarded creates a guarded cell holding v.
func NewGuarded[T any](v T) *Guarded[T] {
	return &Guarded[T]{v: v}
}

// Load returns a copy of the content.
func (g *Guarded[T]) Load() T {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.v
}

// Store replaces the content.
func (g *Guarded[T]) Store(v T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.v = v
}

// With runs fn with exclusive access to the content.
func (g *Guarded[T]) With(fn func(*T)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.v)
}

// SerializeValue implements Serializer.
func (g *Guarded[T]) SerializeValue() (value.Value, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Serialize(&g.v)
}

// DeserializeValue implements Deserializer.
func (g *Guarded[T]) DeserializeValue(val value.Value) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Deserialize(val, &g.v)
}

// UpdateValue implements Updater.
func (g *Guarded[T]) UpdateValue(val value.Value) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Update(&g.v, val)
}

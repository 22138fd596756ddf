package gate

import (
	"context"
	"sync"
)

// Resolver looks up a value for a key, typically from the database.
type Resolver[K comparable, V any] interface {
	Resolve(ctx context.Context, key K) (V, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

func (f ResolverFunc[K, V]) Resolve(ctx context.Context, key K) (V, error) { return f(ctx, key) }

// StaticResolver serves values from memory. Useful in tests.
type StaticResolver[K comparable, V any] struct {
	mu     sync.RWMutex
	values map[K]V
}

func NewStaticResolver[K comparable, V any]() *StaticResolver[K, V] {
	return &StaticResolver[K, V]{values: make(map[K]V)}
}

func (r *StaticResolver[K, V]) Set(key K, value V) {
	r.mu.Lock()
	r.values[key] = value
	r.mu.Unlock()
}

func (r *StaticResolver[K, V]) Delete(key K) {
	r.mu.Lock()
	delete(r.values, key)
	r.mu.Unlock()
}

func (r *StaticResolver[K, V]) Resolve(_ context.Context, key K) (V, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[key]
	if !ok {
		var zero V
		return zero, ErrUnknown
	}
	return v, nil
}

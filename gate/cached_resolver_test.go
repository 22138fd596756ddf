package gate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCachedResolver_CachesValue(t *testing.T) {
	inner := NewStaticResolver[uint, string]()
	inner.Set(1, "editor")

	cached := NewCachedResolver[uint, string](inner, 5*time.Minute)

	// First call - cache miss
	v1, err := cached.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v1 != "editor" {
		t.Errorf("expected 'editor', got '%s'", v1)
	}

	inner.Set(1, "admin")

	// Second call - should return cached value
	v2, err := cached.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v2 != "editor" {
		t.Errorf("expected cached 'editor', got '%s'", v2)
	}
}

func TestCachedResolver_Invalidate(t *testing.T) {
	inner := NewStaticResolver[uint, string]()
	inner.Set(1, "editor")
	cached := NewCachedResolver[uint, string](inner, 5*time.Minute)

	_, _ = cached.Resolve(context.Background(), 1)
	inner.Set(1, "admin")
	cached.Invalidate(1)

	v, err := cached.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "admin" {
		t.Errorf("expected 'admin' after invalidation, got '%s'", v)
	}
}

func TestCachedResolver_InvalidateAll(t *testing.T) {
	inner := NewStaticResolver[uint, string]()
	inner.Set(1, "editor")
	inner.Set(2, "viewer")
	cached := NewCachedResolver[uint, string](inner, 5*time.Minute)

	_, _ = cached.Resolve(context.Background(), 1)
	_, _ = cached.Resolve(context.Background(), 2)
	if cached.Len() != 2 {
		t.Fatalf("expected 2 cached entries, got %d", cached.Len())
	}

	inner.Set(1, "admin")
	inner.Set(2, "admin")
	cached.InvalidateAll()

	v1, _ := cached.Resolve(context.Background(), 1)
	v2, _ := cached.Resolve(context.Background(), 2)
	if v1 != "admin" || v2 != "admin" {
		t.Error("expected both values to be 'admin' after InvalidateAll")
	}
}

func TestCachedResolver_TTLExpiry(t *testing.T) {
	inner := NewStaticResolver[uint, string]()
	inner.Set(1, "editor")
	cached := NewCachedResolver[uint, string](inner, time.Minute)
	clock := time.Now()
	cached.now = func() time.Time { return clock }

	_, _ = cached.Resolve(context.Background(), 1)
	inner.Set(1, "admin")
	clock = clock.Add(2 * time.Minute)

	v, _ := cached.Resolve(context.Background(), 1)
	if v != "admin" {
		t.Errorf("expected 'admin' after TTL expiry, got '%s'", v)
	}
}

func TestCachedResolver_ErrorsAreNotCached(t *testing.T) {
	inner := NewStaticResolver[uint, string]()
	cached := NewCachedResolver[uint, string](inner, time.Minute)

	if _, err := cached.Resolve(context.Background(), 7); !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
	inner.Set(7, "late")
	v, err := cached.Resolve(context.Background(), 7)
	if err != nil || v != "late" {
		t.Fatalf("expected fresh value after miss, got %q %v", v, err)
	}
}

func TestCachedResolver_ZeroTTLDisablesCaching(t *testing.T) {
	calls := 0
	inner := ResolverFunc[uint, int](func(context.Context, uint) (int, error) {
		calls++
		return calls, nil
	})
	cached := NewCachedResolver[uint, int](inner, 0)
	_, _ = cached.Resolve(context.Background(), 1)
	v, _ := cached.Resolve(context.Background(), 1)
	if v != 2 || cached.Len() != 0 {
		t.Fatalf("expected uncached resolution, got %d with %d entries", v, cached.Len())
	}
}

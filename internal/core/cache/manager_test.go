package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"maitri-diet/internal/infrastructure/config"
	"maitri-diet/internal/pkg/common"
)

func newTestManager(maxSize int) (*Manager, *time.Time) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManager(&config.CacheConfig{MaxSize: maxSize, TTL: time.Minute})
	m.now = func() time.Time { return now }
	return m, &now
}

func TestManagerGetSet(t *testing.T) {
	m, _ := newTestManager(10)
	defer m.Close()
	ctx := context.Background()

	if _, err := m.Get(ctx, "k"); !errors.Is(err, common.ErrCacheMiss) {
		t.Fatalf("err = %v, want miss", err)
	}

	value := []byte("v1")
	if err := m.Set(ctx, "k", value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'x'

	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	stats := m.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 || stats.HitRatio != 0.5 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestManagerExpiry(t *testing.T) {
	m, now := newTestManager(10)
	defer m.Close()
	ctx := context.Background()

	if err := m.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(2 * time.Minute)

	if _, err := m.Get(ctx, "k"); !errors.Is(err, common.ErrCacheMiss) {
		t.Fatalf("expired entry returned: %v", err)
	}
	if s := m.GetStats(); s.Size != 0 || s.Evictions != 1 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	m, now := newTestManager(2)
	defer m.Close()
	ctx := context.Background()

	m.Set(ctx, "a", []byte("1"))
	*now = now.Add(time.Second)
	m.Set(ctx, "b", []byte("2"))
	m.Get(ctx, "a")

	if err := m.Set(ctx, "c", []byte("3")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := m.Get(ctx, "b"); err == nil {
		t.Fatal("least used entry should have been evicted")
	}
	for _, k := range []string{"a", "c"} {
		if _, err := m.Get(ctx, k); err != nil {
			t.Fatalf("%s missing: %v", k, err)
		}
	}
}

func TestManagerOverwriteAtCapacity(t *testing.T) {
	m, _ := newTestManager(1)
	defer m.Close()
	ctx := context.Background()

	m.Set(ctx, "a", []byte("1"))
	if err := m.Set(ctx, "a", []byte("2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ := m.Get(ctx, "a")
	if string(got) != "2" {
		t.Fatalf("got %q", got)
	}
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(&config.CacheConfig{Enabled: false})
	if err != nil || store != nil {
		t.Fatalf("disabled cache = %v, %v", store, err)
	}

	store, err = NewStore(&config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: 5, TTL: time.Minute})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if _, ok := store.(*Manager); !ok {
		t.Fatalf("memory backend returned %T", store)
	}

	if _, err := NewStore(&config.CacheConfig{Enabled: true, Backend: "memcached"}); err == nil {
		t.Fatal("unknown backend should fail")
	}
}

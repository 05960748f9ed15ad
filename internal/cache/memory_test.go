// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCacheGetSet(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get(missing) err = %v, want ErrCacheMiss", err)
	}

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get() = %q, want value", got)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Minute})
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "short", []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after expiry err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "key", []byte("value"), 0)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if has, _ := c.Has(ctx, "key"); has {
		t.Error("Has() = true after Delete")
	}
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if stats := c.Stats(); stats.Items != 0 {
		t.Errorf("Items after Clear = %d, want 0", stats.Items)
	}
}

func TestMemoryCacheDeleteByPrefix(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "page:home", []byte("1"), 0)
	_ = c.Set(ctx, "page:about", []byte("2"), 0)
	_ = c.Set(ctx, "services", []byte("3"), 0)

	if err := c.DeleteByPrefix(ctx, "page:"); err != nil {
		t.Fatalf("DeleteByPrefix() error = %v", err)
	}

	if has, _ := c.Has(ctx, "page:home"); has {
		t.Error("page:home survived DeleteByPrefix")
	}
	if has, _ := c.Has(ctx, "services"); !has {
		t.Error("services was removed by DeleteByPrefix")
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	_ = c.Close()

	if _, err := c.Get(context.Background(), "key"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get() on closed cache err = %v, want ErrCacheClosed", err)
	}
	if err := c.Set(context.Background(), "key", nil, 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set() on closed cache err = %v, want ErrCacheClosed", err)
	}
}

func TestMemoryCacheStats(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "key", []byte("value"), 0)
	_, _ = c.Get(ctx, "key")
	_, _ = c.Get(ctx, "missing")

	stats := c.Stats()
	if stats.Hits != 1 {
		t.Errorf("Hits = %d, want 1", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("Sets = %d, want 1", stats.Sets)
	}
	if stats.HitRate != 50 {
		t.Errorf("HitRate = %v, want 50", stats.HitRate)
	}
}

func TestTypedCache(t *testing.T) {
	type page struct {
		Name     string `json:"name"`
		Sections int    `json:"sections"`
	}

	c := NewSimpleMemoryCache(time.Minute)
	defer c.Close()
	tc := NewTypedCache[page](c, time.Minute)
	ctx := context.Background()

	if _, ok := tc.Get(ctx, "home"); ok {
		t.Error("Get() on empty cache = true, want false")
	}

	if err := tc.Set(ctx, "home", &page{Name: "home", Sections: 3}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok := tc.Get(ctx, "home")
	if !ok {
		t.Fatal("Get() = false after Set")
	}
	if got.Sections != 3 {
		t.Errorf("Sections = %d, want 3", got.Sections)
	}
}

func TestTypedCacheGetOrSet(t *testing.T) {
	c := NewSimpleMemoryCache(time.Minute)
	defer c.Close()
	tc := NewTypedCache[string](c, time.Minute)
	ctx := context.Background()

	calls := 0
	fn := func() (*string, error) {
		calls++
		s := "computed"
		return &s, nil
	}

	for i := 0; i < 3; i++ {
		got, err := tc.GetOrSet(ctx, "key", fn)
		if err != nil {
			t.Fatalf("GetOrSet() error = %v", err)
		}
		if *got != "computed" {
			t.Errorf("GetOrSet() = %q, want computed", *got)
		}
	}

	if calls != 1 {
		t.Errorf("compute function called %d times, want 1", calls)
	}
}

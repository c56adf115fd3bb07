package lru

import (
	"testing"
	"time"
)

func TestLRUBasic(t *testing.T) {
	cache := New[string, int](&Config{
		MaxSize:    100,
		DefaultTTL: time.Minute,
	})
	defer cache.Close()

	cache.Set("key1", 100)
	if v, ok := cache.Get("key1"); !ok || v != 100 {
		t.Fatalf("Get(key1) = %d, %v; want 100, true", v, ok)
	}

	if _, ok := cache.Get("missing"); ok {
		t.Fatal("Get(missing) should miss")
	}

	cache.Delete("key1")
	if _, ok := cache.Get("key1"); ok {
		t.Fatal("Get(key1) after Delete should miss")
	}
}

func TestLRUEviction(t *testing.T) {
	evicted := make(map[string]int)
	cache := New[string, int](
		&Config{MaxSize: 2, DefaultTTL: time.Minute},
		WithOnEvict(func(k string, v int) { evicted[k] = v }),
	)
	defer cache.Close()

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Set("c", 3) // 容量 2，淘汰最久未使用的 a

	if _, ok := cache.Get("a"); ok {
		t.Fatal("a should have been evicted")
	}
	if v, ok := evicted["a"]; !ok || v != 1 {
		t.Fatalf("evict callback got %v, %v; want 1, true", v, ok)
	}
	if cache.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cache.Len())
	}
}

func TestLRUExpiry(t *testing.T) {
	cache := New[string, int](&Config{MaxSize: 10})
	defer cache.Close()

	cache.SetWithTTL("short", 1, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, ok := cache.Get("short"); ok {
		t.Fatal("expired entry should miss")
	}
}

func TestLRUUpdateMovesToFront(t *testing.T) {
	cache := New[string, int](&Config{MaxSize: 2, DefaultTTL: time.Minute})
	defer cache.Close()

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Get("a")    // a 变为最近使用
	cache.Set("c", 3) // 应淘汰 b

	if _, ok := cache.Get("a"); !ok {
		t.Fatal("a should survive")
	}
	if _, ok := cache.Get("b"); ok {
		t.Fatal("b should have been evicted")
	}
}

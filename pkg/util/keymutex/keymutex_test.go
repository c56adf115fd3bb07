package keymutex

import (
	"sync"
	"testing"
)

func TestKeyMutexSameKeySerializes(t *testing.T) {
	m := New(16)

	const goroutines = 100
	counter := 0

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			m.LockInt64(42)
			counter++
			m.UnlockInt64(42)
		}()
	}
	wg.Wait()

	if counter != goroutines {
		t.Fatalf("counter = %d, want %d", counter, goroutines)
	}
}

func TestKeyMutexDifferentKeysIndependent(t *testing.T) {
	m := New(16)

	// 只挑选与 "a" 落在不同分片的键，避免同分片互斥
	others := make([]string, 0, 4)
	for _, key := range []string{"b", "c", "d", "e", "f", "g", "h"} {
		if m.index(key) != m.index("a") {
			others = append(others, key)
		}
	}
	if len(others) == 0 {
		t.Skip("all probe keys collide with shard of a")
	}

	m.Lock("a")
	done := make(chan struct{})
	go func() {
		for _, key := range others {
			m.Lock(key)
			m.Unlock(key)
		}
		close(done)
	}()

	<-done
	m.Unlock("a")
}

func TestKeyMutexShardRounding(t *testing.T) {
	m := New(5)
	if got := len(m.shards); got != 8 {
		t.Fatalf("shards = %d, want 8", got)
	}

	m = New(0)
	if got := len(m.shards); got != defaultShards {
		t.Fatalf("shards = %d, want %d", got, defaultShards)
	}
}

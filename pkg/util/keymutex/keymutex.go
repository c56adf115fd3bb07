// Package keymutex 提供按键互斥锁。
// 同一个键上的临界区互斥，不同键互不阻塞，用于玩家级别的串行化。
package keymutex

import (
	"hash/fnv"
	"strconv"
	"sync"
)

const defaultShards = 256

// KeyMutex 分片按键互斥锁
// 以固定数量的分片代替每键一把锁，避免键集合无界增长
type KeyMutex struct {
	shards []sync.Mutex
	mask   uint32
}

// New 创建 KeyMutex，shards 会向上取整到 2 的幂；非正数使用默认分片数
func New(shards int) *KeyMutex {
	if shards <= 0 {
		shards = defaultShards
	}
	n := 1
	for n < shards {
		n <<= 1
	}
	return &KeyMutex{
		shards: make([]sync.Mutex, n),
		mask:   uint32(n - 1),
	}
}

// Lock 锁定键对应的分片
func (m *KeyMutex) Lock(key string) {
	m.shards[m.index(key)].Lock()
}

// Unlock 解锁键对应的分片
func (m *KeyMutex) Unlock(key string) {
	m.shards[m.index(key)].Unlock()
}

// LockInt64 以 int64 键锁定
func (m *KeyMutex) LockInt64(key int64) {
	m.Lock(strconv.FormatInt(key, 10))
}

// UnlockInt64 以 int64 键解锁
func (m *KeyMutex) UnlockInt64(key int64) {
	m.Unlock(strconv.FormatInt(key, 10))
}

func (m *KeyMutex) index(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() & m.mask
}

// Package memory implements in-process thing stores.
package memory

import (
	"hash/fnv"
	"sync"

	"github.com/bft-labs/docship/internal/domain"
)

const defaultShardCount = 16

type shard struct {
	mu     sync.RWMutex
	things map[string]domain.Thing
}

// MapStore is a sharded map that keeps every thing it is given.
type MapStore struct {
	shards []*shard
}

// NewMapStore creates a store with shardCount shards.
// Values below 1 use the default.
func NewMapStore(shardCount int) *MapStore {
	if shardCount < 1 {
		shardCount = defaultShardCount
	}
	shards := make([]*shard, shardCount)
	for i := range shards {
		shards[i] = &shard{things: make(map[string]domain.Thing)}
	}
	return &MapStore{shards: shards}
}

func (s *MapStore) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Get returns the thing stored under id.
func (s *MapStore) Get(id string) (domain.Thing, bool) {
	sh := s.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	thing, ok := sh.things[id]
	return thing, ok
}

// Set stores thing under id, replacing any previous value.
func (s *MapStore) Set(id string, thing domain.Thing) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.things[id] = thing
}

// Len returns the number of stored things.
func (s *MapStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.things)
		sh.mu.RUnlock()
	}
	return n
}

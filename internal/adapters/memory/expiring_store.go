package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/bft-labs/docship/internal/domain"
)

// ExpiringStore forgets things ttl after they were set.
type ExpiringStore struct {
	cache *cache.Cache
}

// NewExpiringStore creates a store whose entries live for ttl. Expired
// entries are purged every cleanupInterval; zero disables the janitor.
func NewExpiringStore(ttl, cleanupInterval time.Duration) *ExpiringStore {
	return &ExpiringStore{cache: cache.New(ttl, cleanupInterval)}
}

// Get returns the thing stored under id if it has not expired.
func (s *ExpiringStore) Get(id string) (domain.Thing, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return domain.Thing{}, false
	}
	thing, ok := v.(domain.Thing)
	return thing, ok
}

// Set stores thing under id with the default ttl.
func (s *ExpiringStore) Set(id string, thing domain.Thing) {
	s.cache.SetDefault(id, thing)
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (s *ExpiringStore) Len() int {
	return s.cache.ItemCount()
}

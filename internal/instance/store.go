// Package instance keeps the live, server-side state behind each open auth
// screen. Entries expire after a TTL and the oldest are evicted once the
// store is full; either way the entry is closed so its timers stop.
package instance

import (
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/DukeRupert/authui/internal/domain"
	"github.com/DukeRupert/authui/internal/metrics"
)

// Closer is anything that must be torn down when it leaves the store.
type Closer interface {
	Close()
}

// Store is a bounded, expiring map from instance id to V.
type Store[V Closer] struct {
	kind  string
	cache *lru.LRU[uuid.UUID, V]

	mu       sync.Mutex
	removing map[uuid.UUID]struct{}
	closing  bool
}

// NewStore returns a store holding at most size entries, each for at most
// ttl. kind labels the store in metrics and errors ("form", "success").
func NewStore[V Closer](kind string, size int, ttl time.Duration) *Store[V] {
	s := &Store[V]{
		kind:     kind,
		removing: make(map[uuid.UUID]struct{}),
	}
	s.cache = lru.NewLRU[uuid.UUID, V](size, s.onEvict, ttl)
	return s
}

// onEvict runs with the cache lock held.
func (s *Store[V]) onEvict(id uuid.UUID, v V) {
	s.mu.Lock()
	_, explicit := s.removing[id]
	closing := s.closing
	s.mu.Unlock()

	if !explicit && !closing {
		metrics.InstanceEvictions.WithLabelValues(s.kind).Inc()
	}
	metrics.LiveInstances.WithLabelValues(s.kind).Dec()
	v.Close()
}

// Add stores v under a fresh id.
func (s *Store[V]) Add(v V) uuid.UUID {
	id := uuid.New()
	metrics.LiveInstances.WithLabelValues(s.kind).Inc()
	s.cache.Add(id, v)
	return id
}

// Get returns the instance stored under id.
func (s *Store[V]) Get(id uuid.UUID) (V, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		var zero V
		return zero, domain.NotFound("instance.Get", s.kind, id.String())
	}
	return v, nil
}

// Lookup parses raw as an id and returns its instance. Malformed ids are
// reported as not found.
func (s *Store[V]) Lookup(raw string) (uuid.UUID, V, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		var zero V
		return uuid.Nil, zero, domain.NotFound("instance.Lookup", s.kind, raw)
	}
	v, err := s.Get(id)
	return id, v, err
}

// Remove closes and drops the instance stored under id. It reports whether
// the id was present.
func (s *Store[V]) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	s.removing[id] = struct{}{}
	s.mu.Unlock()

	ok := s.cache.Remove(id)

	s.mu.Lock()
	delete(s.removing, id)
	s.mu.Unlock()
	return ok
}

// Len returns the number of stored instances, including expired ones that
// have not been swept yet.
func (s *Store[V]) Len() int {
	return s.cache.Len()
}

// Close tears down every stored instance.
func (s *Store[V]) Close() {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	s.cache.Purge()
}

package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	expires     time.Time
	probability float64
}

// DefaultMaxEntries caps a MemoryScoreCache unless WithMaxEntries says otherwise.
const DefaultMaxEntries = 10000

// MemoryScoreCache is an in-process port.ScoreCache with per-entry expiry.
// Expired entries are swept on Set at most once per ttl, and the number of
// entries never exceeds maxEntries.
type MemoryScoreCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	now        func() time.Time
	nextSweep  time.Time
	ttl        time.Duration
	maxEntries int
}

// NewMemoryScoreCache creates an empty cache. A zero ttl keeps entries
// until they are evicted by the size cap.
func NewMemoryScoreCache(ttl time.Duration) *MemoryScoreCache {
	return &MemoryScoreCache{
		entries:    make(map[string]entry),
		now:        time.Now,
		ttl:        ttl,
		maxEntries: DefaultMaxEntries,
	}
}

// WithMaxEntries sets the size cap. Values below 1 are treated as 1.
func (m *MemoryScoreCache) WithMaxEntries(n int) *MemoryScoreCache {
	if n < 1 {
		n = 1
	}
	m.maxEntries = n
	return m
}

// WithClock replaces the time source. Intended for tests.
func (m *MemoryScoreCache) WithClock(now func() time.Time) *MemoryScoreCache {
	m.now = now
	return m
}

// Get returns a live entry.
func (m *MemoryScoreCache) Get(_ context.Context, key string) (float64, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return 0, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur.expires.Equal(e.expires) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return 0, false
	}
	return e.probability, true
}

// Set stores a probability. When the cache is full an arbitrary entry is
// evicted to make room.
func (m *MemoryScoreCache) Set(_ context.Context, key string, probability float64) error {
	now := m.now()
	e := entry{probability: probability}
	if m.ttl > 0 {
		e.expires = now.Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ttl > 0 && !now.Before(m.nextSweep) {
		m.sweep(now)
		m.nextSweep = now.Add(m.ttl)
	}
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.sweep(now)
		for k := range m.entries {
			if len(m.entries) < m.maxEntries {
				break
			}
			delete(m.entries, k)
		}
	}
	m.entries[key] = e
	return nil
}

// sweep drops expired entries. Callers hold mu.
func (m *MemoryScoreCache) sweep(now time.Time) {
	for k, e := range m.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(m.entries, k)
		}
	}
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryScoreCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

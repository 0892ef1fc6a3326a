package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/spigell/sourcer/internal/candidate"
)

type memoryEntry struct {
	results []candidate.Raw
	written time.Time
}

// Memory is an in-process ProfileCache. Entries do not survive a restart.
type Memory struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemory creates a Memory cache. A non-positive ttl means DefaultTTL and
// maxEntries <= 0 disables the size cap.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Memory{
		entries:    make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, query string) ([]candidate.Raw, bool, error) {
	key := NormalizeQuery(query)

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}

	if m.now().Sub(entry.written) >= m.ttl {
		delete(m.entries, key)
		return nil, false, nil
	}

	return slices.Clone(entry.results), true, nil
}

func (m *Memory) Put(_ context.Context, query string, results []candidate.Raw) error {
	key := NormalizeQuery(query)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{results: slices.Clone(results), written: m.now()}

	if m.maxEntries > 0 && len(m.entries) > m.maxEntries {
		m.evictOldest()
	}

	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) evictOldest() {
	var (
		oldestKey string
		oldest    time.Time
	)

	for key, entry := range m.entries {
		if oldestKey == "" || entry.written.Before(oldest) {
			oldestKey, oldest = key, entry.written
		}
	}

	delete(m.entries, oldestKey)
}

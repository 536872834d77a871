package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a bounded in-process cache. When full, the oldest entry is dropped.
type Memory struct {
	mu      sync.Mutex
	max     int
	maxAge  time.Duration
	entries map[Key]Entry
	order   []Key
	now     func() time.Time
}

// NewMemory returns a cache holding at most max entries. maxAge of zero keeps
// entries until they are pushed out.
func NewMemory(max int, maxAge time.Duration) *Memory {
	if max <= 0 {
		max = 1
	}
	return &Memory{
		max:     max,
		maxAge:  maxAge,
		entries: make(map[Key]Entry, max),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, k Key) (Entry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[k]
	if !ok {
		return Entry{}, false, nil
	}
	if m.maxAge > 0 && m.now().Sub(e.CreatedAt) > m.maxAge {
		return Entry{}, false, nil
	}
	return e, true, nil
}

func (m *Memory) Put(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now()
	}
	if _, exists := m.entries[e.Key]; !exists {
		for len(m.order) >= m.max {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.entries, oldest)
		}
		m.order = append(m.order, e.Key)
	}
	m.entries[e.Key] = e
	return nil
}

// Len reports the number of cached captions.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) Close() error { return nil }

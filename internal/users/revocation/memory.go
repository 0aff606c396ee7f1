package revocation

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local Denylist. Revocations do not survive a restart
// or reach other replicas; use Redis for that.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]time.Time), now: time.Now}
}

func (m *Memory) Revoke(_ context.Context, jti string, until time.Time) error {
	if !until.After(m.now()) {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.entries[jti]; !ok || until.After(cur) {
		m.entries[jti] = until
	}
	return nil
}

func (m *Memory) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	until, ok := m.entries[jti]
	return ok && m.now().Before(until), nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// Purge drops expired entries and returns how many were removed.
func (m *Memory) Purge() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for jti, until := range m.entries {
		if !now.Before(until) {
			delete(m.entries, jti)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

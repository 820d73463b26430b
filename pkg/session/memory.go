package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryBackend keeps entries in process memory. Used in dev and tests.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]map[string]memoryEntry
	clock   func() time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]map[string]memoryEntry),
		clock:   time.Now,
	}
}

func (m *MemoryBackend) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[sessionID][key]
	if !ok || m.expired(entry, m.clock()) {
		return nil, ErrNotFound
	}
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (m *MemoryBackend) Set(_ context.Context, sessionID, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.entries[sessionID]
	if !ok {
		bucket = make(map[string]memoryEntry)
		m.entries[sessionID] = bucket
	}
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expires = m.clock().Add(ttl)
	}
	bucket[key] = entry
	return nil
}

func (m *MemoryBackend) Del(_ context.Context, sessionID string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.entries[sessionID]
	if !ok {
		return nil
	}
	for _, key := range keys {
		delete(bucket, key)
	}
	if len(bucket) == 0 {
		delete(m.entries, sessionID)
	}
	return nil
}

func (m *MemoryBackend) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var purged int64
	for sessionID, bucket := range m.entries {
		for key, entry := range bucket {
			if m.expired(entry, now) {
				delete(bucket, key)
				purged++
			}
		}
		if len(bucket) == 0 {
			delete(m.entries, sessionID)
		}
	}
	return purged, nil
}

func (m *MemoryBackend) expired(entry memoryEntry, now time.Time) bool {
	return !entry.expires.IsZero() && !now.Before(entry.expires)
}

package driver

import (
	"errors"
	"sync"
	"time"
)

// ErrKeyNotFound missing key in the memory store
var ErrKeyNotFound = errors.New("key not found")

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore KeyValueDB implementation backed by a plain map,
// meant for tests and single-node development setups
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

var _ KeyValueDB = &MemoryStore{}

// NewMemoryStore create an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// SetEX implement KeyValueDB, zero expiration keeps the key forever
func (ms *MemoryStore) SetEX(key string, value string, expiration time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry := memoryEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}
	ms.entries[key] = entry
	return nil
}

// Get implement KeyValueDB
func (ms *MemoryStore) Get(key string) (string, error) {
	ms.mu.RLock()
	entry, ok := ms.entries[key]
	ms.mu.RUnlock()

	if !ok || entry.expired() {
		return "", ErrKeyNotFound
	}
	return entry.value, nil
}

// Exists implement KeyValueDB
func (ms *MemoryStore) Exists(key string) (bool, error) {
	ms.mu.RLock()
	entry, ok := ms.entries[key]
	ms.mu.RUnlock()

	return ok && !entry.expired(), nil
}

// Ping implement KeyValueDB
func (ms *MemoryStore) Ping() error {
	return nil
}

func (e memoryEntry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

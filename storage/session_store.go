package storage

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrQuotaExceeded is returned when a write would grow a session store past
// its quota.
var ErrQuotaExceeded = errors.New("session storage quota exceeded")

// SessionStore is a tab scoped string key/value store. It outlives page
// loads within a tab but not the tab itself.
type SessionStore interface {
	// GetItem returns the value stored under key and whether it exists.
	GetItem(key string) (string, bool, error)
	// SetItem stores value under key, replacing any previous value.
	SetItem(key, value string) error
}

// ClearableSessionStore is a session store whose scope can be ended.
type ClearableSessionStore interface {
	SessionStore
	// Clear removes every item.
	Clear() error
}

// MemorySessionStore keeps session storage in memory.
type MemorySessionStore struct {
	mu    sync.RWMutex
	items map[string]string
	quota int
}

// NewMemorySessionStore returns an empty store. A positive quota limits the
// total bytes of keys and values the store accepts.
func NewMemorySessionStore(quota int) *MemorySessionStore {
	return &MemorySessionStore{
		items: make(map[string]string),
		quota: quota,
	}
}

// GetItem implements SessionStore.
func (m *MemorySessionStore) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem implements SessionStore.
func (m *MemorySessionStore) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		size := len(key) + len(value)
		for k, v := range m.items {
			if k == key {
				continue
			}
			size += len(k) + len(v)
		}
		if size > m.quota {
			return errors.Wrapf(ErrQuotaExceeded, "setting %q", key)
		}
	}
	m.items[key] = value

	return nil
}

// Items returns a copy of the stored items.
func (m *MemorySessionStore) Items() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make(map[string]string, len(m.items))
	for k, v := range m.items {
		items[k] = v
	}
	return items
}

// Clear removes every item, as closing the tab would.
func (m *MemorySessionStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]string)
	return nil
}

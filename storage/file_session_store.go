package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// FileSessionStore is a session store snapshotted to a JSON file, so that
// separate processes can share one tab session.
type FileSessionStore struct {
	mu        sync.Mutex
	path      string
	persister FilePersister
	items     map[string]string
}

// OpenFileSessionStore loads the snapshot at path. A missing file is an
// empty session.
func OpenFileSessionStore(path string, persister FilePersister) (*FileSessionStore, error) {
	if persister == nil {
		persister = &LocalFilePersister{}
	}
	s := &FileSessionStore{
		path:      filepath.Clean(path),
		persister: persister,
		items:     make(map[string]string),
	}

	bb, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, errors.Wrapf(err, "reading session snapshot %q", s.path)
	}
	if len(bytes.TrimSpace(bb)) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(bb, &s.items); err != nil {
		return nil, errors.Wrapf(err, "decoding session snapshot %q", s.path)
	}
	if s.items == nil {
		s.items = make(map[string]string)
	}

	return s, nil
}

// Path returns the snapshot location.
func (s *FileSessionStore) Path() string {
	return s.path
}

// GetItem implements SessionStore.
func (s *FileSessionStore) GetItem(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[key]
	return v, ok, nil
}

// SetItem implements SessionStore. The snapshot is rewritten on every call
// and the in-memory value is only updated when that succeeds.
func (s *FileSessionStore) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]string, len(s.items)+1)
	for k, v := range s.items {
		next[k] = v
	}
	next[key] = value

	if err := s.persist(next); err != nil {
		return errors.Wrapf(err, "setting %q", key)
	}
	s.items = next

	return nil
}

// Clear forgets the session and removes the snapshot.
func (s *FileSessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "removing session snapshot %q", s.path)
	}
	s.items = make(map[string]string)

	return nil
}

func (s *FileSessionStore) persist(items map[string]string) error {
	bb, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "encoding session snapshot")
	}
	return s.persister.Persist(context.Background(), s.path, bytes.NewReader(bb))
}

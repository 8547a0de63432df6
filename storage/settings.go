package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Settings are the long lived link generator preferences.
type Settings struct {
	BaseURL string `toml:"base_url"`
}

// SettingsFile stores Settings as TOML on disk.
type SettingsFile struct {
	path      string
	persister FilePersister
}

// NewSettingsFile returns a settings file at path.
func NewSettingsFile(path string, persister FilePersister) *SettingsFile {
	if persister == nil {
		persister = &LocalFilePersister{}
	}
	return &SettingsFile{
		path:      filepath.Clean(path),
		persister: persister,
	}
}

// Load reads the settings. A missing file yields zero settings.
func (f *SettingsFile) Load() (Settings, error) {
	var s Settings

	bb, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, errors.Wrapf(err, "reading settings %q", f.path)
	}
	if err := toml.Unmarshal(bb, &s); err != nil {
		return s, errors.Wrapf(err, "decoding settings %q", f.path)
	}

	return s, nil
}

// Save writes s, replacing the previous settings.
func (f *SettingsFile) Save(ctx context.Context, s Settings) error {
	bb, err := toml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding settings")
	}
	if err := f.persister.Persist(ctx, f.path, bytes.NewReader(bb)); err != nil {
		return errors.Wrapf(err, "saving settings %q", f.path)
	}
	return nil
}

// Clear removes the settings file.
func (f *SettingsFile) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "removing settings %q", f.path)
	}
	return nil
}

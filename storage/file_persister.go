package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FilePersister will persist files. It abstracts away the where and how of
// writing files to the source destination.
type FilePersister interface {
	Persist(ctx context.Context, path string, data io.Reader) error
}

// LocalFilePersister will persist files to the local disk.
type LocalFilePersister struct{}

// Persist writes data to path on the local disk. The file is written to a
// temporary sibling first and renamed into place, so readers never see a
// partial snapshot.
func (l *LocalFilePersister) Persist(_ context.Context, path string, data io.Reader) (err error) {
	cp := filepath.Clean(path)

	dir := filepath.Dir(cp)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating a local directory %q", dir)
	}

	f, err := os.CreateTemp(dir, filepath.Base(cp)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "creating a temporary file in %q", dir)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = io.Copy(f, data); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "writing %q", tmp)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "closing the local file %q", tmp)
	}
	if err = os.Chmod(tmp, 0o600); err != nil {
		return errors.Wrapf(err, "setting permissions of %q", tmp)
	}
	if err = os.Rename(tmp, cp); err != nil {
		return errors.Wrapf(err, "renaming %q to %q", tmp, cp)
	}

	return nil
}
